package dtos

import (
	"github.com/google/uuid"

	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/models"
)

type SubmitOfferRequest struct {
	BuyerName             string     `json:"buyer_name" validate:"required"`
	BuyerContact          string     `json:"buyer_contact"`
	OfferAmount           float64    `json:"offer_amount" validate:"required,gt=0"`
	TokenAmount           float64    `json:"token_amount" validate:"gte=0"`
	BuyerRequirementID    *uuid.UUID `json:"buyer_requirement_id,omitempty"`
	LinkedPurchaseCycleID *uuid.UUID `json:"linked_purchase_cycle_id,omitempty"`
	MatchID               *uuid.UUID `json:"match_id,omitempty"`
}

type CounterOfferRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

type RejectOfferRequest struct {
	Reason string `json:"reason"`
}

type WithdrawOfferRequest struct {
	Reason string `json:"reason"`
}

type OpenPurchaseCycleRequest struct {
	RequirementID uuid.UUID `json:"requirement_id" validate:"required"`
	PropertyID    uuid.UUID `json:"property_id" validate:"required"`
}

// AcceptOfferResponse returns every record the acceptance touched so
// the client can refresh its view in one round trip.
type AcceptOfferResponse struct {
	Cycle         *models.SellCycle     `json:"cycle"`
	Offer         *models.Offer         `json:"offer"`
	PurchaseCycle *models.PurchaseCycle `json:"purchase_cycle,omitempty"`
	Deal          *models.Deal          `json:"deal"`
}
