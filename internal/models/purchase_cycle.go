package models

import (
	"time"

	"github.com/google/uuid"
)

type PurchaseCycleStatus string

const (
	PurchaseCycleStatusActive         PurchaseCycleStatus = "ACTIVE"
	PurchaseCycleStatusOfferSubmitted PurchaseCycleStatus = "OFFER_SUBMITTED"
	PurchaseCycleStatusAccepted       PurchaseCycleStatus = "ACCEPTED"
	PurchaseCycleStatusCompleted      PurchaseCycleStatus = "COMPLETED"
	PurchaseCycleStatusCancelled      PurchaseCycleStatus = "CANCELLED"
)

type PurchaserType string

const (
	PurchaserTypeIndividual PurchaserType = "INDIVIDUAL"
	PurchaserTypeInvestor   PurchaserType = "INVESTOR"
	PurchaserTypeCompany    PurchaserType = "COMPANY"
)

// PurchaseCycle tracks the buyer side of a transaction against one
// property. At most one purchase cycle exists per (requirement,
// property) pair; acceptance reuses it instead of creating a sibling.
type PurchaseCycle struct {
	ID         uuid.UUID `json:"id"`
	PropertyID uuid.UUID `json:"property_id"`
	AgentID    uuid.UUID `json:"agent_id"`

	BuyerRequirementID *uuid.UUID `json:"buyer_requirement_id,omitempty"`
	SellCycleID        *uuid.UUID `json:"sell_cycle_id,omitempty"`

	PurchaserName string        `json:"purchaser_name"`
	PurchaserType PurchaserType `json:"purchaser_type"`

	Status          PurchaseCycleStatus `json:"status"`
	NegotiatedPrice *float64            `json:"negotiated_price,omitempty"`
	CreatedDealID   *uuid.UUID          `json:"created_deal_id,omitempty"`

	OfferedAt  *time.Time `json:"offered_at,omitempty"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
