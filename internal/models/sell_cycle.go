package models

import (
	"time"

	"github.com/google/uuid"
)

type SellCycleStatus string

const (
	SellCycleStatusListed        SellCycleStatus = "LISTED"
	SellCycleStatusOfferReceived SellCycleStatus = "OFFER_RECEIVED"
	SellCycleStatusNegotiation   SellCycleStatus = "NEGOTIATION"
	SellCycleStatusUnderContract SellCycleStatus = "UNDER_CONTRACT"
	SellCycleStatusSold          SellCycleStatus = "SOLD"
	SellCycleStatusCancelled     SellCycleStatus = "CANCELLED"
)

// OpenSellCycleStatuses are the statuses in which a shared cycle is
// still visible to the matching engine and can receive offers.
var OpenSellCycleStatuses = []SellCycleStatus{
	SellCycleStatusListed,
	SellCycleStatusOfferReceived,
	SellCycleStatusNegotiation,
}

type ShareLevel string

const (
	ShareLevelPrivate      ShareLevel = "PRIVATE"
	ShareLevelOrganization ShareLevel = "ORGANIZATION"
)

type Sharing struct {
	IsShared   bool       `json:"is_shared"`
	ShareLevel ShareLevel `json:"share_level"`
	SharedAt   *time.Time `json:"shared_at,omitempty"`
}

type SellCycle struct {
	ID         uuid.UUID `json:"id"`
	PropertyID uuid.UUID `json:"property_id"`
	AgentID    uuid.UUID `json:"agent_id"`

	AskingPrice float64         `json:"asking_price"`
	Status      SellCycleStatus `json:"status"`
	Sharing     Sharing         `json:"sharing"`
	Offers      []Offer         `json:"offers,omitempty"`

	AcceptedOfferID        *uuid.UUID `json:"accepted_offer_id,omitempty"`
	WinningPurchaseCycleID *uuid.UUID `json:"winning_purchase_cycle_id,omitempty"`
	LinkedDealID           *uuid.UUID `json:"linked_deal_id,omitempty"`

	ListedAt  time.Time `json:"listed_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsOpen reports whether the cycle can still take offers.
func (sc *SellCycle) IsOpen() bool {
	for _, s := range OpenSellCycleStatuses {
		if sc.Status == s {
			return true
		}
	}
	return false
}

// FindOffer returns a pointer into the Offers slice, or nil.
func (sc *SellCycle) FindOffer(offerID uuid.UUID) *Offer {
	for i := range sc.Offers {
		if sc.Offers[i].ID == offerID {
			return &sc.Offers[i]
		}
	}
	return nil
}
