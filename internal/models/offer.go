package models

import (
	"time"

	"github.com/google/uuid"
)

type OfferStatus string

const (
	OfferStatusPending   OfferStatus = "PENDING"
	OfferStatusAccepted  OfferStatus = "ACCEPTED"
	OfferStatusRejected  OfferStatus = "REJECTED"
	OfferStatusCountered OfferStatus = "COUNTERED"
	OfferStatusWithdrawn OfferStatus = "WITHDRAWN"
)

// OfferStatusChange is one entry in an offer's status history, appended
// on every transition including the initial submission.
type OfferStatusChange struct {
	Status    OfferStatus `json:"status"`
	ChangedAt time.Time   `json:"changed_at"`
	ChangedBy uuid.UUID   `json:"changed_by"`
	Note      string      `json:"note,omitempty"`
}

// Offer lives embedded in its SellCycle rather than in a collection of
// its own. Cross-agent offers carry the buyer agent's requirement and,
// when one already exists, the purchase cycle the buyer agent opened.
type Offer struct {
	ID uuid.UUID `json:"id"`

	BuyerName    string     `json:"buyer_name"`
	BuyerContact string     `json:"buyer_contact,omitempty"`
	BuyerID      *uuid.UUID `json:"buyer_id,omitempty"`

	OfferAmount        float64  `json:"offer_amount"`
	TokenAmount        float64  `json:"token_amount,omitempty"`
	CounterOfferAmount *float64 `json:"counter_offer_amount,omitempty"`

	Status OfferStatus `json:"status"`

	SubmittedByAgentID    uuid.UUID  `json:"submitted_by_agent_id"`
	BuyerAgentID          *uuid.UUID `json:"buyer_agent_id,omitempty"`
	BuyerRequirementID    *uuid.UUID `json:"buyer_requirement_id,omitempty"`
	LinkedPurchaseCycleID *uuid.UUID `json:"linked_purchase_cycle_id,omitempty"`
	MatchID               *uuid.UUID `json:"match_id,omitempty"`

	RejectionReason  string `json:"rejection_reason,omitempty"`
	WithdrawalReason string `json:"withdrawal_reason,omitempty"`

	SubmittedAt   time.Time           `json:"submitted_at"`
	DecidedAt     *time.Time          `json:"decided_at,omitempty"`
	StatusHistory []OfferStatusChange `json:"status_history,omitempty"`
}

// IsTerminal reports whether no further transitions are allowed.
// Countered offers stay live: the buyer side can still accept the
// counter, withdraw, or be rejected.
func (o *Offer) IsTerminal() bool {
	switch o.Status {
	case OfferStatusAccepted, OfferStatusRejected, OfferStatusWithdrawn:
		return true
	}
	return false
}

// AgreedAmount is the price a deal would close at: the counter amount
// once the seller has countered, the original amount otherwise.
func (o *Offer) AgreedAmount() float64 {
	if o.CounterOfferAmount != nil {
		return *o.CounterOfferAmount
	}
	return o.OfferAmount
}

// PushStatus records a transition in the offer's history.
func (o *Offer) PushStatus(status OfferStatus, by uuid.UUID, at time.Time, note string) {
	o.Status = status
	o.StatusHistory = append(o.StatusHistory, OfferStatusChange{
		Status:    status,
		ChangedAt: at,
		ChangedBy: by,
		Note:      note,
	})
}
