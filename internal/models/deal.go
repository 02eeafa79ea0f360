package models

import (
	"time"

	"github.com/google/uuid"
)

type DealStatus string

const (
	DealStatusActive    DealStatus = "ACTIVE"
	DealStatusCompleted DealStatus = "COMPLETED"
	DealStatusCancelled DealStatus = "CANCELLED"
)

type DealStageName string

const (
	DealStageToken      DealStageName = "TOKEN"
	DealStageAgreement  DealStageName = "AGREEMENT"
	DealStageTransfer   DealStageName = "TRANSFER"
	DealStagePossession DealStageName = "POSSESSION"
)

// DealStage is one step of the closing checklist. Target dates are
// business days out from acceptance, skipping weekends and national
// holidays.
type DealStage struct {
	Name        DealStageName `json:"name"`
	TargetDate  time.Time     `json:"target_date"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
	CompletedBy *uuid.UUID    `json:"completed_by,omitempty"`
}

type DealCycles struct {
	SellCycleID     uuid.UUID  `json:"sell_cycle_id"`
	PurchaseCycleID *uuid.UUID `json:"purchase_cycle_id,omitempty"`
}

type DealFinancials struct {
	AgreedPrice float64 `json:"agreed_price"`
	TokenAmount float64 `json:"token_amount,omitempty"`
}

type DealAgents struct {
	PrimaryAgentID   uuid.UUID  `json:"primary_agent_id"`
	SecondaryAgentID *uuid.UUID `json:"secondary_agent_id,omitempty"`
}

// Deal is the one record that binds both sides of an accepted offer.
// DealNumber is assigned once at creation and never changes.
type Deal struct {
	ID         uuid.UUID `json:"id"`
	DealNumber string    `json:"deal_number"`

	PropertyID         uuid.UUID  `json:"property_id"`
	BuyerRequirementID *uuid.UUID `json:"buyer_requirement_id,omitempty"`
	AcceptedOfferID    uuid.UUID  `json:"accepted_offer_id"`

	Cycles     DealCycles     `json:"cycles"`
	Financials DealFinancials `json:"financials"`
	Agents     DealAgents     `json:"agents"`

	Status DealStatus  `json:"status"`
	Stages []DealStage `json:"stages,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FindStage returns a pointer into the Stages slice, or nil.
func (d *Deal) FindStage(name DealStageName) *DealStage {
	for i := range d.Stages {
		if d.Stages[i].Name == name {
			return &d.Stages[i]
		}
	}
	return nil
}

// AllStagesComplete reports whether every stage has a completion time.
func (d *Deal) AllStagesComplete() bool {
	if len(d.Stages) == 0 {
		return false
	}
	for _, s := range d.Stages {
		if s.CompletedAt == nil {
			return false
		}
	}
	return true
}
