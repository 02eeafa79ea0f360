package models

import (
	"time"

	"github.com/google/uuid"
)

// TransactionGraph is the fully resolved view around one transaction:
// the deal plus every entity it touches. Whichever entity the caller
// enters from, the resolver converges on the same populated set.
type TransactionGraph struct {
	EntryType EntityType `json:"entry_type"`
	EntryID   uuid.UUID  `json:"entry_id"`

	Property      *Property         `json:"property,omitempty"`
	SellCycle     *SellCycle        `json:"sell_cycle,omitempty"`
	PurchaseCycle *PurchaseCycle    `json:"purchase_cycle,omitempty"`
	Requirement   *BuyerRequirement `json:"requirement,omitempty"`
	Deal          *Deal             `json:"deal,omitempty"`

	AcceptedOffer *Offer `json:"accepted_offer,omitempty"`
}

type TimelineEventType string

const (
	TimelineEventPropertyRegistered TimelineEventType = "PROPERTY_REGISTERED"
	TimelineEventRequirementOpened  TimelineEventType = "REQUIREMENT_OPENED"
	TimelineEventCycleListed        TimelineEventType = "CYCLE_LISTED"
	TimelineEventCycleShared        TimelineEventType = "CYCLE_SHARED"
	TimelineEventOfferSubmitted     TimelineEventType = "OFFER_SUBMITTED"
	TimelineEventOfferCountered     TimelineEventType = "OFFER_COUNTERED"
	TimelineEventOfferAccepted      TimelineEventType = "OFFER_ACCEPTED"
	TimelineEventOfferRejected      TimelineEventType = "OFFER_REJECTED"
	TimelineEventOfferWithdrawn     TimelineEventType = "OFFER_WITHDRAWN"
	TimelineEventPurchaseOpened     TimelineEventType = "PURCHASE_OPENED"
	TimelineEventPurchaseAccepted   TimelineEventType = "PURCHASE_ACCEPTED"
	TimelineEventDealCreated        TimelineEventType = "DEAL_CREATED"
	TimelineEventStageCompleted     TimelineEventType = "STAGE_COMPLETED"
)

// TimelineEvent is one dated entry in a transaction's unified history,
// merged across every entity in the graph and sorted oldest first.
type TimelineEvent struct {
	OccurredAt  time.Time         `json:"occurred_at"`
	Type        TimelineEventType `json:"type"`
	EntityType  EntityType        `json:"entity_type"`
	EntityID    uuid.UUID         `json:"entity_id"`
	Description string            `json:"description"`
}
