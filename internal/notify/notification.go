package notify

import (
	"time"

	"github.com/google/uuid"

	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/models"
)

type Status string

const (
	StatusPending Status = "PENDING"
	StatusSent    Status = "SENT"
	StatusFailed  Status = "FAILED"
)

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityNormal Priority = "NORMAL"
	PriorityHigh   Priority = "HIGH"
)

type Type string

const (
	TypeMatchFound     Type = "MATCH_FOUND"
	TypeOfferReceived  Type = "OFFER_RECEIVED"
	TypeOfferAccepted  Type = "OFFER_ACCEPTED"
	TypeOfferRejected  Type = "OFFER_REJECTED"
	TypeOfferCountered Type = "OFFER_COUNTERED"
	TypeOfferWithdrawn Type = "OFFER_WITHDRAWN"
	TypeDealCreated    Type = "DEAL_CREATED"
	TypeStageCompleted Type = "STAGE_COMPLETED"
)

// Notification is one outbox row. Rows are enqueued inside business
// operations and delivered later by the dispatcher, so a slow or down
// email provider never fails an acceptance. IdempotencyKey dedupes
// enqueues: one key, one row, ever.
type Notification struct {
	ID   uuid.UUID `json:"id"`
	Type Type      `json:"type"`

	RecipientAgentID uuid.UUID `json:"recipient_agent_id"`
	RecipientEmail   string    `json:"recipient_email,omitempty"`
	RecipientPhone   string    `json:"recipient_phone,omitempty"`

	Title    string   `json:"title"`
	Body     string   `json:"body"`
	Priority Priority `json:"priority"`

	RelatedEntityType models.EntityType `json:"related_entity_type,omitempty"`
	RelatedEntityID   uuid.UUID         `json:"related_entity_id,omitempty"`

	IdempotencyKey string `json:"idempotency_key,omitempty"`

	Status    Status     `json:"status"`
	Attempts  int        `json:"attempts"`
	LastError string     `json:"last_error,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	SentAt    *time.Time `json:"sent_at,omitempty"`
}
