package notify

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/constants"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/utils"
)

// Contact is how a channel reaches an agent. Identity and user
// accounts live in the host application; the core only gets this
// lookup.
type Contact struct {
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type ContactResolver interface {
	Resolve(agentID uuid.UUID) Contact
}

// StaticDirectory is a fixed agent directory, typically parsed from
// configuration. Unknown agents resolve to an empty contact, which
// leaves only the log channel applicable.
type StaticDirectory map[uuid.UUID]Contact

func (d StaticDirectory) Resolve(agentID uuid.UUID) Contact {
	return d[agentID]
}

/*
Service owns the notification outbox. Business services enqueue rows
inline; the scheduler drains them on its own goroutine. Those two
paths both rewrite the notifications collection, so the service
serializes every outbox write behind one mutex. Entity collections
elsewhere keep the single-writer model and need no such guard.
*/
type Service struct {
	mu          sync.Mutex
	repo        Repository
	contacts    ContactResolver
	channels    []Channel
	maxAttempts int
}

func NewService(repo Repository, contacts ContactResolver, channels ...Channel) *Service {
	if len(channels) == 0 {
		channels = []Channel{LogChannel{}}
	}
	return &Service{
		repo:        repo,
		contacts:    contacts,
		channels:    channels,
		maxAttempts: constants.MaxNotificationAttempts,
	}
}

// Enqueue records a row for later delivery. With an idempotency key,
// re-enqueueing is a no-op. Callers treat errors as log-and-continue;
// a notification never fails a business operation.
func (s *Service) Enqueue(ctx context.Context, n *Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.contacts != nil && n.RecipientEmail == "" && n.RecipientPhone == "" {
		contact := s.contacts.Resolve(n.RecipientAgentID)
		n.RecipientEmail = contact.Email
		n.RecipientPhone = contact.Phone
	}

	_, created, err := s.repo.Append(ctx, n)
	if err != nil {
		return err
	}
	if !created {
		utils.Logger.Debugf("notification with key %q already enqueued, skipping", n.IdempotencyKey)
	}
	return nil
}

// Drain pushes every pending row through every channel that applies.
// Delivery is at-least-once: a row that fails any applying channel
// stays pending and is retried next pass, until attempts run out and
// it is parked as FAILED.
func (s *Service) Drain(ctx context.Context) (delivered int, failed int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending, err := s.repo.ListPending(ctx)
	if err != nil {
		return 0, 0, err
	}

	for i := range pending {
		row := pending[i]
		sendErr := s.deliver(ctx, &row)
		now := time.Now().UTC()

		_, updErr := s.repo.Update(ctx, row.ID, func(n *Notification) error {
			n.Attempts++
			if sendErr == nil {
				n.Status = StatusSent
				n.SentAt = &now
				n.LastError = ""
				return nil
			}
			n.LastError = sendErr.Error()
			if n.Attempts >= s.maxAttempts {
				n.Status = StatusFailed
			}
			return nil
		})
		if updErr != nil {
			utils.Logger.WithError(updErr).Errorf("failed to update notification %s after delivery attempt", row.ID)
			continue
		}

		if sendErr == nil {
			delivered++
		} else {
			utils.Logger.WithError(sendErr).Warnf("delivery attempt %d for notification %s", row.Attempts+1, row.ID)
			failed++
		}
	}
	return delivered, failed, nil
}

func (s *Service) deliver(ctx context.Context, n *Notification) error {
	var errs []string
	for _, ch := range s.channels {
		if !ch.Applies(n) {
			continue
		}
		if err := ch.Send(ctx, n); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", ch.Name(), err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("channels failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// ListForAgent returns an agent's notification history, newest rows
// last (append order).
func (s *Service) ListForAgent(ctx context.Context, agentID uuid.UUID) ([]Notification, error) {
	return s.repo.ListByAgent(ctx, agentID)
}
