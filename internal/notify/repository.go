package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/constants"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/kvstore"
)

var ErrNotificationNotFound = errors.New("notification_not_found")

type Repository interface {
	// Append stores a new row. When the row carries an idempotency key
	// that already exists, Append is a no-op and returns the existing
	// row with created=false.
	Append(ctx context.Context, n *Notification) (stored *Notification, created bool, err error)

	ListPending(ctx context.Context) ([]Notification, error)
	ListByAgent(ctx context.Context, agentID uuid.UUID) ([]Notification, error)
	Update(ctx context.Context, id uuid.UUID, mutate func(*Notification) error) (*Notification, error)
}

type notificationRepo struct {
	store kvstore.CollectionStore
}

func NewRepository(store kvstore.CollectionStore) Repository {
	return &notificationRepo{store: store}
}

func (r *notificationRepo) load(ctx context.Context) ([]Notification, error) {
	raw, err := r.store.Load(ctx, constants.CollectionNotifications)
	if err != nil {
		return nil, fmt.Errorf("load notifications: %w", err)
	}
	if len(raw) == 0 {
		return []Notification{}, nil
	}
	var rows []Notification
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode notifications: %w", err)
	}
	return rows, nil
}

func (r *notificationRepo) save(ctx context.Context, rows []Notification) error {
	raw, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode notifications: %w", err)
	}
	if err := r.store.Save(ctx, constants.CollectionNotifications, raw); err != nil {
		return fmt.Errorf("save notifications: %w", err)
	}
	return nil
}

func (r *notificationRepo) Append(ctx context.Context, n *Notification) (*Notification, bool, error) {
	rows, err := r.load(ctx)
	if err != nil {
		return nil, false, err
	}

	if n.IdempotencyKey != "" {
		for i := range rows {
			if rows[i].IdempotencyKey == n.IdempotencyKey {
				return &rows[i], false, nil
			}
		}
	}

	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.Priority == "" {
		n.Priority = PriorityNormal
	}
	n.Status = StatusPending
	n.Attempts = 0
	n.CreatedAt = time.Now().UTC()

	rows = append(rows, *n)
	if err := r.save(ctx, rows); err != nil {
		return nil, false, err
	}
	return n, true, nil
}

func (r *notificationRepo) ListPending(ctx context.Context) ([]Notification, error) {
	rows, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Notification, 0)
	for _, row := range rows {
		if row.Status == StatusPending {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *notificationRepo) ListByAgent(ctx context.Context, agentID uuid.UUID) ([]Notification, error) {
	rows, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Notification, 0)
	for _, row := range rows {
		if row.RecipientAgentID == agentID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *notificationRepo) Update(ctx context.Context, id uuid.UUID, mutate func(*Notification) error) (*Notification, error) {
	rows, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].ID != id {
			continue
		}
		if err := mutate(&rows[i]); err != nil {
			return nil, err
		}
		if err := r.save(ctx, rows); err != nil {
			return nil, err
		}
		return &rows[i], nil
	}
	return nil, ErrNotificationNotFound
}
