package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/twilio/twilio-go"

	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/kvstore"
)

type failingChannel struct {
	calls int
}

func (c *failingChannel) Name() string               { return "failing" }
func (c *failingChannel) Applies(*Notification) bool { return true }
func (c *failingChannel) Send(context.Context, *Notification) error {
	c.calls++
	return errors.New("provider down")
}

func newTestService(channels ...Channel) *Service {
	repo := NewRepository(kvstore.NewMemoryStore())
	return NewService(repo, StaticDirectory{}, channels...)
}

func TestEnqueueDedupesOnIdempotencyKey(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	agent := uuid.New()

	first := &Notification{
		Type:             TypeDealCreated,
		RecipientAgentID: agent,
		Title:            "Deal created",
		Body:             "DL-01ARZ is live",
		IdempotencyKey:   "deal-created:DL-01ARZ:" + agent.String(),
	}
	require.NoError(t, svc.Enqueue(ctx, first))
	require.NoError(t, svc.Enqueue(ctx, &Notification{
		Type:             TypeDealCreated,
		RecipientAgentID: agent,
		Title:            "Deal created (duplicate)",
		IdempotencyKey:   first.IdempotencyKey,
	}))

	rows, err := svc.ListForAgent(ctx, agent)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Deal created", rows[0].Title)
	require.Equal(t, StatusPending, rows[0].Status)
	require.Equal(t, PriorityNormal, rows[0].Priority)
	require.NotEqual(t, uuid.Nil, rows[0].ID)
	require.False(t, rows[0].CreatedAt.IsZero())
}

func TestEnqueueResolvesContacts(t *testing.T) {
	known := uuid.New()
	unknown := uuid.New()
	repo := NewRepository(kvstore.NewMemoryStore())
	svc := NewService(repo, StaticDirectory{
		known: {Email: "agent@aaraazi.pk", Phone: "+923001234567"},
	})
	ctx := context.Background()

	require.NoError(t, svc.Enqueue(ctx, &Notification{
		Type:             TypeMatchFound,
		RecipientAgentID: known,
		Title:            "New match",
	}))
	rows, err := svc.ListForAgent(ctx, known)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "agent@aaraazi.pk", rows[0].RecipientEmail)
	require.Equal(t, "+923001234567", rows[0].RecipientPhone)

	// an explicitly addressed row is not overwritten by the directory
	require.NoError(t, svc.Enqueue(ctx, &Notification{
		Type:             TypeMatchFound,
		RecipientAgentID: known,
		RecipientEmail:   "override@aaraazi.pk",
		Title:            "Addressed by caller",
	}))
	rows, err = svc.ListForAgent(ctx, known)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "override@aaraazi.pk", rows[1].RecipientEmail)
	require.Empty(t, rows[1].RecipientPhone)

	require.NoError(t, svc.Enqueue(ctx, &Notification{
		Type:             TypeMatchFound,
		RecipientAgentID: unknown,
		Title:            "Nobody home",
	}))
	rows, err = svc.ListForAgent(ctx, unknown)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Empty(t, rows[0].RecipientEmail)
	require.Empty(t, rows[0].RecipientPhone)
}

func TestDrainDeliversPendingRows(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	agent := uuid.New()

	for _, title := range []string{"first", "second"} {
		require.NoError(t, svc.Enqueue(ctx, &Notification{
			Type:             TypeOfferReceived,
			RecipientAgentID: agent,
			Title:            title,
		}))
	}

	delivered, failed, err := svc.Drain(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, delivered)
	require.Equal(t, 0, failed)

	rows, err := svc.ListForAgent(ctx, agent)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		require.Equal(t, StatusSent, row.Status)
		require.Equal(t, 1, row.Attempts)
		require.NotNil(t, row.SentAt)
		require.Empty(t, row.LastError)
	}

	delivered, failed, err = svc.Drain(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, delivered)
	require.Equal(t, 0, failed)
}

func TestDrainRetriesUntilAttemptsRunOut(t *testing.T) {
	ch := &failingChannel{}
	svc := newTestService(ch)
	ctx := context.Background()
	agent := uuid.New()

	require.NoError(t, svc.Enqueue(ctx, &Notification{
		Type:             TypeOfferAccepted,
		RecipientAgentID: agent,
		Title:            "will never arrive",
	}))

	for attempt := 1; attempt < svc.maxAttempts; attempt++ {
		delivered, failed, err := svc.Drain(ctx)
		require.NoError(t, err)
		require.Equal(t, 0, delivered)
		require.Equal(t, 1, failed)

		rows, err := svc.ListForAgent(ctx, agent)
		require.NoError(t, err)
		require.Equal(t, StatusPending, rows[0].Status, "attempt %d should leave the row retryable", attempt)
		require.Equal(t, attempt, rows[0].Attempts)
		require.Contains(t, rows[0].LastError, "provider down")
	}

	// the final attempt parks the row
	_, failed, err := svc.Drain(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, failed)

	rows, err := svc.ListForAgent(ctx, agent)
	require.NoError(t, err)
	require.Equal(t, StatusFailed, rows[0].Status)
	require.Equal(t, svc.maxAttempts, rows[0].Attempts)
	require.Nil(t, rows[0].SentAt)

	// parked rows are no longer drained
	delivered, failed, err := svc.Drain(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, delivered)
	require.Equal(t, 0, failed)
	require.Equal(t, svc.maxAttempts, ch.calls)
}

func TestChannelApplies(t *testing.T) {
	emailRow := &Notification{RecipientEmail: "agent@aaraazi.pk", Priority: PriorityNormal}
	phoneRow := &Notification{RecipientPhone: "+923001234567", Priority: PriorityHigh}

	require.True(t, LogChannel{}.Applies(&Notification{}))

	require.False(t, EmailChannel{}.Applies(emailRow), "no client, no email delivery")

	sms := SMSChannel{Client: twilio.NewRestClient(), FromPhone: "+920000000000"}
	require.True(t, sms.Applies(phoneRow))
	require.False(t, sms.Applies(&Notification{RecipientPhone: "+923001234567", Priority: PriorityNormal}),
		"sms is high priority only")
	require.False(t, sms.Applies(&Notification{Priority: PriorityHigh}), "no phone on file")
	require.False(t, SMSChannel{}.Applies(phoneRow), "no client configured")
}
