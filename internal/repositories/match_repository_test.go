package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/kvstore"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/models"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/utils"
)

func candidateMatch(cycleID, requirementID uuid.UUID, score int) models.PropertyMatch {
	return models.PropertyMatch{
		CycleID:            cycleID,
		CycleType:          models.CycleTypeSell,
		PropertyID:         uuid.New(),
		RequirementID:      requirementID,
		ListingAgentID:     uuid.New(),
		RequirementAgentID: uuid.New(),
		MatchScore:         score,
		MatchDetails:       models.MatchDetails{Score: score},
	}
}

func TestMergeInsertsNewPairs(t *testing.T) {
	repo := NewMatchRepository(kvstore.NewMemoryStore())
	ctx := context.Background()

	cand := candidateMatch(uuid.New(), uuid.New(), 85)
	merged, created, err := repo.Merge(ctx, []models.PropertyMatch{cand})
	require.NoError(t, err)
	require.Len(t, merged, 1)
	require.Len(t, created, 1)

	m := merged[0]
	require.NotEqual(t, uuid.Nil, m.ID)
	require.Equal(t, models.MatchStatusPending, m.Status)
	require.False(t, m.NotificationSent)
	require.False(t, m.MatchedAt.IsZero())
	require.Equal(t, 85, m.MatchScore)
}

func TestMergeRefreshesExistingPairs(t *testing.T) {
	repo := NewMatchRepository(kvstore.NewMemoryStore())
	ctx := context.Background()
	cycleID := uuid.New()
	reqID := uuid.New()

	merged, _, err := repo.Merge(ctx, []models.PropertyMatch{candidateMatch(cycleID, reqID, 80)})
	require.NoError(t, err)
	original := merged[0]

	// simulate the match having been acted on since
	_, err = repo.Update(ctx, original.ID, func(m *models.PropertyMatch) error {
		m.Status = models.MatchStatusOfferSubmitted
		m.NotificationSent = true
		return nil
	})
	require.NoError(t, err)

	// a rerun scores the same pair differently
	merged, created, err := repo.Merge(ctx, []models.PropertyMatch{candidateMatch(cycleID, reqID, 92)})
	require.NoError(t, err)
	require.Empty(t, created)
	require.Len(t, merged, 1)

	refreshed := merged[0]
	require.Equal(t, original.ID, refreshed.ID)
	require.Equal(t, 92, refreshed.MatchScore)
	require.Equal(t, 92, refreshed.MatchDetails.Score)

	// identity and lifecycle survive the refresh
	require.Equal(t, models.MatchStatusOfferSubmitted, refreshed.Status)
	require.True(t, refreshed.NotificationSent)
	require.True(t, original.MatchedAt.Equal(refreshed.MatchedAt))
}

func TestMergeLeavesUnrelatedRecordsAlone(t *testing.T) {
	repo := NewMatchRepository(kvstore.NewMemoryStore())
	ctx := context.Background()

	merged, _, err := repo.Merge(ctx, []models.PropertyMatch{candidateMatch(uuid.New(), uuid.New(), 75)})
	require.NoError(t, err)
	bystander := merged[0]

	_, created, err := repo.Merge(ctx, []models.PropertyMatch{candidateMatch(uuid.New(), uuid.New(), 88)})
	require.NoError(t, err)
	require.Len(t, created, 1)

	reloaded, err := repo.GetByID(ctx, bystander.ID)
	require.NoError(t, err)
	require.Equal(t, 75, reloaded.MatchScore)
	require.True(t, bystander.UpdatedAt.Equal(reloaded.UpdatedAt))

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestMatchListFilters(t *testing.T) {
	repo := NewMatchRepository(kvstore.NewMemoryStore())
	ctx := context.Background()
	cycleID := uuid.New()
	reqID := uuid.New()

	_, _, err := repo.Merge(ctx, []models.PropertyMatch{
		candidateMatch(cycleID, reqID, 90),
		candidateMatch(cycleID, uuid.New(), 80),
		candidateMatch(uuid.New(), reqID, 70),
	})
	require.NoError(t, err)

	byCycle, err := repo.ListByCycle(ctx, cycleID)
	require.NoError(t, err)
	require.Len(t, byCycle, 2)

	byReq, err := repo.ListByRequirement(ctx, reqID)
	require.NoError(t, err)
	require.Len(t, byReq, 2)
}

func TestMatchUpdateErrors(t *testing.T) {
	repo := NewMatchRepository(kvstore.NewMemoryStore())
	ctx := context.Background()

	_, err := repo.GetByID(ctx, uuid.New())
	require.ErrorIs(t, err, utils.ErrMatchNotFound)

	_, err = repo.Update(ctx, uuid.New(), func(*models.PropertyMatch) error { return nil })
	require.ErrorIs(t, err, utils.ErrMatchNotFound)

	merged, _, err := repo.Merge(ctx, []models.PropertyMatch{candidateMatch(uuid.New(), uuid.New(), 71)})
	require.NoError(t, err)

	boom := errors.New("mutate refused")
	_, err = repo.Update(ctx, merged[0].ID, func(*models.PropertyMatch) error { return boom })
	require.ErrorIs(t, err, boom)

	// a refused mutation must not persist anything
	reloaded, err := repo.GetByID(ctx, merged[0].ID)
	require.NoError(t, err)
	require.Equal(t, 71, reloaded.MatchScore)
}
