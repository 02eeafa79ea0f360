package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/kvstore"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/models"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/utils"
)

func TestSellCycleCreateDefaults(t *testing.T) {
	repo := NewSellCycleRepository(kvstore.NewMemoryStore())

	created, err := repo.Create(context.Background(), &models.SellCycle{
		PropertyID:  uuid.New(),
		AgentID:     uuid.New(),
		AskingPrice: 45000000,
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)
	require.Equal(t, models.SellCycleStatusListed, created.Status)
	require.False(t, created.ListedAt.IsZero())
	require.False(t, created.CreatedAt.IsZero())
}

func TestListSharedOpen(t *testing.T) {
	repo := NewSellCycleRepository(kvstore.NewMemoryStore())
	ctx := context.Background()

	shared, err := repo.Create(ctx, &models.SellCycle{
		PropertyID:  uuid.New(),
		AgentID:     uuid.New(),
		AskingPrice: 45000000,
		Sharing:     models.Sharing{IsShared: true, ShareLevel: models.ShareLevelOrganization},
	})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &models.SellCycle{
		PropertyID:  uuid.New(),
		AgentID:     uuid.New(),
		AskingPrice: 30000000,
	})
	require.NoError(t, err)

	closed, err := repo.Create(ctx, &models.SellCycle{
		PropertyID:  uuid.New(),
		AgentID:     uuid.New(),
		AskingPrice: 60000000,
		Sharing:     models.Sharing{IsShared: true, ShareLevel: models.ShareLevelOrganization},
	})
	require.NoError(t, err)
	_, err = repo.Update(ctx, closed.ID, func(c *models.SellCycle) error {
		c.Status = models.SellCycleStatusCancelled
		return nil
	})
	require.NoError(t, err)

	open, err := repo.ListSharedOpen(ctx)
	require.NoError(t, err)
	require.Len(t, open, 1)
	require.Equal(t, shared.ID, open[0].ID)
}

func TestSellCycleReplace(t *testing.T) {
	repo := NewSellCycleRepository(kvstore.NewMemoryStore())
	ctx := context.Background()

	cycle, err := repo.Create(ctx, &models.SellCycle{
		PropertyID:  uuid.New(),
		AgentID:     uuid.New(),
		AskingPrice: 45000000,
	})
	require.NoError(t, err)
	snapshot := *cycle

	_, err = repo.Update(ctx, cycle.ID, func(c *models.SellCycle) error {
		c.Status = models.SellCycleStatusUnderContract
		c.AcceptedOfferID = utils.Ptr(uuid.New())
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, repo.Replace(ctx, &snapshot))

	restored, err := repo.GetByID(ctx, cycle.ID)
	require.NoError(t, err)
	require.Equal(t, models.SellCycleStatusListed, restored.Status)
	require.Nil(t, restored.AcceptedOfferID)

	require.ErrorIs(t, repo.Replace(ctx, &models.SellCycle{ID: uuid.New()}), utils.ErrCycleNotFound)
}

func TestSellCycleUpdateRefusalDoesNotPersist(t *testing.T) {
	repo := NewSellCycleRepository(kvstore.NewMemoryStore())
	ctx := context.Background()

	cycle, err := repo.Create(ctx, &models.SellCycle{
		PropertyID:  uuid.New(),
		AgentID:     uuid.New(),
		AskingPrice: 45000000,
	})
	require.NoError(t, err)

	_, err = repo.Update(ctx, cycle.ID, func(c *models.SellCycle) error {
		c.Status = models.SellCycleStatusSold
		return utils.ErrWrongStatus
	})
	require.ErrorIs(t, err, utils.ErrWrongStatus)

	reloaded, err := repo.GetByID(ctx, cycle.ID)
	require.NoError(t, err)
	require.Equal(t, models.SellCycleStatusListed, reloaded.Status)
}
