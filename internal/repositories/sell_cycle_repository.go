package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/constants"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/kvstore"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/models"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/utils"
)

type SellCycleRepository interface {
	Create(ctx context.Context, cycle *models.SellCycle) (*models.SellCycle, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.SellCycle, error)
	ListAll(ctx context.Context) ([]models.SellCycle, error)
	ListByAgent(ctx context.Context, agentID uuid.UUID) ([]models.SellCycle, error)
	ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]models.SellCycle, error)

	// ListSharedOpen returns cycles shared to the organization that are
	// still in an open status. This is the matching engine's input set.
	ListSharedOpen(ctx context.Context) ([]models.SellCycle, error)

	Update(ctx context.Context, id uuid.UUID, mutate func(*models.SellCycle) error) (*models.SellCycle, error)

	// Replace overwrites the stored cycle wholesale. Used by the
	// acceptance rollback to restore a snapshot taken before step one.
	Replace(ctx context.Context, cycle *models.SellCycle) error
}

type sellCycleRepo struct {
	coll collection[models.SellCycle]
}

func NewSellCycleRepository(store kvstore.CollectionStore) SellCycleRepository {
	return &sellCycleRepo{coll: newCollection[models.SellCycle](store, constants.CollectionSellCycles)}
}

func (r *sellCycleRepo) Create(ctx context.Context, cycle *models.SellCycle) (*models.SellCycle, error) {
	cycles, err := r.coll.load(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if cycle.ID == uuid.Nil {
		cycle.ID = uuid.New()
	}
	if cycle.Status == "" {
		cycle.Status = models.SellCycleStatusListed
	}
	if cycle.ListedAt.IsZero() {
		cycle.ListedAt = now
	}
	cycle.CreatedAt = now
	cycle.UpdatedAt = now

	cycles = append(cycles, *cycle)
	if err := r.coll.save(ctx, cycles); err != nil {
		return nil, err
	}
	return cycle, nil
}

func (r *sellCycleRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.SellCycle, error) {
	cycles, err := r.coll.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range cycles {
		if cycles[i].ID == id {
			return &cycles[i], nil
		}
	}
	return nil, utils.ErrCycleNotFound
}

func (r *sellCycleRepo) ListAll(ctx context.Context) ([]models.SellCycle, error) {
	return r.coll.load(ctx)
}

func (r *sellCycleRepo) ListByAgent(ctx context.Context, agentID uuid.UUID) ([]models.SellCycle, error) {
	cycles, err := r.coll.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.SellCycle, 0)
	for _, c := range cycles {
		if c.AgentID == agentID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *sellCycleRepo) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]models.SellCycle, error) {
	cycles, err := r.coll.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.SellCycle, 0)
	for _, c := range cycles {
		if c.PropertyID == propertyID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *sellCycleRepo) ListSharedOpen(ctx context.Context) ([]models.SellCycle, error) {
	cycles, err := r.coll.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.SellCycle, 0)
	for _, c := range cycles {
		if c.Sharing.IsShared && c.IsOpen() {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *sellCycleRepo) Update(ctx context.Context, id uuid.UUID, mutate func(*models.SellCycle) error) (*models.SellCycle, error) {
	cycles, err := r.coll.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range cycles {
		if cycles[i].ID != id {
			continue
		}
		if err := mutate(&cycles[i]); err != nil {
			return nil, err
		}
		cycles[i].UpdatedAt = time.Now().UTC()
		if err := r.coll.save(ctx, cycles); err != nil {
			return nil, err
		}
		return &cycles[i], nil
	}
	return nil, utils.ErrCycleNotFound
}

func (r *sellCycleRepo) Replace(ctx context.Context, cycle *models.SellCycle) error {
	cycles, err := r.coll.load(ctx)
	if err != nil {
		return err
	}
	for i := range cycles {
		if cycles[i].ID == cycle.ID {
			cycles[i] = *cycle
			return r.coll.save(ctx, cycles)
		}
	}
	return utils.ErrCycleNotFound
}
