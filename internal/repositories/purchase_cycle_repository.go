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

type PurchaseCycleRepository interface {
	Create(ctx context.Context, cycle *models.PurchaseCycle) (*models.PurchaseCycle, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.PurchaseCycle, error)
	ListAll(ctx context.Context) ([]models.PurchaseCycle, error)
	ListByAgent(ctx context.Context, agentID uuid.UUID) ([]models.PurchaseCycle, error)
	ListByRequirement(ctx context.Context, requirementID uuid.UUID) ([]models.PurchaseCycle, error)

	// FindByRequirementAndProperty returns the single purchase cycle
	// for the pair, or (nil, nil) when none exists yet.
	FindByRequirementAndProperty(ctx context.Context, requirementID, propertyID uuid.UUID) (*models.PurchaseCycle, error)

	Update(ctx context.Context, id uuid.UUID, mutate func(*models.PurchaseCycle) error) (*models.PurchaseCycle, error)

	// Delete removes a cycle outright. Only the acceptance rollback
	// uses this, to undo a lazily created cycle.
	Delete(ctx context.Context, id uuid.UUID) error
}

type purchaseCycleRepo struct {
	coll collection[models.PurchaseCycle]
}

func NewPurchaseCycleRepository(store kvstore.CollectionStore) PurchaseCycleRepository {
	return &purchaseCycleRepo{coll: newCollection[models.PurchaseCycle](store, constants.CollectionPurchaseCycles)}
}

func (r *purchaseCycleRepo) Create(ctx context.Context, cycle *models.PurchaseCycle) (*models.PurchaseCycle, error) {
	cycles, err := r.coll.load(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if cycle.ID == uuid.Nil {
		cycle.ID = uuid.New()
	}
	if cycle.Status == "" {
		cycle.Status = models.PurchaseCycleStatusActive
	}
	if cycle.PurchaserType == "" {
		cycle.PurchaserType = models.PurchaserTypeIndividual
	}
	cycle.CreatedAt = now
	cycle.UpdatedAt = now

	cycles = append(cycles, *cycle)
	if err := r.coll.save(ctx, cycles); err != nil {
		return nil, err
	}
	return cycle, nil
}

func (r *purchaseCycleRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.PurchaseCycle, error) {
	cycles, err := r.coll.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range cycles {
		if cycles[i].ID == id {
			return &cycles[i], nil
		}
	}
	return nil, utils.ErrPurchaseCycleNotFound
}

func (r *purchaseCycleRepo) ListAll(ctx context.Context) ([]models.PurchaseCycle, error) {
	return r.coll.load(ctx)
}

func (r *purchaseCycleRepo) ListByAgent(ctx context.Context, agentID uuid.UUID) ([]models.PurchaseCycle, error) {
	cycles, err := r.coll.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.PurchaseCycle, 0)
	for _, c := range cycles {
		if c.AgentID == agentID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *purchaseCycleRepo) ListByRequirement(ctx context.Context, requirementID uuid.UUID) ([]models.PurchaseCycle, error) {
	cycles, err := r.coll.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.PurchaseCycle, 0)
	for _, c := range cycles {
		if c.BuyerRequirementID != nil && *c.BuyerRequirementID == requirementID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *purchaseCycleRepo) FindByRequirementAndProperty(ctx context.Context, requirementID, propertyID uuid.UUID) (*models.PurchaseCycle, error) {
	cycles, err := r.coll.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range cycles {
		c := &cycles[i]
		if c.PropertyID == propertyID && c.BuyerRequirementID != nil && *c.BuyerRequirementID == requirementID {
			return c, nil
		}
	}
	return nil, nil
}

func (r *purchaseCycleRepo) Update(ctx context.Context, id uuid.UUID, mutate func(*models.PurchaseCycle) error) (*models.PurchaseCycle, error) {
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
	return nil, utils.ErrPurchaseCycleNotFound
}

func (r *purchaseCycleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	cycles, err := r.coll.load(ctx)
	if err != nil {
		return err
	}
	for i := range cycles {
		if cycles[i].ID == id {
			cycles = append(cycles[:i], cycles[i+1:]...)
			return r.coll.save(ctx, cycles)
		}
	}
	return utils.ErrPurchaseCycleNotFound
}
