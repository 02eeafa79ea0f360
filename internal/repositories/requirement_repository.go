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

type RequirementRepository interface {
	Create(ctx context.Context, requirement *models.BuyerRequirement) (*models.BuyerRequirement, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.BuyerRequirement, error)
	ListAll(ctx context.Context) ([]models.BuyerRequirement, error)
	ListActive(ctx context.Context) ([]models.BuyerRequirement, error)
	ListByAgent(ctx context.Context, agentID uuid.UUID) ([]models.BuyerRequirement, error)
	Update(ctx context.Context, id uuid.UUID, mutate func(*models.BuyerRequirement) error) (*models.BuyerRequirement, error)
}

type requirementRepo struct {
	coll collection[models.BuyerRequirement]
}

func NewRequirementRepository(store kvstore.CollectionStore) RequirementRepository {
	return &requirementRepo{coll: newCollection[models.BuyerRequirement](store, constants.CollectionBuyerRequirements)}
}

func (r *requirementRepo) Create(ctx context.Context, requirement *models.BuyerRequirement) (*models.BuyerRequirement, error) {
	requirements, err := r.coll.load(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if requirement.ID == uuid.Nil {
		requirement.ID = uuid.New()
	}
	if requirement.Kind == "" {
		requirement.Kind = models.RequirementKindBuy
	}
	if requirement.Status == "" {
		requirement.Status = models.RequirementStatusActive
	}
	requirement.CreatedAt = now
	requirement.UpdatedAt = now

	requirements = append(requirements, *requirement)
	if err := r.coll.save(ctx, requirements); err != nil {
		return nil, err
	}
	return requirement, nil
}

func (r *requirementRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.BuyerRequirement, error) {
	requirements, err := r.coll.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range requirements {
		if requirements[i].ID == id {
			return &requirements[i], nil
		}
	}
	return nil, utils.ErrRequirementNotFound
}

func (r *requirementRepo) ListAll(ctx context.Context) ([]models.BuyerRequirement, error) {
	return r.coll.load(ctx)
}

func (r *requirementRepo) ListActive(ctx context.Context) ([]models.BuyerRequirement, error) {
	requirements, err := r.coll.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.BuyerRequirement, 0)
	for _, req := range requirements {
		if req.Status == models.RequirementStatusActive {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r *requirementRepo) ListByAgent(ctx context.Context, agentID uuid.UUID) ([]models.BuyerRequirement, error) {
	requirements, err := r.coll.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.BuyerRequirement, 0)
	for _, req := range requirements {
		if req.AgentID == agentID {
			out = append(out, req)
		}
	}
	return out, nil
}

func (r *requirementRepo) Update(ctx context.Context, id uuid.UUID, mutate func(*models.BuyerRequirement) error) (*models.BuyerRequirement, error) {
	requirements, err := r.coll.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range requirements {
		if requirements[i].ID != id {
			continue
		}
		if err := mutate(&requirements[i]); err != nil {
			return nil, err
		}
		requirements[i].UpdatedAt = time.Now().UTC()
		if err := r.coll.save(ctx, requirements); err != nil {
			return nil, err
		}
		return &requirements[i], nil
	}
	return nil, utils.ErrRequirementNotFound
}
