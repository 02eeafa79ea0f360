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

type PropertyRepository interface {
	Create(ctx context.Context, property *models.Property) (*models.Property, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error)
	ListAll(ctx context.Context) ([]models.Property, error)
	ListByAgent(ctx context.Context, agentID uuid.UUID) ([]models.Property, error)
	Update(ctx context.Context, id uuid.UUID, mutate func(*models.Property) error) (*models.Property, error)
}

type propertyRepo struct {
	coll collection[models.Property]
}

func NewPropertyRepository(store kvstore.CollectionStore) PropertyRepository {
	return &propertyRepo{coll: newCollection[models.Property](store, constants.CollectionProperties)}
}

func (r *propertyRepo) Create(ctx context.Context, property *models.Property) (*models.Property, error) {
	properties, err := r.coll.load(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if property.ID == uuid.Nil {
		property.ID = uuid.New()
	}
	property.CreatedAt = now
	property.UpdatedAt = now

	properties = append(properties, *property)
	if err := r.coll.save(ctx, properties); err != nil {
		return nil, err
	}
	return property, nil
}

func (r *propertyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	properties, err := r.coll.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range properties {
		if properties[i].ID == id {
			return &properties[i], nil
		}
	}
	return nil, utils.ErrPropertyNotFound
}

func (r *propertyRepo) ListAll(ctx context.Context) ([]models.Property, error) {
	return r.coll.load(ctx)
}

func (r *propertyRepo) ListByAgent(ctx context.Context, agentID uuid.UUID) ([]models.Property, error) {
	properties, err := r.coll.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Property, 0)
	for _, p := range properties {
		if p.AgentID == agentID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *propertyRepo) Update(ctx context.Context, id uuid.UUID, mutate func(*models.Property) error) (*models.Property, error) {
	properties, err := r.coll.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range properties {
		if properties[i].ID != id {
			continue
		}
		if err := mutate(&properties[i]); err != nil {
			return nil, err
		}
		properties[i].UpdatedAt = time.Now().UTC()
		if err := r.coll.save(ctx, properties); err != nil {
			return nil, err
		}
		return &properties[i], nil
	}
	return nil, utils.ErrPropertyNotFound
}
