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

type DealRepository interface {
	// Create refuses a second deal for the same accepted offer or a
	// duplicate deal number, so acceptance can never double-book.
	Create(ctx context.Context, deal *models.Deal) (*models.Deal, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Deal, error)
	GetByDealNumber(ctx context.Context, dealNumber string) (*models.Deal, error)
	ListAll(ctx context.Context) ([]models.Deal, error)
	ListByAgent(ctx context.Context, agentID uuid.UUID) ([]models.Deal, error)
	Update(ctx context.Context, id uuid.UUID, mutate func(*models.Deal) error) (*models.Deal, error)

	// Delete removes a deal outright. Only the acceptance rollback
	// uses this.
	Delete(ctx context.Context, id uuid.UUID) error
}

type dealRepo struct {
	coll collection[models.Deal]
}

func NewDealRepository(store kvstore.CollectionStore) DealRepository {
	return &dealRepo{coll: newCollection[models.Deal](store, constants.CollectionDeals)}
}

func (r *dealRepo) Create(ctx context.Context, deal *models.Deal) (*models.Deal, error) {
	deals, err := r.coll.load(ctx)
	if err != nil {
		return nil, err
	}

	for _, existing := range deals {
		if existing.AcceptedOfferID == deal.AcceptedOfferID {
			return nil, utils.ErrDealAlreadyExists
		}
		if existing.DealNumber == deal.DealNumber {
			return nil, utils.ErrDealAlreadyExists
		}
	}

	now := time.Now().UTC()
	if deal.ID == uuid.Nil {
		deal.ID = uuid.New()
	}
	if deal.Status == "" {
		deal.Status = models.DealStatusActive
	}
	deal.CreatedAt = now
	deal.UpdatedAt = now

	deals = append(deals, *deal)
	if err := r.coll.save(ctx, deals); err != nil {
		return nil, err
	}
	return deal, nil
}

func (r *dealRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Deal, error) {
	deals, err := r.coll.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range deals {
		if deals[i].ID == id {
			return &deals[i], nil
		}
	}
	return nil, utils.ErrDealNotFound
}

func (r *dealRepo) GetByDealNumber(ctx context.Context, dealNumber string) (*models.Deal, error) {
	deals, err := r.coll.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range deals {
		if deals[i].DealNumber == dealNumber {
			return &deals[i], nil
		}
	}
	return nil, utils.ErrDealNotFound
}

func (r *dealRepo) ListAll(ctx context.Context) ([]models.Deal, error) {
	return r.coll.load(ctx)
}

func (r *dealRepo) ListByAgent(ctx context.Context, agentID uuid.UUID) ([]models.Deal, error) {
	deals, err := r.coll.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Deal, 0)
	for _, d := range deals {
		if d.Agents.PrimaryAgentID == agentID {
			out = append(out, d)
			continue
		}
		if d.Agents.SecondaryAgentID != nil && *d.Agents.SecondaryAgentID == agentID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *dealRepo) Update(ctx context.Context, id uuid.UUID, mutate func(*models.Deal) error) (*models.Deal, error) {
	deals, err := r.coll.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range deals {
		if deals[i].ID != id {
			continue
		}
		if err := mutate(&deals[i]); err != nil {
			return nil, err
		}
		deals[i].UpdatedAt = time.Now().UTC()
		if err := r.coll.save(ctx, deals); err != nil {
			return nil, err
		}
		return &deals[i], nil
	}
	return nil, utils.ErrDealNotFound
}

func (r *dealRepo) Delete(ctx context.Context, id uuid.UUID) error {
	deals, err := r.coll.load(ctx)
	if err != nil {
		return err
	}
	for i := range deals {
		if deals[i].ID == id {
			deals = append(deals[:i], deals[i+1:]...)
			return r.coll.save(ctx, deals)
		}
	}
	return utils.ErrDealNotFound
}
