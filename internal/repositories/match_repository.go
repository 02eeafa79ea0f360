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

type MatchRepository interface {
	// Merge upserts candidates keyed by (cycle, requirement). Existing
	// pairs keep their identity, status and notification flag and only
	// refresh score, details and UpdatedAt; unknown pairs are inserted.
	// Records not named by candidates are left untouched. Returns the
	// post-merge records for the candidate pairs plus the subset that
	// was newly inserted.
	Merge(ctx context.Context, candidates []models.PropertyMatch) (merged, created []models.PropertyMatch, err error)

	GetByID(ctx context.Context, id uuid.UUID) (*models.PropertyMatch, error)
	ListAll(ctx context.Context) ([]models.PropertyMatch, error)
	ListByRequirement(ctx context.Context, requirementID uuid.UUID) ([]models.PropertyMatch, error)
	ListByCycle(ctx context.Context, cycleID uuid.UUID) ([]models.PropertyMatch, error)
	Update(ctx context.Context, id uuid.UUID, mutate func(*models.PropertyMatch) error) (*models.PropertyMatch, error)
}

type matchRepo struct {
	coll collection[models.PropertyMatch]
}

func NewMatchRepository(store kvstore.CollectionStore) MatchRepository {
	return &matchRepo{coll: newCollection[models.PropertyMatch](store, constants.CollectionPropertyMatches)}
}

func (r *matchRepo) Merge(ctx context.Context, candidates []models.PropertyMatch) (merged, created []models.PropertyMatch, err error) {
	matches, err := r.coll.load(ctx)
	if err != nil {
		return nil, nil, err
	}

	index := make(map[[2]uuid.UUID]int, len(matches))
	for i, m := range matches {
		index[[2]uuid.UUID{m.CycleID, m.RequirementID}] = i
	}

	now := time.Now().UTC()
	merged = make([]models.PropertyMatch, 0, len(candidates))
	created = make([]models.PropertyMatch, 0)

	for _, cand := range candidates {
		key := [2]uuid.UUID{cand.CycleID, cand.RequirementID}
		if i, ok := index[key]; ok {
			matches[i].MatchScore = cand.MatchScore
			matches[i].MatchDetails = cand.MatchDetails
			matches[i].UpdatedAt = now
			merged = append(merged, matches[i])
			continue
		}

		if cand.ID == uuid.Nil {
			cand.ID = uuid.New()
		}
		if cand.Status == "" {
			cand.Status = models.MatchStatusPending
		}
		cand.NotificationSent = false
		if cand.MatchedAt.IsZero() {
			cand.MatchedAt = now
		}
		cand.CreatedAt = now
		cand.UpdatedAt = now

		matches = append(matches, cand)
		index[key] = len(matches) - 1
		merged = append(merged, cand)
		created = append(created, cand)
	}

	if err := r.coll.save(ctx, matches); err != nil {
		return nil, nil, err
	}
	return merged, created, nil
}

func (r *matchRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.PropertyMatch, error) {
	matches, err := r.coll.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range matches {
		if matches[i].ID == id {
			return &matches[i], nil
		}
	}
	return nil, utils.ErrMatchNotFound
}

func (r *matchRepo) ListAll(ctx context.Context) ([]models.PropertyMatch, error) {
	return r.coll.load(ctx)
}

func (r *matchRepo) ListByRequirement(ctx context.Context, requirementID uuid.UUID) ([]models.PropertyMatch, error) {
	matches, err := r.coll.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.PropertyMatch, 0)
	for _, m := range matches {
		if m.RequirementID == requirementID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *matchRepo) ListByCycle(ctx context.Context, cycleID uuid.UUID) ([]models.PropertyMatch, error) {
	matches, err := r.coll.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.PropertyMatch, 0)
	for _, m := range matches {
		if m.CycleID == cycleID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *matchRepo) Update(ctx context.Context, id uuid.UUID, mutate func(*models.PropertyMatch) error) (*models.PropertyMatch, error) {
	matches, err := r.coll.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range matches {
		if matches[i].ID != id {
			continue
		}
		if err := mutate(&matches[i]); err != nil {
			return nil, err
		}
		matches[i].UpdatedAt = time.Now().UTC()
		if err := r.coll.save(ctx, matches); err != nil {
			return nil, err
		}
		return &matches[i], nil
	}
	return nil, utils.ErrMatchNotFound
}
