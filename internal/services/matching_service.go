package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/models"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/notify"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/repositories"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/utils"
)

/*
MatchingService pairs shared sell cycles with other agents' active
buy requirements. Matches persist through an idempotent merge keyed by
(cycle, requirement): reruns refresh scores but never duplicate a pair
or re-notify it.
*/
type MatchingService struct {
	cycleRepo repositories.SellCycleRepository
	propRepo  repositories.PropertyRepository
	reqRepo   repositories.RequirementRepository
	matchRepo repositories.MatchRepository
	notifier  *notify.Service
	threshold int
}

func NewMatchingService(
	cycleRepo repositories.SellCycleRepository,
	propRepo repositories.PropertyRepository,
	reqRepo repositories.RequirementRepository,
	matchRepo repositories.MatchRepository,
	notifier *notify.Service,
	threshold int,
) *MatchingService {
	return &MatchingService{
		cycleRepo: cycleRepo,
		propRepo:  propRepo,
		reqRepo:   reqRepo,
		matchRepo: matchRepo,
		notifier:  notifier,
		threshold: threshold,
	}
}

/*
RunSharedMatching scores every shared open sell cycle against every
active BUY requirement owned by a different agent, persists pairs at
or above the threshold and enqueues one notification per newly
created match. Safe to run any number of times.
*/
func (s *MatchingService) RunSharedMatching(ctx context.Context) ([]models.PropertyMatch, error) {
	cycles, err := s.cycleRepo.ListSharedOpen(ctx)
	if err != nil {
		return nil, err
	}
	requirements, err := s.reqRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	var candidates []models.PropertyMatch
	for i := range cycles {
		cycle := &cycles[i]
		prop, err := s.propRepo.GetByID(ctx, cycle.PropertyID)
		if err != nil {
			utils.Logger.WithError(err).Warnf("matching: property %s for cycle %s missing, skipping", cycle.PropertyID, cycle.ID)
			continue
		}
		for j := range requirements {
			req := &requirements[j]
			if cand, ok := s.scorePair(cycle, prop, req); ok {
				candidates = append(candidates, cand)
			}
		}
	}

	merged, created, err := s.matchRepo.Merge(ctx, candidates)
	if err != nil {
		return nil, err
	}

	utils.Logger.Infof("matching run: %d shared cycles, %d active requirements, %d matches (%d new)",
		len(cycles), len(requirements), len(merged), len(created))

	s.notifyNewMatches(ctx, created)
	return merged, nil
}

// scorePair evaluates one cycle/requirement pairing. Cross-agent only:
// an agent's own requirements never match their own listings. RENT
// requirements are skipped, there are no rent cycles to offer them.
func (s *MatchingService) scorePair(cycle *models.SellCycle, prop *models.Property, req *models.BuyerRequirement) (models.PropertyMatch, bool) {
	if req.AgentID == cycle.AgentID {
		return models.PropertyMatch{}, false
	}
	if req.Kind != models.RequirementKindBuy {
		return models.PropertyMatch{}, false
	}

	details := EvaluateMatch(prop, req, cycle.AskingPrice)
	if details.Score < s.threshold {
		return models.PropertyMatch{}, false
	}

	return models.PropertyMatch{
		CycleID:            cycle.ID,
		CycleType:          models.CycleTypeSell,
		PropertyID:         prop.ID,
		RequirementID:      req.ID,
		ListingAgentID:     cycle.AgentID,
		RequirementAgentID: req.AgentID,
		MatchScore:         details.Score,
		MatchDetails:       details,
	}, true
}

/*
FindMatchesForRequirement runs the same scoring anchored to one
requirement and returns results sorted by score, best first. Hits
persist through the same merge as the batch run, so the two paths can
never disagree on a pair.
*/
func (s *MatchingService) FindMatchesForRequirement(ctx context.Context, requirementID, userID uuid.UUID, role models.UserRole) ([]models.PropertyMatch, error) {
	req, err := s.reqRepo.GetByID(ctx, requirementID)
	if err != nil {
		return nil, err
	}
	if role != models.UserRoleAdmin && req.AgentID != userID {
		return nil, utils.ErrRequirementNotFound
	}

	cycles, err := s.cycleRepo.ListSharedOpen(ctx)
	if err != nil {
		return nil, err
	}

	var candidates []models.PropertyMatch
	for i := range cycles {
		cycle := &cycles[i]
		prop, err := s.propRepo.GetByID(ctx, cycle.PropertyID)
		if err != nil {
			utils.Logger.WithError(err).Warnf("matching: property %s for cycle %s missing, skipping", cycle.PropertyID, cycle.ID)
			continue
		}
		if cand, ok := s.scorePair(cycle, prop, req); ok {
			candidates = append(candidates, cand)
		}
	}

	merged, created, err := s.matchRepo.Merge(ctx, candidates)
	if err != nil {
		return nil, err
	}
	s.notifyNewMatches(ctx, created)

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].MatchScore > merged[j].MatchScore
	})
	return merged, nil
}

// ListMatchesForUser returns persisted matches the caller may see:
// admins all of them, agents only matches on their own listings or
// requirements. Sorted by score, best first.
func (s *MatchingService) ListMatchesForUser(ctx context.Context, userID uuid.UUID, role models.UserRole) ([]models.PropertyMatch, error) {
	matches, err := s.matchRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.PropertyMatch, 0, len(matches))
	for _, m := range matches {
		if role == models.UserRoleAdmin || m.ListingAgentID == userID || m.RequirementAgentID == userID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MatchScore > out[j].MatchScore
	})
	return out, nil
}

/*
notifyNewMatches enqueues exactly one notification per newly created
match, addressed to the requirement's agent. The outbox idempotency
key plus the NotificationSent flag keep this at-most-once even across
crashes between enqueue and flag write. Failures log and move on;
matching never fails because notifying did.
*/
func (s *MatchingService) notifyNewMatches(ctx context.Context, created []models.PropertyMatch) {
	if s.notifier == nil {
		return
	}
	for _, m := range created {
		if m.NotificationSent {
			continue
		}
		n := &notify.Notification{
			Type:              notify.TypeMatchFound,
			RecipientAgentID:  m.RequirementAgentID,
			Title:             "New property match",
			Body:              fmt.Sprintf("A shared listing scored %d against your buyer requirement.", m.MatchScore),
			Priority:          notify.PriorityNormal,
			RelatedEntityType: models.EntityTypeSellCycle,
			RelatedEntityID:   m.CycleID,
			IdempotencyKey:    "match:" + m.ID.String(),
		}
		if err := s.notifier.Enqueue(ctx, n); err != nil {
			utils.Logger.WithError(err).Warnf("failed to enqueue match notification for %s", m.ID)
			continue
		}
		if _, err := s.matchRepo.Update(ctx, m.ID, func(pm *models.PropertyMatch) error {
			pm.NotificationSent = true
			return nil
		}); err != nil {
			utils.Logger.WithError(err).Warnf("failed to flag match %s as notified", m.ID)
		}
	}
}
