package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/models"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/repositories"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/utils"
)

// ListingService owns the sell side: property records, sell cycles and
// organization sharing.
type ListingService struct {
	propRepo  repositories.PropertyRepository
	cycleRepo repositories.SellCycleRepository
}

func NewListingService(propRepo repositories.PropertyRepository, cycleRepo repositories.SellCycleRepository) *ListingService {
	return &ListingService{propRepo: propRepo, cycleRepo: cycleRepo}
}

type RegisterPropertyInput struct {
	Title     string
	Type      models.PropertyType
	City      string
	Area      string
	Block     string
	Price     float64
	AreaSqFt  float64
	Bedrooms  int
	Bathrooms int
	Features  []string
}

func (s *ListingService) RegisterProperty(ctx context.Context, userID uuid.UUID, in RegisterPropertyInput) (*models.Property, error) {
	return s.propRepo.Create(ctx, &models.Property{
		AgentID: userID,
		Title:   in.Title,
		Type:    in.Type,
		Address: models.Address{
			City:  in.City,
			Area:  in.Area,
			Block: in.Block,
		},
		Price:     in.Price,
		AreaSqFt:  in.AreaSqFt,
		Bedrooms:  in.Bedrooms,
		Bathrooms: in.Bathrooms,
		Features:  in.Features,
	})
}

func (s *ListingService) ListPropertiesForUser(ctx context.Context, userID uuid.UUID, role models.UserRole) ([]models.Property, error) {
	if role == models.UserRoleAdmin {
		return s.propRepo.ListAll(ctx)
	}
	return s.propRepo.ListByAgent(ctx, userID)
}

// GetPropertyForUser applies visibility: owners and admins always see
// a property, other agents only once one of its sell cycles is shared.
func (s *ListingService) GetPropertyForUser(ctx context.Context, id, userID uuid.UUID, role models.UserRole) (*models.Property, error) {
	prop, err := s.propRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role == models.UserRoleAdmin || prop.AgentID == userID {
		return prop, nil
	}

	cycles, err := s.cycleRepo.ListByProperty(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, c := range cycles {
		if c.Sharing.IsShared {
			return prop, nil
		}
	}
	return nil, utils.ErrPropertyNotFound
}

type OpenSellCycleInput struct {
	PropertyID  uuid.UUID
	AskingPrice float64
	Share       bool
}

/*
OpenSellCycle lists a property for sale. One open sell cycle per
property at a time; the cycle joins the property's active list and
history. Opt-in sharing exposes it to the matching engine right away.
*/
func (s *ListingService) OpenSellCycle(ctx context.Context, userID uuid.UUID, role models.UserRole, in OpenSellCycleInput) (*models.SellCycle, error) {
	prop, err := s.propRepo.GetByID(ctx, in.PropertyID)
	if err != nil {
		return nil, err
	}
	if role != models.UserRoleAdmin && prop.AgentID != userID {
		return nil, utils.ErrPropertyNotFound
	}
	if in.AskingPrice <= 0 {
		return nil, utils.ErrInvalidPayload
	}

	existing, err := s.cycleRepo.ListByProperty(ctx, in.PropertyID)
	if err != nil {
		return nil, err
	}
	for _, c := range existing {
		if c.IsOpen() || c.Status == models.SellCycleStatusUnderContract {
			return nil, utils.ErrActiveCycleExists
		}
	}

	now := time.Now().UTC()
	cycle := &models.SellCycle{
		PropertyID:  prop.ID,
		AgentID:     prop.AgentID,
		AskingPrice: in.AskingPrice,
		Status:      models.SellCycleStatusListed,
		ListedAt:    now,
	}
	if in.Share {
		cycle.Sharing = models.Sharing{
			IsShared:   true,
			ShareLevel: models.ShareLevelOrganization,
			SharedAt:   utils.Ptr(now),
		}
	} else {
		cycle.Sharing = models.Sharing{ShareLevel: models.ShareLevelPrivate}
	}

	created, err := s.cycleRepo.Create(ctx, cycle)
	if err != nil {
		return nil, err
	}

	if _, err := s.propRepo.Update(ctx, prop.ID, func(p *models.Property) error {
		p.ActiveSellCycleIDs = append(p.ActiveSellCycleIDs, created.ID)
		p.CycleHistory = append(p.CycleHistory, models.CycleRef{
			CycleID:  created.ID,
			Type:     models.CycleTypeSell,
			OpenedAt: now,
		})
		return nil
	}); err != nil {
		utils.Logger.WithError(err).Warnf("property %s not updated with sell cycle %s", prop.ID, created.ID)
	}
	return created, nil
}

// ShareCycle flips organization sharing on an open cycle. Unsharing
// keeps existing matches; it only stops new ones.
func (s *ListingService) ShareCycle(ctx context.Context, userID uuid.UUID, role models.UserRole, cycleID uuid.UUID, share bool) (*models.SellCycle, error) {
	cycle, err := s.cycleRepo.GetByID(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	if role != models.UserRoleAdmin && cycle.AgentID != userID {
		return nil, utils.ErrNotCycleOwner
	}

	return s.cycleRepo.Update(ctx, cycleID, func(c *models.SellCycle) error {
		if !c.IsOpen() {
			return utils.ErrCycleClosed
		}
		if share {
			c.Sharing.IsShared = true
			c.Sharing.ShareLevel = models.ShareLevelOrganization
			if c.Sharing.SharedAt == nil {
				c.Sharing.SharedAt = utils.Ptr(time.Now().UTC())
			}
		} else {
			c.Sharing.IsShared = false
			c.Sharing.ShareLevel = models.ShareLevelPrivate
		}
		return nil
	})
}

// GetCycleForUser applies visibility: owner, admin, or anyone once the
// cycle is shared.
func (s *ListingService) GetCycleForUser(ctx context.Context, cycleID, userID uuid.UUID, role models.UserRole) (*models.SellCycle, error) {
	cycle, err := s.cycleRepo.GetByID(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	if role == models.UserRoleAdmin || cycle.AgentID == userID || cycle.Sharing.IsShared {
		return cycle, nil
	}
	return nil, utils.ErrCycleNotFound
}

// ListCyclesForUser returns the caller's own cycles plus everything
// shared to the organization.
func (s *ListingService) ListCyclesForUser(ctx context.Context, userID uuid.UUID, role models.UserRole) ([]models.SellCycle, error) {
	cycles, err := s.cycleRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if role == models.UserRoleAdmin {
		return cycles, nil
	}
	out := make([]models.SellCycle, 0, len(cycles))
	for _, c := range cycles {
		if c.AgentID == userID || c.Sharing.IsShared {
			out = append(out, c)
		}
	}
	return out, nil
}

/*
CancelSellCycle takes the listing off the market. Live offers are
rejected in the same write so nothing stays actionable on a dead
cycle. The property's active list and history are trimmed after.
*/
func (s *ListingService) CancelSellCycle(ctx context.Context, userID uuid.UUID, role models.UserRole, cycleID uuid.UUID) (*models.SellCycle, error) {
	cycle, err := s.cycleRepo.GetByID(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	if role != models.UserRoleAdmin && cycle.AgentID != userID {
		return nil, utils.ErrNotCycleOwner
	}

	now := time.Now().UTC()
	updated, err := s.cycleRepo.Update(ctx, cycleID, func(c *models.SellCycle) error {
		if !c.IsOpen() {
			return utils.ErrCycleClosed
		}
		for i := range c.Offers {
			offer := &c.Offers[i]
			if offer.IsTerminal() {
				continue
			}
			offer.RejectionReason = "listing cancelled"
			offer.DecidedAt = utils.Ptr(now)
			offer.PushStatus(models.OfferStatusRejected, userID, now, "listing cancelled")
		}
		c.Status = models.SellCycleStatusCancelled
		return nil
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.propRepo.Update(ctx, updated.PropertyID, func(p *models.Property) error {
		p.ActiveSellCycleIDs = removeUUID(p.ActiveSellCycleIDs, cycleID)
		for i := range p.CycleHistory {
			if p.CycleHistory[i].CycleID == cycleID && p.CycleHistory[i].ClosedAt == nil {
				p.CycleHistory[i].ClosedAt = &now
			}
		}
		return nil
	}); err != nil {
		utils.Logger.WithError(err).Warnf("property %s not updated after cancelling cycle %s", updated.PropertyID, cycleID)
	}
	return updated, nil
}
