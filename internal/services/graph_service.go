package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/models"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/repositories"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/utils"
)

/*
GraphService resolves the web of records around one transaction. Given
any of the five entity kinds it chases the cross-links in both
directions until nothing new resolves, so every entry point converges
on the same populated graph.
*/
type GraphService struct {
	propRepo  repositories.PropertyRepository
	cycleRepo repositories.SellCycleRepository
	pcRepo    repositories.PurchaseCycleRepository
	reqRepo   repositories.RequirementRepository
	dealRepo  repositories.DealRepository
}

func NewGraphService(
	propRepo repositories.PropertyRepository,
	cycleRepo repositories.SellCycleRepository,
	pcRepo repositories.PurchaseCycleRepository,
	reqRepo repositories.RequirementRepository,
	dealRepo repositories.DealRepository,
) *GraphService {
	return &GraphService{
		propRepo:  propRepo,
		cycleRepo: cycleRepo,
		pcRepo:    pcRepo,
		reqRepo:   reqRepo,
		dealRepo:  dealRepo,
	}
}

func (s *GraphService) ResolveGraph(ctx context.Context, entityType models.EntityType, entityID, userID uuid.UUID, role models.UserRole) (*models.TransactionGraph, error) {
	graph := &models.TransactionGraph{
		EntryType: entityType,
		EntryID:   entityID,
	}

	if err := s.seed(ctx, graph, entityType, entityID); err != nil {
		return nil, err
	}

	// Chase links until a pass adds nothing. Five entity slots bound
	// the loop at five productive passes.
	for i := 0; i < 5; i++ {
		if !s.expand(ctx, graph) {
			break
		}
	}

	if graph.SellCycle != nil && graph.SellCycle.AcceptedOfferID != nil {
		graph.AcceptedOffer = graph.SellCycle.FindOffer(*graph.SellCycle.AcceptedOfferID)
	}

	if !s.canSeeGraph(graph, userID, role) {
		return nil, s.notFoundFor(entityType)
	}
	return graph, nil
}

func (s *GraphService) seed(ctx context.Context, graph *models.TransactionGraph, entityType models.EntityType, entityID uuid.UUID) error {
	switch entityType {
	case models.EntityTypeProperty:
		prop, err := s.propRepo.GetByID(ctx, entityID)
		if err != nil {
			return err
		}
		graph.Property = prop
	case models.EntityTypeSellCycle:
		cycle, err := s.cycleRepo.GetByID(ctx, entityID)
		if err != nil {
			return err
		}
		graph.SellCycle = cycle
	case models.EntityTypePurchaseCycle:
		pc, err := s.pcRepo.GetByID(ctx, entityID)
		if err != nil {
			return err
		}
		graph.PurchaseCycle = pc
	case models.EntityTypeBuyerRequirement:
		req, err := s.reqRepo.GetByID(ctx, entityID)
		if err != nil {
			return err
		}
		graph.Requirement = req
	case models.EntityTypeDeal:
		deal, err := s.dealRepo.GetByID(ctx, entityID)
		if err != nil {
			return err
		}
		graph.Deal = deal
	default:
		return utils.ErrUnknownEntityType
	}
	return nil
}

// expand fills empty graph slots reachable from filled ones. Returns
// whether anything new was resolved. Dangling links only log; a graph
// with a hole is still useful.
func (s *GraphService) expand(ctx context.Context, g *models.TransactionGraph) bool {
	grew := false

	fetchProperty := func(id uuid.UUID) {
		if g.Property != nil {
			return
		}
		prop, err := s.propRepo.GetByID(ctx, id)
		if err != nil {
			utils.Logger.WithError(err).Warnf("graph: property %s unresolvable", id)
			return
		}
		g.Property = prop
		grew = true
	}
	fetchCycle := func(id uuid.UUID) {
		if g.SellCycle != nil {
			return
		}
		cycle, err := s.cycleRepo.GetByID(ctx, id)
		if err != nil {
			utils.Logger.WithError(err).Warnf("graph: sell cycle %s unresolvable", id)
			return
		}
		g.SellCycle = cycle
		grew = true
	}
	fetchPC := func(id uuid.UUID) {
		if g.PurchaseCycle != nil {
			return
		}
		pc, err := s.pcRepo.GetByID(ctx, id)
		if err != nil {
			utils.Logger.WithError(err).Warnf("graph: purchase cycle %s unresolvable", id)
			return
		}
		g.PurchaseCycle = pc
		grew = true
	}
	fetchReq := func(id uuid.UUID) {
		if g.Requirement != nil {
			return
		}
		req, err := s.reqRepo.GetByID(ctx, id)
		if err != nil {
			utils.Logger.WithError(err).Warnf("graph: requirement %s unresolvable", id)
			return
		}
		g.Requirement = req
		grew = true
	}
	fetchDeal := func(id uuid.UUID) {
		if g.Deal != nil {
			return
		}
		deal, err := s.dealRepo.GetByID(ctx, id)
		if err != nil {
			utils.Logger.WithError(err).Warnf("graph: deal %s unresolvable", id)
			return
		}
		g.Deal = deal
		grew = true
	}

	if d := g.Deal; d != nil {
		fetchProperty(d.PropertyID)
		fetchCycle(d.Cycles.SellCycleID)
		if d.Cycles.PurchaseCycleID != nil {
			fetchPC(*d.Cycles.PurchaseCycleID)
		}
		if d.BuyerRequirementID != nil {
			fetchReq(*d.BuyerRequirementID)
		}
	}
	if c := g.SellCycle; c != nil {
		fetchProperty(c.PropertyID)
		if c.LinkedDealID != nil {
			fetchDeal(*c.LinkedDealID)
		}
		if c.WinningPurchaseCycleID != nil {
			fetchPC(*c.WinningPurchaseCycleID)
		}
		if c.AcceptedOfferID != nil {
			if offer := c.FindOffer(*c.AcceptedOfferID); offer != nil && offer.BuyerRequirementID != nil {
				fetchReq(*offer.BuyerRequirementID)
			}
		}
	}
	if pc := g.PurchaseCycle; pc != nil {
		fetchProperty(pc.PropertyID)
		if pc.BuyerRequirementID != nil {
			fetchReq(*pc.BuyerRequirementID)
		}
		if pc.SellCycleID != nil {
			fetchCycle(*pc.SellCycleID)
		}
		if pc.CreatedDealID != nil {
			fetchDeal(*pc.CreatedDealID)
		}
	}
	if req := g.Requirement; req != nil && g.PurchaseCycle == nil {
		if pc := s.pickPurchaseCycle(ctx, req.ID); pc != nil {
			g.PurchaseCycle = pc
			grew = true
		}
	}
	if prop := g.Property; prop != nil && g.SellCycle == nil {
		if cycle := s.pickSellCycle(ctx, prop.ID); cycle != nil {
			g.SellCycle = cycle
			grew = true
		}
	}
	return grew
}

// pickPurchaseCycle chooses the requirement's most significant cycle:
// the deal-linked one if any, else the newest.
func (s *GraphService) pickPurchaseCycle(ctx context.Context, requirementID uuid.UUID) *models.PurchaseCycle {
	cycles, err := s.pcRepo.ListByRequirement(ctx, requirementID)
	if err != nil || len(cycles) == 0 {
		return nil
	}
	var newest *models.PurchaseCycle
	for i := range cycles {
		pc := &cycles[i]
		if pc.CreatedDealID != nil {
			return pc
		}
		if newest == nil || pc.CreatedAt.After(newest.CreatedAt) {
			newest = pc
		}
	}
	return newest
}

// pickSellCycle mirrors pickPurchaseCycle for a property's sell side.
func (s *GraphService) pickSellCycle(ctx context.Context, propertyID uuid.UUID) *models.SellCycle {
	cycles, err := s.cycleRepo.ListByProperty(ctx, propertyID)
	if err != nil || len(cycles) == 0 {
		return nil
	}
	var newest *models.SellCycle
	for i := range cycles {
		c := &cycles[i]
		if c.LinkedDealID != nil {
			return c
		}
		if newest == nil || c.CreatedAt.After(newest.CreatedAt) {
			newest = c
		}
	}
	return newest
}

// canSeeGraph admits admins and any agent who participates anywhere in
// the resolved graph, plus anyone when the sell cycle is shared.
func (s *GraphService) canSeeGraph(g *models.TransactionGraph, userID uuid.UUID, role models.UserRole) bool {
	if role == models.UserRoleAdmin {
		return true
	}
	if g.Property != nil && g.Property.AgentID == userID {
		return true
	}
	if g.SellCycle != nil && (g.SellCycle.AgentID == userID || g.SellCycle.Sharing.IsShared) {
		return true
	}
	if g.PurchaseCycle != nil && g.PurchaseCycle.AgentID == userID {
		return true
	}
	if g.Requirement != nil && g.Requirement.AgentID == userID {
		return true
	}
	if g.Deal != nil {
		if g.Deal.Agents.PrimaryAgentID == userID {
			return true
		}
		if g.Deal.Agents.SecondaryAgentID != nil && *g.Deal.Agents.SecondaryAgentID == userID {
			return true
		}
	}
	return false
}

func (s *GraphService) notFoundFor(entityType models.EntityType) error {
	switch entityType {
	case models.EntityTypeProperty:
		return utils.ErrPropertyNotFound
	case models.EntityTypeSellCycle:
		return utils.ErrCycleNotFound
	case models.EntityTypePurchaseCycle:
		return utils.ErrPurchaseCycleNotFound
	case models.EntityTypeBuyerRequirement:
		return utils.ErrRequirementNotFound
	case models.EntityTypeDeal:
		return utils.ErrDealNotFound
	}
	return utils.ErrUnknownEntityType
}

/*
UnifiedTimeline flattens a resolved graph into one dated history:
registrations, listing, sharing, every offer transition, purchase
cycle milestones, deal creation and stage completions, oldest first.
*/
func (s *GraphService) UnifiedTimeline(ctx context.Context, entityType models.EntityType, entityID, userID uuid.UUID, role models.UserRole) ([]models.TimelineEvent, error) {
	graph, err := s.ResolveGraph(ctx, entityType, entityID, userID, role)
	if err != nil {
		return nil, err
	}

	events := make([]models.TimelineEvent, 0, 16)

	if p := graph.Property; p != nil {
		events = append(events, models.TimelineEvent{
			OccurredAt:  p.CreatedAt,
			Type:        models.TimelineEventPropertyRegistered,
			EntityType:  models.EntityTypeProperty,
			EntityID:    p.ID,
			Description: fmt.Sprintf("Property registered: %s", p.Title),
		})
	}
	if r := graph.Requirement; r != nil {
		events = append(events, models.TimelineEvent{
			OccurredAt:  r.CreatedAt,
			Type:        models.TimelineEventRequirementOpened,
			EntityType:  models.EntityTypeBuyerRequirement,
			EntityID:    r.ID,
			Description: fmt.Sprintf("Buyer requirement opened for %s", r.BuyerName),
		})
	}
	if c := graph.SellCycle; c != nil {
		events = append(events, models.TimelineEvent{
			OccurredAt:  c.ListedAt,
			Type:        models.TimelineEventCycleListed,
			EntityType:  models.EntityTypeSellCycle,
			EntityID:    c.ID,
			Description: fmt.Sprintf("Listed for sale at %.0f", c.AskingPrice),
		})
		if c.Sharing.SharedAt != nil {
			events = append(events, models.TimelineEvent{
				OccurredAt:  *c.Sharing.SharedAt,
				Type:        models.TimelineEventCycleShared,
				EntityType:  models.EntityTypeSellCycle,
				EntityID:    c.ID,
				Description: "Shared with the organization",
			})
		}
		for i := range c.Offers {
			events = append(events, offerEvents(&c.Offers[i])...)
		}
	}
	if pc := graph.PurchaseCycle; pc != nil {
		events = append(events, models.TimelineEvent{
			OccurredAt:  pc.CreatedAt,
			Type:        models.TimelineEventPurchaseOpened,
			EntityType:  models.EntityTypePurchaseCycle,
			EntityID:    pc.ID,
			Description: fmt.Sprintf("Purchase cycle opened for %s", pc.PurchaserName),
		})
		if pc.AcceptedAt != nil {
			events = append(events, models.TimelineEvent{
				OccurredAt:  *pc.AcceptedAt,
				Type:        models.TimelineEventPurchaseAccepted,
				EntityType:  models.EntityTypePurchaseCycle,
				EntityID:    pc.ID,
				Description: "Purchase cycle accepted",
			})
		}
	}
	if d := graph.Deal; d != nil {
		events = append(events, models.TimelineEvent{
			OccurredAt:  d.CreatedAt,
			Type:        models.TimelineEventDealCreated,
			EntityType:  models.EntityTypeDeal,
			EntityID:    d.ID,
			Description: fmt.Sprintf("Deal %s created at %.0f", d.DealNumber, d.Financials.AgreedPrice),
		})
		for _, stage := range d.Stages {
			if stage.CompletedAt == nil {
				continue
			}
			events = append(events, models.TimelineEvent{
				OccurredAt:  *stage.CompletedAt,
				Type:        models.TimelineEventStageCompleted,
				EntityType:  models.EntityTypeDeal,
				EntityID:    d.ID,
				Description: fmt.Sprintf("Deal stage %s completed", stage.Name),
			})
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].OccurredAt.Before(events[j].OccurredAt)
	})
	return events, nil
}

func offerEvents(offer *models.Offer) []models.TimelineEvent {
	out := []models.TimelineEvent{{
		OccurredAt:  offer.SubmittedAt,
		Type:        models.TimelineEventOfferSubmitted,
		EntityType:  models.EntityTypeSellCycle,
		EntityID:    offer.ID,
		Description: fmt.Sprintf("Offer of %.0f submitted by %s", offer.OfferAmount, offer.BuyerName),
	}}

	for _, change := range offer.StatusHistory {
		var etype models.TimelineEventType
		var desc string
		switch change.Status {
		case models.OfferStatusAccepted:
			etype = models.TimelineEventOfferAccepted
			desc = fmt.Sprintf("Offer from %s accepted", offer.BuyerName)
		case models.OfferStatusRejected:
			etype = models.TimelineEventOfferRejected
			desc = fmt.Sprintf("Offer from %s rejected", offer.BuyerName)
		case models.OfferStatusCountered:
			etype = models.TimelineEventOfferCountered
			desc = fmt.Sprintf("Offer from %s countered", offer.BuyerName)
		case models.OfferStatusWithdrawn:
			etype = models.TimelineEventOfferWithdrawn
			desc = fmt.Sprintf("Offer from %s withdrawn", offer.BuyerName)
		default:
			continue
		}
		out = append(out, models.TimelineEvent{
			OccurredAt:  change.ChangedAt,
			Type:        etype,
			EntityType:  models.EntityTypeSellCycle,
			EntityID:    offer.ID,
			Description: desc,
		})
	}
	return out
}
