package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/models"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/notify"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/repositories"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/utils"
)

/*
OfferService runs the cross-agent offer pipeline: submission against
shared cycles, the counter/reject/withdraw transitions, and the
acceptance sequence that turns one offer into a deal.

The store has no transactions. Acceptance therefore orders its writes
so the single fallible primary write lands first, keeps snapshots of
everything it mutates, and compensates on failure: restore the cycle,
restore or delete the purchase cycle, delete the deal. A crash between
steps can still leave the window visible; the rollback covers every
in-process failure.
*/
type OfferService struct {
	cycleRepo repositories.SellCycleRepository
	pcRepo    repositories.PurchaseCycleRepository
	reqRepo   repositories.RequirementRepository
	propRepo  repositories.PropertyRepository
	matchRepo repositories.MatchRepository
	dealRepo  repositories.DealRepository
	notifier  *notify.Service
}

func NewOfferService(
	cycleRepo repositories.SellCycleRepository,
	pcRepo repositories.PurchaseCycleRepository,
	reqRepo repositories.RequirementRepository,
	propRepo repositories.PropertyRepository,
	matchRepo repositories.MatchRepository,
	dealRepo repositories.DealRepository,
	notifier *notify.Service,
) *OfferService {
	return &OfferService{
		cycleRepo: cycleRepo,
		pcRepo:    pcRepo,
		reqRepo:   reqRepo,
		propRepo:  propRepo,
		matchRepo: matchRepo,
		dealRepo:  dealRepo,
		notifier:  notifier,
	}
}

type SubmitOfferInput struct {
	CycleID               uuid.UUID
	BuyerName             string
	BuyerContact          string
	OfferAmount           float64
	TokenAmount           float64
	BuyerRequirementID    *uuid.UUID
	LinkedPurchaseCycleID *uuid.UUID
	MatchID               *uuid.UUID
}

// AcceptanceResult is everything acceptance produced, fully linked.
type AcceptanceResult struct {
	Cycle         *models.SellCycle    `json:"cycle"`
	Offer         *models.Offer        `json:"offer"`
	PurchaseCycle *models.PurchaseCycle `json:"purchase_cycle,omitempty"`
	Deal          *models.Deal         `json:"deal"`
}

/*
SubmitOffer appends a pending offer to a sell cycle. The listing agent
can always take walk-in offers on their own cycle; any other agent
needs the cycle shared to the organization. A first offer moves the
cycle from LISTED to OFFER_RECEIVED.
*/
func (s *OfferService) SubmitOffer(ctx context.Context, userID uuid.UUID, role models.UserRole, in SubmitOfferInput) (*models.Offer, error) {
	cycle, err := s.cycleRepo.GetByID(ctx, in.CycleID)
	if err != nil {
		return nil, err
	}
	if !cycle.IsOpen() {
		return nil, utils.ErrCycleClosed
	}
	if in.OfferAmount <= 0 {
		return nil, utils.ErrInvalidOfferAmount
	}
	if in.TokenAmount < 0 || in.TokenAmount > in.OfferAmount {
		return nil, utils.ErrTokenExceedsOffer
	}
	if strings.TrimSpace(in.BuyerName) == "" {
		return nil, utils.ErrBuyerIdentityMissing
	}

	crossAgent := userID != cycle.AgentID
	if crossAgent && role != models.UserRoleAdmin && !cycle.Sharing.IsShared {
		return nil, utils.NewCycleNotSharedError(cycle.ID)
	}

	if in.BuyerRequirementID != nil {
		req, err := s.reqRepo.GetByID(ctx, *in.BuyerRequirementID)
		if err != nil {
			return nil, err
		}
		if role != models.UserRoleAdmin && req.AgentID != userID {
			return nil, utils.ErrRequirementNotFound
		}
	}
	if in.LinkedPurchaseCycleID != nil {
		pc, err := s.pcRepo.GetByID(ctx, *in.LinkedPurchaseCycleID)
		if err != nil {
			return nil, err
		}
		if pc.PropertyID != cycle.PropertyID {
			return nil, utils.ErrLinkedCycleMismatch
		}
		if role != models.UserRoleAdmin && pc.AgentID != userID {
			return nil, utils.ErrLinkedCycleMismatch
		}
	}

	now := time.Now().UTC()
	offer := models.Offer{
		ID:                    uuid.New(),
		BuyerName:             strings.TrimSpace(in.BuyerName),
		BuyerContact:          strings.TrimSpace(in.BuyerContact),
		OfferAmount:           in.OfferAmount,
		TokenAmount:           in.TokenAmount,
		Status:                models.OfferStatusPending,
		SubmittedByAgentID:    userID,
		BuyerRequirementID:    in.BuyerRequirementID,
		LinkedPurchaseCycleID: in.LinkedPurchaseCycleID,
		MatchID:               in.MatchID,
		SubmittedAt:           now,
	}
	if crossAgent {
		offer.BuyerAgentID = utils.Ptr(userID)
	}
	offer.StatusHistory = []models.OfferStatusChange{{
		Status:    models.OfferStatusPending,
		ChangedAt: now,
		ChangedBy: userID,
		Note:      "submitted",
	}}

	updated, err := s.cycleRepo.Update(ctx, cycle.ID, func(c *models.SellCycle) error {
		if !c.IsOpen() {
			return utils.ErrCycleClosed
		}
		c.Offers = append(c.Offers, offer)
		if c.Status == models.SellCycleStatusListed {
			c.Status = models.SellCycleStatusOfferReceived
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Everything past the cycle write is best-effort.
	s.markMatchStatus(ctx, in.MatchID, cycle.ID, models.MatchStatusOfferSubmitted)
	if in.LinkedPurchaseCycleID != nil {
		if _, err := s.pcRepo.Update(ctx, *in.LinkedPurchaseCycleID, func(pc *models.PurchaseCycle) error {
			pc.Status = models.PurchaseCycleStatusOfferSubmitted
			pc.OfferedAt = utils.Ptr(now)
			return nil
		}); err != nil {
			utils.Logger.WithError(err).Warnf("offer %s submitted but purchase cycle %s not marked", offer.ID, *in.LinkedPurchaseCycleID)
		}
	}
	s.enqueue(ctx, &notify.Notification{
		Type:              notify.TypeOfferReceived,
		RecipientAgentID:  cycle.AgentID,
		Title:             "New offer received",
		Body:              fmt.Sprintf("An offer of %.0f was submitted on your listing by %s.", offer.OfferAmount, offer.BuyerName),
		Priority:          notify.PriorityNormal,
		RelatedEntityType: models.EntityTypeSellCycle,
		RelatedEntityID:   cycle.ID,
		IdempotencyKey:    "offer-submitted:" + offer.ID.String(),
	})

	return updated.FindOffer(offer.ID), nil
}

// CounterOffer is the listing agent's reply with a different price.
// The offer stays live at COUNTERED and the cycle enters NEGOTIATION.
func (s *OfferService) CounterOffer(ctx context.Context, userID uuid.UUID, role models.UserRole, cycleID, offerID uuid.UUID, counterAmount float64) (*models.Offer, error) {
	cycle, err := s.cycleRepo.GetByID(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	if role != models.UserRoleAdmin && cycle.AgentID != userID {
		return nil, utils.ErrNotCycleOwner
	}
	if counterAmount <= 0 {
		return nil, utils.ErrInvalidOfferAmount
	}

	now := time.Now().UTC()
	updated, err := s.cycleRepo.Update(ctx, cycleID, func(c *models.SellCycle) error {
		offer := c.FindOffer(offerID)
		if offer == nil {
			return utils.ErrOfferNotFound
		}
		if offer.Status != models.OfferStatusPending {
			return utils.ErrWrongStatus
		}
		offer.CounterOfferAmount = utils.Ptr(counterAmount)
		offer.PushStatus(models.OfferStatusCountered, userID, now, fmt.Sprintf("countered at %.0f", counterAmount))
		c.Status = models.SellCycleStatusNegotiation
		return nil
	})
	if err != nil {
		return nil, err
	}

	offer := updated.FindOffer(offerID)
	s.notifyBuyerSide(ctx, offer, notify.TypeOfferCountered, "Offer countered",
		fmt.Sprintf("The listing agent countered at %.0f.", counterAmount), cycle.ID)
	return offer, nil
}

// RejectOffer declines a live offer. Other offers and the cycle status
// are untouched.
func (s *OfferService) RejectOffer(ctx context.Context, userID uuid.UUID, role models.UserRole, cycleID, offerID uuid.UUID, reason string) (*models.Offer, error) {
	cycle, err := s.cycleRepo.GetByID(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	if role != models.UserRoleAdmin && cycle.AgentID != userID {
		return nil, utils.ErrNotCycleOwner
	}

	now := time.Now().UTC()
	updated, err := s.cycleRepo.Update(ctx, cycleID, func(c *models.SellCycle) error {
		offer := c.FindOffer(offerID)
		if offer == nil {
			return utils.ErrOfferNotFound
		}
		if offer.IsTerminal() {
			return utils.ErrWrongStatus
		}
		offer.RejectionReason = reason
		offer.DecidedAt = utils.Ptr(now)
		offer.PushStatus(models.OfferStatusRejected, userID, now, reason)
		return nil
	})
	if err != nil {
		return nil, err
	}

	offer := updated.FindOffer(offerID)
	s.notifyBuyerSide(ctx, offer, notify.TypeOfferRejected, "Offer rejected",
		"Your offer was declined by the listing agent.", cycle.ID)
	return offer, nil
}

// WithdrawOffer lets the submitting agent pull a live offer back.
func (s *OfferService) WithdrawOffer(ctx context.Context, userID uuid.UUID, role models.UserRole, cycleID, offerID uuid.UUID, reason string) (*models.Offer, error) {
	cycle, err := s.cycleRepo.GetByID(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	target := cycle.FindOffer(offerID)
	if target == nil {
		return nil, utils.ErrOfferNotFound
	}
	if role != models.UserRoleAdmin && target.SubmittedByAgentID != userID {
		return nil, utils.ErrNotOfferOwner
	}

	now := time.Now().UTC()
	updated, err := s.cycleRepo.Update(ctx, cycleID, func(c *models.SellCycle) error {
		offer := c.FindOffer(offerID)
		if offer == nil {
			return utils.ErrOfferNotFound
		}
		if offer.IsTerminal() {
			return utils.ErrWrongStatus
		}
		offer.WithdrawalReason = reason
		offer.DecidedAt = utils.Ptr(now)
		offer.PushStatus(models.OfferStatusWithdrawn, userID, now, reason)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.enqueue(ctx, &notify.Notification{
		Type:              notify.TypeOfferWithdrawn,
		RecipientAgentID:  cycle.AgentID,
		Title:             "Offer withdrawn",
		Body:              fmt.Sprintf("The offer from %s was withdrawn.", target.BuyerName),
		Priority:          notify.PriorityNormal,
		RelatedEntityType: models.EntityTypeSellCycle,
		RelatedEntityID:   cycle.ID,
		IdempotencyKey:    "offer-withdrawn:" + offerID.String(),
	})
	return updated.FindOffer(offerID), nil
}

/*
AcceptOffer runs the acceptance sequence:

 1. accept the offer, auto-reject every other live offer, move the
    cycle to UNDER_CONTRACT
 2. resolve the buyer side: reuse the offer's linked purchase cycle,
    else find-or-create one for (requirement, property), else none
 3. create the deal, exactly once per accepted offer
 4. write the cross-links both ways
 5. enqueue notifications and refresh requirement/match statuses,
    best-effort

A failure in steps 2-4 rolls back what was already written and
returns AcceptanceRollbackError. Step 5 never fails the acceptance.
*/
func (s *OfferService) AcceptOffer(ctx context.Context, userID uuid.UUID, role models.UserRole, cycleID, offerID uuid.UUID) (*AcceptanceResult, error) {
	cycle, err := s.cycleRepo.GetByID(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	if role != models.UserRoleAdmin && cycle.AgentID != userID {
		return nil, utils.ErrNotCycleOwner
	}
	if !cycle.IsOpen() {
		return nil, utils.ErrCycleClosed
	}
	target := cycle.FindOffer(offerID)
	if target == nil {
		return nil, utils.ErrOfferNotFound
	}
	if target.IsTerminal() {
		return nil, utils.ErrWrongStatus
	}

	snapshot := deepCopy(cycle)
	now := time.Now().UTC()

	// Step 1: single-winner write on the cycle.
	updatedCycle, err := s.cycleRepo.Update(ctx, cycleID, func(c *models.SellCycle) error {
		offer := c.FindOffer(offerID)
		if offer == nil {
			return utils.ErrOfferNotFound
		}
		if offer.IsTerminal() {
			return utils.ErrWrongStatus
		}
		offer.DecidedAt = utils.Ptr(now)
		offer.PushStatus(models.OfferStatusAccepted, userID, now, "accepted")
		for i := range c.Offers {
			sibling := &c.Offers[i]
			if sibling.ID == offerID || sibling.IsTerminal() {
				continue
			}
			sibling.RejectionReason = "another offer was accepted"
			sibling.DecidedAt = utils.Ptr(now)
			sibling.PushStatus(models.OfferStatusRejected, userID, now, "another offer was accepted")
		}
		c.AcceptedOfferID = utils.Ptr(offerID)
		c.Status = models.SellCycleStatusUnderContract
		return nil
	})
	if err != nil {
		return nil, err
	}
	accepted := updatedCycle.FindOffer(offerID)

	// Step 2: buyer side.
	pc, pcSnapshot, createdPC, err := s.resolvePurchaseCycle(ctx, updatedCycle, accepted, now)
	if err != nil {
		s.compensate(ctx, snapshot, nil, nil, nil)
		return nil, utils.NewAcceptanceRollbackError("purchase cycle resolution", err)
	}

	// Step 3: the deal.
	deal := BuildDealFromAcceptance(updatedCycle, accepted, pc, now)
	createdDeal, err := s.dealRepo.Create(ctx, deal)
	if err != nil {
		s.compensate(ctx, snapshot, pcSnapshot, createdPCOrNil(createdPC, pc), nil)
		return nil, utils.NewAcceptanceRollbackError("deal creation", err)
	}

	// Step 4: cross-links.
	finalCycle, err := s.cycleRepo.Update(ctx, cycleID, func(c *models.SellCycle) error {
		c.LinkedDealID = utils.Ptr(createdDeal.ID)
		if pc != nil {
			c.WinningPurchaseCycleID = utils.Ptr(pc.ID)
			if offer := c.FindOffer(offerID); offer != nil {
				offer.LinkedPurchaseCycleID = utils.Ptr(pc.ID)
			}
		}
		return nil
	})
	if err != nil {
		s.compensate(ctx, snapshot, pcSnapshot, createdPCOrNil(createdPC, pc), utils.Ptr(createdDeal.ID))
		return nil, utils.NewAcceptanceRollbackError("cross-linking", err)
	}
	if pc != nil {
		linkedPC, err := s.pcRepo.Update(ctx, pc.ID, func(p *models.PurchaseCycle) error {
			p.CreatedDealID = utils.Ptr(createdDeal.ID)
			return nil
		})
		if err != nil {
			s.compensate(ctx, snapshot, pcSnapshot, createdPCOrNil(createdPC, pc), utils.Ptr(createdDeal.ID))
			return nil, utils.NewAcceptanceRollbackError("cross-linking", err)
		}
		pc = linkedPC
	}

	// Step 5: best-effort tail.
	s.afterAcceptance(ctx, finalCycle, finalCycle.FindOffer(offerID), pc, createdDeal, createdPC, now)

	return &AcceptanceResult{
		Cycle:         finalCycle,
		Offer:         finalCycle.FindOffer(offerID),
		PurchaseCycle: pc,
		Deal:          createdDeal,
	}, nil
}

/*
OpenPurchaseCycle starts the buyer side ahead of any offer, so the
agent can track a pursuit. One cycle per (requirement, property):
reopening the same pair returns the existing cycle unchanged.
*/
func (s *OfferService) OpenPurchaseCycle(ctx context.Context, userID uuid.UUID, role models.UserRole, requirementID, propertyID uuid.UUID) (*models.PurchaseCycle, error) {
	req, err := s.reqRepo.GetByID(ctx, requirementID)
	if err != nil {
		return nil, err
	}
	if role != models.UserRoleAdmin && req.AgentID != userID {
		return nil, utils.ErrRequirementNotFound
	}
	if req.Status != models.RequirementStatusActive {
		return nil, utils.ErrRequirementInactive
	}
	prop, err := s.propRepo.GetByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	existing, err := s.pcRepo.FindByRequirementAndProperty(ctx, requirementID, propertyID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	pc, err := s.pcRepo.Create(ctx, &models.PurchaseCycle{
		PropertyID:         prop.ID,
		AgentID:            req.AgentID,
		BuyerRequirementID: utils.Ptr(req.ID),
		PurchaserName:      req.BuyerName,
		PurchaserType:      models.PurchaserTypeIndividual,
		Status:             models.PurchaseCycleStatusActive,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if _, err := s.propRepo.Update(ctx, prop.ID, func(p *models.Property) error {
		p.ActivePurchaseCycleIDs = append(p.ActivePurchaseCycleIDs, pc.ID)
		p.CycleHistory = append(p.CycleHistory, models.CycleRef{
			CycleID:  pc.ID,
			Type:     models.CycleTypePurchase,
			OpenedAt: now,
		})
		return nil
	}); err != nil {
		utils.Logger.WithError(err).Warnf("property %s not updated with purchase cycle %s", prop.ID, pc.ID)
	}
	return pc, nil
}

/*
resolvePurchaseCycle picks the buyer-side cycle by precedence: the
offer's explicit link wins, then the unique cycle for (requirement,
property) if one exists, then a lazily created one, and a walk-in
offer with neither resolves to none. The returned snapshot is the
pre-mutation state of a reused cycle, for rollback.
*/
func (s *OfferService) resolvePurchaseCycle(ctx context.Context, cycle *models.SellCycle, offer *models.Offer, now time.Time) (pc *models.PurchaseCycle, pcSnapshot *models.PurchaseCycle, created bool, err error) {
	agreed := offer.AgreedAmount()

	markAccepted := func(id uuid.UUID) (*models.PurchaseCycle, error) {
		return s.pcRepo.Update(ctx, id, func(p *models.PurchaseCycle) error {
			p.Status = models.PurchaseCycleStatusAccepted
			p.SellCycleID = utils.Ptr(cycle.ID)
			p.NegotiatedPrice = utils.Ptr(agreed)
			p.AcceptedAt = utils.Ptr(now)
			if p.OfferedAt == nil {
				p.OfferedAt = utils.Ptr(offer.SubmittedAt)
			}
			return nil
		})
	}

	// Explicit link on the offer.
	if offer.LinkedPurchaseCycleID != nil {
		existing, err := s.pcRepo.GetByID(ctx, *offer.LinkedPurchaseCycleID)
		if err != nil {
			return nil, nil, false, err
		}
		if existing.PropertyID != cycle.PropertyID {
			return nil, nil, false, utils.ErrLinkedCycleMismatch
		}
		pcSnapshot = deepCopy(existing)
		updated, err := markAccepted(existing.ID)
		if err != nil {
			return nil, nil, false, err
		}
		return updated, pcSnapshot, false, nil
	}

	// Requirement-driven: find or lazily create the pair's cycle.
	if offer.BuyerRequirementID != nil {
		req, err := s.reqRepo.GetByID(ctx, *offer.BuyerRequirementID)
		if err != nil {
			return nil, nil, false, err
		}

		existing, err := s.pcRepo.FindByRequirementAndProperty(ctx, req.ID, cycle.PropertyID)
		if err != nil {
			return nil, nil, false, err
		}
		if existing != nil {
			pcSnapshot = deepCopy(existing)
			updated, err := markAccepted(existing.ID)
			if err != nil {
				return nil, nil, false, err
			}
			return updated, pcSnapshot, false, nil
		}

		purchaserName := req.BuyerName
		if purchaserName == "" {
			purchaserName = offer.BuyerName
		}
		agentID := req.AgentID
		if offer.BuyerAgentID != nil {
			agentID = *offer.BuyerAgentID
		}
		fresh, err := s.pcRepo.Create(ctx, &models.PurchaseCycle{
			PropertyID:         cycle.PropertyID,
			AgentID:            agentID,
			BuyerRequirementID: utils.Ptr(req.ID),
			SellCycleID:        utils.Ptr(cycle.ID),
			PurchaserName:      purchaserName,
			PurchaserType:      models.PurchaserTypeIndividual,
			Status:             models.PurchaseCycleStatusAccepted,
			NegotiatedPrice:    utils.Ptr(agreed),
			OfferedAt:          utils.Ptr(offer.SubmittedAt),
			AcceptedAt:         utils.Ptr(now),
		})
		if err != nil {
			return nil, nil, false, err
		}
		return fresh, nil, true, nil
	}

	// Walk-in: single-cycle deal.
	return nil, nil, false, nil
}

// compensate undoes acceptance writes in reverse order. Failures here
// are logged loudly; there is nothing further to fall back to.
func (s *OfferService) compensate(ctx context.Context, cycleSnapshot *models.SellCycle, pcSnapshot *models.PurchaseCycle, createdPC *models.PurchaseCycle, dealID *uuid.UUID) {
	if dealID != nil {
		if err := s.dealRepo.Delete(ctx, *dealID); err != nil {
			utils.Logger.WithError(err).Errorf("rollback: deal %s not deleted, manual cleanup required", *dealID)
		}
	}
	if createdPC != nil {
		if err := s.pcRepo.Delete(ctx, createdPC.ID); err != nil {
			utils.Logger.WithError(err).Errorf("rollback: purchase cycle %s not deleted, manual cleanup required", createdPC.ID)
		}
	}
	if pcSnapshot != nil {
		if _, err := s.pcRepo.Update(ctx, pcSnapshot.ID, func(p *models.PurchaseCycle) error {
			*p = *pcSnapshot
			return nil
		}); err != nil {
			utils.Logger.WithError(err).Errorf("rollback: purchase cycle %s not restored, manual cleanup required", pcSnapshot.ID)
		}
	}
	if cycleSnapshot != nil {
		if err := s.cycleRepo.Replace(ctx, cycleSnapshot); err != nil {
			utils.Logger.WithError(err).Errorf("rollback: sell cycle %s not restored, manual cleanup required", cycleSnapshot.ID)
		}
	}
}

func createdPCOrNil(created bool, pc *models.PurchaseCycle) *models.PurchaseCycle {
	if created {
		return pc
	}
	return nil
}

// afterAcceptance is step 5: denormalized lists, lifecycle statuses on
// the requirement and match, and the two notifications. All of it is
// log-and-continue.
func (s *OfferService) afterAcceptance(ctx context.Context, cycle *models.SellCycle, offer *models.Offer, pc *models.PurchaseCycle, deal *models.Deal, pcWasCreated bool, now time.Time) {
	if pcWasCreated && pc != nil {
		if _, err := s.propRepo.Update(ctx, cycle.PropertyID, func(p *models.Property) error {
			if !containsUUID(p.ActivePurchaseCycleIDs, pc.ID) {
				p.ActivePurchaseCycleIDs = append(p.ActivePurchaseCycleIDs, pc.ID)
				p.CycleHistory = append(p.CycleHistory, models.CycleRef{
					CycleID:  pc.ID,
					Type:     models.CycleTypePurchase,
					OpenedAt: now,
				})
			}
			return nil
		}); err != nil {
			utils.Logger.WithError(err).Warnf("property %s not updated with purchase cycle %s", cycle.PropertyID, pc.ID)
		}
	}

	if offer.BuyerRequirementID != nil {
		if _, err := s.reqRepo.Update(ctx, *offer.BuyerRequirementID, func(r *models.BuyerRequirement) error {
			r.Status = models.RequirementStatusMatched
			return nil
		}); err != nil {
			utils.Logger.WithError(err).Warnf("requirement %s not marked matched after acceptance", *offer.BuyerRequirementID)
		}
	}

	s.markMatchStatus(ctx, offer.MatchID, cycle.ID, models.MatchStatusAccepted)

	s.enqueue(ctx, &notify.Notification{
		Type:              notify.TypeOfferAccepted,
		RecipientAgentID:  cycle.AgentID,
		Title:             fmt.Sprintf("Deal %s created", deal.DealNumber),
		Body:              fmt.Sprintf("Offer from %s accepted at %.0f. Deal %s is now active.", offer.BuyerName, deal.Financials.AgreedPrice, deal.DealNumber),
		Priority:          notify.PriorityHigh,
		RelatedEntityType: models.EntityTypeDeal,
		RelatedEntityID:   deal.ID,
		IdempotencyKey:    fmt.Sprintf("deal-created:%s:%s", deal.ID, cycle.AgentID),
	})
	if offer.BuyerAgentID != nil && *offer.BuyerAgentID != cycle.AgentID {
		s.enqueue(ctx, &notify.Notification{
			Type:              notify.TypeOfferAccepted,
			RecipientAgentID:  *offer.BuyerAgentID,
			Title:             fmt.Sprintf("Your offer was accepted - deal %s", deal.DealNumber),
			Body:              fmt.Sprintf("The offer for %s was accepted at %.0f.", offer.BuyerName, deal.Financials.AgreedPrice),
			Priority:          notify.PriorityHigh,
			RelatedEntityType: models.EntityTypeDeal,
			RelatedEntityID:   deal.ID,
			IdempotencyKey:    fmt.Sprintf("deal-created:%s:%s", deal.ID, *offer.BuyerAgentID),
		})
	}
}

// markMatchStatus refreshes the originating match record when an offer
// references one. Mismatched or missing matches only log.
func (s *OfferService) markMatchStatus(ctx context.Context, matchID *uuid.UUID, cycleID uuid.UUID, status models.MatchStatus) {
	if matchID == nil {
		return
	}
	match, err := s.matchRepo.GetByID(ctx, *matchID)
	if err != nil {
		utils.Logger.WithError(err).Warnf("match %s not found for status update", *matchID)
		return
	}
	if match.CycleID != cycleID {
		utils.Logger.Warnf("match %s belongs to cycle %s, not %s; skipping status update", *matchID, match.CycleID, cycleID)
		return
	}
	if _, err := s.matchRepo.Update(ctx, *matchID, func(m *models.PropertyMatch) error {
		m.Status = status
		return nil
	}); err != nil {
		utils.Logger.WithError(err).Warnf("match %s status not updated", *matchID)
	}
}

func (s *OfferService) notifyBuyerSide(ctx context.Context, offer *models.Offer, ntype notify.Type, title, body string, cycleID uuid.UUID) {
	if offer == nil {
		return
	}
	recipient := offer.SubmittedByAgentID
	if offer.BuyerAgentID != nil {
		recipient = *offer.BuyerAgentID
	}
	s.enqueue(ctx, &notify.Notification{
		Type:              ntype,
		RecipientAgentID:  recipient,
		Title:             title,
		Body:              body,
		Priority:          notify.PriorityNormal,
		RelatedEntityType: models.EntityTypeSellCycle,
		RelatedEntityID:   cycleID,
		IdempotencyKey:    fmt.Sprintf("%s:%s:%d", ntype, offer.ID, len(offer.StatusHistory)),
	})
}

func (s *OfferService) enqueue(ctx context.Context, n *notify.Notification) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Enqueue(ctx, n); err != nil {
		utils.Logger.WithError(err).Warnf("failed to enqueue %s notification", n.Type)
	}
}
