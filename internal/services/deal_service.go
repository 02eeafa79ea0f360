package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/constants"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/models"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/notify"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/repositories"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/utils"
)

type DealService struct {
	dealRepo  repositories.DealRepository
	cycleRepo repositories.SellCycleRepository
	pcRepo    repositories.PurchaseCycleRepository
	propRepo  repositories.PropertyRepository
	notifier  *notify.Service
}

func NewDealService(
	dealRepo repositories.DealRepository,
	cycleRepo repositories.SellCycleRepository,
	pcRepo repositories.PurchaseCycleRepository,
	propRepo repositories.PropertyRepository,
	notifier *notify.Service,
) *DealService {
	return &DealService{
		dealRepo:  dealRepo,
		cycleRepo: cycleRepo,
		pcRepo:    pcRepo,
		propRepo:  propRepo,
		notifier:  notifier,
	}
}

/*
BuildDealFromAcceptance assembles the deal record for an accepted
offer without persisting it. Stage target dates count business days
from acceptance on the national calendar. The purchase cycle is nil
for walk-in buyers with no requirement on file.
*/
func BuildDealFromAcceptance(
	cycle *models.SellCycle,
	offer *models.Offer,
	pc *models.PurchaseCycle,
	acceptedAt time.Time,
) *models.Deal {
	deal := &models.Deal{
		ID:              uuid.New(),
		DealNumber:      NewDealNumber(),
		PropertyID:      cycle.PropertyID,
		AcceptedOfferID: offer.ID,
		Cycles: models.DealCycles{
			SellCycleID: cycle.ID,
		},
		Financials: models.DealFinancials{
			AgreedPrice: offer.AgreedAmount(),
			TokenAmount: offer.TokenAmount,
		},
		Agents: models.DealAgents{
			PrimaryAgentID: cycle.AgentID,
		},
		Status: models.DealStatusActive,
		Stages: []models.DealStage{
			{Name: models.DealStageToken, TargetDate: AddBusinessDays(acceptedAt, constants.StageOffsetToken)},
			{Name: models.DealStageAgreement, TargetDate: AddBusinessDays(acceptedAt, constants.StageOffsetAgreement)},
			{Name: models.DealStageTransfer, TargetDate: AddBusinessDays(acceptedAt, constants.StageOffsetTransfer)},
			{Name: models.DealStagePossession, TargetDate: AddBusinessDays(acceptedAt, constants.StageOffsetPossession)},
		},
	}

	deal.BuyerRequirementID = offer.BuyerRequirementID
	if pc != nil {
		deal.Cycles.PurchaseCycleID = utils.Ptr(pc.ID)
		if deal.BuyerRequirementID == nil {
			deal.BuyerRequirementID = pc.BuyerRequirementID
		}
	}
	if offer.BuyerAgentID != nil && *offer.BuyerAgentID != cycle.AgentID {
		deal.Agents.SecondaryAgentID = offer.BuyerAgentID
	}
	return deal
}

func (s *DealService) GetDealForUser(ctx context.Context, id, userID uuid.UUID, role models.UserRole) (*models.Deal, error) {
	deal, err := s.dealRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canSeeDeal(deal, userID, role) {
		return nil, utils.ErrDealNotFound
	}
	return deal, nil
}

func (s *DealService) ListDealsForUser(ctx context.Context, userID uuid.UUID, role models.UserRole) ([]models.Deal, error) {
	if role == models.UserRoleAdmin {
		return s.dealRepo.ListAll(ctx)
	}
	return s.dealRepo.ListByAgent(ctx, userID)
}

func (s *DealService) canSeeDeal(deal *models.Deal, userID uuid.UUID, role models.UserRole) bool {
	if role == models.UserRoleAdmin {
		return true
	}
	if deal.Agents.PrimaryAgentID == userID {
		return true
	}
	return deal.Agents.SecondaryAgentID != nil && *deal.Agents.SecondaryAgentID == userID
}

/*
CompleteStage marks one closing stage done. Completing the last stage
completes the deal and closes out the rest of the graph: sell cycle to
SOLD, purchase cycle to COMPLETED, property active lists trimmed and
the history entries closed. Those follow-up writes are best-effort;
the completed deal is the record of truth and a failed cycle update
only logs.
*/
func (s *DealService) CompleteStage(ctx context.Context, dealID uuid.UUID, stageName models.DealStageName, userID uuid.UUID, role models.UserRole) (*models.Deal, error) {
	deal, err := s.dealRepo.GetByID(ctx, dealID)
	if err != nil {
		return nil, err
	}
	if !s.canSeeDeal(deal, userID, role) {
		return nil, utils.ErrDealNotFound
	}
	if deal.Status != models.DealStatusActive {
		return nil, utils.ErrWrongStatus
	}
	stage := deal.FindStage(stageName)
	if stage == nil {
		return nil, utils.ErrInvalidPayload
	}
	if stage.CompletedAt != nil {
		return nil, utils.ErrStageComplete
	}

	now := time.Now().UTC()
	updated, err := s.dealRepo.Update(ctx, dealID, func(d *models.Deal) error {
		st := d.FindStage(stageName)
		if st == nil {
			return utils.ErrInvalidPayload
		}
		if st.CompletedAt != nil {
			return utils.ErrStageComplete
		}
		st.CompletedAt = &now
		st.CompletedBy = utils.Ptr(userID)
		if d.AllStagesComplete() {
			d.Status = models.DealStatusCompleted
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if updated.Status == models.DealStatusCompleted {
		s.closeOutCompletedDeal(ctx, updated, now)
	}
	s.notifyStage(ctx, updated, stageName, userID)
	return updated, nil
}

/*
CancelDeal voids an active deal when the sale falls through. The sell
cycle and purchase cycle move to CANCELLED and the property's active
lists are cleaned up the same way completion does it.
*/
func (s *DealService) CancelDeal(ctx context.Context, dealID uuid.UUID, userID uuid.UUID, role models.UserRole) (*models.Deal, error) {
	deal, err := s.dealRepo.GetByID(ctx, dealID)
	if err != nil {
		return nil, err
	}
	if !s.canSeeDeal(deal, userID, role) {
		return nil, utils.ErrDealNotFound
	}
	if deal.Status != models.DealStatusActive {
		return nil, utils.ErrWrongStatus
	}

	updated, err := s.dealRepo.Update(ctx, dealID, func(d *models.Deal) error {
		d.Status = models.DealStatusCancelled
		return nil
	})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if _, err := s.cycleRepo.Update(ctx, updated.Cycles.SellCycleID, func(c *models.SellCycle) error {
		c.Status = models.SellCycleStatusCancelled
		return nil
	}); err != nil {
		utils.Logger.WithError(err).Warnf("deal %s cancelled but sell cycle %s not updated", updated.ID, updated.Cycles.SellCycleID)
	}
	if updated.Cycles.PurchaseCycleID != nil {
		if _, err := s.pcRepo.Update(ctx, *updated.Cycles.PurchaseCycleID, func(pc *models.PurchaseCycle) error {
			pc.Status = models.PurchaseCycleStatusCancelled
			return nil
		}); err != nil {
			utils.Logger.WithError(err).Warnf("deal %s cancelled but purchase cycle %s not updated", updated.ID, *updated.Cycles.PurchaseCycleID)
		}
	}
	s.releaseProperty(ctx, updated, now)

	return updated, nil
}

func (s *DealService) closeOutCompletedDeal(ctx context.Context, deal *models.Deal, now time.Time) {
	if _, err := s.cycleRepo.Update(ctx, deal.Cycles.SellCycleID, func(c *models.SellCycle) error {
		c.Status = models.SellCycleStatusSold
		return nil
	}); err != nil {
		utils.Logger.WithError(err).Warnf("deal %s completed but sell cycle %s not marked sold", deal.ID, deal.Cycles.SellCycleID)
	}
	if deal.Cycles.PurchaseCycleID != nil {
		if _, err := s.pcRepo.Update(ctx, *deal.Cycles.PurchaseCycleID, func(pc *models.PurchaseCycle) error {
			pc.Status = models.PurchaseCycleStatusCompleted
			return nil
		}); err != nil {
			utils.Logger.WithError(err).Warnf("deal %s completed but purchase cycle %s not marked completed", deal.ID, *deal.Cycles.PurchaseCycleID)
		}
	}
	s.releaseProperty(ctx, deal, now)
}

// releaseProperty drops the deal's cycles from the property's active
// lists and stamps their history entries closed.
func (s *DealService) releaseProperty(ctx context.Context, deal *models.Deal, now time.Time) {
	if _, err := s.propRepo.Update(ctx, deal.PropertyID, func(p *models.Property) error {
		p.ActiveSellCycleIDs = removeUUID(p.ActiveSellCycleIDs, deal.Cycles.SellCycleID)
		for i := range p.CycleHistory {
			if p.CycleHistory[i].CycleID == deal.Cycles.SellCycleID && p.CycleHistory[i].ClosedAt == nil {
				p.CycleHistory[i].ClosedAt = &now
			}
		}
		if deal.Cycles.PurchaseCycleID != nil {
			p.ActivePurchaseCycleIDs = removeUUID(p.ActivePurchaseCycleIDs, *deal.Cycles.PurchaseCycleID)
			for i := range p.CycleHistory {
				if p.CycleHistory[i].CycleID == *deal.Cycles.PurchaseCycleID && p.CycleHistory[i].ClosedAt == nil {
					p.CycleHistory[i].ClosedAt = &now
				}
			}
		}
		return nil
	}); err != nil {
		utils.Logger.WithError(err).Warnf("property %s active cycle lists not updated for deal %s", deal.PropertyID, deal.ID)
	}
}

func (s *DealService) notifyStage(ctx context.Context, deal *models.Deal, stageName models.DealStageName, actorID uuid.UUID) {
	if s.notifier == nil {
		return
	}
	recipients := []uuid.UUID{deal.Agents.PrimaryAgentID}
	if deal.Agents.SecondaryAgentID != nil {
		recipients = append(recipients, *deal.Agents.SecondaryAgentID)
	}

	title := fmt.Sprintf("Deal %s: %s stage complete", deal.DealNumber, stageName)
	body := fmt.Sprintf("Stage %s of deal %s was completed.", stageName, deal.DealNumber)
	notifType := notify.TypeStageCompleted
	if deal.Status == models.DealStatusCompleted {
		title = fmt.Sprintf("Deal %s completed", deal.DealNumber)
		body = fmt.Sprintf("All stages of deal %s are complete.", deal.DealNumber)
	}

	for _, agentID := range recipients {
		if agentID == actorID {
			continue
		}
		n := &notify.Notification{
			Type:              notifType,
			RecipientAgentID:  agentID,
			Title:             title,
			Body:              body,
			Priority:          notify.PriorityNormal,
			RelatedEntityType: models.EntityTypeDeal,
			RelatedEntityID:   deal.ID,
			IdempotencyKey:    fmt.Sprintf("deal-stage:%s:%s:%s", deal.ID, stageName, agentID),
		}
		if err := s.notifier.Enqueue(ctx, n); err != nil {
			utils.Logger.WithError(err).Warnf("failed to enqueue stage notification for deal %s", deal.ID)
		}
	}
}
