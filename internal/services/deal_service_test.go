package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/constants"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/models"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/notify"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/utils"
)

func TestAddBusinessDays(t *testing.T) {
	t.Run("weekends are skipped", func(t *testing.T) {
		friday := time.Date(2025, 6, 13, 10, 0, 0, 0, time.UTC)
		require.Equal(t, time.Date(2025, 6, 16, 10, 0, 0, 0, time.UTC), AddBusinessDays(friday, 1))
	})

	t.Run("national holidays are skipped", func(t *testing.T) {
		// 14 August 2025 is a Thursday
		wednesday := time.Date(2025, 8, 13, 10, 0, 0, 0, time.UTC)
		require.Equal(t, time.Date(2025, 8, 15, 10, 0, 0, 0, time.UTC), AddBusinessDays(wednesday, 1))
	})
}

func TestIsBusinessDay(t *testing.T) {
	require.True(t, IsBusinessDay(time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)))
	require.False(t, IsBusinessDay(time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)))  // Saturday
	require.False(t, IsBusinessDay(time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC))) // Quaid-e-Azam Day
	require.False(t, IsBusinessDay(time.Date(2026, 3, 23, 0, 0, 0, 0, time.UTC)))  // Pakistan Day, a Monday
}

func TestNewDealNumber(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		n := NewDealNumber()
		require.True(t, strings.HasPrefix(n, constants.DealNumberPrefix))
		require.Len(t, n, len(constants.DealNumberPrefix)+26)
		require.False(t, seen[n], "deal number %s repeated", n)
		seen[n] = true
	}
}

func TestBuildDealFromAcceptance(t *testing.T) {
	sellerAgent := uuid.New()
	buyerAgent := uuid.New()
	reqID := uuid.New()

	cycle := &models.SellCycle{
		ID:         uuid.New(),
		PropertyID: uuid.New(),
		AgentID:    sellerAgent,
	}
	counter := 53000000.0
	offer := &models.Offer{
		ID:                 uuid.New(),
		OfferAmount:        52000000,
		TokenAmount:        2000000,
		CounterOfferAmount: &counter,
		BuyerAgentID:       &buyerAgent,
		BuyerRequirementID: &reqID,
	}
	pc := &models.PurchaseCycle{ID: uuid.New()}

	acceptedAt := time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC) // a Wednesday
	deal := BuildDealFromAcceptance(cycle, offer, pc, acceptedAt)

	require.Equal(t, cycle.PropertyID, deal.PropertyID)
	require.Equal(t, offer.ID, deal.AcceptedOfferID)
	require.Equal(t, cycle.ID, deal.Cycles.SellCycleID)
	require.Equal(t, pc.ID, *deal.Cycles.PurchaseCycleID)
	require.Equal(t, reqID, *deal.BuyerRequirementID)
	require.Equal(t, models.DealStatusActive, deal.Status)

	// counter wins over the original amount
	require.Equal(t, counter, deal.Financials.AgreedPrice)
	require.Equal(t, float64(2000000), deal.Financials.TokenAmount)

	require.Equal(t, sellerAgent, deal.Agents.PrimaryAgentID)
	require.Equal(t, buyerAgent, *deal.Agents.SecondaryAgentID)

	targets := map[models.DealStageName]time.Time{
		models.DealStageToken:      time.Date(2025, 6, 16, 10, 0, 0, 0, time.UTC),
		models.DealStageAgreement:  time.Date(2025, 6, 25, 10, 0, 0, 0, time.UTC),
		models.DealStageTransfer:   time.Date(2025, 7, 23, 10, 0, 0, 0, time.UTC),
		models.DealStagePossession: time.Date(2025, 8, 13, 10, 0, 0, 0, time.UTC),
	}
	require.Len(t, deal.Stages, len(targets))
	for _, stage := range deal.Stages {
		require.Equal(t, targets[stage.Name], stage.TargetDate, "stage %s", stage.Name)
		require.Nil(t, stage.CompletedAt)
	}
}

func TestBuildDealSingleAgentHasNoSecondary(t *testing.T) {
	agent := uuid.New()
	cycle := &models.SellCycle{ID: uuid.New(), PropertyID: uuid.New(), AgentID: agent}
	offer := &models.Offer{ID: uuid.New(), OfferAmount: 50000000}

	deal := BuildDealFromAcceptance(cycle, offer, nil, time.Now().UTC())

	require.Equal(t, agent, deal.Agents.PrimaryAgentID)
	require.Nil(t, deal.Agents.SecondaryAgentID)
	require.Nil(t, deal.Cycles.PurchaseCycleID)
	require.Nil(t, deal.BuyerRequirementID)
}

func TestCompleteStage(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	fx := runAcceptanceFlow(t, e)
	dealID := fx.result.Deal.ID

	t.Run("outsiders cannot touch the deal", func(t *testing.T) {
		_, err := e.deals.CompleteStage(ctx, dealID, models.DealStageToken, uuid.New(), models.UserRoleAgent)
		require.ErrorIs(t, err, utils.ErrDealNotFound)
	})

	t.Run("unknown stage name", func(t *testing.T) {
		_, err := e.deals.CompleteStage(ctx, dealID, models.DealStageName("ESCROW"), fx.seller, models.UserRoleAgent)
		require.ErrorIs(t, err, utils.ErrInvalidPayload)
	})

	t.Run("completing a stage records who and when", func(t *testing.T) {
		updated, err := e.deals.CompleteStage(ctx, dealID, models.DealStageToken, fx.seller, models.UserRoleAgent)
		require.NoError(t, err)
		require.Equal(t, models.DealStatusActive, updated.Status)

		stage := updated.FindStage(models.DealStageToken)
		require.NotNil(t, stage.CompletedAt)
		require.NotNil(t, stage.CompletedBy)
		require.Equal(t, fx.seller, *stage.CompletedBy)

		// the buyer's agent is told, the actor is not
		notifications, err := e.notifier.ListForAgent(ctx, fx.buyer)
		require.NoError(t, err)
		var staged bool
		for _, n := range notifications {
			if n.Type == notify.TypeStageCompleted {
				staged = true
			}
		}
		require.True(t, staged)
	})

	t.Run("a stage completes once", func(t *testing.T) {
		_, err := e.deals.CompleteStage(ctx, dealID, models.DealStageToken, fx.seller, models.UserRoleAgent)
		require.ErrorIs(t, err, utils.ErrStageComplete)
	})

	t.Run("last stage completes the deal and closes the graph", func(t *testing.T) {
		for _, name := range []models.DealStageName{
			models.DealStageAgreement,
			models.DealStageTransfer,
			models.DealStagePossession,
		} {
			_, err := e.deals.CompleteStage(ctx, dealID, name, fx.seller, models.UserRoleAgent)
			require.NoError(t, err)
		}

		deal, err := e.dealRepo.GetByID(ctx, dealID)
		require.NoError(t, err)
		require.Equal(t, models.DealStatusCompleted, deal.Status)

		cycle, err := e.cycleRepo.GetByID(ctx, fx.cycle.ID)
		require.NoError(t, err)
		require.Equal(t, models.SellCycleStatusSold, cycle.Status)

		pc, err := e.pcRepo.GetByID(ctx, *deal.Cycles.PurchaseCycleID)
		require.NoError(t, err)
		require.Equal(t, models.PurchaseCycleStatusCompleted, pc.Status)

		prop, err := e.propRepo.GetByID(ctx, fx.prop.ID)
		require.NoError(t, err)
		require.Empty(t, prop.ActiveSellCycleIDs)
		require.Empty(t, prop.ActivePurchaseCycleIDs)
		for _, ref := range prop.CycleHistory {
			require.NotNil(t, ref.ClosedAt, "history entry for %s still open", ref.CycleID)
		}
	})

	t.Run("completed deals take no more stage writes", func(t *testing.T) {
		_, err := e.deals.CompleteStage(ctx, dealID, models.DealStageToken, fx.seller, models.UserRoleAgent)
		require.ErrorIs(t, err, utils.ErrWrongStatus)
	})
}

func TestCancelDeal(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	fx := runAcceptanceFlow(t, e)
	dealID := fx.result.Deal.ID

	// the buyer-side agent is on the deal and may cancel it
	cancelled, err := e.deals.CancelDeal(ctx, dealID, fx.buyer, models.UserRoleAgent)
	require.NoError(t, err)
	require.Equal(t, models.DealStatusCancelled, cancelled.Status)

	cycle, err := e.cycleRepo.GetByID(ctx, fx.cycle.ID)
	require.NoError(t, err)
	require.Equal(t, models.SellCycleStatusCancelled, cycle.Status)

	pc, err := e.pcRepo.GetByID(ctx, *cancelled.Cycles.PurchaseCycleID)
	require.NoError(t, err)
	require.Equal(t, models.PurchaseCycleStatusCancelled, pc.Status)

	prop, err := e.propRepo.GetByID(ctx, fx.prop.ID)
	require.NoError(t, err)
	require.Empty(t, prop.ActiveSellCycleIDs)
	require.Empty(t, prop.ActivePurchaseCycleIDs)

	_, err = e.deals.CancelDeal(ctx, dealID, fx.buyer, models.UserRoleAgent)
	require.ErrorIs(t, err, utils.ErrWrongStatus)
}

func TestDealVisibility(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	fx := runAcceptanceFlow(t, e)
	dealID := fx.result.Deal.ID

	for name, agentID := range map[string]uuid.UUID{
		"primary agent":   fx.seller,
		"secondary agent": fx.buyer,
	} {
		deal, err := e.deals.GetDealForUser(ctx, dealID, agentID, models.UserRoleAgent)
		require.NoError(t, err, name)
		require.Equal(t, dealID, deal.ID, name)

		list, err := e.deals.ListDealsForUser(ctx, agentID, models.UserRoleAgent)
		require.NoError(t, err, name)
		require.Len(t, list, 1, name)
	}

	_, err := e.deals.GetDealForUser(ctx, dealID, uuid.New(), models.UserRoleAgent)
	require.ErrorIs(t, err, utils.ErrDealNotFound)

	list, err := e.deals.ListDealsForUser(ctx, uuid.New(), models.UserRoleAgent)
	require.NoError(t, err)
	require.Empty(t, list)

	list, err = e.deals.ListDealsForUser(ctx, uuid.New(), models.UserRoleAdmin)
	require.NoError(t, err)
	require.Len(t, list, 1)
}
