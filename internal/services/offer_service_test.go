package services

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/constants"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/kvstore"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/models"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/notify"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/utils"
)

func submitBuyerOffer(t *testing.T, e *env, cycleID uuid.UUID, buyerAgent uuid.UUID, in SubmitOfferInput) *models.Offer {
	t.Helper()
	in.CycleID = cycleID
	if in.BuyerName == "" {
		in.BuyerName = "Ahmed Raza"
	}
	offer, err := e.offers.SubmitOffer(context.Background(), buyerAgent, models.UserRoleAgent, in)
	require.NoError(t, err)
	return offer
}

func TestSubmitOfferValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	seller := uuid.New()
	buyer := uuid.New()
	_, cycle := listSharedHouse(t, e, seller)

	t.Run("zero amount", func(t *testing.T) {
		_, err := e.offers.SubmitOffer(ctx, buyer, models.UserRoleAgent, SubmitOfferInput{
			CycleID:   cycle.ID,
			BuyerName: "Ahmed Raza",
		})
		require.ErrorIs(t, err, utils.ErrInvalidOfferAmount)
	})

	t.Run("token above offer", func(t *testing.T) {
		_, err := e.offers.SubmitOffer(ctx, buyer, models.UserRoleAgent, SubmitOfferInput{
			CycleID:     cycle.ID,
			BuyerName:   "Ahmed Raza",
			OfferAmount: 50000000,
			TokenAmount: 50000001,
		})
		require.ErrorIs(t, err, utils.ErrTokenExceedsOffer)
	})

	t.Run("blank buyer name", func(t *testing.T) {
		_, err := e.offers.SubmitOffer(ctx, buyer, models.UserRoleAgent, SubmitOfferInput{
			CycleID:     cycle.ID,
			BuyerName:   "   ",
			OfferAmount: 50000000,
		})
		require.ErrorIs(t, err, utils.ErrBuyerIdentityMissing)
	})

	t.Run("cancelled cycle takes nothing", func(t *testing.T) {
		_, err := e.listing.CancelSellCycle(ctx, seller, models.UserRoleAgent, cycle.ID)
		require.NoError(t, err)

		_, err = e.offers.SubmitOffer(ctx, buyer, models.UserRoleAgent, SubmitOfferInput{
			CycleID:     cycle.ID,
			BuyerName:   "Ahmed Raza",
			OfferAmount: 50000000,
		})
		require.ErrorIs(t, err, utils.ErrCycleClosed)
	})
}

func TestSubmitOfferCrossAgentRequiresSharing(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	seller := uuid.New()
	buyer := uuid.New()

	prop, err := e.propRepo.Create(ctx, dhaHouse(seller))
	require.NoError(t, err)
	cycle, err := e.listing.OpenSellCycle(ctx, seller, models.UserRoleAgent, OpenSellCycleInput{
		PropertyID:  prop.ID,
		AskingPrice: prop.Price,
		Share:       false,
	})
	require.NoError(t, err)

	_, err = e.offers.SubmitOffer(ctx, buyer, models.UserRoleAgent, SubmitOfferInput{
		CycleID:     cycle.ID,
		BuyerName:   "Ahmed Raza",
		OfferAmount: 52000000,
	})
	var notShared *utils.CycleNotSharedError
	require.ErrorAs(t, err, &notShared)
	require.Equal(t, cycle.ID, notShared.CycleID)

	// nothing may have been appended
	reloaded, err := e.cycleRepo.GetByID(ctx, cycle.ID)
	require.NoError(t, err)
	require.Empty(t, reloaded.Offers)

	// the listing agent can still take a walk-in on their own cycle
	offer, err := e.offers.SubmitOffer(ctx, seller, models.UserRoleAgent, SubmitOfferInput{
		CycleID:     cycle.ID,
		BuyerName:   "Walk-in buyer",
		OfferAmount: 53000000,
	})
	require.NoError(t, err)
	require.Nil(t, offer.BuyerAgentID)

	// and admins bypass sharing entirely
	_, err = e.offers.SubmitOffer(ctx, uuid.New(), models.UserRoleAdmin, SubmitOfferInput{
		CycleID:     cycle.ID,
		BuyerName:   "Backoffice entry",
		OfferAmount: 54000000,
	})
	require.NoError(t, err)
}

func TestSubmitOfferRecordsPendingOffer(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	seller := uuid.New()
	buyer := uuid.New()
	_, cycle := listSharedHouse(t, e, seller)

	offer := submitBuyerOffer(t, e, cycle.ID, buyer, SubmitOfferInput{
		OfferAmount: 52000000,
		TokenAmount: 1000000,
	})

	require.Equal(t, models.OfferStatusPending, offer.Status)
	require.Equal(t, buyer, offer.SubmittedByAgentID)
	require.NotNil(t, offer.BuyerAgentID)
	require.Equal(t, buyer, *offer.BuyerAgentID)
	require.Len(t, offer.StatusHistory, 1)
	require.Equal(t, models.OfferStatusPending, offer.StatusHistory[0].Status)

	reloaded, err := e.cycleRepo.GetByID(ctx, cycle.ID)
	require.NoError(t, err)
	require.Equal(t, models.SellCycleStatusOfferReceived, reloaded.Status)
	require.Len(t, reloaded.Offers, 1)

	// the listing agent is told
	notifications, err := e.notifier.ListForAgent(ctx, seller)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	require.Equal(t, notify.TypeOfferReceived, notifications[0].Type)
}

func TestSubmitOfferChecksLinkedEntities(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	seller := uuid.New()
	buyer := uuid.New()
	_, cycle := listSharedHouse(t, e, seller)

	t.Run("someone else's requirement", func(t *testing.T) {
		other := createBuyer(t, e, uuid.New())
		_, err := e.offers.SubmitOffer(ctx, buyer, models.UserRoleAgent, SubmitOfferInput{
			CycleID:            cycle.ID,
			BuyerName:          "Ahmed Raza",
			OfferAmount:        52000000,
			BuyerRequirementID: &other.ID,
		})
		require.ErrorIs(t, err, utils.ErrRequirementNotFound)
	})

	t.Run("purchase cycle for a different property", func(t *testing.T) {
		req := createBuyer(t, e, buyer)
		otherProp, err := e.propRepo.Create(ctx, gulbergFlat(uuid.New()))
		require.NoError(t, err)
		pc, err := e.offers.OpenPurchaseCycle(ctx, buyer, models.UserRoleAgent, req.ID, otherProp.ID)
		require.NoError(t, err)

		_, err = e.offers.SubmitOffer(ctx, buyer, models.UserRoleAgent, SubmitOfferInput{
			CycleID:               cycle.ID,
			BuyerName:             "Ahmed Raza",
			OfferAmount:           52000000,
			LinkedPurchaseCycleID: &pc.ID,
		})
		require.ErrorIs(t, err, utils.ErrLinkedCycleMismatch)
	})
}

func TestCounterOffer(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	seller := uuid.New()
	buyer := uuid.New()
	_, cycle := listSharedHouse(t, e, seller)
	offer := submitBuyerOffer(t, e, cycle.ID, buyer, SubmitOfferInput{OfferAmount: 50000000})

	t.Run("only the listing agent may counter", func(t *testing.T) {
		_, err := e.offers.CounterOffer(ctx, buyer, models.UserRoleAgent, cycle.ID, offer.ID, 54000000)
		require.ErrorIs(t, err, utils.ErrNotCycleOwner)
	})

	t.Run("counter moves offer and cycle into negotiation", func(t *testing.T) {
		countered, err := e.offers.CounterOffer(ctx, seller, models.UserRoleAgent, cycle.ID, offer.ID, 54000000)
		require.NoError(t, err)
		require.Equal(t, models.OfferStatusCountered, countered.Status)
		require.NotNil(t, countered.CounterOfferAmount)
		require.Equal(t, float64(54000000), *countered.CounterOfferAmount)
		require.Equal(t, float64(54000000), countered.AgreedAmount())
		require.False(t, countered.IsTerminal())

		reloaded, err := e.cycleRepo.GetByID(ctx, cycle.ID)
		require.NoError(t, err)
		require.Equal(t, models.SellCycleStatusNegotiation, reloaded.Status)

		// buyer side hears about the counter
		notifications, err := e.notifier.ListForAgent(ctx, buyer)
		require.NoError(t, err)
		var seen bool
		for _, n := range notifications {
			if n.Type == notify.TypeOfferCountered {
				seen = true
			}
		}
		require.True(t, seen)
	})

	t.Run("only pending offers can be countered", func(t *testing.T) {
		_, err := e.offers.CounterOffer(ctx, seller, models.UserRoleAgent, cycle.ID, offer.ID, 53000000)
		require.ErrorIs(t, err, utils.ErrWrongStatus)
	})
}

func TestRejectOffer(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	seller := uuid.New()
	_, cycle := listSharedHouse(t, e, seller)
	offer := submitBuyerOffer(t, e, cycle.ID, uuid.New(), SubmitOfferInput{OfferAmount: 48000000})

	rejected, err := e.offers.RejectOffer(ctx, seller, models.UserRoleAgent, cycle.ID, offer.ID, "too low")
	require.NoError(t, err)
	require.Equal(t, models.OfferStatusRejected, rejected.Status)
	require.Equal(t, "too low", rejected.RejectionReason)
	require.NotNil(t, rejected.DecidedAt)
	require.True(t, rejected.IsTerminal())

	_, err = e.offers.RejectOffer(ctx, seller, models.UserRoleAgent, cycle.ID, offer.ID, "again")
	require.ErrorIs(t, err, utils.ErrWrongStatus)
}

func TestWithdrawOffer(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	seller := uuid.New()
	buyer := uuid.New()
	_, cycle := listSharedHouse(t, e, seller)
	offer := submitBuyerOffer(t, e, cycle.ID, buyer, SubmitOfferInput{OfferAmount: 51000000})

	t.Run("only the submitter may withdraw", func(t *testing.T) {
		_, err := e.offers.WithdrawOffer(ctx, seller, models.UserRoleAgent, cycle.ID, offer.ID, "changed mind")
		require.ErrorIs(t, err, utils.ErrNotOfferOwner)
	})

	t.Run("withdrawal is terminal", func(t *testing.T) {
		withdrawn, err := e.offers.WithdrawOffer(ctx, buyer, models.UserRoleAgent, cycle.ID, offer.ID, "found another house")
		require.NoError(t, err)
		require.Equal(t, models.OfferStatusWithdrawn, withdrawn.Status)
		require.Equal(t, "found another house", withdrawn.WithdrawalReason)

		_, err = e.offers.WithdrawOffer(ctx, buyer, models.UserRoleAgent, cycle.ID, offer.ID, "twice")
		require.ErrorIs(t, err, utils.ErrWrongStatus)
	})
}

func TestAcceptWalkInOffer(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	seller := uuid.New()
	_, cycle := listSharedHouse(t, e, seller)

	// seller records a walk-in buyer: no requirement, no purchase cycle
	offer, err := e.offers.SubmitOffer(ctx, seller, models.UserRoleAgent, SubmitOfferInput{
		CycleID:     cycle.ID,
		BuyerName:   "Walk-in buyer",
		OfferAmount: 54000000,
		TokenAmount: 2000000,
	})
	require.NoError(t, err)

	result, err := e.offers.AcceptOffer(ctx, seller, models.UserRoleAgent, cycle.ID, offer.ID)
	require.NoError(t, err)

	require.Nil(t, result.PurchaseCycle)
	require.Equal(t, models.OfferStatusAccepted, result.Offer.Status)
	require.Equal(t, models.SellCycleStatusUnderContract, result.Cycle.Status)
	require.NotNil(t, result.Cycle.AcceptedOfferID)
	require.Equal(t, offer.ID, *result.Cycle.AcceptedOfferID)
	require.Nil(t, result.Cycle.WinningPurchaseCycleID)

	deal := result.Deal
	require.True(t, strings.HasPrefix(deal.DealNumber, constants.DealNumberPrefix))
	require.Equal(t, offer.ID, deal.AcceptedOfferID)
	require.Equal(t, float64(54000000), deal.Financials.AgreedPrice)
	require.Equal(t, float64(2000000), deal.Financials.TokenAmount)
	require.Equal(t, seller, deal.Agents.PrimaryAgentID)
	require.Nil(t, deal.Agents.SecondaryAgentID)
	require.Nil(t, deal.BuyerRequirementID)
	require.Nil(t, deal.Cycles.PurchaseCycleID)
	require.Equal(t, cycle.ID, deal.Cycles.SellCycleID)

	require.NotNil(t, result.Cycle.LinkedDealID)
	require.Equal(t, deal.ID, *result.Cycle.LinkedDealID)

	names := make([]models.DealStageName, 0, len(deal.Stages))
	for _, st := range deal.Stages {
		names = append(names, st.Name)
	}
	require.Equal(t, []models.DealStageName{
		models.DealStageToken,
		models.DealStageAgreement,
		models.DealStageTransfer,
		models.DealStagePossession,
	}, names)
}

func TestAcceptOfferCreatesPurchaseCycleLazily(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	seller := uuid.New()
	buyer := uuid.New()
	prop, cycle := listSharedHouse(t, e, seller)
	req := createBuyer(t, e, buyer)

	offer := submitBuyerOffer(t, e, cycle.ID, buyer, SubmitOfferInput{
		OfferAmount:        52000000,
		BuyerRequirementID: &req.ID,
	})

	// the seller countered and the buyer side is accepting that price
	_, err := e.offers.CounterOffer(ctx, seller, models.UserRoleAgent, cycle.ID, offer.ID, 53000000)
	require.NoError(t, err)

	result, err := e.offers.AcceptOffer(ctx, seller, models.UserRoleAgent, cycle.ID, offer.ID)
	require.NoError(t, err)

	pc := result.PurchaseCycle
	require.NotNil(t, pc)
	require.Equal(t, models.PurchaseCycleStatusAccepted, pc.Status)
	require.Equal(t, buyer, pc.AgentID)
	require.Equal(t, prop.ID, pc.PropertyID)
	require.NotNil(t, pc.BuyerRequirementID)
	require.Equal(t, req.ID, *pc.BuyerRequirementID)
	require.NotNil(t, pc.SellCycleID)
	require.Equal(t, cycle.ID, *pc.SellCycleID)
	require.NotNil(t, pc.NegotiatedPrice)
	require.Equal(t, float64(53000000), *pc.NegotiatedPrice)
	require.NotNil(t, pc.AcceptedAt)
	require.NotNil(t, pc.CreatedDealID)
	require.Equal(t, result.Deal.ID, *pc.CreatedDealID)

	// cross-links from the sell side
	require.NotNil(t, result.Cycle.WinningPurchaseCycleID)
	require.Equal(t, pc.ID, *result.Cycle.WinningPurchaseCycleID)
	require.NotNil(t, result.Offer.LinkedPurchaseCycleID)
	require.Equal(t, pc.ID, *result.Offer.LinkedPurchaseCycleID)

	deal := result.Deal
	require.NotNil(t, deal.Cycles.PurchaseCycleID)
	require.Equal(t, pc.ID, *deal.Cycles.PurchaseCycleID)
	require.NotNil(t, deal.BuyerRequirementID)
	require.Equal(t, req.ID, *deal.BuyerRequirementID)
	require.Equal(t, float64(53000000), deal.Financials.AgreedPrice)
	require.NotNil(t, deal.Agents.SecondaryAgentID)
	require.Equal(t, buyer, *deal.Agents.SecondaryAgentID)

	// the requirement is off the market
	reloadedReq, err := e.reqRepo.GetByID(ctx, req.ID)
	require.NoError(t, err)
	require.Equal(t, models.RequirementStatusMatched, reloadedReq.Status)

	// the property tracks the buyer-side cycle
	reloadedProp, err := e.propRepo.GetByID(ctx, prop.ID)
	require.NoError(t, err)
	require.Contains(t, reloadedProp.ActivePurchaseCycleIDs, pc.ID)

	// both agents were notified
	for _, agentID := range []uuid.UUID{seller, buyer} {
		notifications, err := e.notifier.ListForAgent(ctx, agentID)
		require.NoError(t, err)
		var accepted bool
		for _, n := range notifications {
			if n.Type == notify.TypeOfferAccepted {
				accepted = true
			}
		}
		require.True(t, accepted, "agent %s missing acceptance notification", agentID)
	}
}

func TestAcceptOfferRejectsSiblings(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	seller := uuid.New()
	_, cycle := listSharedHouse(t, e, seller)

	first := submitBuyerOffer(t, e, cycle.ID, uuid.New(), SubmitOfferInput{BuyerName: "First buyer", OfferAmount: 50000000})
	second := submitBuyerOffer(t, e, cycle.ID, uuid.New(), SubmitOfferInput{BuyerName: "Second buyer", OfferAmount: 53000000})
	withdrawn := submitBuyerOffer(t, e, cycle.ID, uuid.New(), SubmitOfferInput{BuyerName: "Third buyer", OfferAmount: 51000000})
	_, err := e.offers.WithdrawOffer(ctx, withdrawn.SubmittedByAgentID, models.UserRoleAgent, cycle.ID, withdrawn.ID, "")
	require.NoError(t, err)

	result, err := e.offers.AcceptOffer(ctx, seller, models.UserRoleAgent, cycle.ID, second.ID)
	require.NoError(t, err)

	reloadedFirst := result.Cycle.FindOffer(first.ID)
	require.Equal(t, models.OfferStatusRejected, reloadedFirst.Status)
	require.Equal(t, "another offer was accepted", reloadedFirst.RejectionReason)

	// already-terminal offers keep their own ending
	reloadedWithdrawn := result.Cycle.FindOffer(withdrawn.ID)
	require.Equal(t, models.OfferStatusWithdrawn, reloadedWithdrawn.Status)

	// a dead cycle takes no second acceptance
	_, err = e.offers.AcceptOffer(ctx, seller, models.UserRoleAgent, cycle.ID, first.ID)
	require.ErrorIs(t, err, utils.ErrCycleClosed)
}

func TestAcceptOfferReusesLinkedPurchaseCycle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	seller := uuid.New()
	buyer := uuid.New()
	prop, cycle := listSharedHouse(t, e, seller)
	req := createBuyer(t, e, buyer)

	pc, err := e.offers.OpenPurchaseCycle(ctx, buyer, models.UserRoleAgent, req.ID, prop.ID)
	require.NoError(t, err)
	require.Equal(t, models.PurchaseCycleStatusActive, pc.Status)

	offer := submitBuyerOffer(t, e, cycle.ID, buyer, SubmitOfferInput{
		OfferAmount:           52000000,
		BuyerRequirementID:    &req.ID,
		LinkedPurchaseCycleID: &pc.ID,
	})

	// submission marks the pursuit
	tracked, err := e.pcRepo.GetByID(ctx, pc.ID)
	require.NoError(t, err)
	require.Equal(t, models.PurchaseCycleStatusOfferSubmitted, tracked.Status)
	require.NotNil(t, tracked.OfferedAt)

	result, err := e.offers.AcceptOffer(ctx, seller, models.UserRoleAgent, cycle.ID, offer.ID)
	require.NoError(t, err)

	// the pre-opened cycle was promoted, not replaced
	require.NotNil(t, result.PurchaseCycle)
	require.Equal(t, pc.ID, result.PurchaseCycle.ID)
	require.Equal(t, models.PurchaseCycleStatusAccepted, result.PurchaseCycle.Status)

	all, err := e.pcRepo.ListByRequirement(ctx, req.ID)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestAcceptOfferRollsBackWhenDealWriteFails(t *testing.T) {
	store := &flakyStore{CollectionStore: kvstore.NewMemoryStore(), failKey: constants.CollectionDeals}
	e := newEnvWithStore(t, store)
	ctx := context.Background()
	seller := uuid.New()
	buyer := uuid.New()
	_, cycle := listSharedHouse(t, e, seller)
	req := createBuyer(t, e, buyer)

	offer := submitBuyerOffer(t, e, cycle.ID, buyer, SubmitOfferInput{
		OfferAmount:        52000000,
		BuyerRequirementID: &req.ID,
	})

	store.armed = true
	_, err := e.offers.AcceptOffer(ctx, seller, models.UserRoleAgent, cycle.ID, offer.ID)
	store.armed = false

	var rollback *utils.AcceptanceRollbackError
	require.ErrorAs(t, err, &rollback)
	require.Equal(t, "deal creation", rollback.Step)

	// the cycle is exactly as it was before the attempt
	reloaded, err := e.cycleRepo.GetByID(ctx, cycle.ID)
	require.NoError(t, err)
	require.Equal(t, models.SellCycleStatusOfferReceived, reloaded.Status)
	require.Nil(t, reloaded.AcceptedOfferID)
	require.Nil(t, reloaded.LinkedDealID)
	restored := reloaded.FindOffer(offer.ID)
	require.Equal(t, models.OfferStatusPending, restored.Status)
	require.Nil(t, restored.DecidedAt)

	// the lazily created purchase cycle is gone
	leftover, err := e.pcRepo.FindByRequirementAndProperty(ctx, req.ID, cycle.PropertyID)
	require.NoError(t, err)
	require.Nil(t, leftover)

	// no deal row survived
	deals, err := e.dealRepo.ListAll(ctx)
	require.NoError(t, err)
	require.Empty(t, deals)

	// disarmed, the same acceptance goes through
	result, err := e.offers.AcceptOffer(ctx, seller, models.UserRoleAgent, cycle.ID, offer.ID)
	require.NoError(t, err)
	require.NotNil(t, result.Deal)
}

func TestAcceptOfferRollbackRestoresReusedPurchaseCycle(t *testing.T) {
	store := &flakyStore{CollectionStore: kvstore.NewMemoryStore(), failKey: constants.CollectionDeals}
	e := newEnvWithStore(t, store)
	ctx := context.Background()
	seller := uuid.New()
	buyer := uuid.New()
	prop, cycle := listSharedHouse(t, e, seller)
	req := createBuyer(t, e, buyer)

	pc, err := e.offers.OpenPurchaseCycle(ctx, buyer, models.UserRoleAgent, req.ID, prop.ID)
	require.NoError(t, err)
	offer := submitBuyerOffer(t, e, cycle.ID, buyer, SubmitOfferInput{
		OfferAmount:           52000000,
		BuyerRequirementID:    &req.ID,
		LinkedPurchaseCycleID: &pc.ID,
	})

	store.armed = true
	_, err = e.offers.AcceptOffer(ctx, seller, models.UserRoleAgent, cycle.ID, offer.ID)
	store.armed = false

	var rollback *utils.AcceptanceRollbackError
	require.ErrorAs(t, err, &rollback)

	// the reused cycle is back in its pre-acceptance state, not deleted
	restored, err := e.pcRepo.GetByID(ctx, pc.ID)
	require.NoError(t, err)
	require.Equal(t, models.PurchaseCycleStatusOfferSubmitted, restored.Status)
	require.Nil(t, restored.AcceptedAt)
	require.Nil(t, restored.NegotiatedPrice)
	require.Nil(t, restored.CreatedDealID)
}

func TestOpenPurchaseCycle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	buyer := uuid.New()
	prop, _ := listSharedHouse(t, e, uuid.New())
	req := createBuyer(t, e, buyer)

	t.Run("one cycle per requirement and property", func(t *testing.T) {
		first, err := e.offers.OpenPurchaseCycle(ctx, buyer, models.UserRoleAgent, req.ID, prop.ID)
		require.NoError(t, err)
		require.Equal(t, models.PurchaseCycleStatusActive, first.Status)
		require.Equal(t, req.BuyerName, first.PurchaserName)

		again, err := e.offers.OpenPurchaseCycle(ctx, buyer, models.UserRoleAgent, req.ID, prop.ID)
		require.NoError(t, err)
		require.Equal(t, first.ID, again.ID)

		all, err := e.pcRepo.ListByRequirement(ctx, req.ID)
		require.NoError(t, err)
		require.Len(t, all, 1)

		reloadedProp, err := e.propRepo.GetByID(ctx, prop.ID)
		require.NoError(t, err)
		require.Contains(t, reloadedProp.ActivePurchaseCycleIDs, first.ID)
	})

	t.Run("someone else's requirement", func(t *testing.T) {
		_, err := e.offers.OpenPurchaseCycle(ctx, uuid.New(), models.UserRoleAgent, req.ID, prop.ID)
		require.ErrorIs(t, err, utils.ErrRequirementNotFound)
	})

	t.Run("closed requirement", func(t *testing.T) {
		closed := createBuyer(t, e, buyer)
		_, err := e.reqRepo.Update(ctx, closed.ID, func(r *models.BuyerRequirement) error {
			r.Status = models.RequirementStatusClosed
			return nil
		})
		require.NoError(t, err)

		_, err = e.offers.OpenPurchaseCycle(ctx, buyer, models.UserRoleAgent, closed.ID, prop.ID)
		require.ErrorIs(t, err, utils.ErrRequirementInactive)
	})
}
