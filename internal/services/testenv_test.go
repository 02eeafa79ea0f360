package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/constants"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/kvstore"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/models"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/notify"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/repositories"
)

// env wires every repository and service over one store, the same way
// main does, so tests exercise the real persistence path.
type env struct {
	propRepo   repositories.PropertyRepository
	cycleRepo  repositories.SellCycleRepository
	pcRepo     repositories.PurchaseCycleRepository
	reqRepo    repositories.RequirementRepository
	matchRepo  repositories.MatchRepository
	dealRepo   repositories.DealRepository
	notifyRepo notify.Repository
	notifier   *notify.Service

	listing      *ListingService
	requirements *RequirementService
	matching     *MatchingService
	offers       *OfferService
	deals        *DealService
	graph        *GraphService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	return newEnvWithStore(t, kvstore.NewMemoryStore())
}

func newEnvWithStore(t *testing.T, store kvstore.CollectionStore) *env {
	t.Helper()

	e := &env{
		propRepo:   repositories.NewPropertyRepository(store),
		cycleRepo:  repositories.NewSellCycleRepository(store),
		pcRepo:     repositories.NewPurchaseCycleRepository(store),
		reqRepo:    repositories.NewRequirementRepository(store),
		matchRepo:  repositories.NewMatchRepository(store),
		dealRepo:   repositories.NewDealRepository(store),
		notifyRepo: notify.NewRepository(store),
	}
	e.notifier = notify.NewService(e.notifyRepo, notify.StaticDirectory{})

	e.listing = NewListingService(e.propRepo, e.cycleRepo)
	e.requirements = NewRequirementService(e.reqRepo)
	e.matching = NewMatchingService(
		e.cycleRepo, e.propRepo, e.reqRepo, e.matchRepo, e.notifier, constants.DefaultMatchThreshold,
	)
	e.offers = NewOfferService(
		e.cycleRepo, e.pcRepo, e.reqRepo, e.propRepo, e.matchRepo, e.dealRepo, e.notifier,
	)
	e.deals = NewDealService(e.dealRepo, e.cycleRepo, e.pcRepo, e.propRepo, e.notifier)
	e.graph = NewGraphService(e.propRepo, e.cycleRepo, e.pcRepo, e.reqRepo, e.dealRepo)
	return e
}

// flakyStore fails Save for one collection while armed. Lets tests
// break a specific acceptance step and watch the rollback.
type flakyStore struct {
	kvstore.CollectionStore
	failKey string
	armed   bool
}

func (s *flakyStore) Save(ctx context.Context, key string, data []byte) error {
	if s.armed && key == s.failKey {
		return errors.New("simulated store outage")
	}
	return s.CollectionStore.Save(ctx, key, data)
}

// dhaHouse is the canonical listing fixture: a Lahore house that the
// default requirement fixture scores highly against.
func dhaHouse(agentID uuid.UUID) *models.Property {
	return &models.Property{
		AgentID: agentID,
		Title:   "10 Marla House DHA Phase 6",
		Type:    models.PropertyTypeHouse,
		Address: models.Address{
			City:  "Lahore",
			Area:  "DHA Phase 6",
			Block: "Block J",
		},
		Price:     55000000,
		AreaSqFt:  2250,
		Bedrooms:  5,
		Bathrooms: 4,
		Features:  []string{"corner plot", "servant quarter", "lawn"},
	}
}

// dhaBuyer wants exactly the kind of house dhaHouse is.
func dhaBuyer(agentID uuid.UUID) *models.BuyerRequirement {
	return &models.BuyerRequirement{
		AgentID:   agentID,
		BuyerName: "Ahmed Raza",
		Kind:      models.RequirementKindBuy,
		BudgetMin: 50000000,
		BudgetMax: 60000000,
		PropertyTypes: []models.PropertyType{
			models.PropertyTypeHouse,
		},
		PreferredLocations: []models.Location{
			{City: "Lahore", Area: "DHA Phase 6"},
		},
		MinBedrooms:  4,
		MaxBedrooms:  6,
		MinBathrooms: 3,
		MinAreaSqFt:  2000,
		MaxAreaSqFt:  3000,
		Features:     []string{"servant quarter"},
	}
}

// listSharedHouse registers dhaHouse for agentID and opens a shared
// sell cycle at its asking price.
func listSharedHouse(t *testing.T, e *env, agentID uuid.UUID) (*models.Property, *models.SellCycle) {
	t.Helper()
	ctx := context.Background()

	prop, err := e.propRepo.Create(ctx, dhaHouse(agentID))
	require.NoError(t, err)

	cycle, err := e.listing.OpenSellCycle(ctx, agentID, models.UserRoleAgent, OpenSellCycleInput{
		PropertyID:  prop.ID,
		AskingPrice: prop.Price,
		Share:       true,
	})
	require.NoError(t, err)
	return prop, cycle
}

func createBuyer(t *testing.T, e *env, agentID uuid.UUID) *models.BuyerRequirement {
	t.Helper()
	req, err := e.reqRepo.Create(context.Background(), dhaBuyer(agentID))
	require.NoError(t, err)
	return req
}

// acceptanceFixture is a fully closed-over acceptance: cross-agent
// offer against a requirement, accepted, deal created.
type acceptanceFixture struct {
	seller uuid.UUID
	buyer  uuid.UUID
	prop   *models.Property
	cycle  *models.SellCycle
	req    *models.BuyerRequirement
	result *AcceptanceResult
}

func runAcceptanceFlow(t *testing.T, e *env) acceptanceFixture {
	t.Helper()
	ctx := context.Background()
	seller := uuid.New()
	buyer := uuid.New()

	prop, cycle := listSharedHouse(t, e, seller)
	req := createBuyer(t, e, buyer)

	offer, err := e.offers.SubmitOffer(ctx, buyer, models.UserRoleAgent, SubmitOfferInput{
		CycleID:            cycle.ID,
		BuyerName:          req.BuyerName,
		OfferAmount:        53000000,
		TokenAmount:        2000000,
		BuyerRequirementID: &req.ID,
	})
	require.NoError(t, err)

	result, err := e.offers.AcceptOffer(ctx, seller, models.UserRoleAgent, cycle.ID, offer.ID)
	require.NoError(t, err)

	return acceptanceFixture{
		seller: seller,
		buyer:  buyer,
		prop:   prop,
		cycle:  result.Cycle,
		req:    req,
		result: result,
	}
}
