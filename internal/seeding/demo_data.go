package seeding

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/models"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/repositories"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/services"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/utils"
)

// Fixed demo identities so reseeding stays idempotent and local docs
// can reference stable IDs.
const (
	DemoAgentKhadijaID = "a1111111-1111-1111-1111-111111111111"
	DemoAgentBilalID   = "a2222222-2222-2222-2222-222222222222"

	demoHouseDHAID     = "d1111111-1111-1111-1111-111111111111"
	demoFlatGulbergID  = "d2222222-2222-2222-2222-222222222222"
	demoPlotLDAID      = "d3333333-3333-3333-3333-333333333333"
	demoHouseKarachiID = "d4444444-4444-4444-4444-444444444444"

	demoRequirementAhmedID = "e1111111-1111-1111-1111-111111111111"
	demoRequirementSanaID  = "e2222222-2222-2222-2222-222222222222"
)

// SeedDemoData loads two agents' worth of demo inventory: properties,
// sell cycles (one shared across the organization) and buyer
// requirements tuned so the matching engine has something to find.
// Reruns detect the first demo property and skip.
func SeedDemoData(
	propRepo repositories.PropertyRepository,
	reqRepo repositories.RequirementRepository,
	listingService *services.ListingService,
) error {
	ctx := context.Background()

	existing, err := propRepo.GetByID(ctx, uuid.MustParse(demoHouseDHAID))
	if err != nil && !errors.Is(err, utils.ErrPropertyNotFound) {
		return fmt.Errorf("checking for existing demo data: %w", err)
	}
	if existing != nil {
		utils.Logger.Infof("Demo data already present (property %s); skipping seed.", existing.ID)
		return nil
	}

	khadija := uuid.MustParse(DemoAgentKhadijaID)
	bilal := uuid.MustParse(DemoAgentBilalID)

	properties := []models.Property{
		{
			ID:      uuid.MustParse(demoHouseDHAID),
			AgentID: khadija,
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
			IsDemo:    true,
		},
		{
			ID:      uuid.MustParse(demoFlatGulbergID),
			AgentID: khadija,
			Title:   "3 Bed Apartment Gulberg Heights",
			Type:    models.PropertyTypeFlat,
			Address: models.Address{
				City: "Lahore",
				Area: "Gulberg III",
			},
			Price:     32000000,
			AreaSqFt:  1800,
			Bedrooms:  3,
			Bathrooms: 3,
			Features:  []string{"lift", "parking", "standby generator"},
			IsDemo:    true,
		},
		{
			ID:      uuid.MustParse(demoPlotLDAID),
			AgentID: khadija,
			Title:   "1 Kanal Plot LDA Avenue",
			Type:    models.PropertyTypePlot,
			Address: models.Address{
				City:  "Lahore",
				Area:  "LDA Avenue",
				Block: "Block C",
			},
			Price:    27500000,
			AreaSqFt: 4500,
			Features: []string{"park facing"},
			IsDemo:   true,
		},
		{
			ID:      uuid.MustParse(demoHouseKarachiID),
			AgentID: bilal,
			Title:   "500 Yard Bungalow DHA Phase 8",
			Type:    models.PropertyTypeHouse,
			Address: models.Address{
				City: "Karachi",
				Area: "DHA Phase 8",
			},
			Price:     98000000,
			AreaSqFt:  4200,
			Bedrooms:  6,
			Bathrooms: 6,
			Features:  []string{"swimming pool", "servant quarter", "solar panels"},
			IsDemo:    true,
		},
	}

	for i := range properties {
		if _, err := propRepo.Create(ctx, &properties[i]); err != nil {
			return fmt.Errorf("seeding property %q: %w", properties[i].Title, err)
		}
	}

	// Khadija shares the DHA house with the organization and keeps the
	// Gulberg flat private; the plot stays unlisted.
	if _, err := listingService.OpenSellCycle(ctx, khadija, models.UserRoleAgent, services.OpenSellCycleInput{
		PropertyID:  uuid.MustParse(demoHouseDHAID),
		AskingPrice: 55000000,
		Share:       true,
	}); err != nil {
		return fmt.Errorf("seeding shared sell cycle: %w", err)
	}
	if _, err := listingService.OpenSellCycle(ctx, khadija, models.UserRoleAgent, services.OpenSellCycleInput{
		PropertyID:  uuid.MustParse(demoFlatGulbergID),
		AskingPrice: 32000000,
		Share:       false,
	}); err != nil {
		return fmt.Errorf("seeding private sell cycle: %w", err)
	}
	if _, err := listingService.OpenSellCycle(ctx, bilal, models.UserRoleAgent, services.OpenSellCycleInput{
		PropertyID:  uuid.MustParse(demoHouseKarachiID),
		AskingPrice: 98000000,
		Share:       true,
	}); err != nil {
		return fmt.Errorf("seeding Karachi sell cycle: %w", err)
	}

	requirements := []models.BuyerRequirement{
		{
			ID:        uuid.MustParse(demoRequirementAhmedID),
			AgentID:   bilal,
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
			IsDemo:       true,
		},
		{
			ID:        uuid.MustParse(demoRequirementSanaID),
			AgentID:   bilal,
			BuyerName: "Sana Tariq",
			Kind:      models.RequirementKindBuy,
			BudgetMin: 15000000,
			BudgetMax: 20000000,
			PropertyTypes: []models.PropertyType{
				models.PropertyTypeFlat,
			},
			PreferredLocations: []models.Location{
				{City: "Islamabad"},
			},
			MinBedrooms: 2,
			MaxBedrooms: 3,
			IsDemo:      true,
		},
	}

	for i := range requirements {
		if _, err := reqRepo.Create(ctx, &requirements[i]); err != nil {
			return fmt.Errorf("seeding requirement for %q: %w", requirements[i].BuyerName, err)
		}
	}

	utils.Logger.Info("Seeded demo properties, sell cycles and buyer requirements.")
	return nil
}
