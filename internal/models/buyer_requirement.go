package models

import (
	"time"

	"github.com/google/uuid"
)

type RequirementKind string

const (
	RequirementKindBuy  RequirementKind = "BUY"
	RequirementKindRent RequirementKind = "RENT"
)

type RequirementStatus string

const (
	RequirementStatusActive  RequirementStatus = "ACTIVE"
	RequirementStatusMatched RequirementStatus = "MATCHED"
	RequirementStatusClosed  RequirementStatus = "CLOSED"
)

// Location is one preferred location on a requirement. Area is
// optional; a city-only entry still earns partial location credit.
type Location struct {
	City string `json:"city"`
	Area string `json:"area,omitempty"`
}

// BuyerRequirement is what a buyer is looking for, registered by their
// agent. Kind selects which budget fields apply: BUY uses BudgetMin/
// BudgetMax, RENT uses RentMin/RentMax per month.
type BuyerRequirement struct {
	ID      uuid.UUID `json:"id"`
	AgentID uuid.UUID `json:"agent_id"`

	BuyerName    string     `json:"buyer_name"`
	BuyerContact string     `json:"buyer_contact,omitempty"`
	BuyerID      *uuid.UUID `json:"buyer_id,omitempty"`

	Kind      RequirementKind `json:"kind"`
	BudgetMin float64         `json:"budget_min,omitempty"`
	BudgetMax float64         `json:"budget_max,omitempty"`
	RentMin   float64         `json:"rent_min,omitempty"`
	RentMax   float64         `json:"rent_max,omitempty"`

	PropertyTypes      []PropertyType `json:"property_types,omitempty"`
	PreferredLocations []Location     `json:"preferred_locations,omitempty"`
	MinBedrooms        int            `json:"min_bedrooms,omitempty"`
	MaxBedrooms        int            `json:"max_bedrooms,omitempty"`
	MinBathrooms       int            `json:"min_bathrooms,omitempty"`
	MinAreaSqFt        float64        `json:"min_area_sq_ft,omitempty"`
	MaxAreaSqFt        float64        `json:"max_area_sq_ft,omitempty"`
	Features           []string       `json:"features,omitempty"`

	Status RequirementStatus `json:"status"`

	IsDemo    bool      `json:"is_demo"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PriceRange returns the budget bounds that apply for the requirement's
// kind. Zero values mean the bound is not set.
func (br *BuyerRequirement) PriceRange() (min, max float64) {
	if br.Kind == RequirementKindRent {
		return br.RentMin, br.RentMax
	}
	return br.BudgetMin, br.BudgetMax
}
