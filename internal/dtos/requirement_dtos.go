package dtos

import "github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/models"

type RegisterRequirementRequest struct {
	BuyerName          string                 `json:"buyer_name" validate:"required"`
	BuyerContact       string                 `json:"buyer_contact"`
	Kind               models.RequirementKind `json:"kind" validate:"omitempty,oneof=BUY RENT"`
	BudgetMin          float64                `json:"budget_min" validate:"gte=0"`
	BudgetMax          float64                `json:"budget_max" validate:"gte=0"`
	RentMin            float64                `json:"rent_min" validate:"gte=0"`
	RentMax            float64                `json:"rent_max" validate:"gte=0"`
	PropertyTypes      []models.PropertyType  `json:"property_types" validate:"dive,oneof=HOUSE FLAT PLOT COMMERCIAL FARMHOUSE"`
	PreferredLocations []models.Location      `json:"preferred_locations"`
	MinBedrooms        int                    `json:"min_bedrooms" validate:"gte=0"`
	MaxBedrooms        int                    `json:"max_bedrooms" validate:"gte=0"`
	MinBathrooms       int                    `json:"min_bathrooms" validate:"gte=0"`
	MinAreaSqFt        float64                `json:"min_area_sq_ft" validate:"gte=0"`
	MaxAreaSqFt        float64                `json:"max_area_sq_ft" validate:"gte=0"`
	Features           []string               `json:"features"`
}
