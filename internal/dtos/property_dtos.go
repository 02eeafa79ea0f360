package dtos

import (
	"github.com/google/uuid"

	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/models"
)

type RegisterPropertyRequest struct {
	Title     string              `json:"title" validate:"required"`
	Type      models.PropertyType `json:"type" validate:"required,oneof=HOUSE FLAT PLOT COMMERCIAL FARMHOUSE"`
	City      string              `json:"city" validate:"required"`
	Area      string              `json:"area"`
	Block     string              `json:"block"`
	Price     float64             `json:"price" validate:"required,gt=0"`
	AreaSqFt  float64             `json:"area_sq_ft" validate:"gte=0"`
	Bedrooms  int                 `json:"bedrooms" validate:"gte=0"`
	Bathrooms int                 `json:"bathrooms" validate:"gte=0"`
	Features  []string            `json:"features"`
}

type OpenSellCycleRequest struct {
	PropertyID  uuid.UUID `json:"property_id" validate:"required"`
	AskingPrice float64   `json:"asking_price" validate:"required,gt=0"`
	Share       bool      `json:"share"`
}

type ShareCycleRequest struct {
	Share bool `json:"share"`
}
