package models

import (
	"time"

	"github.com/google/uuid"
)

type PropertyType string

const (
	PropertyTypeHouse      PropertyType = "HOUSE"
	PropertyTypeFlat       PropertyType = "FLAT"
	PropertyTypePlot       PropertyType = "PLOT"
	PropertyTypeCommercial PropertyType = "COMMERCIAL"
	PropertyTypeFarmhouse  PropertyType = "FARMHOUSE"
)

type CycleType string

const (
	CycleTypeSell     CycleType = "SELL"
	CycleTypePurchase CycleType = "PURCHASE"
)

// Address follows the Pakistani market convention of city, area/scheme
// and block/phase rather than street numbering.
type Address struct {
	City  string `json:"city"`
	Area  string `json:"area,omitempty"`
	Block string `json:"block,omitempty"`
}

// CycleRef is one entry in a property's cycle history. ClosedAt stays
// nil while the cycle is still active.
type CycleRef struct {
	CycleID  uuid.UUID  `json:"cycle_id"`
	Type     CycleType  `json:"type"`
	OpenedAt time.Time  `json:"opened_at"`
	ClosedAt *time.Time `json:"closed_at,omitempty"`
}

type Property struct {
	ID      uuid.UUID    `json:"id"`
	AgentID uuid.UUID    `json:"agent_id"`
	Title   string       `json:"title"`
	Type    PropertyType `json:"type"`
	Address Address      `json:"address"`

	Price     float64  `json:"price"`
	AreaSqFt  float64  `json:"area_sq_ft"`
	Bedrooms  int      `json:"bedrooms"`
	Bathrooms int      `json:"bathrooms"`
	Features  []string `json:"features,omitempty"`

	ActiveSellCycleIDs     []uuid.UUID `json:"active_sell_cycle_ids,omitempty"`
	ActivePurchaseCycleIDs []uuid.UUID `json:"active_purchase_cycle_ids,omitempty"`
	CycleHistory           []CycleRef  `json:"cycle_history,omitempty"`

	IsDemo    bool      `json:"is_demo"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasActiveSellCycle reports whether the given cycle is currently open
// against this property.
func (p *Property) HasActiveSellCycle(cycleID uuid.UUID) bool {
	for _, id := range p.ActiveSellCycleIDs {
		if id == cycleID {
			return true
		}
	}
	return false
}
