package models

type UserRole string

const (
	UserRoleAdmin UserRole = "ADMIN"
	UserRoleAgent UserRole = "AGENT"
)

// EntityType names the five record kinds the transaction graph can be
// entered from.
type EntityType string

const (
	EntityTypeProperty         EntityType = "PROPERTY"
	EntityTypeSellCycle        EntityType = "SELL_CYCLE"
	EntityTypePurchaseCycle    EntityType = "PURCHASE_CYCLE"
	EntityTypeBuyerRequirement EntityType = "BUYER_REQUIREMENT"
	EntityTypeDeal             EntityType = "DEAL"
)
