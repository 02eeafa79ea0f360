package routes

const (
	// Health
	Health = "/health"

	// Property endpoints
	PropertiesBase = "/api/v1/properties"
	PropertyByID   = "/api/v1/properties/{propertyID}"

	// Sell cycle endpoints
	CyclesBase   = "/api/v1/cycles"
	CycleByID    = "/api/v1/cycles/{cycleID}"
	CycleSharing = "/api/v1/cycles/{cycleID}/sharing"
	CycleCancel  = "/api/v1/cycles/{cycleID}/cancel"

	// Offer endpoints, nested under the owning sell cycle
	CycleOffers   = "/api/v1/cycles/{cycleID}/offers"
	OfferCounter  = "/api/v1/cycles/{cycleID}/offers/{offerID}/counter"
	OfferReject   = "/api/v1/cycles/{cycleID}/offers/{offerID}/reject"
	OfferWithdraw = "/api/v1/cycles/{cycleID}/offers/{offerID}/withdraw"
	OfferAccept   = "/api/v1/cycles/{cycleID}/offers/{offerID}/accept"

	// Buyer requirement endpoints
	RequirementsBase   = "/api/v1/requirements"
	RequirementByID    = "/api/v1/requirements/{requirementID}"
	RequirementClose   = "/api/v1/requirements/{requirementID}/close"
	RequirementMatches = "/api/v1/requirements/{requirementID}/matches"

	// Purchase cycle endpoints
	PurchaseCyclesBase = "/api/v1/purchase-cycles"

	// Match endpoints
	MatchesBase = "/api/v1/matches"
	MatchesRun  = "/api/v1/matches/run"

	// Deal endpoints
	DealsBase         = "/api/v1/deals"
	DealByID          = "/api/v1/deals/{dealID}"
	DealStageComplete = "/api/v1/deals/{dealID}/stages/{stage}/complete"
	DealCancel        = "/api/v1/deals/{dealID}/cancel"

	// Cross-entity transaction views
	TransactionGraph    = "/api/v1/transactions/{entityType}/{entityID}/graph"
	TransactionTimeline = "/api/v1/transactions/{entityType}/{entityID}/timeline"

	// Notifications
	NotificationsBase = "/api/v1/notifications"
)
