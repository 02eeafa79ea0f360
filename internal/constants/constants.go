package constants

import "time"

// OrganizationName labels outbound notifications and log lines.
const OrganizationName = "Aaraazi"

// Match scoring weights. They sum to 100; when a criterion cannot be
// evaluated the score renormalizes over the weights that remain.
const (
	WeightPropertyType = 20
	WeightLocation     = 25
	WeightPrice        = 20
	WeightArea         = 15
	WeightBedrooms     = 10
	WeightBathrooms    = 5
	WeightFeatures     = 5

	TotalCriteriaWeight = WeightPropertyType + WeightLocation + WeightPrice +
		WeightArea + WeightBedrooms + WeightBathrooms + WeightFeatures
)

// Graded credit bands for price and area deviation outside the
// requested range.
const (
	FullCreditBand    = 0.10 // within 10% of the nearest bound -> 75% credit
	PartialCreditBand = 0.20 // within 20% of the nearest bound -> 50% credit

	NearMissCredit = 0.75
	FarMissCredit  = 0.50

	// A city-only location match earns this fraction of the location weight.
	CityOnlyLocationCredit = 0.60
)

// DefaultMatchThreshold is the minimum score for a pairing to be
// persisted as a PropertyMatch. Overridable per environment.
const DefaultMatchThreshold = 70

// Collection keys in the entity store. Each key holds the full JSON
// array for that record kind.
const (
	CollectionProperties        = "properties"
	CollectionSellCycles        = "sell_cycles"
	CollectionPurchaseCycles    = "purchase_cycles"
	CollectionBuyerRequirements = "buyer_requirements"
	CollectionPropertyMatches   = "property_matches"
	CollectionDeals             = "deals"
	CollectionNotifications     = "notifications"
)

// Deal stage target offsets in business days from acceptance.
const (
	StageOffsetToken      = 3
	StageOffsetAgreement  = 10
	StageOffsetTransfer   = 30
	StageOffsetPossession = 45
)

// DealNumberPrefix precedes the ULID in every deal number.
const DealNumberPrefix = "DL-"

// Scheduling
const (
	NightlyMatchingCronSpec   = "0 1 * * *" // 01:00 daily, org local time
	NotificationDrainCronSpec = "@every 1m"
	NightlyMatchingRunTimeout = 10 * time.Minute
	NotificationDrainTimeout  = 2 * time.Minute
	MaxNotificationAttempts   = 5
)

// CORS
const CORSLowSecurityAllowedOriginLocalhost = "http://localhost:*"
