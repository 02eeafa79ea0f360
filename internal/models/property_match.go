package models

import (
	"time"

	"github.com/google/uuid"
)

type MatchStatus string

const (
	MatchStatusPending        MatchStatus = "PENDING"
	MatchStatusOfferSubmitted MatchStatus = "OFFER_SUBMITTED"
	MatchStatusAccepted       MatchStatus = "ACCEPTED"
	MatchStatusDismissed      MatchStatus = "DISMISSED"
)

// CriterionResult is the per-criterion breakdown behind a score. Credit
// is 0..1 of the criterion's weight. Criteria missing data on either
// side are left out entirely rather than reported with zero credit.
type CriterionResult struct {
	Name   string  `json:"name"`
	Weight int     `json:"weight"`
	Credit float64 `json:"credit"`
	Detail string  `json:"detail,omitempty"`
}

// MatchDetails explains a score in terms an agent can act on. It is
// derived from the same evaluation that produced the score, so the two
// never disagree.
type MatchDetails struct {
	Score     int               `json:"score"`
	Criteria  []CriterionResult `json:"criteria,omitempty"`
	TypeMatch bool              `json:"type_match"`

	LocationMatch bool `json:"location_match"`
	CityOnly      bool `json:"city_only,omitempty"`

	PriceInBudget bool `json:"price_in_budget"`
	AreaInRange   bool `json:"area_in_range"`
	BedroomsOK    bool `json:"bedrooms_ok"`
	BathroomsOK   bool `json:"bathrooms_ok"`

	MatchedFeatures []string `json:"matched_features,omitempty"`
	MissingFeatures []string `json:"missing_features,omitempty"`
}

// PropertyMatch is a persisted pairing of one shared sell cycle with
// one other agent's requirement. Identity for merge purposes is the
// (cycle, requirement) pair; reruns refresh the score but never mint a
// second record for the same pair.
type PropertyMatch struct {
	ID uuid.UUID `json:"id"`

	CycleID    uuid.UUID `json:"cycle_id"`
	CycleType  CycleType `json:"cycle_type"`
	PropertyID uuid.UUID `json:"property_id"`

	RequirementID      uuid.UUID `json:"requirement_id"`
	ListingAgentID     uuid.UUID `json:"listing_agent_id"`
	RequirementAgentID uuid.UUID `json:"requirement_agent_id"`

	MatchScore   int          `json:"match_score"`
	MatchDetails MatchDetails `json:"match_details"`

	Status           MatchStatus `json:"status"`
	NotificationSent bool        `json:"notification_sent"`

	MatchedAt time.Time `json:"matched_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
