package services

import (
	"math"
	"strings"

	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/constants"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/models"
)

// Criterion names as they appear in match details.
const (
	CriterionType      = "property_type"
	CriterionLocation  = "location"
	CriterionPrice     = "price"
	CriterionArea      = "area"
	CriterionBedrooms  = "bedrooms"
	CriterionBathrooms = "bathrooms"
	CriterionFeatures  = "features"
)

/*
EvaluateMatch scores one property against one requirement and returns
the full breakdown. A criterion joins the evaluation only when both
sides carry the data for it; the final score renormalizes over the
weights that were actually evaluated, so sparse records are not
punished for missing fields. With nothing evaluable the score is 0.

askingPrice is the live cycle price when there is one; it falls back
to the property's listed price.
*/
func EvaluateMatch(prop *models.Property, req *models.BuyerRequirement, askingPrice float64) models.MatchDetails {
	price := askingPrice
	if price <= 0 {
		price = prop.Price
	}

	details := models.MatchDetails{}
	var weightSum int
	var creditSum float64

	record := func(name string, weight int, credit float64, detail string) {
		weightSum += weight
		creditSum += float64(weight) * credit
		details.Criteria = append(details.Criteria, models.CriterionResult{
			Name:   name,
			Weight: weight,
			Credit: credit,
			Detail: detail,
		})
	}

	// Property type
	if prop.Type != "" && len(req.PropertyTypes) > 0 {
		credit := 0.0
		for _, t := range req.PropertyTypes {
			if t == prop.Type {
				credit = 1
				break
			}
		}
		details.TypeMatch = credit == 1
		record(CriterionType, constants.WeightPropertyType, credit, string(prop.Type))
	}

	// Location
	if prop.Address.City != "" && hasNamedCity(req.PreferredLocations) {
		credit, cityOnly, matchedLoc := locationCredit(prop.Address, req.PreferredLocations)
		details.LocationMatch = credit > 0
		details.CityOnly = cityOnly
		record(CriterionLocation, constants.WeightLocation, credit, matchedLoc)
	}

	// Price
	if min, max := req.PriceRange(); price > 0 && (min > 0 || max > 0) {
		credit, inRange := gradedRangeCredit(price, min, max)
		details.PriceInBudget = inRange
		record(CriterionPrice, constants.WeightPrice, credit, "")
	}

	// Area
	if prop.AreaSqFt > 0 && (req.MinAreaSqFt > 0 || req.MaxAreaSqFt > 0) {
		credit, inRange := gradedRangeCredit(prop.AreaSqFt, req.MinAreaSqFt, req.MaxAreaSqFt)
		details.AreaInRange = inRange
		record(CriterionArea, constants.WeightArea, credit, "")
	}

	// Bedrooms
	if prop.Bedrooms > 0 && (req.MinBedrooms > 0 || req.MaxBedrooms > 0) {
		credit := 0.0
		if (req.MinBedrooms <= 0 || prop.Bedrooms >= req.MinBedrooms) &&
			(req.MaxBedrooms <= 0 || prop.Bedrooms <= req.MaxBedrooms) {
			credit = 1
		}
		details.BedroomsOK = credit == 1
		record(CriterionBedrooms, constants.WeightBedrooms, credit, "")
	}

	// Bathrooms
	if prop.Bathrooms > 0 && req.MinBathrooms > 0 {
		credit := 0.0
		if prop.Bathrooms >= req.MinBathrooms {
			credit = 1
		}
		details.BathroomsOK = credit == 1
		record(CriterionBathrooms, constants.WeightBathrooms, credit, "")
	}

	// Features
	if len(req.Features) > 0 && len(prop.Features) > 0 {
		matched, missing := matchFeatures(prop.Features, req.Features)
		credit := float64(len(matched)) / float64(len(req.Features))
		details.MatchedFeatures = matched
		details.MissingFeatures = missing
		record(CriterionFeatures, constants.WeightFeatures, credit, "")
	}

	if weightSum > 0 {
		details.Score = int(math.Round(creditSum / float64(weightSum) * 100))
	}
	return details
}

// ScoreMatch is EvaluateMatch reduced to the number.
func ScoreMatch(prop *models.Property, req *models.BuyerRequirement, askingPrice float64) int {
	return EvaluateMatch(prop, req, askingPrice).Score
}

func hasNamedCity(locations []models.Location) bool {
	for _, loc := range locations {
		if strings.TrimSpace(loc.City) != "" {
			return true
		}
	}
	return false
}

/*
locationCredit finds the best preferred location for the property's
address. A preferred location that names an area earns full credit
only on a city+area match and the city-only fraction otherwise. A
preferred location without an area is satisfied by the city alone and
earns full credit.
*/
func locationCredit(addr models.Address, locations []models.Location) (credit float64, cityOnly bool, matched string) {
	for _, loc := range locations {
		if !equalsFold(addr.City, loc.City) {
			continue
		}
		if loc.Area == "" {
			return 1, false, loc.City
		}
		if equalsFold(addr.Area, loc.Area) {
			return 1, false, loc.City + "/" + loc.Area
		}
		if credit < constants.CityOnlyLocationCredit {
			credit = constants.CityOnlyLocationCredit
			cityOnly = true
			matched = loc.City
		}
	}
	return credit, cityOnly, matched
}

/*
gradedRangeCredit gives full credit inside [min, max] and graded
partial credit for near misses: within 10% of the violated bound pays
75%, within 20% pays 50%, beyond that nothing. A zero bound means
that side is unbounded.
*/
func gradedRangeCredit(value, min, max float64) (credit float64, inRange bool) {
	if (min <= 0 || value >= min) && (max <= 0 || value <= max) {
		return 1, true
	}

	bound := max
	if min > 0 && value < min {
		bound = min
	}
	deviation := math.Abs(value-bound) / bound
	switch {
	case deviation <= constants.FullCreditBand:
		return constants.NearMissCredit, false
	case deviation <= constants.PartialCreditBand:
		return constants.FarMissCredit, false
	}
	return 0, false
}

// matchFeatures checks each wanted feature against the property's
// feature list by case-insensitive substring, so "parking" is found
// inside "Covered Parking".
func matchFeatures(have, want []string) (matched, missing []string) {
	for _, w := range want {
		found := false
		wf := strings.ToLower(strings.TrimSpace(w))
		for _, h := range have {
			if strings.Contains(strings.ToLower(h), wf) {
				found = true
				break
			}
		}
		if found {
			matched = append(matched, w)
		} else {
			missing = append(missing, w)
		}
	}
	return matched, missing
}

func equalsFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
