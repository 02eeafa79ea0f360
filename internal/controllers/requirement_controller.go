package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/dtos"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/services"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/utils"
)

type RequirementController struct {
	requirementService *services.RequirementService
	matchingService    *services.MatchingService
}

func NewRequirementController(rs *services.RequirementService, ms *services.MatchingService) *RequirementController {
	return &RequirementController{requirementService: rs, matchingService: ms}
}

// ----------------------------------------------------------------
// POST /api/v1/requirements
// ----------------------------------------------------------------
func (c *RequirementController) RegisterRequirementHandler(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := requireUser(w, r)
	if !ok {
		return
	}

	var body dtos.RegisterRequirementRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Invalid JSON for requirement payload", nil, err,
		)
		return
	}
	if err := validate.Struct(body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation,
			"Requirement payload failed validation", nil, err,
		)
		return
	}

	req, err := c.requirementService.RegisterRequirement(r.Context(), userID, services.RegisterRequirementInput{
		BuyerName:          body.BuyerName,
		BuyerContact:       body.BuyerContact,
		Kind:               body.Kind,
		BudgetMin:          body.BudgetMin,
		BudgetMax:          body.BudgetMax,
		RentMin:            body.RentMin,
		RentMax:            body.RentMax,
		PropertyTypes:      body.PropertyTypes,
		PreferredLocations: body.PreferredLocations,
		MinBedrooms:        body.MinBedrooms,
		MaxBedrooms:        body.MaxBedrooms,
		MinBathrooms:       body.MinBathrooms,
		MinAreaSqFt:        body.MinAreaSqFt,
		MaxAreaSqFt:        body.MaxAreaSqFt,
		Features:           body.Features,
	})
	if err != nil {
		respondDomainError(w, err, "Could not register requirement")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, req)
}

// ----------------------------------------------------------------
// GET /api/v1/requirements
// ----------------------------------------------------------------
func (c *RequirementController) ListRequirementsHandler(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := requireUser(w, r)
	if !ok {
		return
	}

	reqs, err := c.requirementService.ListRequirementsForUser(r.Context(), userID, role)
	if err != nil {
		respondDomainError(w, err, "Could not list requirements")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, reqs)
}

// ----------------------------------------------------------------
// GET /api/v1/requirements/{requirementID}
// ----------------------------------------------------------------
func (c *RequirementController) GetRequirementHandler(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := requireUser(w, r)
	if !ok {
		return
	}
	requirementID, ok := pathUUID(w, r, "requirementID")
	if !ok {
		return
	}

	req, err := c.requirementService.GetRequirementForUser(r.Context(), requirementID, userID, role)
	if err != nil {
		respondDomainError(w, err, "Requirement not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, req)
}

// ----------------------------------------------------------------
// POST /api/v1/requirements/{requirementID}/close
// ----------------------------------------------------------------
func (c *RequirementController) CloseRequirementHandler(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := requireUser(w, r)
	if !ok {
		return
	}
	requirementID, ok := pathUUID(w, r, "requirementID")
	if !ok {
		return
	}

	req, err := c.requirementService.CloseRequirement(r.Context(), requirementID, userID, role)
	if err != nil {
		respondDomainError(w, err, "Could not close requirement")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, req)
}

// ----------------------------------------------------------------
// GET /api/v1/requirements/{requirementID}/matches
// On-demand matching for one requirement, freshly scored.
// ----------------------------------------------------------------
func (c *RequirementController) FindMatchesHandler(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := requireUser(w, r)
	if !ok {
		return
	}
	requirementID, ok := pathUUID(w, r, "requirementID")
	if !ok {
		return
	}

	matches, err := c.matchingService.FindMatchesForRequirement(r.Context(), requirementID, userID, role)
	if err != nil {
		respondDomainError(w, err, "Could not match requirement")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.MatchRunResponse{
		TotalMatches: len(matches),
		Matches:      matches,
	})
}
