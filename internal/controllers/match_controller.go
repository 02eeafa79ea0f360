package controllers

import (
	"net/http"

	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/dtos"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/models"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/services"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/utils"
)

type MatchController struct {
	matchingService *services.MatchingService
}

func NewMatchController(ms *services.MatchingService) *MatchController {
	return &MatchController{matchingService: ms}
}

// ----------------------------------------------------------------
// GET /api/v1/matches
// ----------------------------------------------------------------
func (c *MatchController) ListMatchesHandler(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := requireUser(w, r)
	if !ok {
		return
	}

	matches, err := c.matchingService.ListMatchesForUser(r.Context(), userID, role)
	if err != nil {
		respondDomainError(w, err, "Could not list matches")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, matches)
}

// ----------------------------------------------------------------
// POST /api/v1/matches/run
// Admin trigger for the same pass the nightly schedule runs.
// ----------------------------------------------------------------
func (c *MatchController) RunMatchingHandler(w http.ResponseWriter, r *http.Request) {
	_, role, ok := requireUser(w, r)
	if !ok {
		return
	}
	if role != models.UserRoleAdmin {
		utils.RespondErrorWithCode(
			w, http.StatusForbidden, utils.ErrCodeForbidden,
			"Only admins may trigger a matching run", nil, nil,
		)
		return
	}

	matches, err := c.matchingService.RunSharedMatching(r.Context())
	if err != nil {
		respondDomainError(w, err, "Matching run failed")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.MatchRunResponse{
		TotalMatches: len(matches),
		Matches:      matches,
	})
}
