package controllers

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/models"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/services"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/utils"
)

// TransactionController serves the cross-entity views: the linked
// record graph and the unified timeline.
type TransactionController struct {
	graphService *services.GraphService
}

func NewTransactionController(gs *services.GraphService) *TransactionController {
	return &TransactionController{graphService: gs}
}

// entityTypeFromPath maps the {entityType} path segment onto the store
// entity kinds, accepting the snake_case form the API documents.
func entityTypeFromPath(raw string) (models.EntityType, bool) {
	switch strings.ToUpper(raw) {
	case string(models.EntityTypeProperty):
		return models.EntityTypeProperty, true
	case string(models.EntityTypeSellCycle):
		return models.EntityTypeSellCycle, true
	case string(models.EntityTypePurchaseCycle):
		return models.EntityTypePurchaseCycle, true
	case string(models.EntityTypeBuyerRequirement):
		return models.EntityTypeBuyerRequirement, true
	case string(models.EntityTypeDeal):
		return models.EntityTypeDeal, true
	}
	return "", false
}

// ----------------------------------------------------------------
// GET /api/v1/transactions/{entityType}/{entityID}/graph
// ----------------------------------------------------------------
func (c *TransactionController) GetGraphHandler(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := requireUser(w, r)
	if !ok {
		return
	}
	entityType, ok := entityTypeFromPath(mux.Vars(r)["entityType"])
	if !ok {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Unknown entity type", nil, nil,
		)
		return
	}
	entityID, ok := pathUUID(w, r, "entityID")
	if !ok {
		return
	}

	graph, err := c.graphService.ResolveGraph(r.Context(), entityType, entityID, userID, role)
	if err != nil {
		respondDomainError(w, err, "Could not resolve transaction graph")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, graph)
}

// ----------------------------------------------------------------
// GET /api/v1/transactions/{entityType}/{entityID}/timeline
// ----------------------------------------------------------------
func (c *TransactionController) GetTimelineHandler(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := requireUser(w, r)
	if !ok {
		return
	}
	entityType, ok := entityTypeFromPath(mux.Vars(r)["entityType"])
	if !ok {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Unknown entity type", nil, nil,
		)
		return
	}
	entityID, ok := pathUUID(w, r, "entityID")
	if !ok {
		return
	}

	events, err := c.graphService.UnifiedTimeline(r.Context(), entityType, entityID, userID, role)
	if err != nil {
		respondDomainError(w, err, "Could not build timeline")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, events)
}
