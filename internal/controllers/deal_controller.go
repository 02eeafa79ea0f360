package controllers

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/models"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/services"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/utils"
)

type DealController struct {
	dealService *services.DealService
}

func NewDealController(ds *services.DealService) *DealController {
	return &DealController{dealService: ds}
}

// ----------------------------------------------------------------
// GET /api/v1/deals
// ----------------------------------------------------------------
func (c *DealController) ListDealsHandler(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := requireUser(w, r)
	if !ok {
		return
	}

	deals, err := c.dealService.ListDealsForUser(r.Context(), userID, role)
	if err != nil {
		respondDomainError(w, err, "Could not list deals")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, deals)
}

// ----------------------------------------------------------------
// GET /api/v1/deals/{dealID}
// ----------------------------------------------------------------
func (c *DealController) GetDealHandler(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := requireUser(w, r)
	if !ok {
		return
	}
	dealID, ok := pathUUID(w, r, "dealID")
	if !ok {
		return
	}

	deal, err := c.dealService.GetDealForUser(r.Context(), dealID, userID, role)
	if err != nil {
		respondDomainError(w, err, "Deal not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, deal)
}

// ----------------------------------------------------------------
// POST /api/v1/deals/{dealID}/stages/{stage}/complete
// ----------------------------------------------------------------
func (c *DealController) CompleteStageHandler(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := requireUser(w, r)
	if !ok {
		return
	}
	dealID, ok := pathUUID(w, r, "dealID")
	if !ok {
		return
	}

	stageName := models.DealStageName(strings.ToUpper(mux.Vars(r)["stage"]))

	deal, err := c.dealService.CompleteStage(r.Context(), dealID, stageName, userID, role)
	if err != nil {
		respondDomainError(w, err, "Could not complete stage")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, deal)
}

// ----------------------------------------------------------------
// POST /api/v1/deals/{dealID}/cancel
// ----------------------------------------------------------------
func (c *DealController) CancelDealHandler(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := requireUser(w, r)
	if !ok {
		return
	}
	dealID, ok := pathUUID(w, r, "dealID")
	if !ok {
		return
	}

	deal, err := c.dealService.CancelDeal(r.Context(), dealID, userID, role)
	if err != nil {
		respondDomainError(w, err, "Could not cancel deal")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, deal)
}
