package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/dtos"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/services"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/utils"
)

type SellCycleController struct {
	listingService *services.ListingService
}

func NewSellCycleController(ls *services.ListingService) *SellCycleController {
	return &SellCycleController{listingService: ls}
}

// ----------------------------------------------------------------
// POST /api/v1/cycles
// ----------------------------------------------------------------
func (c *SellCycleController) OpenSellCycleHandler(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := requireUser(w, r)
	if !ok {
		return
	}

	var body dtos.OpenSellCycleRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Invalid JSON for sell cycle payload", nil, err,
		)
		return
	}
	if err := validate.Struct(body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation,
			"Sell cycle payload failed validation", nil, err,
		)
		return
	}

	cycle, err := c.listingService.OpenSellCycle(r.Context(), userID, role, services.OpenSellCycleInput{
		PropertyID:  body.PropertyID,
		AskingPrice: body.AskingPrice,
		Share:       body.Share,
	})
	if err != nil {
		respondDomainError(w, err, "Could not open sell cycle")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, cycle)
}

// ----------------------------------------------------------------
// GET /api/v1/cycles
// ----------------------------------------------------------------
func (c *SellCycleController) ListCyclesHandler(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := requireUser(w, r)
	if !ok {
		return
	}

	cycles, err := c.listingService.ListCyclesForUser(r.Context(), userID, role)
	if err != nil {
		respondDomainError(w, err, "Could not list sell cycles")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, cycles)
}

// ----------------------------------------------------------------
// GET /api/v1/cycles/{cycleID}
// ----------------------------------------------------------------
func (c *SellCycleController) GetCycleHandler(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := requireUser(w, r)
	if !ok {
		return
	}
	cycleID, ok := pathUUID(w, r, "cycleID")
	if !ok {
		return
	}

	cycle, err := c.listingService.GetCycleForUser(r.Context(), cycleID, userID, role)
	if err != nil {
		respondDomainError(w, err, "Sell cycle not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, cycle)
}

// ----------------------------------------------------------------
// PATCH /api/v1/cycles/{cycleID}/sharing
// ----------------------------------------------------------------
func (c *SellCycleController) ShareCycleHandler(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := requireUser(w, r)
	if !ok {
		return
	}
	cycleID, ok := pathUUID(w, r, "cycleID")
	if !ok {
		return
	}

	var body dtos.ShareCycleRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Invalid JSON for sharing payload", nil, err,
		)
		return
	}

	cycle, err := c.listingService.ShareCycle(r.Context(), userID, role, cycleID, body.Share)
	if err != nil {
		respondDomainError(w, err, "Could not update sharing")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, cycle)
}

// ----------------------------------------------------------------
// POST /api/v1/cycles/{cycleID}/cancel
// ----------------------------------------------------------------
func (c *SellCycleController) CancelCycleHandler(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := requireUser(w, r)
	if !ok {
		return
	}
	cycleID, ok := pathUUID(w, r, "cycleID")
	if !ok {
		return
	}

	cycle, err := c.listingService.CancelSellCycle(r.Context(), userID, role, cycleID)
	if err != nil {
		respondDomainError(w, err, "Could not cancel sell cycle")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, cycle)
}
