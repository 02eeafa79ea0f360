package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/dtos"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/services"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/utils"
)

type OfferController struct {
	offerService *services.OfferService
}

func NewOfferController(os *services.OfferService) *OfferController {
	return &OfferController{offerService: os}
}

// ----------------------------------------------------------------
// POST /api/v1/cycles/{cycleID}/offers
// ----------------------------------------------------------------
func (c *OfferController) SubmitOfferHandler(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := requireUser(w, r)
	if !ok {
		return
	}
	cycleID, ok := pathUUID(w, r, "cycleID")
	if !ok {
		return
	}

	var body dtos.SubmitOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Invalid JSON for offer payload", nil, err,
		)
		return
	}
	if err := validate.Struct(body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation,
			"Offer payload failed validation", nil, err,
		)
		return
	}

	offer, err := c.offerService.SubmitOffer(r.Context(), userID, role, services.SubmitOfferInput{
		CycleID:               cycleID,
		BuyerName:             body.BuyerName,
		BuyerContact:          body.BuyerContact,
		OfferAmount:           body.OfferAmount,
		TokenAmount:           body.TokenAmount,
		BuyerRequirementID:    body.BuyerRequirementID,
		LinkedPurchaseCycleID: body.LinkedPurchaseCycleID,
		MatchID:               body.MatchID,
	})
	if err != nil {
		respondDomainError(w, err, "Could not submit offer")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, offer)
}

// ----------------------------------------------------------------
// POST /api/v1/cycles/{cycleID}/offers/{offerID}/counter
// ----------------------------------------------------------------
func (c *OfferController) CounterOfferHandler(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := requireUser(w, r)
	if !ok {
		return
	}
	cycleID, ok := pathUUID(w, r, "cycleID")
	if !ok {
		return
	}
	offerID, ok := pathUUID(w, r, "offerID")
	if !ok {
		return
	}

	var body dtos.CounterOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Invalid JSON for counter payload", nil, err,
		)
		return
	}
	if err := validate.Struct(body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation,
			"Counter payload failed validation", nil, err,
		)
		return
	}

	offer, err := c.offerService.CounterOffer(r.Context(), userID, role, cycleID, offerID, body.Amount)
	if err != nil {
		respondDomainError(w, err, "Could not counter offer")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, offer)
}

// ----------------------------------------------------------------
// POST /api/v1/cycles/{cycleID}/offers/{offerID}/reject
// ----------------------------------------------------------------
func (c *OfferController) RejectOfferHandler(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := requireUser(w, r)
	if !ok {
		return
	}
	cycleID, ok := pathUUID(w, r, "cycleID")
	if !ok {
		return
	}
	offerID, ok := pathUUID(w, r, "offerID")
	if !ok {
		return
	}

	var body dtos.RejectOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Invalid JSON for reject payload", nil, err,
		)
		return
	}

	offer, err := c.offerService.RejectOffer(r.Context(), userID, role, cycleID, offerID, body.Reason)
	if err != nil {
		respondDomainError(w, err, "Could not reject offer")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, offer)
}

// ----------------------------------------------------------------
// POST /api/v1/cycles/{cycleID}/offers/{offerID}/withdraw
// ----------------------------------------------------------------
func (c *OfferController) WithdrawOfferHandler(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := requireUser(w, r)
	if !ok {
		return
	}
	cycleID, ok := pathUUID(w, r, "cycleID")
	if !ok {
		return
	}
	offerID, ok := pathUUID(w, r, "offerID")
	if !ok {
		return
	}

	var body dtos.WithdrawOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Invalid JSON for withdraw payload", nil, err,
		)
		return
	}

	offer, err := c.offerService.WithdrawOffer(r.Context(), userID, role, cycleID, offerID, body.Reason)
	if err != nil {
		respondDomainError(w, err, "Could not withdraw offer")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, offer)
}

// ----------------------------------------------------------------
// POST /api/v1/cycles/{cycleID}/offers/{offerID}/accept
// Runs the full acceptance sequence; on failure everything already
// written is rolled back and the client gets acceptance_failed.
// ----------------------------------------------------------------
func (c *OfferController) AcceptOfferHandler(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := requireUser(w, r)
	if !ok {
		return
	}
	cycleID, ok := pathUUID(w, r, "cycleID")
	if !ok {
		return
	}
	offerID, ok := pathUUID(w, r, "offerID")
	if !ok {
		return
	}

	result, err := c.offerService.AcceptOffer(r.Context(), userID, role, cycleID, offerID)
	if err != nil {
		respondDomainError(w, err, "Could not accept offer")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.AcceptOfferResponse{
		Cycle:         result.Cycle,
		Offer:         result.Offer,
		PurchaseCycle: result.PurchaseCycle,
		Deal:          result.Deal,
	})
}

// ----------------------------------------------------------------
// POST /api/v1/purchase-cycles
// ----------------------------------------------------------------
func (c *OfferController) OpenPurchaseCycleHandler(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := requireUser(w, r)
	if !ok {
		return
	}

	var body dtos.OpenPurchaseCycleRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Invalid JSON for purchase cycle payload", nil, err,
		)
		return
	}
	if err := validate.Struct(body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation,
			"Purchase cycle payload failed validation", nil, err,
		)
		return
	}

	pc, err := c.offerService.OpenPurchaseCycle(r.Context(), userID, role, body.RequirementID, body.PropertyID)
	if err != nil {
		respondDomainError(w, err, "Could not open purchase cycle")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, pc)
}
