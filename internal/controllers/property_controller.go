package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/dtos"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/services"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/utils"
)

type PropertyController struct {
	listingService *services.ListingService
}

func NewPropertyController(ls *services.ListingService) *PropertyController {
	return &PropertyController{listingService: ls}
}

// ----------------------------------------------------------------
// POST /api/v1/properties
// ----------------------------------------------------------------
func (c *PropertyController) RegisterPropertyHandler(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := requireUser(w, r)
	if !ok {
		return
	}

	var body dtos.RegisterPropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Invalid JSON for property payload", nil, err,
		)
		return
	}
	if err := validate.Struct(body); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeValidation,
			"Property payload failed validation", nil, err,
		)
		return
	}

	prop, err := c.listingService.RegisterProperty(r.Context(), userID, services.RegisterPropertyInput{
		Title:     body.Title,
		Type:      body.Type,
		City:      body.City,
		Area:      body.Area,
		Block:     body.Block,
		Price:     body.Price,
		AreaSqFt:  body.AreaSqFt,
		Bedrooms:  body.Bedrooms,
		Bathrooms: body.Bathrooms,
		Features:  body.Features,
	})
	if err != nil {
		respondDomainError(w, err, "Could not register property")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, prop)
}

// ----------------------------------------------------------------
// GET /api/v1/properties
// ----------------------------------------------------------------
func (c *PropertyController) ListPropertiesHandler(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := requireUser(w, r)
	if !ok {
		return
	}

	props, err := c.listingService.ListPropertiesForUser(r.Context(), userID, role)
	if err != nil {
		respondDomainError(w, err, "Could not list properties")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, props)
}

// ----------------------------------------------------------------
// GET /api/v1/properties/{propertyID}
// ----------------------------------------------------------------
func (c *PropertyController) GetPropertyHandler(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := requireUser(w, r)
	if !ok {
		return
	}
	propertyID, ok := pathUUID(w, r, "propertyID")
	if !ok {
		return
	}

	prop, err := c.listingService.GetPropertyForUser(r.Context(), propertyID, userID, role)
	if err != nil {
		respondDomainError(w, err, "Property not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, prop)
}
