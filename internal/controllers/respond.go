package controllers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/middleware"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/models"
	"github.com/Aliyan555-555/Aaraazi-Prototype-sub002/internal/utils"
)

var validate = validator.New()

// requireUser pulls the identity stored by the auth middleware. On a
// route that skipped the middleware it writes the 401 and returns
// ok=false.
func requireUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, models.UserRole, bool) {
	userID, role, ok := middleware.UserFromContext(r.Context())
	if !ok {
		utils.RespondErrorWithCode(
			w, http.StatusUnauthorized, utils.ErrCodeUnauthorized,
			"No userID in context", nil, nil,
		)
		return uuid.Nil, "", false
	}
	return userID, role, true
}

// pathUUID parses one {var} route segment as a UUID, writing the 400
// itself on bad input.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	raw := mux.Vars(r)[name]
	id, err := uuid.Parse(raw)
	if err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Invalid "+name, nil, err,
		)
		return uuid.Nil, false
	}
	return id, true
}

// respondDomainError maps service errors onto HTTP statuses. Sentinel
// errors carry their code as the error text; typed errors add details.
func respondDomainError(w http.ResponseWriter, err error, publicMsg string) {
	var notShared *utils.CycleNotSharedError
	if errors.As(err, &notShared) {
		utils.RespondErrorWithCode(
			w, http.StatusForbidden, utils.ErrCodeCycleNotShared, publicMsg,
			map[string]string{"cycle_id": notShared.CycleID.String()}, err,
		)
		return
	}
	var rollback *utils.AcceptanceRollbackError
	if errors.As(err, &rollback) {
		utils.RespondErrorWithCode(
			w, http.StatusConflict, utils.ErrCodeAcceptanceFailed, publicMsg,
			map[string]string{"failed_step": rollback.Step}, err,
		)
		return
	}

	switch {
	case errors.Is(err, utils.ErrPropertyNotFound),
		errors.Is(err, utils.ErrCycleNotFound),
		errors.Is(err, utils.ErrOfferNotFound),
		errors.Is(err, utils.ErrRequirementNotFound),
		errors.Is(err, utils.ErrPurchaseCycleNotFound),
		errors.Is(err, utils.ErrDealNotFound),
		errors.Is(err, utils.ErrMatchNotFound):
		utils.RespondErrorWithCode(
			w, http.StatusNotFound, err.Error(), publicMsg, nil, err,
		)
	case errors.Is(err, utils.ErrNotCycleOwner),
		errors.Is(err, utils.ErrNotOfferOwner):
		utils.RespondErrorWithCode(
			w, http.StatusForbidden, utils.ErrCodeForbidden, publicMsg, nil, err,
		)
	case errors.Is(err, utils.ErrCycleClosed),
		errors.Is(err, utils.ErrWrongStatus),
		errors.Is(err, utils.ErrRequirementInactive),
		errors.Is(err, utils.ErrStageComplete),
		errors.Is(err, utils.ErrActiveCycleExists),
		errors.Is(err, utils.ErrDealAlreadyExists):
		utils.RespondErrorWithCode(
			w, http.StatusConflict, err.Error(), publicMsg, nil, err,
		)
	case errors.Is(err, utils.ErrInvalidOfferAmount),
		errors.Is(err, utils.ErrTokenExceedsOffer),
		errors.Is(err, utils.ErrBuyerIdentityMissing),
		errors.Is(err, utils.ErrLinkedCycleMismatch),
		errors.Is(err, utils.ErrUnknownEntityType),
		errors.Is(err, utils.ErrInvalidPayload):
		utils.RespondErrorWithCode(
			w, http.StatusBadRequest, err.Error(), publicMsg, nil, err,
		)
	default:
		utils.Logger.WithError(err).Error(publicMsg)
		utils.RespondErrorWithCode(
			w, http.StatusInternalServerError, utils.ErrCodeInternal, publicMsg, nil, err,
		)
	}
}
