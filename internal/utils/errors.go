package utils

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

/*
   Sentinel errors for brokerage domain logic.
   Controllers dispatch on these with errors.Is.
*/
var (
	ErrPropertyNotFound      = errors.New("property_not_found")
	ErrCycleNotFound         = errors.New("cycle_not_found")
	ErrOfferNotFound         = errors.New("offer_not_found")
	ErrRequirementNotFound   = errors.New("requirement_not_found")
	ErrPurchaseCycleNotFound = errors.New("purchase_cycle_not_found")
	ErrDealNotFound          = errors.New("deal_not_found")
	ErrMatchNotFound         = errors.New("match_not_found")

	ErrWrongStatus         = errors.New("wrong_status")
	ErrCycleClosed         = errors.New("cycle_closed")
	ErrActiveCycleExists   = errors.New("active_cycle_exists")
	ErrRequirementInactive = errors.New("requirement_inactive")
	ErrStageComplete       = errors.New("stage_already_complete")

	ErrNotCycleOwner = errors.New("not_cycle_owner")
	ErrNotOfferOwner = errors.New("not_offer_owner")

	ErrInvalidOfferAmount   = errors.New("invalid_offer_amount")
	ErrTokenExceedsOffer    = errors.New("token_exceeds_offer")
	ErrBuyerIdentityMissing = errors.New("buyer_identity_missing")

	ErrDealAlreadyExists   = errors.New("deal_already_exists")
	ErrLinkedCycleMismatch = errors.New("linked_cycle_mismatch")
	ErrUnknownEntityType   = errors.New("unknown_entity_type")

	ErrInvalidPayload = errors.New("invalid_payload")
)

/*
   CycleNotSharedError is returned when an agent other than the listing
   agent acts on a cycle that is not shared to the organization. It
   carries the cycle ID so the controller can report which cycle was
   refused.
*/
type CycleNotSharedError struct {
	CycleID uuid.UUID
}

func (e *CycleNotSharedError) Error() string {
	return "cycle_not_shared"
}

func NewCycleNotSharedError(cycleID uuid.UUID) error {
	return &CycleNotSharedError{CycleID: cycleID}
}

/*
   AcceptanceRollbackError is returned when offer acceptance failed
   partway and the already-written steps were rolled back. Step names
   the operation that failed; Cause is the underlying error.
*/
type AcceptanceRollbackError struct {
	Step  string
	Cause error
}

func (e *AcceptanceRollbackError) Error() string {
	return fmt.Sprintf("acceptance_rolled_back: %s failed", e.Step)
}

func (e *AcceptanceRollbackError) Unwrap() error {
	return e.Cause
}

func NewAcceptanceRollbackError(step string, cause error) error {
	return &AcceptanceRollbackError{Step: step, Cause: cause}
}
