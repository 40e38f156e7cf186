package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidState      = errors.New("operation not allowed in current state")
	ErrAlreadyPaid       = errors.New("booking already paid")
	ErrNoPayment         = errors.New("no successful payment for booking")
	ErrDuplicateFeedback = errors.New("feedback already exists for this booking")
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrPaymentDeclined   = errors.New("payment declined")
	ErrConflict          = errors.New("concurrent modification")
)

// ValidationError names the offending field. Fields, when set, holds a
// message for every field that failed, keyed by field name.
type ValidationError struct {
	Field   string
	Message string
	Fields  map[string]string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s is invalid", e.Field)
	}
	return e.Message
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

type InvalidTransitionError struct {
	From ParcelStatus
	To   ParcelStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot change parcel status from %s to %s", e.From, e.To)
}

func (e *InvalidTransitionError) Is(target error) bool { return target == ErrInvalidTransition }

func NotFound(what, id string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, what, id)
}

func InvalidState(bookingID string, status ParcelStatus, action string) error {
	return fmt.Errorf("%w: cannot %s booking %s in status %s", ErrInvalidState, action, bookingID, status)
}
