package service

import (
	"errors"
	"fmt"

	"github.com/Eursukkul/venue-booking/internal/token"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrPersistence     = errors.New("could not save changes")
	ErrBookingNotFound = errors.New("booking not found")
	ErrForbidden       = errors.New("not allowed")
	ErrInvalidState    = errors.New("booking cannot be changed in its current state")
	ErrInvalidToken    = token.ErrInvalidToken

	// ErrSlotTaken and ErrGroupChanged refine ErrInvalidState.
	ErrSlotTaken    = fmt.Errorf("%w: slot already approved for another event", ErrInvalidState)
	ErrGroupChanged = fmt.Errorf("%w: booking group changed during the decision", ErrInvalidState)

	ErrVenueNotFound = errors.New("venue not found")
	ErrVenueExists   = errors.New("venue already exists")
	ErrUserNotFound  = errors.New("user not found")
	ErrUserExists    = errors.New("username already exists")
)

var domainErrors = []error{
	ErrValidation,
	ErrBookingNotFound,
	ErrForbidden,
	ErrInvalidState,
	ErrInvalidToken,
	ErrVenueNotFound,
	ErrVenueExists,
	ErrUserNotFound,
	ErrUserExists,
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// persistenceError passes domain errors through and wraps anything else from
// the store as ErrPersistence.
func persistenceError(err error) error {
	if err == nil {
		return nil
	}
	for _, domainErr := range domainErrors {
		if errors.Is(err, domainErr) {
			return err
		}
	}
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}
