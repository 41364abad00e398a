package service

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated       = errors.New("authentication required")
	ErrForbidden             = errors.New("forbidden")
	ErrEventNotFound         = errors.New("event not found")
	ErrRegistrationNotFound  = errors.New("registration not found")
	ErrRegistrationClosed    = errors.New("registration period has ended")
	ErrAlreadyRegistered     = errors.New("already registered for this event")
	ErrAlreadyPaid           = errors.New("already paid")
	ErrValidation            = errors.New("invalid input")
	ErrDependencyUnavailable = errors.New("service temporarily unavailable")
)

// Role failures carry a user-facing reason and match ErrForbidden.
var (
	ErrNotRegistrant = forbiddenError("only students can register for events")
	ErrNotManager    = forbiddenError("only admins and coordinators can view event registrations")
)

type forbiddenError string

func (e forbiddenError) Error() string { return string(e) }

func (e forbiddenError) Is(target error) bool { return target == ErrForbidden }

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrDependencyUnavailable, op, err)
}
