// Package services defines the business logic for cages, does, vaccines,
// feed stock, reproduction cycles and farm alerts. This file centralizes the
// common service-level error values so that they can be consistently returned
// by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer; translation
// into user-facing messages or HTTP status codes is performed at the
// handler layer.
package services

import "errors"

var (
	// ErrClapetNotFound indicates that the requested cage does not exist.
	ErrClapetNotFound = errors.New("clapet not found")

	// ErrClapetExists is returned when creating a cage whose number is
	// already taken.
	ErrClapetExists = errors.New("clapet numero already exists")

	// ErrFemelleNotFound indicates that the requested doe does not exist.
	ErrFemelleNotFound = errors.New("femelle not found")

	// ErrVaccinNotFound indicates that the requested vaccine does not exist.
	ErrVaccinNotFound = errors.New("vaccin not found")

	// ErrVaccinationNotFound indicates that the requested vaccination record
	// does not exist.
	ErrVaccinationNotFound = errors.New("vaccination not found")

	// ErrAlimentNotFound indicates that the requested feed item does not exist.
	ErrAlimentNotFound = errors.New("aliment not found")

	// ErrCycleNotFound indicates that the requested reproduction cycle does
	// not exist.
	ErrCycleNotFound = errors.New("cycle not found")

	// ErrCycleActive is returned when starting a cycle for a doe that
	// already has one in progress.
	ErrCycleActive = errors.New("femelle already has an active cycle")

	// ErrInvalidTransition is returned when a cycle operation is attempted
	// from a status it does not apply to, including any transition out of a
	// terminal status.
	ErrInvalidTransition = errors.New("invalid cycle transition")

	// ErrInvalidInput is returned when a request carries a value that fails
	// validation (empty name, malformed date, negative quantity, bad time).
	ErrInvalidInput = errors.New("invalid input")
)
