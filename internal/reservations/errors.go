package reservations

import "errors"

var (
	// ErrHoldNotFound is returned when the reservation does not exist or
	// is not visible to the caller.
	ErrHoldNotFound = errors.New("reservation not found")

	// ErrSeatsUnavailable is returned when at least one requested seat
	// lost the race: already held or sold by a concurrent actor.
	ErrSeatsUnavailable = errors.New("one or more seats are no longer available")

	// ErrHoldExpired is returned when the hold's TTL lapsed before the
	// operation. The seats have been released.
	ErrHoldExpired = errors.New("reservation has expired")

	// ErrInvalidHoldState is returned when the operation needs an ACTIVE
	// hold but the hold is already terminal.
	ErrInvalidHoldState = errors.New("reservation is not active")

	// ErrValidation wraps request validation failures (seat count out of
	// bounds, missing or ambiguous owner).
	ErrValidation = errors.New("validation failed")
)
