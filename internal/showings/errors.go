package showings

import "errors"

var (
	// ErrShowingNotFound is returned when the showing does not exist.
	ErrShowingNotFound = errors.New("showing not found")

	// ErrSeatConflict is returned when the batch compare-and-swap finds at
	// least one seat outside the expected state. Nothing is changed.
	ErrSeatConflict = errors.New("one or more seats are not in the expected state")

	// ErrUnknownSeats is returned when a request references seats that are
	// not part of the showing's seat map.
	ErrUnknownSeats = errors.New("one or more seats do not belong to this showing")
)
