package domain

import "errors"

var (
	ErrNotFound                 = errors.New("not found")
	ErrInvalidRequest           = errors.New("invalid request")
	ErrInsufficientSeats        = errors.New("not enough seats available")
	ErrForbidden                = errors.New("booking belongs to another user")
	ErrAlreadyCancelled         = errors.New("ticket already cancelled")
	ErrCancellationWindowClosed = errors.New("less than 24 hours before journey time")

	// ErrConflict signals a lost compare-and-set race on the flight row.
	// It never escapes the inventory manager, which retries on it.
	ErrConflict = errors.New("concurrent modification")

	// ErrStoreUnavailable marks transient storage failures that are safe
	// to retry from the caller's side.
	ErrStoreUnavailable = errors.New("storage unavailable")
)
