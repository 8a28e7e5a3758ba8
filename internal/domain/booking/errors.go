package booking

import "errors"

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrLockNotAcquired = errors.New("owner lock is held by another request")
	// ErrStatusChanged means no booking with the id still had the expected status.
	ErrStatusChanged = errors.New("booking status changed concurrently")
)
