package domain

import "errors"

var (
	ErrRecordNotFound = errors.New("record not found")

	ErrSeatsNotFound    = errors.New("one or more seats not found")
	ErrSeatsUnavailable = errors.New("some seats are no longer available")

	ErrPaymentVerificationFailed = errors.New("payment verification failed")
	ErrPostPaymentSeatConflict   = errors.New("payment captured but seats are no longer available, refund required")
	ErrBookingPersistFailed      = errors.New("booking record could not be persisted, seats remain committed")
	ErrInvalidStateTransition    = errors.New("invalid payment order state transition")

	// ErrStorageUnavailable wraps transient storage failures such as lock
	// timeouts and serialization failures. No partial mutation occurred, so
	// the caller may retry.
	ErrStorageUnavailable = errors.New("storage temporarily unavailable")
)
