package domain

import "context"

// CommitResult reports a successful seat commit. Version is the show's
// post-commit version, strictly increasing across commits for the same show,
// usable by callers as an idempotency token.
type CommitResult struct {
	ShowID  int
	SeatIDs []int
	Version int64
}

// ReservationEngine owns all seat-state mutation. Reserve transitions every
// requested seat from available to booked as a single atomic unit, or none of
// them:
//
//   - ErrSeatsNotFound if any id does not resolve to a seat of the show
//   - ErrSeatsUnavailable if any resolved seat is already booked
//   - ErrStorageUnavailable on lock timeout or transient storage failure,
//     with no mutation applied
//
// Two concurrent calls sharing at least one seat never both succeed.
type ReservationEngine interface {
	Reserve(ctx context.Context, showID int, seatIDs []int) (*CommitResult, error)
}
