package domain

import "context"

type Seat struct {
	ID         int
	ShowID     int
	SeatNumber string
	Booked     bool
}

// The booked flag is owned exclusively by the reservation engine; seat
// repositories are read-only.
type SeatRepository interface {
	GetByShow(ctx context.Context, showID int) ([]Seat, error)
	GetByShowAndIds(ctx context.Context, showID int, seatIDs []int) ([]Seat, error)
}
