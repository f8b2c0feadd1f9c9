package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Booking is immutable once created; there is no update path.
type Booking struct {
	ID          int
	UserID      int
	ShowID      int
	SeatsBooked string // committed seat ids, ascending, comma-joined
	TotalPrice  decimal.Decimal
	CreatedAt   time.Time
}

type BookingRepository interface {
	Create(ctx context.Context, booking *Booking) error
	GetById(ctx context.Context, id int) (*Booking, error)
}
