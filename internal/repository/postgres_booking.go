package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jaksia/easybook/internal/domain"
)

type PostgresBookingRepository struct {
	db *pgxpool.Pool
}

func NewPostgresBookingRepository(db *pgxpool.Pool) *PostgresBookingRepository {
	return &PostgresBookingRepository{
		db: db,
	}
}

func (p *PostgresBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (user_id, show_id, seats_booked, total_price)
		VALUES ($1, $2, $3, $4)
		RETURNING booking_id, created_at
	`

	return p.db.QueryRow(
		ctx,
		query,
		booking.UserID,
		booking.ShowID,
		booking.SeatsBooked,
		booking.TotalPrice,
	).Scan(&booking.ID, &booking.CreatedAt)
}

func (p *PostgresBookingRepository) GetById(ctx context.Context, id int) (*domain.Booking, error) {
	query := `
		SELECT booking_id, user_id, show_id, seats_booked, total_price, created_at
		FROM bookings
		WHERE booking_id = $1
	`

	var booking domain.Booking

	err := p.db.QueryRow(ctx, query, id).Scan(
		&booking.ID,
		&booking.UserID,
		&booking.ShowID,
		&booking.SeatsBooked,
		&booking.TotalPrice,
		&booking.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &booking, nil
}
