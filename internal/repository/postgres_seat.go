package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jaksia/easybook/internal/domain"
)

type PostgresSeatRepository struct {
	db *pgxpool.Pool
}

func NewPostgresSeatRepository(db *pgxpool.Pool) *PostgresSeatRepository {
	return &PostgresSeatRepository{
		db: db,
	}
}

func (p *PostgresSeatRepository) GetByShow(ctx context.Context, showID int) ([]domain.Seat, error) {
	query := `
		SELECT seat_id, show_id, seat_number, is_booked
		FROM seats
		WHERE show_id = $1
		ORDER BY seat_id
	`

	rows, err := p.db.Query(ctx, query, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSeats(rows)
}

func (p *PostgresSeatRepository) GetByShowAndIds(
	ctx context.Context,
	showID int,
	seatIDs []int) ([]domain.Seat, error) {

	query := `
		SELECT seat_id, show_id, seat_number, is_booked
		FROM seats
		WHERE show_id = $1 AND seat_id = ANY($2)
		ORDER BY seat_id
	`

	rows, err := p.db.Query(ctx, query, showID, seatIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSeats(rows)
}

func scanSeats(rows pgx.Rows) ([]domain.Seat, error) {
	seats := make([]domain.Seat, 0)

	for rows.Next() {
		var seat domain.Seat

		err := rows.Scan(
			&seat.ID,
			&seat.ShowID,
			&seat.SeatNumber,
			&seat.Booked,
		)
		if err != nil {
			return nil, err
		}

		seats = append(seats, seat)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return seats, nil
}
