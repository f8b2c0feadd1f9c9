package reservation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jaksia/easybook/internal/domain"
)

const DefaultLockTimeout = 3 * time.Second

// PostgresEngine commits seat reservations with row-level pessimistic locks.
// The lock scope is the requested seat rows plus the parent show row, so
// bookings for unrelated shows never serialize against each other.
type PostgresEngine struct {
	db          *pgxpool.Pool
	lockTimeout time.Duration
}

func NewPostgresEngine(db *pgxpool.Pool, lockTimeout time.Duration) *PostgresEngine {
	if lockTimeout <= 0 {
		lockTimeout = DefaultLockTimeout
	}

	return &PostgresEngine{
		db:          db,
		lockTimeout: lockTimeout,
	}
}

func (e *PostgresEngine) Reserve(ctx context.Context, showID int, seatIDs []int) (*domain.CommitResult, error) {
	if len(seatIDs) == 0 {
		return nil, domain.ErrSeatsNotFound
	}

	// Locking in ascending seat id order keeps overlapping reservations from
	// deadlocking each other.
	ids := make([]int, len(seatIDs))
	copy(ids, seatIDs)
	sort.Ints(ids)

	var result *domain.CommitResult

	err := pgx.BeginTxFunc(ctx, e.db, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", e.lockTimeout.Milliseconds()))
		if err != nil {
			return err
		}

		rows, err := tx.Query(ctx, `
			SELECT seat_id, is_booked
			FROM seats
			WHERE show_id = $1 AND seat_id = ANY($2)
			ORDER BY seat_id
			FOR UPDATE`,
			showID, ids)
		if err != nil {
			return err
		}
		defer rows.Close()

		resolved := 0
		for rows.Next() {
			var seatID int
			var booked bool

			if err := rows.Scan(&seatID, &booked); err != nil {
				return err
			}

			if booked {
				return domain.ErrSeatsUnavailable
			}

			resolved++
		}

		if err := rows.Err(); err != nil {
			return err
		}

		if resolved != len(ids) {
			return domain.ErrSeatsNotFound
		}

		tag, err := tx.Exec(ctx, `
			UPDATE seats
			SET is_booked = TRUE
			WHERE show_id = $1 AND seat_id = ANY($2)`,
			showID, ids)
		if err != nil {
			return err
		}

		if int(tag.RowsAffected()) != len(ids) {
			return fmt.Errorf("expected to book %d seats, booked %d", len(ids), tag.RowsAffected())
		}

		// The denormalized counter and the version token move in the same
		// transaction as the seat flags.
		var version int64
		err = tx.QueryRow(ctx, `
			UPDATE shows
			SET available_seats = available_seats - $2, version = version + 1
			WHERE show_id = $1
			RETURNING version`,
			showID, len(ids)).Scan(&version)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrSeatsNotFound
			}
			return err
		}

		result = &domain.CommitResult{
			ShowID:  showID,
			SeatIDs: ids,
			Version: version,
		}

		return nil
	})

	if err != nil {
		return nil, classifyError(err)
	}

	return result, nil
}

// classifyError maps transient storage failures onto ErrStorageUnavailable so
// callers know the attempt is retryable. Domain errors pass through.
func classifyError(err error) error {
	switch {
	case errors.Is(err, domain.ErrSeatsNotFound),
		errors.Is(err, domain.ErrSeatsUnavailable):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.LockNotAvailable,
			pgerrcode.SerializationFailure,
			pgerrcode.DeadlockDetected,
			pgerrcode.QueryCanceled:
			return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
		}
	}

	return err
}
