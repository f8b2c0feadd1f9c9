package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jaksia/easybook/internal/domain"
)

type PostgresTheaterRepository struct {
	db *pgxpool.Pool
}

func NewPostgresTheaterRepository(db *pgxpool.Pool) *PostgresTheaterRepository {
	return &PostgresTheaterRepository{
		db: db,
	}
}

func (p *PostgresTheaterRepository) GetByMovieAndCity(
	ctx context.Context,
	movieID int,
	city string) ([]domain.Theater, error) {

	query := `
		SELECT DISTINCT t.theater_id, t.name, t.city
		FROM theaters t
		JOIN shows s ON s.theater_id = t.theater_id
		WHERE s.movie_id = $1 AND t.city = $2
		ORDER BY t.theater_id
	`

	rows, err := p.db.Query(ctx, query, movieID, city)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	theaters := make([]domain.Theater, 0)

	for rows.Next() {
		var theater domain.Theater

		err := rows.Scan(&theater.ID, &theater.Name, &theater.City)
		if err != nil {
			return nil, err
		}

		theaters = append(theaters, theater)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return theaters, nil
}

func (p *PostgresTheaterRepository) GetByCity(ctx context.Context, city string) ([]domain.Theater, error) {
	query := `
		SELECT theater_id, name, city
		FROM theaters
		WHERE city ILIKE '%' || $1 || '%'
		ORDER BY theater_id
	`

	rows, err := p.db.Query(ctx, query, city)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	theaters := make([]domain.Theater, 0)

	for rows.Next() {
		var theater domain.Theater

		err := rows.Scan(&theater.ID, &theater.Name, &theater.City)
		if err != nil {
			return nil, err
		}

		theaters = append(theaters, theater)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return theaters, nil
}

func (p *PostgresTheaterRepository) GetCities(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT city
		FROM theaters
		WHERE city IS NOT NULL
		ORDER BY city
	`

	rows, err := p.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cities := make([]string, 0)

	for rows.Next() {
		var city string

		if err := rows.Scan(&city); err != nil {
			return nil, err
		}

		cities = append(cities, city)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return cities, nil
}
