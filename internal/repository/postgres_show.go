package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jaksia/easybook/internal/domain"
)

type PostgresShowRepository struct {
	db *pgxpool.Pool
}

func NewPostgresShowRepository(db *pgxpool.Pool) *PostgresShowRepository {
	return &PostgresShowRepository{
		db: db,
	}
}

func (p *PostgresShowRepository) GetById(ctx context.Context, showID int) (*domain.ShowDetail, error) {
	query := `
		SELECT
			s.show_id,
			s.movie_id,
			s.theater_id,
			s.timing,
			s.available_seats,
			s.version,
			m.title,
			t.name,
			t.city
		FROM shows s
		JOIN movies m ON s.movie_id = m.movie_id
		JOIN theaters t ON s.theater_id = t.theater_id
		WHERE s.show_id = $1
	`

	var detail domain.ShowDetail

	err := p.db.QueryRow(ctx, query, showID).Scan(
		&detail.ID,
		&detail.MovieID,
		&detail.TheaterID,
		&detail.Timing,
		&detail.AvailableSeats,
		&detail.Version,
		&detail.MovieTitle,
		&detail.TheaterName,
		&detail.City,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &detail, nil
}

func (p *PostgresShowRepository) GetByMovie(ctx context.Context, movieID int) ([]domain.ShowDetail, error) {
	query := `
		SELECT
			s.show_id,
			s.movie_id,
			s.theater_id,
			s.timing,
			s.available_seats,
			s.version,
			m.title,
			t.name,
			t.city
		FROM shows s
		JOIN movies m ON s.movie_id = m.movie_id
		JOIN theaters t ON s.theater_id = t.theater_id
		WHERE s.movie_id = $1
		ORDER BY s.show_id
	`

	rows, err := p.db.Query(ctx, query, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]domain.ShowDetail, 0)

	for rows.Next() {
		var detail domain.ShowDetail

		err := rows.Scan(
			&detail.ID,
			&detail.MovieID,
			&detail.TheaterID,
			&detail.Timing,
			&detail.AvailableSeats,
			&detail.Version,
			&detail.MovieTitle,
			&detail.TheaterName,
			&detail.City,
		)
		if err != nil {
			return nil, err
		}

		details = append(details, detail)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return details, nil
}

func (p *PostgresShowRepository) GetByMovieAndTheater(
	ctx context.Context,
	movieID, theaterID int) ([]domain.Show, error) {

	query := `
		SELECT show_id, movie_id, theater_id, timing, available_seats, version
		FROM shows
		WHERE movie_id = $1 AND theater_id = $2
		ORDER BY show_id
	`

	rows, err := p.db.Query(ctx, query, movieID, theaterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shows := make([]domain.Show, 0)

	for rows.Next() {
		var show domain.Show

		err := rows.Scan(
			&show.ID,
			&show.MovieID,
			&show.TheaterID,
			&show.Timing,
			&show.AvailableSeats,
			&show.Version,
		)
		if err != nil {
			return nil, err
		}

		shows = append(shows, show)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return shows, nil
}

func (p *PostgresShowRepository) GetCitiesByMovie(ctx context.Context, movieID int) ([]string, error) {
	query := `
		SELECT DISTINCT t.city
		FROM shows s
		JOIN theaters t ON s.theater_id = t.theater_id
		WHERE s.movie_id = $1 AND t.city IS NOT NULL
		ORDER BY t.city
	`

	rows, err := p.db.Query(ctx, query, movieID)
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

func (p *PostgresShowRepository) Stats(ctx context.Context) (*domain.CatalogStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM movies),
			(SELECT COUNT(*) FROM theaters),
			(SELECT COUNT(*) FROM shows)
	`

	var stats domain.CatalogStats

	err := p.db.QueryRow(ctx, query).Scan(
		&stats.TotalMovies,
		&stats.TotalTheaters,
		&stats.TotalShows,
	)
	if err != nil {
		return nil, err
	}

	return &stats, nil
}
