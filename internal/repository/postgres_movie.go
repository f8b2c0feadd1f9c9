package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jaksia/easybook/internal/domain"
)

type PostgresMovieRepository struct {
	db *pgxpool.Pool
}

func NewPostgresMovieRepository(db *pgxpool.Pool) *PostgresMovieRepository {
	return &PostgresMovieRepository{
		db: db,
	}
}

func (p *PostgresMovieRepository) GetAll(ctx context.Context) ([]domain.Movie, error) {
	query := `
		SELECT movie_id, title, genre, language, duration_mins
		FROM movies
		ORDER BY movie_id
	`

	rows, err := p.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMovies(rows)
}

func (p *PostgresMovieRepository) GetById(ctx context.Context, id int) (*domain.Movie, error) {
	query := `
		SELECT movie_id, title, genre, language, duration_mins
		FROM movies
		WHERE movie_id = $1
	`

	var movie domain.Movie

	err := p.db.QueryRow(ctx, query, id).Scan(
		&movie.ID,
		&movie.Title,
		&movie.Genre,
		&movie.Language,
		&movie.Duration,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &movie, nil
}

func (p *PostgresMovieRepository) Search(ctx context.Context, query string) ([]domain.Movie, error) {
	stmt := `
		SELECT movie_id, title, genre, language, duration_mins
		FROM movies
		WHERE title ILIKE '%' || $1 || '%'
			OR genre ILIKE '%' || $1 || '%'
			OR language ILIKE '%' || $1 || '%'
		ORDER BY movie_id
	`

	rows, err := p.db.Query(ctx, stmt, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMovies(rows)
}

func scanMovies(rows pgx.Rows) ([]domain.Movie, error) {
	movies := make([]domain.Movie, 0)

	for rows.Next() {
		var movie domain.Movie

		err := rows.Scan(
			&movie.ID,
			&movie.Title,
			&movie.Genre,
			&movie.Language,
			&movie.Duration,
		)
		if err != nil {
			return nil, err
		}

		movies = append(movies, movie)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return movies, nil
}
