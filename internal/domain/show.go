package domain

import "context"

type Show struct {
	ID             int
	MovieID        int
	TheaterID      int
	Timing         string
	AvailableSeats int
	Version        int64
}

// ShowDetail carries the joined movie and theater attributes needed for the
// payment order description and the chat assistant.
type ShowDetail struct {
	Show
	MovieTitle  string
	TheaterName string
	City        string
}

// CatalogStats backs the chat assistant's overview answers.
type CatalogStats struct {
	TotalMovies   int
	TotalTheaters int
	TotalShows    int
}

type ShowRepository interface {
	GetById(ctx context.Context, showID int) (*ShowDetail, error)
	GetByMovie(ctx context.Context, movieID int) ([]ShowDetail, error)
	GetByMovieAndTheater(ctx context.Context, movieID, theaterID int) ([]Show, error)
	GetCitiesByMovie(ctx context.Context, movieID int) ([]string, error)
	Stats(ctx context.Context) (*CatalogStats, error)
}
