package domain

import "context"

type Theater struct {
	ID   int
	Name string
	City string
}

type TheaterRepository interface {
	GetByMovieAndCity(ctx context.Context, movieID int, city string) ([]Theater, error)
	GetByCity(ctx context.Context, city string) ([]Theater, error)
	GetCities(ctx context.Context) ([]string, error)
}
