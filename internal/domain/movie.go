package domain

import "context"

type Movie struct {
	ID       int
	Title    string
	Genre    string
	Language string
	Duration int
}

type MovieRepository interface {
	GetAll(ctx context.Context) ([]Movie, error)
	GetById(ctx context.Context, id int) (*Movie, error)
	Search(ctx context.Context, query string) ([]Movie, error)
}
