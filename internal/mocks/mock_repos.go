package mocks

import (
	"context"

	"github.com/jaksia/easybook/internal/domain"
)

type MockMovieRepo struct {
	GetAllFunc  func(ctx context.Context) ([]domain.Movie, error)
	GetByIdFunc func(ctx context.Context, id int) (*domain.Movie, error)
	SearchFunc  func(ctx context.Context, query string) ([]domain.Movie, error)
}

func (m *MockMovieRepo) GetAll(ctx context.Context) ([]domain.Movie, error) {
	return m.GetAllFunc(ctx)
}

func (m *MockMovieRepo) GetById(ctx context.Context, id int) (*domain.Movie, error) {
	return m.GetByIdFunc(ctx, id)
}

func (m *MockMovieRepo) Search(ctx context.Context, query string) ([]domain.Movie, error) {
	return m.SearchFunc(ctx, query)
}

type MockTheaterRepo struct {
	GetByMovieAndCityFunc func(ctx context.Context, movieID int, city string) ([]domain.Theater, error)
	GetByCityFunc         func(ctx context.Context, city string) ([]domain.Theater, error)
	GetCitiesFunc         func(ctx context.Context) ([]string, error)
}

func (m *MockTheaterRepo) GetByMovieAndCity(ctx context.Context, movieID int, city string) ([]domain.Theater, error) {
	return m.GetByMovieAndCityFunc(ctx, movieID, city)
}

func (m *MockTheaterRepo) GetByCity(ctx context.Context, city string) ([]domain.Theater, error) {
	return m.GetByCityFunc(ctx, city)
}

func (m *MockTheaterRepo) GetCities(ctx context.Context) ([]string, error) {
	return m.GetCitiesFunc(ctx)
}

type MockShowRepo struct {
	GetByIdFunc              func(ctx context.Context, showID int) (*domain.ShowDetail, error)
	GetByMovieFunc           func(ctx context.Context, movieID int) ([]domain.ShowDetail, error)
	GetByMovieAndTheaterFunc func(ctx context.Context, movieID, theaterID int) ([]domain.Show, error)
	GetCitiesByMovieFunc     func(ctx context.Context, movieID int) ([]string, error)
	StatsFunc                func(ctx context.Context) (*domain.CatalogStats, error)
}

func (m *MockShowRepo) GetById(ctx context.Context, showID int) (*domain.ShowDetail, error) {
	return m.GetByIdFunc(ctx, showID)
}

func (m *MockShowRepo) GetByMovie(ctx context.Context, movieID int) ([]domain.ShowDetail, error) {
	return m.GetByMovieFunc(ctx, movieID)
}

func (m *MockShowRepo) GetByMovieAndTheater(ctx context.Context, movieID, theaterID int) ([]domain.Show, error) {
	return m.GetByMovieAndTheaterFunc(ctx, movieID, theaterID)
}

func (m *MockShowRepo) GetCitiesByMovie(ctx context.Context, movieID int) ([]string, error) {
	return m.GetCitiesByMovieFunc(ctx, movieID)
}

func (m *MockShowRepo) Stats(ctx context.Context) (*domain.CatalogStats, error) {
	return m.StatsFunc(ctx)
}

type MockSeatRepo struct {
	GetByShowFunc       func(ctx context.Context, showID int) ([]domain.Seat, error)
	GetByShowAndIdsFunc func(ctx context.Context, showID int, seatIDs []int) ([]domain.Seat, error)
}

func (m *MockSeatRepo) GetByShow(ctx context.Context, showID int) ([]domain.Seat, error) {
	return m.GetByShowFunc(ctx, showID)
}

func (m *MockSeatRepo) GetByShowAndIds(ctx context.Context, showID int, seatIDs []int) ([]domain.Seat, error) {
	return m.GetByShowAndIdsFunc(ctx, showID, seatIDs)
}
