package app

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jaksia/easybook/internal/domain"
)

type MovieResponse struct {
	MovieId  int    `json:"movieId"`
	Title    string `json:"title"`
	Genre    string `json:"genre"`
	Language string `json:"language"`
	Duration int    `json:"duration"`
}

type TheaterResponse struct {
	TheaterId int    `json:"theaterId"`
	Name      string `json:"name"`
	City      string `json:"city"`
}

type ShowResponse struct {
	ShowId         int    `json:"showId"`
	MovieId        int    `json:"movieId"`
	TheaterId      int    `json:"theaterId"`
	Timing         string `json:"timing"`
	AvailableSeats int    `json:"availableSeats"`
}

func (app *Application) GetMoviesHandler(w http.ResponseWriter, r *http.Request) {
	movies, err := app.movieRepo.GetAll(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toMovieResponses(movies), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetCitiesByMovieHandler(w http.ResponseWriter, r *http.Request) {
	movieID, err := app.readIDParam(r, "movieId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	cities, err := app.showRepo.GetCitiesByMovie(r.Context(), movieID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if cities == nil {
		cities = []string{}
	}

	err = app.writeJSON(w, http.StatusOK, cities, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetTheatersHandler(w http.ResponseWriter, r *http.Request) {
	movieID, err := app.readIDParam(r, "movieId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	city := chi.URLParam(r, "city")
	if city == "" {
		app.badRequestResponse(w, r, errors.New("city must not be empty"))
		return
	}

	theaters, err := app.theaterRepo.GetByMovieAndCity(r.Context(), movieID, city)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := make([]TheaterResponse, len(theaters))
	for i, t := range theaters {
		resp[i] = TheaterResponse{TheaterId: t.ID, Name: t.Name, City: t.City}
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetShowsHandler(w http.ResponseWriter, r *http.Request) {
	movieID, err := app.readIDParam(r, "movieId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	theaterID, err := app.readIDParam(r, "theaterId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	shows, err := app.showRepo.GetByMovieAndTheater(r.Context(), movieID, theaterID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := make([]ShowResponse, len(shows))
	for i, s := range shows {
		resp[i] = toShowResponse(s)
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toMovieResponses(movies []domain.Movie) []MovieResponse {
	resp := make([]MovieResponse, len(movies))
	for i, m := range movies {
		resp[i] = MovieResponse{
			MovieId:  m.ID,
			Title:    m.Title,
			Genre:    m.Genre,
			Language: m.Language,
			Duration: m.Duration,
		}
	}
	return resp
}

func toShowResponse(s domain.Show) ShowResponse {
	return ShowResponse{
		ShowId:         s.ID,
		MovieId:        s.MovieID,
		TheaterId:      s.TheaterID,
		Timing:         s.Timing,
		AvailableSeats: s.AvailableSeats,
	}
}
