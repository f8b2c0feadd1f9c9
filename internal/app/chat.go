package app

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/jaksia/easybook/internal/domain"
)

type MoviesInfoResponse struct {
	TotalMovies   int             `json:"totalMovies"`
	TotalTheaters int             `json:"totalTheaters"`
	TotalShows    int             `json:"totalShows"`
	Cities        []string        `json:"cities"`
	Movies        []MovieResponse `json:"movies"`
}

type MovieSearchResult struct {
	MovieResponse
	TotalShows int      `json:"totalShows"`
	Cities     []string `json:"cities"`
}

type MovieDetailsResponse struct {
	Movie MovieResponse             `json:"movie"`
	Shows map[string][]ShowResponse `json:"showsByCity"`
}

// GetMoviesInfoHandler returns the catalog overview the chat frontend uses to
// seed its context.
func (app *Application) GetMoviesInfoHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := app.showRepo.Stats(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	cities, err := app.theaterRepo.GetCities(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	movies, err := app.movieRepo.GetAll(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if len(movies) > 20 {
		movies = movies[:20]
	}

	resp := MoviesInfoResponse{
		TotalMovies:   stats.TotalMovies,
		TotalTheaters: stats.TotalTheaters,
		TotalShows:    stats.TotalShows,
		Cities:        cities,
		Movies:        toMovieResponses(movies),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) SearchMoviesHandler(w http.ResponseWriter, r *http.Request) {
	query := chi.URLParam(r, "query")
	if query == "" {
		app.badRequestResponse(w, r, errors.New("query must not be empty"))
		return
	}

	movies, err := app.movieRepo.Search(r.Context(), query)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	results := make([]MovieSearchResult, 0, len(movies))
	for _, movie := range movies {
		shows, err := app.showRepo.GetByMovie(r.Context(), movie.ID)
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}

		cities := make([]string, 0)
		seen := make(map[string]bool)
		for _, show := range shows {
			if !seen[show.City] {
				seen[show.City] = true
				cities = append(cities, show.City)
			}
		}

		results = append(results, MovieSearchResult{
			MovieResponse: toMovieResponses([]domain.Movie{movie})[0],
			TotalShows:    len(shows),
			Cities:        cities,
		})
	}

	err = app.writeJSON(w, http.StatusOK, results, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetMovieDetailsHandler(w http.ResponseWriter, r *http.Request) {
	movieID, err := app.readIDParam(r, "movieId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	movie, err := app.movieRepo.GetById(r.Context(), movieID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			app.notFoundResponse(w, r)
			return
		}

		app.serverErrorResponse(w, r, err)
		return
	}

	shows, err := app.showRepo.GetByMovie(r.Context(), movieID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	showsByCity := make(map[string][]ShowResponse)
	for _, show := range shows {
		showsByCity[show.City] = append(showsByCity[show.City], toShowResponse(show.Show))
	}

	resp := MovieDetailsResponse{
		Movie: toMovieResponses([]domain.Movie{*movie})[0],
		Shows: showsByCity,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// ChatSocketHandler upgrades the connection and answers each text frame with
// the assistant's reply. One connection maps to one conversation; there is no
// cross-frame state.
func (app *Application) ChatSocketHandler(w http.ResponseWriter, r *http.Request) {
	logger := contextGetLogger(r.Context(), app.logger)

	conn, err := app.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	for {
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("websocket closed unexpectedly", "error", err)
			}
			return
		}

		if messageType != websocket.TextMessage {
			continue
		}

		reply := app.assistant.Answer(r.Context(), string(message))

		err = conn.WriteMessage(websocket.TextMessage, []byte(reply))
		if err != nil {
			logger.Error("websocket write failed", "error", err)
			return
		}
	}
}
