package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/riandyrn/otelchi"
)

func (app *Application) Routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)
	r.MethodNotAllowed(app.methodNotAllowedResponse)

	r.Use(middleware.RequestID)
	r.Use(otelchi.Middleware("easybook", otelchi.WithChiRoutes(r)))
	r.Use(app.requestLogger)
	r.Use(app.recoverPanic)

	r.Get("/healthcheck", app.HealthcheckHandler)

	r.Get("/movies", app.GetMoviesHandler)
	r.Get("/cities/{movieId}", app.GetCitiesByMovieHandler)
	r.Get("/theaters/{movieId}/{city}", app.GetTheatersHandler)
	r.Get("/shows/{movieId}/{theaterId}", app.GetShowsHandler)
	r.Get("/seats/{showId}", app.GetSeatsByShowHandler)

	r.Post("/create-booking-order", app.CreateBookingOrderHandler)
	r.Post("/confirm-booking", app.ConfirmBookingHandler)

	r.Route("/chat", func(r chi.Router) {
		r.Get("/movies-info", app.GetMoviesInfoHandler)
		r.Get("/search-movies/{query}", app.SearchMoviesHandler)
		r.Get("/movie/{movieId}/details", app.GetMovieDetailsHandler)
	})

	r.Get("/ws/chat", app.ChatSocketHandler)

	return r
}
