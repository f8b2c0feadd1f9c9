package app

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/jaksia/easybook/internal/domain"
	appvalidator "github.com/jaksia/easybook/internal/validator"
)

type ErrorResponse struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	RequestId string    `json:"requestId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationErrorResponse struct {
	Status    string            `json:"status"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields"`
	RequestId string            `json:"requestId,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

func (app *Application) logError(r *http.Request, err error) {
	logger := contextGetLogger(r.Context(), app.logger)
	logger.Error(err.Error(), "method", r.Method, "uri", r.URL.RequestURI())
}

func (app *Application) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	resp := ErrorResponse{
		Status:    "error",
		Message:   message,
		RequestId: middleware.GetReqID(r.Context()),
		Timestamp: time.Now().UTC(),
	}

	err := app.writeJSON(w, status, resp, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(500)
	}
}

func (app *Application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)

	message := "the server encountered a problem and could not process your request"
	app.errorResponse(w, r, http.StatusInternalServerError, message)
}

func (app *Application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	message := "the requested resource could not be found"
	app.errorResponse(w, r, http.StatusNotFound, message)
}

func (app *Application) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	message := "this method is not supported for the requested resource"
	app.errorResponse(w, r, http.StatusMethodNotAllowed, message)
}

func (app *Application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (app *Application) conflictResponse(w http.ResponseWriter, r *http.Request, message string) {
	app.errorResponse(w, r, http.StatusConflict, message)
}

func (app *Application) failedValidationResponse(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		app.serverErrorResponse(w, r, err)
		return
	}

	messages := make(map[string]string, len(validationErrors))
	for _, fieldError := range validationErrors {
		messages[fieldError.Field()] = appvalidator.ValidationMessage(fieldError)
	}

	resp := ValidationErrorResponse{
		Status:    "error",
		Message:   "the request could not be validated",
		Fields:    messages,
		RequestId: middleware.GetReqID(r.Context()),
		Timestamp: time.Now().UTC(),
	}

	e := app.writeJSON(w, http.StatusBadRequest, resp, nil)
	if e != nil {
		app.logError(r, e)
		w.WriteHeader(500)
	}
}

// bookingErrorResponse maps the booking pipeline's error taxonomy to HTTP
// statuses. Conflicts discovered after a successful payment get their own 409
// so the client can tell "pick different seats" apart from "retry later".
func (app *Application) bookingErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrRecordNotFound):
		app.errorResponse(w, r, http.StatusBadRequest, "show not found")

	case errors.Is(err, domain.ErrSeatsNotFound):
		app.errorResponse(w, r, http.StatusBadRequest, "one or more requested seats do not exist for this show")

	case errors.Is(err, domain.ErrSeatsUnavailable):
		app.errorResponse(w, r, http.StatusBadRequest, "some of the requested seats are already booked")

	case errors.Is(err, domain.ErrPaymentVerificationFailed):
		app.errorResponse(w, r, http.StatusBadRequest, "payment verification failed")

	case errors.Is(err, domain.ErrPostPaymentSeatConflict):
		app.conflictResponse(w, r, "payment succeeded but the seats were taken in the meantime, a refund will be issued")

	case errors.Is(err, domain.ErrBookingPersistFailed):
		app.logError(r, err)
		app.errorResponse(w, r, http.StatusInternalServerError, "payment succeeded but the booking record could not be saved, please retry confirmation")

	default:
		app.serverErrorResponse(w, r, err)
	}
}
