package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/jaksia/easybook/internal/booking"
	"github.com/jaksia/easybook/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

var holdSeatsScript = redis.NewScript(`
    -- KEYS = seat hold keys (e.g., seat_hold:123:1, seat_hold:123:2 etc.)
    -- ARGV = [holdToken, ttl]

    for i=1, #KEYS do
        if redis.call("EXISTS", KEYS[i]) == 1 then
            return {err = "seat already held"} -- Return an error indicator
        end
    end

    for i=1, #KEYS do
        redis.call("SET", KEYS[i], ARGV[1], "EX", ARGV[2])
    end

    return "OK"
`)

type BookingData struct {
	UserId     int             `json:"userId" validate:"omitempty,gt=0"`
	ShowId     int             `json:"showId" validate:"required,gt=0"`
	Seats      []int           `json:"seats" validate:"required,min=1,unique,dive,gt=0"`
	TotalPrice decimal.Decimal `json:"totalPrice" validate:"required,gt=0"`
	Email      string          `json:"email,omitempty" validate:"omitempty,email"`
}

type CreateBookingOrderRequest struct {
	ShowId     int             `json:"showId" validate:"required,gt=0"`
	Seats      []int           `json:"seats" validate:"required,min=1,unique,dive,gt=0"`
	TotalPrice decimal.Decimal `json:"totalPrice" validate:"required,gt=0"`
}

type CreateBookingOrderResponse struct {
	Status      string          `json:"status"`
	Message     string          `json:"message"`
	OrderId     string          `json:"orderId"`
	Amount      decimal.Decimal `json:"amount"`
	BookingData BookingData     `json:"bookingData"`
}

type ConfirmBookingRequest struct {
	PaymentId   string      `json:"paymentId" validate:"required"`
	OrderId     string      `json:"orderId" validate:"required"`
	Signature   string      `json:"signature" validate:"required"`
	BookingData BookingData `json:"bookingData"`
}

type ConfirmBookingResponse struct {
	Status     string          `json:"status"`
	Message    string          `json:"message"`
	BookingId  int             `json:"bookingId"`
	Seats      string          `json:"seats"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	PaymentId  string          `json:"paymentId"`
}

func (app *Application) CreateBookingOrderHandler(w http.ResponseWriter, r *http.Request) {
	logger := contextGetLogger(r.Context(), app.logger)

	var input CreateBookingOrderRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	holdToken := uuid.NewString()

	err = app.tryHoldSeats(r.Context(), input.Seats, input.ShowId, holdToken)
	if err != nil {
		if errors.Is(err, domain.ErrSeatsUnavailable) {
			logger.Warn("order creation conflict: some selected seats are held by a pending payment",
				"show_id", input.ShowId)
			app.bookingErrorResponse(w, r, err)
			return
		}

		app.serverErrorResponse(w, r, fmt.Errorf("seats couldn't be held: %w", err))
		return
	}

	result, err := app.orchestrator.CreateOrder(r.Context(), booking.CreateOrderInput{
		ShowID:     input.ShowId,
		SeatIDs:    input.Seats,
		TotalPrice: input.TotalPrice,
	})
	if err != nil {
		app.releaseSeatHolds(r.Context(), input.ShowId, input.Seats)
		app.bookingErrorResponse(w, r, err)
		return
	}

	resp := CreateBookingOrderResponse{
		Status:  "success",
		Message: "Payment order created",
		OrderId: result.OrderID,
		Amount:  result.Amount,
		BookingData: BookingData{
			ShowId:     input.ShowId,
			Seats:      input.Seats,
			TotalPrice: input.TotalPrice,
		},
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) ConfirmBookingHandler(w http.ResponseWriter, r *http.Request) {
	var input ConfirmBookingRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	confirmed, err := app.orchestrator.Confirm(r.Context(), booking.ConfirmInput{
		PaymentID:  input.PaymentId,
		OrderID:    input.OrderId,
		Signature:  input.Signature,
		UserID:     input.BookingData.UserId,
		ShowID:     input.BookingData.ShowId,
		SeatIDs:    input.BookingData.Seats,
		TotalPrice: input.BookingData.TotalPrice,
	})
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	// The seats are committed in the database now; the redis holds are only
	// advisory and can be dropped.
	app.releaseSeatHolds(r.Context(), input.BookingData.ShowId, input.BookingData.Seats)

	if input.BookingData.Email != "" {
		app.sendBookingConfirmation(input.BookingData.Email, input.OrderId, confirmed)
	}

	resp := ConfirmBookingResponse{
		Status:     "success",
		Message:    "Booking confirmed successfully",
		BookingId:  confirmed.ID,
		Seats:      confirmed.SeatsBooked,
		TotalPrice: confirmed.TotalPrice,
		PaymentId:  input.PaymentId,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) tryHoldSeats(ctx context.Context, seatIDs []int, showID int, holdToken string) error {
	keys := make([]string, len(seatIDs))
	for i, seatID := range seatIDs {
		keys[i] = seatHoldKey(showID, seatID)
	}

	err := holdSeatsScript.Run(ctx, app.redis, keys, holdToken, int(app.config.SeatHoldTTL.Seconds())).Err()
	if err != nil {
		if redis.HasErrorPrefix(err, "seat already held") {
			return domain.ErrSeatsUnavailable
		}

		return err
	}

	seatIdInterfaces := make([]interface{}, len(seatIDs))
	for i, seatID := range seatIDs {
		seatIdInterfaces[i] = seatID
	}

	err = app.redis.SAdd(ctx, seatHoldSetKey(showID), seatIdInterfaces...).Err()
	if err != nil {
		app.releaseSeatHolds(ctx, showID, seatIDs)
		return err
	}

	return nil
}

func (app *Application) releaseSeatHolds(ctx context.Context, showID int, seatIDs []int) {
	holdKeys := make([]string, len(seatIDs))
	seatIDInterfaces := make([]interface{}, len(seatIDs))

	for i, seatID := range seatIDs {
		holdKeys[i] = seatHoldKey(showID, seatID)
		seatIDInterfaces[i] = seatID
	}

	pipe := app.redis.TxPipeline()
	pipe.Del(ctx, holdKeys...)
	pipe.SRem(ctx, seatHoldSetKey(showID), seatIDInterfaces...)

	_, err := pipe.Exec(ctx)
	if err != nil {
		app.logger.Error("failed to release seat holds", "show_id", showID, "error", err)
	}
}

func (app *Application) sendBookingConfirmation(recipient, orderID string, confirmed *domain.Booking) {
	app.background(func() {
		description := fmt.Sprintf("Show #%d", confirmed.ShowID)

		order, err := app.orderRepo.GetByOrderId(context.Background(), orderID)
		if err == nil {
			description = order.Description
		}

		data := map[string]any{
			"BookingID":   confirmed.ID,
			"Description": description,
			"Seats":       confirmed.SeatsBooked,
			"Total":       confirmed.TotalPrice.StringFixed(2),
		}

		err = app.mailer.Send(recipient, "booking_confirmation.tmpl", data)
		if err != nil {
			app.logger.Error("failed to send booking confirmation email",
				"booking_id", confirmed.ID, "error", err)
		}
	})
}

func seatHoldKey(showID, seatID int) string {
	return fmt.Sprintf("seat_hold:%d:%d", showID, seatID)
}

func seatHoldSetKey(showID int) string {
	return fmt.Sprintf("seat_holds:%d", showID)
}
