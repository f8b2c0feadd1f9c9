package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jaksia/easybook/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	persistAttempts = 3
	persistBackoff  = 100 * time.Millisecond
)

// Orchestrator sequences order creation and booking confirmation across the
// payment gateway, the reservation engine and the booking store. It owns the
// PaymentOrder lifecycle on the confirmation path.
type Orchestrator struct {
	gateway   domain.PaymentGateway
	engine    domain.ReservationEngine
	showRepo  domain.ShowRepository
	seatRepo  domain.SeatRepository
	orderRepo domain.PaymentOrderRepository
	bookings  domain.BookingRepository
	logger    *slog.Logger
}

func NewOrchestrator(
	gateway domain.PaymentGateway,
	engine domain.ReservationEngine,
	showRepo domain.ShowRepository,
	seatRepo domain.SeatRepository,
	orderRepo domain.PaymentOrderRepository,
	bookings domain.BookingRepository,
	logger *slog.Logger) *Orchestrator {

	return &Orchestrator{
		gateway:   gateway,
		engine:    engine,
		showRepo:  showRepo,
		seatRepo:  seatRepo,
		orderRepo: orderRepo,
		bookings:  bookings,
		logger:    logger,
	}
}

type CreateOrderInput struct {
	ShowID     int
	SeatIDs    []int
	TotalPrice decimal.Decimal
}

type OrderResult struct {
	OrderID     string
	Amount      decimal.Decimal
	Description string
}

// CreateOrder validates the seat selection against current seat state and
// opens a payment order with the gateway. No seat is mutated here; seats are
// only committed on confirmation.
func (o *Orchestrator) CreateOrder(ctx context.Context, in CreateOrderInput) (*OrderResult, error) {
	show, err := o.showRepo.GetById(ctx, in.ShowID)
	if err != nil {
		return nil, err
	}

	seats, err := o.seatRepo.GetByShowAndIds(ctx, in.ShowID, in.SeatIDs)
	if err != nil {
		return nil, err
	}

	if len(seats) != len(in.SeatIDs) {
		return nil, domain.ErrSeatsNotFound
	}

	for _, seat := range seats {
		if seat.Booked {
			return nil, domain.ErrSeatsUnavailable
		}
	}

	description := fmt.Sprintf("Movie: %s - %s - %d", show.MovieTitle, show.TheaterName, show.ID)
	receipt := "txn_" + uuid.NewString()

	orderID, err := o.gateway.CreateOrder(ctx, in.TotalPrice, receipt)
	if err != nil {
		// Gateway errors on order creation are transient from the caller's
		// point of view; nothing has been charged or mutated.
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}

	order := &domain.PaymentOrder{
		OrderID:     orderID,
		Amount:      in.TotalPrice,
		Status:      domain.PaymentOrderCreated,
		Description: description,
	}

	if err := o.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	return &OrderResult{
		OrderID:     orderID,
		Amount:      in.TotalPrice,
		Description: description,
	}, nil
}

type ConfirmInput struct {
	PaymentID  string
	OrderID    string
	Signature  string
	UserID     int
	ShowID     int
	SeatIDs    []int
	TotalPrice decimal.Decimal
}

// Confirm runs the post-payment sequence: signature verification, seat
// commit, order resolution, booking creation. The seat commit and the order
// transition are each atomic; a booking persist failure after the commit is
// retried (the seats are already held) and surfaced as
// ErrBookingPersistFailed only when all attempts fail.
func (o *Orchestrator) Confirm(ctx context.Context, in ConfirmInput) (*domain.Booking, error) {
	if !o.gateway.VerifySignature(in.PaymentID, in.OrderID, in.Signature) {
		o.failOrder(ctx, in.OrderID, in.PaymentID, "signature verification failed")
		return nil, domain.ErrPaymentVerificationFailed
	}

	result, err := o.engine.Reserve(ctx, in.ShowID, in.SeatIDs)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSeatsUnavailable):
			// Funds were already captured externally. The order is marked
			// failed and the conflict is surfaced distinctly so operators can
			// trigger a refund.
			o.failOrder(ctx, in.OrderID, in.PaymentID, "seats unavailable after payment")
			return nil, fmt.Errorf("%w: %v", domain.ErrPostPaymentSeatConflict, err)
		case errors.Is(err, domain.ErrSeatsNotFound):
			o.failOrder(ctx, in.OrderID, in.PaymentID, "seats not found after payment")
			return nil, err
		default:
			// Transient storage failure, nothing mutated; the order stays
			// CREATED and the client may retry.
			return nil, err
		}
	}

	if err := o.markOrderSucceeded(ctx, in.OrderID, in.PaymentID); err != nil {
		if errors.Is(err, domain.ErrInvalidStateTransition) {
			return nil, err
		}

		// The seats are committed and the booking will still be written, but
		// the order record is stuck in CREATED and needs reconciliation.
		o.logger.Error("payment order transition exhausted retries",
			"order_id", in.OrderID, "payment_id", in.PaymentID, "error", err)
	}

	booking := &domain.Booking{
		UserID:      in.UserID,
		ShowID:      in.ShowID,
		SeatsBooked: joinSeatIds(result.SeatIDs),
		TotalPrice:  in.TotalPrice,
	}

	if err := o.persistBooking(ctx, booking); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBookingPersistFailed, err)
	}

	return booking, nil
}

// markOrderSucceeded retries the SUCCESS transition on transient repository
// errors. An invalid transition is returned immediately, it cannot heal.
func (o *Orchestrator) markOrderSucceeded(ctx context.Context, orderID, paymentID string) error {
	var err error

	for attempt := 1; attempt <= persistAttempts; attempt++ {
		err = o.orderRepo.MarkSucceeded(ctx, orderID, paymentID)
		if err == nil || errors.Is(err, domain.ErrInvalidStateTransition) {
			return err
		}

		o.logger.Warn("order transition attempt failed",
			"attempt", attempt, "order_id", orderID, "error", err)

		if attempt == persistAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(persistBackoff * time.Duration(attempt)):
		}
	}

	return err
}

// persistBooking retries booking-record creation. The seats are already
// committed, so giving up leaves them held with no booking; the caller
// surfaces that as a retryable condition rather than rolling back seats.
func (o *Orchestrator) persistBooking(ctx context.Context, booking *domain.Booking) error {
	var err error

	for attempt := 1; attempt <= persistAttempts; attempt++ {
		err = o.bookings.Create(ctx, booking)
		if err == nil {
			return nil
		}

		o.logger.Warn("booking persist attempt failed",
			"attempt", attempt, "show_id", booking.ShowID, "error", err)

		if attempt == persistAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(persistBackoff * time.Duration(attempt)):
		}
	}

	return err
}

func (o *Orchestrator) failOrder(ctx context.Context, orderID, paymentID, reason string) {
	err := o.orderRepo.MarkFailed(ctx, orderID, paymentID, reason)
	if err != nil {
		o.logger.Error("failed to mark payment order failed",
			"order_id", orderID, "reason", reason, "error", err)
	}
}

func joinSeatIds(seatIDs []int) string {
	parts := make([]string, len(seatIDs))
	for i, id := range seatIDs {
		parts[i] = strconv.Itoa(id)
	}

	return strings.Join(parts, ",")
}
