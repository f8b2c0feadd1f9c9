package booking

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/jaksia/easybook/internal/domain"
	"github.com/jaksia/easybook/internal/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type OrchestratorTestSuite struct {
	suite.Suite
	gateway   *mocks.MockPaymentGateway
	engine    *mocks.MockReservationEngine
	showRepo  *mocks.MockShowRepo
	seatRepo  *mocks.MockSeatRepo
	orderRepo *mocks.MockPaymentOrderRepo
	bookings  *mocks.MockBookingRepo
	orch      *Orchestrator
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.gateway = new(mocks.MockPaymentGateway)
	s.engine = new(mocks.MockReservationEngine)
	s.showRepo = &mocks.MockShowRepo{}
	s.seatRepo = &mocks.MockSeatRepo{}
	s.orderRepo = new(mocks.MockPaymentOrderRepo)
	s.bookings = new(mocks.MockBookingRepo)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.orch = NewOrchestrator(s.gateway, s.engine, s.showRepo, s.seatRepo, s.orderRepo, s.bookings, logger)
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}

func (s *OrchestratorTestSuite) stubShow() {
	s.showRepo.GetByIdFunc = func(ctx context.Context, showID int) (*domain.ShowDetail, error) {
		return &domain.ShowDetail{
			Show:        domain.Show{ID: showID, AvailableSeats: 3},
			MovieTitle:  "Interstellar",
			TheaterName: "Galaxy Cinema",
		}, nil
	}
}

func (s *OrchestratorTestSuite) stubSeats(seats ...domain.Seat) {
	s.seatRepo.GetByShowAndIdsFunc = func(ctx context.Context, showID int, seatIDs []int) ([]domain.Seat, error) {
		return seats, nil
	}
}

func (s *OrchestratorTestSuite) TestCreateOrder() {
	price := decimal.RequireFromString("500.00")

	s.Run("creates a payment order for available seats", func() {
		s.SetupTest()
		s.stubShow()
		s.stubSeats(
			domain.Seat{ID: 1, ShowID: 7, SeatNumber: "A1"},
			domain.Seat{ID: 2, ShowID: 7, SeatNumber: "A2"},
		)

		s.gateway.On("CreateOrder", mock.Anything, price, mock.MatchedBy(func(receipt string) bool {
			return len(receipt) > 4 && receipt[:4] == "txn_"
		})).Return("order_abc", nil)

		s.orderRepo.On("Create", mock.Anything, mock.MatchedBy(func(o *domain.PaymentOrder) bool {
			return o.OrderID == "order_abc" &&
				o.Status == domain.PaymentOrderCreated &&
				o.Amount.Equal(price) &&
				o.Description == "Movie: Interstellar - Galaxy Cinema - 7"
		})).Return(nil)

		result, err := s.orch.CreateOrder(context.Background(), CreateOrderInput{
			ShowID:     7,
			SeatIDs:    []int{1, 2},
			TotalPrice: price,
		})

		s.Require().NoError(err)
		s.Equal("order_abc", result.OrderID)
		s.True(result.Amount.Equal(price))

		s.gateway.AssertExpectations(s.T())
		s.orderRepo.AssertExpectations(s.T())
	})

	s.Run("fails when a seat id does not resolve", func() {
		s.SetupTest()
		s.stubShow()
		s.stubSeats(domain.Seat{ID: 1, ShowID: 7, SeatNumber: "A1"})

		_, err := s.orch.CreateOrder(context.Background(), CreateOrderInput{
			ShowID:     7,
			SeatIDs:    []int{1, 99},
			TotalPrice: price,
		})

		s.ErrorIs(err, domain.ErrSeatsNotFound)
		s.gateway.AssertNotCalled(s.T(), "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
	})

	s.Run("fails when a requested seat is already booked", func() {
		s.SetupTest()
		s.stubShow()
		s.stubSeats(
			domain.Seat{ID: 1, ShowID: 7, SeatNumber: "A1", Booked: true},
			domain.Seat{ID: 2, ShowID: 7, SeatNumber: "A2"},
		)

		_, err := s.orch.CreateOrder(context.Background(), CreateOrderInput{
			ShowID:     7,
			SeatIDs:    []int{1, 2},
			TotalPrice: price,
		})

		s.ErrorIs(err, domain.ErrSeatsUnavailable)
		s.gateway.AssertNotCalled(s.T(), "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
	})

	s.Run("reports gateway failure as retryable", func() {
		s.SetupTest()
		s.stubShow()
		s.stubSeats(domain.Seat{ID: 1, ShowID: 7, SeatNumber: "A1"})

		s.gateway.On("CreateOrder", mock.Anything, price, mock.Anything).
			Return("", fmt.Errorf("gateway unreachable"))

		_, err := s.orch.CreateOrder(context.Background(), CreateOrderInput{
			ShowID:     7,
			SeatIDs:    []int{1},
			TotalPrice: price,
		})

		s.ErrorIs(err, domain.ErrStorageUnavailable)
		s.orderRepo.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
	})
}

func (s *OrchestratorTestSuite) confirmInput() ConfirmInput {
	return ConfirmInput{
		PaymentID:  "pay_123",
		OrderID:    "order_abc",
		Signature:  "sig",
		UserID:     42,
		ShowID:     7,
		SeatIDs:    []int{2, 1},
		TotalPrice: decimal.RequireFromString("500.00"),
	}
}

func (s *OrchestratorTestSuite) TestConfirm() {
	s.Run("confirms booking on the happy path", func() {
		s.SetupTest()
		in := s.confirmInput()

		s.gateway.On("VerifySignature", "pay_123", "order_abc", "sig").Return(true)
		s.engine.On("Reserve", mock.Anything, 7, []int{2, 1}).
			Return(&domain.CommitResult{ShowID: 7, SeatIDs: []int{1, 2}, Version: 5}, nil)
		s.orderRepo.On("MarkSucceeded", mock.Anything, "order_abc", "pay_123").Return(nil)
		s.bookings.On("Create", mock.Anything, mock.MatchedBy(func(b *domain.Booking) bool {
			return b.UserID == 42 && b.ShowID == 7 && b.SeatsBooked == "1,2" &&
				b.TotalPrice.Equal(in.TotalPrice)
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Booking).ID = 11
		}).Return(nil)

		booking, err := s.orch.Confirm(context.Background(), in)

		s.Require().NoError(err)
		s.Equal(11, booking.ID)
		s.Equal("1,2", booking.SeatsBooked)

		s.gateway.AssertExpectations(s.T())
		s.engine.AssertExpectations(s.T())
		s.orderRepo.AssertExpectations(s.T())
		s.bookings.AssertExpectations(s.T())
	})

	s.Run("fails the order when signature verification fails", func() {
		s.SetupTest()
		in := s.confirmInput()

		s.gateway.On("VerifySignature", "pay_123", "order_abc", "sig").Return(false)
		s.orderRepo.On("MarkFailed", mock.Anything, "order_abc", "pay_123", "signature verification failed").
			Return(nil)

		_, err := s.orch.Confirm(context.Background(), in)

		s.ErrorIs(err, domain.ErrPaymentVerificationFailed)
		s.engine.AssertNotCalled(s.T(), "Reserve", mock.Anything, mock.Anything, mock.Anything)
		s.orderRepo.AssertExpectations(s.T())
	})

	s.Run("surfaces post-payment seat conflict distinctly", func() {
		s.SetupTest()
		in := s.confirmInput()

		s.gateway.On("VerifySignature", "pay_123", "order_abc", "sig").Return(true)
		s.engine.On("Reserve", mock.Anything, 7, []int{2, 1}).
			Return(nil, domain.ErrSeatsUnavailable)
		s.orderRepo.On("MarkFailed", mock.Anything, "order_abc", "pay_123", "seats unavailable after payment").
			Return(nil)

		_, err := s.orch.Confirm(context.Background(), in)

		s.ErrorIs(err, domain.ErrPostPaymentSeatConflict)
		s.bookings.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
	})

	s.Run("leaves the order open on transient reserve failure", func() {
		s.SetupTest()
		in := s.confirmInput()

		s.gateway.On("VerifySignature", "pay_123", "order_abc", "sig").Return(true)
		s.engine.On("Reserve", mock.Anything, 7, []int{2, 1}).
			Return(nil, domain.ErrStorageUnavailable)

		_, err := s.orch.Confirm(context.Background(), in)

		s.ErrorIs(err, domain.ErrStorageUnavailable)
		s.orderRepo.AssertNotCalled(s.T(), "MarkFailed", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		s.orderRepo.AssertNotCalled(s.T(), "MarkSucceeded", mock.Anything, mock.Anything, mock.Anything)
	})

	s.Run("propagates invalid state transitions", func() {
		s.SetupTest()
		in := s.confirmInput()

		s.gateway.On("VerifySignature", "pay_123", "order_abc", "sig").Return(true)
		s.engine.On("Reserve", mock.Anything, 7, []int{2, 1}).
			Return(&domain.CommitResult{ShowID: 7, SeatIDs: []int{1, 2}, Version: 5}, nil)
		s.orderRepo.On("MarkSucceeded", mock.Anything, "order_abc", "pay_123").
			Return(domain.ErrInvalidStateTransition)

		_, err := s.orch.Confirm(context.Background(), in)

		s.ErrorIs(err, domain.ErrInvalidStateTransition)
		s.bookings.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
	})

	s.Run("retries the order transition on transient failure", func() {
		s.SetupTest()
		in := s.confirmInput()

		s.gateway.On("VerifySignature", "pay_123", "order_abc", "sig").Return(true)
		s.engine.On("Reserve", mock.Anything, 7, []int{2, 1}).
			Return(&domain.CommitResult{ShowID: 7, SeatIDs: []int{1, 2}, Version: 5}, nil)

		s.orderRepo.On("MarkSucceeded", mock.Anything, "order_abc", "pay_123").
			Return(fmt.Errorf("connection reset")).Times(2)
		s.orderRepo.On("MarkSucceeded", mock.Anything, "order_abc", "pay_123").
			Return(nil).Once()

		s.bookings.On("Create", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				args.Get(1).(*domain.Booking).ID = 13
			}).Return(nil)

		booking, err := s.orch.Confirm(context.Background(), in)

		s.Require().NoError(err)
		s.Equal(13, booking.ID)
		s.orderRepo.AssertNumberOfCalls(s.T(), "MarkSucceeded", persistAttempts)
	})

	s.Run("retries booking persistence before giving up", func() {
		s.SetupTest()
		in := s.confirmInput()

		s.gateway.On("VerifySignature", "pay_123", "order_abc", "sig").Return(true)
		s.engine.On("Reserve", mock.Anything, 7, []int{2, 1}).
			Return(&domain.CommitResult{ShowID: 7, SeatIDs: []int{1, 2}, Version: 5}, nil)
		s.orderRepo.On("MarkSucceeded", mock.Anything, "order_abc", "pay_123").Return(nil)

		s.bookings.On("Create", mock.Anything, mock.Anything).
			Return(fmt.Errorf("db write failed")).Times(2)
		s.bookings.On("Create", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				args.Get(1).(*domain.Booking).ID = 12
			}).Return(nil).Once()

		booking, err := s.orch.Confirm(context.Background(), in)

		s.Require().NoError(err)
		s.Equal(12, booking.ID)
		s.bookings.AssertNumberOfCalls(s.T(), "Create", 3)
	})

	s.Run("surfaces persist failure after all retries", func() {
		s.SetupTest()
		in := s.confirmInput()

		s.gateway.On("VerifySignature", "pay_123", "order_abc", "sig").Return(true)
		s.engine.On("Reserve", mock.Anything, 7, []int{2, 1}).
			Return(&domain.CommitResult{ShowID: 7, SeatIDs: []int{1, 2}, Version: 5}, nil)
		s.orderRepo.On("MarkSucceeded", mock.Anything, "order_abc", "pay_123").Return(nil)
		s.bookings.On("Create", mock.Anything, mock.Anything).Return(fmt.Errorf("db write failed"))

		_, err := s.orch.Confirm(context.Background(), in)

		s.ErrorIs(err, domain.ErrBookingPersistFailed)
		s.bookings.AssertNumberOfCalls(s.T(), "Create", persistAttempts)
	})
}

func TestJoinSeatIds(t *testing.T) {
	require.Equal(t, "1,2,10", joinSeatIds([]int{1, 2, 10}))
	assert.Equal(t, "", joinSeatIds(nil))
}
