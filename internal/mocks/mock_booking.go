package mocks

import (
	"context"

	"github.com/jaksia/easybook/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) CreateOrder(ctx context.Context, amount decimal.Decimal, receipt string) (string, error) {
	args := m.Called(ctx, amount, receipt)
	return args.String(0), args.Error(1)
}

func (m *MockPaymentGateway) VerifySignature(paymentID, orderID, signature string) bool {
	args := m.Called(paymentID, orderID, signature)
	return args.Bool(0)
}

type MockReservationEngine struct {
	mock.Mock
}

func (m *MockReservationEngine) Reserve(ctx context.Context, showID int, seatIDs []int) (*domain.CommitResult, error) {
	args := m.Called(ctx, showID, seatIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CommitResult), args.Error(1)
}

type MockPaymentOrderRepo struct {
	mock.Mock
}

func (m *MockPaymentOrderRepo) Create(ctx context.Context, order *domain.PaymentOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockPaymentOrderRepo) GetByOrderId(ctx context.Context, orderID string) (*domain.PaymentOrder, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentOrder), args.Error(1)
}

func (m *MockPaymentOrderRepo) MarkSucceeded(ctx context.Context, orderID, paymentID string) error {
	args := m.Called(ctx, orderID, paymentID)
	return args.Error(0)
}

func (m *MockPaymentOrderRepo) MarkFailed(ctx context.Context, orderID, paymentID, reason string) error {
	args := m.Called(ctx, orderID, paymentID, reason)
	return args.Error(0)
}

type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepo) GetById(ctx context.Context, id int) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
