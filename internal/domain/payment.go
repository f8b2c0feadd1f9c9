package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentOrderStatus string

const (
	PaymentOrderCreated PaymentOrderStatus = "CREATED"
	PaymentOrderSuccess PaymentOrderStatus = "SUCCESS"
	PaymentOrderFailed  PaymentOrderStatus = "FAILED"
)

// Terminal reports whether no further status transition is permitted.
func (s PaymentOrderStatus) Terminal() bool {
	return s == PaymentOrderSuccess || s == PaymentOrderFailed
}

// CanTransitionTo enforces the order lifecycle: CREATED -> SUCCESS or
// CREATED -> FAILED, exactly once.
func (s PaymentOrderStatus) CanTransitionTo(next PaymentOrderStatus) bool {
	return s == PaymentOrderCreated && next.Terminal()
}

// PaymentOrder tracks one external payment gateway transaction. OrderID is
// the gateway-assigned id referenced by the confirmation request; PaymentID
// is set when the order resolves.
type PaymentOrder struct {
	ID          int
	OrderID     string
	PaymentID   string
	Amount      decimal.Decimal
	Status      PaymentOrderStatus
	Description string
	ErrorMsg    string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

type PaymentOrderRepository interface {
	Create(ctx context.Context, order *PaymentOrder) error
	GetByOrderId(ctx context.Context, orderID string) (*PaymentOrder, error)

	// MarkSucceeded and MarkFailed transition an order out of CREATED.
	// Transitioning an order already in a terminal state fails with
	// ErrInvalidStateTransition.
	MarkSucceeded(ctx context.Context, orderID, paymentID string) error
	MarkFailed(ctx context.Context, orderID, paymentID, reason string) error
}
