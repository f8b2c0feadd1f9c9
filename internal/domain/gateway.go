package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// PaymentGateway is the narrow capability surface the booking flow needs from
// the external payment provider. CreateOrder failures are transient and
// retryable; a bad signature is reported as (false, nil), not an error.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount decimal.Decimal, receipt string) (orderID string, err error)
	VerifySignature(paymentID, orderID, signature string) bool
}
