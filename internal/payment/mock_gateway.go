package payment

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MockGateway accepts every order and every signature. Useful for local
// development without gateway credentials.
type MockGateway struct {
}

func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

func (m *MockGateway) CreateOrder(ctx context.Context, amount decimal.Decimal, receipt string) (string, error) {
	return "order_" + uuid.NewString(), nil
}

func (m *MockGateway) VerifySignature(paymentID, orderID, signature string) bool {
	return true
}
