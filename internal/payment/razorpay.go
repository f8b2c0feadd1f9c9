package payment

import (
	"context"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"
	"github.com/shopspring/decimal"
)

// RazorpayGateway adapts the Razorpay SDK to the PaymentGateway capability
// the booking flow depends on: order creation and signature verification.
type RazorpayGateway struct {
	client    *razorpay.Client
	keySecret string
	currency  string
}

func NewRazorpayGateway(keyID, keySecret, currency string) *RazorpayGateway {
	return &RazorpayGateway{
		client:    razorpay.NewClient(keyID, keySecret),
		keySecret: keySecret,
		currency:  currency,
	}
}

func (g *RazorpayGateway) CreateOrder(ctx context.Context, amount decimal.Decimal, receipt string) (string, error) {
	// Razorpay wants the amount in the currency's smallest unit.
	subunits := amount.Mul(decimal.NewFromInt(100)).IntPart()

	data := map[string]interface{}{
		"amount":   subunits,
		"currency": g.currency,
		"receipt":  receipt,
	}

	order, err := g.client.Order.Create(data, nil)
	if err != nil {
		return "", fmt.Errorf("razorpay order creation failed: %w", err)
	}

	orderID, ok := order["id"].(string)
	if !ok || orderID == "" {
		return "", fmt.Errorf("razorpay order response missing id")
	}

	return orderID, nil
}

func (g *RazorpayGateway) VerifySignature(paymentID, orderID, signature string) bool {
	params := map[string]interface{}{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
	}

	return utils.VerifyPaymentSignature(params, signature, g.keySecret)
}
