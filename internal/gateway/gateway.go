// Package gateway defines the payment-gateway collaborator contract. The
// real processor lives outside this service; it receives checkout requests
// and later calls back into the payment confirmation endpoint.
package gateway

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CheckoutRequest struct {
	PaymentID uint64
	Reference string
	PayerUID  string
	Amount    decimal.Decimal
}

type CheckoutSession struct {
	Reference   string `json:"reference"`
	RedirectURL string `json:"redirectUrl"`
}

// Confirmation is the callback payload the gateway posts after processing.
type Confirmation struct {
	PaymentID       uint64 `json:"paymentId"`
	Success         bool   `json:"success"`
	TransactionID   string `json:"transactionId"`
	ErrorMessage    string `json:"errorMessage"`
	GatewayResponse string `json:"gatewayResponse"`
}

type PaymentGateway interface {
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
}

// HostedCheckout points buyers at the gateway's hosted payment page. The
// page calls back with a Confirmation when the buyer finishes.
type HostedCheckout struct {
	baseURL string
	log     *zap.Logger
}

func NewHostedCheckout(baseURL string, log *zap.Logger) *HostedCheckout {
	return &HostedCheckout{baseURL: baseURL, log: log}
}

func (g *HostedCheckout) CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	url := fmt.Sprintf("%s/checkout?ref=%s&amount=%s", g.baseURL, req.Reference, req.Amount.StringFixed(2))
	g.log.Info("checkout session created",
		zap.Uint64("payment_id", req.PaymentID),
		zap.String("reference", req.Reference),
		zap.String("amount", req.Amount.StringFixed(2)))
	return &CheckoutSession{Reference: req.Reference, RedirectURL: url}, nil
}
