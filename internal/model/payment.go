package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusCompleted  PaymentStatus = "completed"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusRefunded   PaymentStatus = "refunded"
	PaymentStatusCancelled  PaymentStatus = "cancelled"
)

type PaymentMethod string

const (
	PaymentMethodGateway PaymentMethod = "gateway"
	PaymentMethodWallet  PaymentMethod = "wallet"
)

// Payment is one attempt to fund an escrow. Several attempts may exist per
// escrow; exactly one reaches completed under normal flow. Reference is the
// id handed to the external gateway.
type Payment struct {
	ID                    uint64          `gorm:"primaryKey;autoIncrement"`
	EscrowID              uint64          `gorm:"column:escrow_id;index;not null"`
	PayerUID              string          `gorm:"column:payer_uid;size:128;index;not null"`
	Amount                decimal.Decimal `gorm:"column:amount;type:decimal(12,2);not null"`
	Method                PaymentMethod   `gorm:"column:method;size:16;not null"`
	Status                PaymentStatus   `gorm:"column:status;size:32;index;not null"`
	Reference             string          `gorm:"column:reference;size:64;uniqueIndex"`
	ExternalTransactionID string          `gorm:"column:external_transaction_id;size:255"`
	GatewayResponse       string          `gorm:"column:gateway_response;type:text"`
	CompletedAt           *time.Time      `gorm:"column:completed_at"`
	CreatedAt             time.Time       `gorm:"autoCreateTime"`
	UpdatedAt             time.Time       `gorm:"autoUpdateTime"`
}

func (Payment) TableName() string {
	return "payments"
}

// Complete records a successful gateway confirmation. Only valid from pending
// or processing; completed payments are immutable except for MarkRefunded.
func (p *Payment) Complete(transactionID, gatewayResponse string, now time.Time) error {
	if p.Status != PaymentStatusPending && p.Status != PaymentStatusProcessing {
		return ErrInvalidTransition
	}
	p.Status = PaymentStatusCompleted
	p.ExternalTransactionID = transactionID
	p.GatewayResponse = gatewayResponse
	p.CompletedAt = &now
	return nil
}

// Fail records a gateway-reported failure; the escrow stays pending.
func (p *Payment) Fail(gatewayResponse string) error {
	if p.Status != PaymentStatusPending && p.Status != PaymentStatusProcessing {
		return ErrInvalidTransition
	}
	p.Status = PaymentStatusFailed
	p.GatewayResponse = gatewayResponse
	return nil
}

// Cancel abandons an attempt that never reached the gateway.
func (p *Payment) Cancel() error {
	if p.Status != PaymentStatusPending && p.Status != PaymentStatusProcessing {
		return ErrInvalidTransition
	}
	p.Status = PaymentStatusCancelled
	return nil
}

// MarkRefunded flags a completed payment whose escrow was refunded.
func (p *Payment) MarkRefunded() error {
	if p.Status != PaymentStatusCompleted {
		return ErrInvalidTransition
	}
	p.Status = PaymentStatusRefunded
	return nil
}
