package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type CommissionStatus string

const (
	CommissionStatusPending   CommissionStatus = "pending"
	CommissionStatusCollected CommissionStatus = "collected"
	CommissionStatusWaived    CommissionStatus = "waived"
)

// Commission snapshots the platform fee at escrow-creation time. Price, rate
// and amount are fixed at creation; later rate changes never touch existing
// rows.
type Commission struct {
	ID        uint64           `gorm:"primaryKey;autoIncrement"`
	AuctionID uint64           `gorm:"column:auction_id;uniqueIndex;not null"`
	Price     decimal.Decimal  `gorm:"column:price;type:decimal(12,2);not null;<-:create"`
	Rate      decimal.Decimal  `gorm:"column:rate;type:decimal(5,2);not null;<-:create"`
	Amount    decimal.Decimal  `gorm:"column:amount;type:decimal(12,2);not null;<-:create"`
	Status    CommissionStatus `gorm:"column:status;size:32;not null"`
	CreatedAt time.Time        `gorm:"autoCreateTime"`
	UpdatedAt time.Time        `gorm:"autoUpdateTime"`
}

func (Commission) TableName() string {
	return "commissions"
}

// MarkCollected is terminal; only valid from pending.
func (c *Commission) MarkCollected() error {
	if c.Status != CommissionStatusPending {
		return ErrInvalidTransition
	}
	c.Status = CommissionStatusCollected
	return nil
}

// Waive is terminal; only valid from pending.
func (c *Commission) Waive() error {
	if c.Status != CommissionStatusPending {
		return ErrInvalidTransition
	}
	c.Status = CommissionStatusWaived
	return nil
}
