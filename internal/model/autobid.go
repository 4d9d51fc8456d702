package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AutoBidConfig is a standing proxy-bid instruction, one per (user, auction).
type AutoBidConfig struct {
	ID        uint64          `gorm:"primaryKey;autoIncrement"`
	AuctionID uint64          `gorm:"column:auction_id;uniqueIndex:uniq_auto_bid_owner;not null"`
	UserUID   string          `gorm:"column:user_uid;size:128;uniqueIndex:uniq_auto_bid_owner;not null"`
	MaxAmount decimal.Decimal `gorm:"column:max_amount;type:decimal(12,2);not null"`
	Increment decimal.Decimal `gorm:"column:increment;type:decimal(12,2);not null"`
	Active    bool            `gorm:"column:active;not null;default:true"`
	CreatedAt time.Time       `gorm:"autoCreateTime"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime"`
}

func (AutoBidConfig) TableName() string {
	return "auto_bid_configs"
}

// Validate enforces max > 0 and increment <= max.
func (c *AutoBidConfig) Validate() error {
	if !c.MaxAmount.GreaterThan(decimal.Zero) || !c.Increment.GreaterThan(decimal.Zero) {
		return ErrInvalidAmount
	}
	if c.Increment.GreaterThan(c.MaxAmount) {
		return ErrInvalidAmount
	}
	return nil
}
