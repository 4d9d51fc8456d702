package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bid is an immutable ledger entry: created once, never updated or deleted.
// AutoBid marks bids placed by the proxy-bidding resolver on a user's behalf.
type Bid struct {
	ID        uint64          `gorm:"primaryKey;autoIncrement"`
	AuctionID uint64          `gorm:"column:auction_id;index;not null"`
	BidderUID string          `gorm:"column:bidder_uid;size:128;index;not null"`
	Amount    decimal.Decimal `gorm:"column:amount;type:decimal(12,2);not null;<-:create"`
	AutoBid   bool            `gorm:"column:auto_bid;not null;default:false"`
	CreatedAt time.Time       `gorm:"autoCreateTime"`
}

func (Bid) TableName() string {
	return "bids"
}

// NewBid is the only way a bid comes into existence; it enforces amount > 0.
func NewBid(auctionID uint64, bidderUID string, amount decimal.Decimal, autoBid bool) (*Bid, error) {
	if !amount.GreaterThan(decimal.Zero) {
		return nil, ErrInvalidAmount
	}
	return &Bid{
		AuctionID: auctionID,
		BidderUID: bidderUID,
		Amount:    amount,
		AutoBid:   autoBid,
	}, nil
}
