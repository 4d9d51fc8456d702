package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type AuctionStatus string

const (
	AuctionStatusDraft           AuctionStatus = "draft"
	AuctionStatusPendingApproval AuctionStatus = "pending_approval"
	AuctionStatusActive          AuctionStatus = "active"
	AuctionStatusSold            AuctionStatus = "sold"
	AuctionStatusUnsold          AuctionStatus = "unsold"
	AuctionStatusCancelled       AuctionStatus = "cancelled"
)

// Auction carries the settlement-relevant slice of a listing. Catalog fields
// (title, images, category) live with the catalog collaborator.
type Auction struct {
	ID            uint64           `gorm:"primaryKey;autoIncrement"`
	SellerUID     string           `gorm:"column:seller_uid;size:128;index;not null"`
	Status        AuctionStatus    `gorm:"column:status;size:32;index;not null"`
	StartingPrice decimal.Decimal  `gorm:"column:starting_price;type:decimal(12,2);not null"`
	ReservePrice  *decimal.Decimal `gorm:"column:reserve_price;type:decimal(12,2)"`
	BidIncrement  decimal.Decimal  `gorm:"column:bid_increment;type:decimal(12,2);not null"`
	EndAt         time.Time        `gorm:"column:end_at;index;not null"`
	WinnerUID     *string          `gorm:"column:winner_uid;size:128"`
	WinningBidID  *uint64          `gorm:"column:winning_bid_id"`
	ClosedAt      *time.Time       `gorm:"column:closed_at"`
	CreatedAt     time.Time        `gorm:"autoCreateTime"`
	UpdatedAt     time.Time        `gorm:"autoUpdateTime"`
}

func (Auction) TableName() string {
	return "auctions"
}

// AcceptsBids reports whether a bid placed at now is still admissible.
func (a *Auction) AcceptsBids(now time.Time) bool {
	return a.Status == AuctionStatusActive && now.Before(a.EndAt)
}

// MeetsReserve reports whether amount satisfies the reserve price, if any.
func (a *Auction) MeetsReserve(amount decimal.Decimal) bool {
	return a.ReservePrice == nil || amount.GreaterThanOrEqual(*a.ReservePrice)
}

// CloseAsSold transitions an active auction to sold. Closing is one-way.
func (a *Auction) CloseAsSold(winnerUID string, winningBidID uint64, now time.Time) error {
	if a.Status != AuctionStatusActive {
		return ErrInvalidTransition
	}
	a.Status = AuctionStatusSold
	a.WinnerUID = &winnerUID
	a.WinningBidID = &winningBidID
	a.ClosedAt = &now
	return nil
}

// CloseAsUnsold transitions an active auction to unsold (no bids, or reserve
// not met).
func (a *Auction) CloseAsUnsold(now time.Time) error {
	if a.Status != AuctionStatusActive {
		return ErrInvalidTransition
	}
	a.Status = AuctionStatusUnsold
	a.ClosedAt = &now
	return nil
}
