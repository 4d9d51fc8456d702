package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type EscrowStatus string

const (
	EscrowStatusPending  EscrowStatus = "pending"
	EscrowStatusFunded   EscrowStatus = "funded"
	EscrowStatusShipped  EscrowStatus = "shipped"
	EscrowStatusReleased EscrowStatus = "released"
	EscrowStatusRefunded EscrowStatus = "refunded"
	EscrowStatusDisputed EscrowStatus = "disputed"
)

// Escrow is the custody account for one sale, keyed 1:1 by auction.
// Transitions are one-directional except disputed, which can still resolve
// either way. Every mutating method checks the current state first; a guard
// failure leaves the row untouched.
type Escrow struct {
	ID            uint64          `gorm:"primaryKey;autoIncrement"`
	AuctionID     uint64          `gorm:"column:auction_id;uniqueIndex;not null"`
	BuyerUID      string          `gorm:"column:buyer_uid;size:128;index;not null"`
	SellerUID     string          `gorm:"column:seller_uid;size:128;index;not null"`
	Amount        decimal.Decimal `gorm:"column:amount;type:decimal(12,2);not null"`
	Status        EscrowStatus    `gorm:"column:status;size:32;index;not null"`
	DisputeReason string          `gorm:"column:dispute_reason;type:text"`
	FundedAt      *time.Time      `gorm:"column:funded_at"`
	ReleasedAt    *time.Time      `gorm:"column:released_at"`
	RefundedAt    *time.Time      `gorm:"column:refunded_at"`
	CreatedAt     time.Time       `gorm:"autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime"`
}

func (Escrow) TableName() string {
	return "escrows"
}

// NewEscrow validates the creation invariants: buyer != seller, amount > 0.
func NewEscrow(auctionID uint64, buyerUID, sellerUID string, amount decimal.Decimal) (*Escrow, error) {
	if buyerUID == "" || sellerUID == "" || buyerUID == sellerUID {
		return nil, ErrInvalidTransition
	}
	if !amount.GreaterThan(decimal.Zero) {
		return nil, ErrInvalidAmount
	}
	return &Escrow{
		AuctionID: auctionID,
		BuyerUID:  buyerUID,
		SellerUID: sellerUID,
		Amount:    amount,
		Status:    EscrowStatusPending,
	}, nil
}

// Fund records buyer money arriving. Only valid from pending.
func (e *Escrow) Fund(now time.Time) error {
	if e.Status != EscrowStatusPending {
		return ErrInvalidTransition
	}
	e.Status = EscrowStatusFunded
	e.FundedAt = &now
	return nil
}

// MarkShipped tracks the physical handoff between funding and release.
func (e *Escrow) MarkShipped() error {
	if e.Status != EscrowStatusFunded {
		return ErrInvalidTransition
	}
	e.Status = EscrowStatusShipped
	return nil
}

// Release pays the seller. Valid from funded or shipped; dispute resolution
// goes through ResolveByReleasing instead.
func (e *Escrow) Release(now time.Time) error {
	if e.Status != EscrowStatusFunded && e.Status != EscrowStatusShipped {
		return ErrInvalidTransition
	}
	e.Status = EscrowStatusReleased
	e.ReleasedAt = &now
	return nil
}

// Refund returns funds to the buyer. Valid from funded or shipped.
func (e *Escrow) Refund(now time.Time) error {
	if e.Status != EscrowStatusFunded && e.Status != EscrowStatusShipped {
		return ErrInvalidTransition
	}
	e.Status = EscrowStatusRefunded
	e.RefundedAt = &now
	return nil
}

// OpenDispute freezes the escrow until resolution. Requires a reason.
func (e *Escrow) OpenDispute(reason string) error {
	if e.Status != EscrowStatusFunded && e.Status != EscrowStatusShipped {
		return ErrInvalidTransition
	}
	if strings.TrimSpace(reason) == "" {
		return ErrInvalidTransition
	}
	e.Status = EscrowStatusDisputed
	e.DisputeReason = reason
	return nil
}

// ResolveByReleasing settles a dispute in the seller's favor.
func (e *Escrow) ResolveByReleasing(now time.Time) error {
	if e.Status != EscrowStatusDisputed {
		return ErrInvalidTransition
	}
	e.Status = EscrowStatusReleased
	e.ReleasedAt = &now
	return nil
}

// ResolveByRefunding settles a dispute in the buyer's favor.
func (e *Escrow) ResolveByRefunding(now time.Time) error {
	if e.Status != EscrowStatusDisputed {
		return ErrInvalidTransition
	}
	e.Status = EscrowStatusRefunded
	e.RefundedAt = &now
	return nil
}
