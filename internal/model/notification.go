package model

import "time"

const (
	NotificationTypeOutbid         = "outbid"
	NotificationTypeAuctionWon     = "auction_won"
	NotificationTypeAuctionLost    = "auction_lost"
	NotificationTypeAuctionUnsold  = "auction_unsold"
	NotificationTypePaymentSuccess = "payment_success"
	NotificationTypePaymentFailed  = "payment_failed"
	NotificationTypeShipped        = "shipped"
	NotificationTypeDelivered      = "delivered"
	NotificationTypeEscrowReleased = "escrow_released"
	NotificationTypeEscrowRefunded = "escrow_refunded"
	NotificationTypePayoutUpdated  = "payout_updated"
)

type Notification struct {
	ID        uint64     `gorm:"primaryKey;autoIncrement"`
	UserUID   string     `gorm:"column:user_uid;size:128;index;not null"`
	Type      string     `gorm:"column:type;size:64;not null"`
	Title     string     `gorm:"column:title;size:255"`
	Body      string     `gorm:"column:body;type:text"`
	AuctionID *uint64    `gorm:"column:auction_id;index"`
	EscrowID  *uint64    `gorm:"column:escrow_id;index"`
	PaymentID *uint64    `gorm:"column:payment_id;index"`
	ReadAt    *time.Time `gorm:"column:read_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
}

func (Notification) TableName() string {
	return "notifications"
}
