package model

import "time"

type ShipmentStatus string

const (
	ShipmentStatusPending   ShipmentStatus = "pending_shipment"
	ShipmentStatusShipped   ShipmentStatus = "shipped"
	ShipmentStatusDelivered ShipmentStatus = "delivered"
)

// Shipment is created at auction close, seeded from the buyer's default
// address. Delivery confirmation on it is what triggers escrow release.
type Shipment struct {
	ID            uint64         `gorm:"primaryKey;autoIncrement"`
	AuctionID     uint64         `gorm:"column:auction_id;uniqueIndex;not null"`
	EscrowID      uint64         `gorm:"column:escrow_id;index;not null"`
	BuyerUID      string         `gorm:"column:buyer_uid;size:128;index;not null"`
	SellerUID     string         `gorm:"column:seller_uid;size:128;index;not null"`
	RecipientName string         `gorm:"column:recipient_name;size:128;not null"`
	Line1         string         `gorm:"column:line1;size:255;not null"`
	Line2         string         `gorm:"column:line2;size:255"`
	City          string         `gorm:"column:city;size:128;not null"`
	PostalCode    string         `gorm:"column:postal_code;size:32;not null"`
	Status        ShipmentStatus `gorm:"column:status;size:32;not null"`
	ShippedAt     *time.Time     `gorm:"column:shipped_at"`
	DeliveredAt   *time.Time     `gorm:"column:delivered_at"`
	CreatedAt     time.Time      `gorm:"autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime"`
}

func (Shipment) TableName() string {
	return "shipments"
}

func (s *Shipment) MarkShipped(now time.Time) error {
	if s.Status != ShipmentStatusPending {
		return ErrInvalidTransition
	}
	s.Status = ShipmentStatusShipped
	s.ShippedAt = &now
	return nil
}

func (s *Shipment) MarkDelivered(now time.Time) error {
	if s.Status != ShipmentStatusShipped {
		return ErrInvalidTransition
	}
	s.Status = ShipmentStatusDelivered
	s.DeliveredAt = &now
	return nil
}
