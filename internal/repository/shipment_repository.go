package repository

import (
	"context"

	"github.com/takebay/auction-backend/internal/model"
	"gorm.io/gorm"
)

type ShipmentRepository interface {
	Create(ctx context.Context, s *model.Shipment) error
	FindByID(ctx context.Context, id uint64) (*model.Shipment, error)
	FindByAuction(ctx context.Context, auctionID uint64) (*model.Shipment, error)
	Update(ctx context.Context, s *model.Shipment) error
}

type shipmentRepository struct {
	db *gorm.DB
}

func NewShipmentRepository(db *gorm.DB) ShipmentRepository {
	return &shipmentRepository{db: db}
}

func (r *shipmentRepository) Create(ctx context.Context, s *model.Shipment) error {
	return conn(ctx, r.db).Create(s).Error
}

func (r *shipmentRepository) FindByID(ctx context.Context, id uint64) (*model.Shipment, error) {
	var s model.Shipment
	if err := conn(ctx, r.db).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *shipmentRepository) FindByAuction(ctx context.Context, auctionID uint64) (*model.Shipment, error) {
	var s model.Shipment
	if err := conn(ctx, r.db).
		Where("auction_id = ?", auctionID).
		First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *shipmentRepository) Update(ctx context.Context, s *model.Shipment) error {
	return conn(ctx, r.db).Save(s).Error
}
