package repository

import (
	"context"

	"github.com/takebay/auction-backend/internal/model"
	"gorm.io/gorm"
)

type CommissionRepository interface {
	Create(ctx context.Context, c *model.Commission) error
	FindByAuction(ctx context.Context, auctionID uint64) (*model.Commission, error)
	Update(ctx context.Context, c *model.Commission) error
}

type commissionRepository struct {
	db *gorm.DB
}

func NewCommissionRepository(db *gorm.DB) CommissionRepository {
	return &commissionRepository{db: db}
}

func (r *commissionRepository) Create(ctx context.Context, c *model.Commission) error {
	return conn(ctx, r.db).Create(c).Error
}

func (r *commissionRepository) FindByAuction(ctx context.Context, auctionID uint64) (*model.Commission, error) {
	var c model.Commission
	if err := conn(ctx, r.db).
		Where("auction_id = ?", auctionID).
		First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *commissionRepository) Update(ctx context.Context, c *model.Commission) error {
	return conn(ctx, r.db).Save(c).Error
}
