package repository

import (
	"context"
	"errors"

	"github.com/takebay/auction-backend/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AutoBidRepository interface {
	Upsert(ctx context.Context, c *model.AutoBidConfig) error
	FindByOwner(ctx context.Context, auctionID uint64, userUID string) (*model.AutoBidConfig, error)
	ListActiveByAuction(ctx context.Context, auctionID uint64) ([]model.AutoBidConfig, error)
	Deactivate(ctx context.Context, auctionID uint64, userUID string) error
}

type autoBidRepository struct {
	db *gorm.DB
}

func NewAutoBidRepository(db *gorm.DB) AutoBidRepository {
	return &autoBidRepository{db: db}
}

func (r *autoBidRepository) Upsert(ctx context.Context, c *model.AutoBidConfig) error {
	return conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "auction_id"}, {Name: "user_uid"}},
		DoUpdates: clause.AssignmentColumns([]string{"max_amount", "increment", "active", "updated_at"}),
	}).Create(c).Error
}

func (r *autoBidRepository) FindByOwner(ctx context.Context, auctionID uint64, userUID string) (*model.AutoBidConfig, error) {
	var c model.AutoBidConfig
	err := conn(ctx, r.db).
		Where("auction_id = ? AND user_uid = ?", auctionID, userUID).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *autoBidRepository) ListActiveByAuction(ctx context.Context, auctionID uint64) ([]model.AutoBidConfig, error) {
	var list []model.AutoBidConfig
	if err := conn(ctx, r.db).
		Where("auction_id = ? AND active = ?", auctionID, true).
		Order("created_at ASC, id ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *autoBidRepository) Deactivate(ctx context.Context, auctionID uint64, userUID string) error {
	return conn(ctx, r.db).
		Model(&model.AutoBidConfig{}).
		Where("auction_id = ? AND user_uid = ?", auctionID, userUID).
		Update("active", false).Error
}
