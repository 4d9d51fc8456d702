package repository

import (
	"context"
	"errors"

	"github.com/takebay/auction-backend/internal/model"
	"gorm.io/gorm"
)

type BidRepository interface {
	Create(ctx context.Context, b *model.Bid) error
	// HighestForAuction returns the current winning bid: highest amount,
	// ties broken by earliest placement. nil when no bid exists.
	HighestForAuction(ctx context.Context, auctionID uint64) (*model.Bid, error)
	ListByAuction(ctx context.Context, auctionID uint64) ([]model.Bid, error)
}

type bidRepository struct {
	db *gorm.DB
}

func NewBidRepository(db *gorm.DB) BidRepository {
	return &bidRepository{db: db}
}

func (r *bidRepository) Create(ctx context.Context, b *model.Bid) error {
	return conn(ctx, r.db).Create(b).Error
}

func (r *bidRepository) HighestForAuction(ctx context.Context, auctionID uint64) (*model.Bid, error) {
	var b model.Bid
	err := conn(ctx, r.db).
		Where("auction_id = ?", auctionID).
		Order("amount DESC, created_at ASC, id ASC").
		First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bidRepository) ListByAuction(ctx context.Context, auctionID uint64) ([]model.Bid, error) {
	var list []model.Bid
	if err := conn(ctx, r.db).
		Where("auction_id = ?", auctionID).
		Order("id ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
