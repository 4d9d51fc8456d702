package repository

import (
	"context"
	"time"

	"github.com/takebay/auction-backend/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AuctionRepository interface {
	Create(ctx context.Context, a *model.Auction) error
	FindByID(ctx context.Context, id uint64) (*model.Auction, error)
	// FindByIDForUpdate takes a row lock on the auction; bid placement and
	// closing serialize on it.
	FindByIDForUpdate(ctx context.Context, id uint64) (*model.Auction, error)
	Update(ctx context.Context, a *model.Auction) error
	ListDueForClose(ctx context.Context, now time.Time, limit int) ([]model.Auction, error)
}

type auctionRepository struct {
	db *gorm.DB
}

func NewAuctionRepository(db *gorm.DB) AuctionRepository {
	return &auctionRepository{db: db}
}

func (r *auctionRepository) Create(ctx context.Context, a *model.Auction) error {
	return conn(ctx, r.db).Create(a).Error
}

func (r *auctionRepository) FindByID(ctx context.Context, id uint64) (*model.Auction, error) {
	var a model.Auction
	if err := conn(ctx, r.db).First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *auctionRepository) FindByIDForUpdate(ctx context.Context, id uint64) (*model.Auction, error) {
	var a model.Auction
	if err := conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *auctionRepository) Update(ctx context.Context, a *model.Auction) error {
	return conn(ctx, r.db).Save(a).Error
}

func (r *auctionRepository) ListDueForClose(ctx context.Context, now time.Time, limit int) ([]model.Auction, error) {
	var list []model.Auction
	if err := conn(ctx, r.db).
		Where("status = ? AND end_at <= ?", model.AuctionStatusActive, now).
		Order("end_at ASC").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
