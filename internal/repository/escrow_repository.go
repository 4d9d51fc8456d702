package repository

import (
	"context"

	"github.com/takebay/auction-backend/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EscrowRepository interface {
	Create(ctx context.Context, e *model.Escrow) error
	FindByID(ctx context.Context, id uint64) (*model.Escrow, error)
	FindByIDForUpdate(ctx context.Context, id uint64) (*model.Escrow, error)
	FindByAuction(ctx context.Context, auctionID uint64) (*model.Escrow, error)
	Update(ctx context.Context, e *model.Escrow) error
}

type escrowRepository struct {
	db *gorm.DB
}

func NewEscrowRepository(db *gorm.DB) EscrowRepository {
	return &escrowRepository{db: db}
}

func (r *escrowRepository) Create(ctx context.Context, e *model.Escrow) error {
	return conn(ctx, r.db).Create(e).Error
}

func (r *escrowRepository) FindByID(ctx context.Context, id uint64) (*model.Escrow, error) {
	var e model.Escrow
	if err := conn(ctx, r.db).First(&e, id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *escrowRepository) FindByIDForUpdate(ctx context.Context, id uint64) (*model.Escrow, error) {
	var e model.Escrow
	if err := conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&e, id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *escrowRepository) FindByAuction(ctx context.Context, auctionID uint64) (*model.Escrow, error) {
	var e model.Escrow
	if err := conn(ctx, r.db).
		Where("auction_id = ?", auctionID).
		First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *escrowRepository) Update(ctx context.Context, e *model.Escrow) error {
	return conn(ctx, r.db).Save(e).Error
}
