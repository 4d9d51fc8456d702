package repository

import (
	"context"

	"github.com/takebay/auction-backend/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PayoutRepository interface {
	Create(ctx context.Context, p *model.PayoutRequest) error
	FindByID(ctx context.Context, id uint64) (*model.PayoutRequest, error)
	FindByIDForUpdate(ctx context.Context, id uint64) (*model.PayoutRequest, error)
	Update(ctx context.Context, p *model.PayoutRequest) error
	ListByUser(ctx context.Context, userUID string) ([]model.PayoutRequest, error)
	ListByStatus(ctx context.Context, status model.PayoutStatus, limit int) ([]model.PayoutRequest, error)
}

type payoutRepository struct {
	db *gorm.DB
}

func NewPayoutRepository(db *gorm.DB) PayoutRepository {
	return &payoutRepository{db: db}
}

func (r *payoutRepository) Create(ctx context.Context, p *model.PayoutRequest) error {
	return conn(ctx, r.db).Create(p).Error
}

func (r *payoutRepository) FindByID(ctx context.Context, id uint64) (*model.PayoutRequest, error) {
	var p model.PayoutRequest
	if err := conn(ctx, r.db).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *payoutRepository) FindByIDForUpdate(ctx context.Context, id uint64) (*model.PayoutRequest, error) {
	var p model.PayoutRequest
	if err := conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *payoutRepository) Update(ctx context.Context, p *model.PayoutRequest) error {
	return conn(ctx, r.db).Save(p).Error
}

func (r *payoutRepository) ListByUser(ctx context.Context, userUID string) ([]model.PayoutRequest, error) {
	var list []model.PayoutRequest
	if err := conn(ctx, r.db).
		Where("user_uid = ?", userUID).
		Order("id DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *payoutRepository) ListByStatus(ctx context.Context, status model.PayoutStatus, limit int) ([]model.PayoutRequest, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var list []model.PayoutRequest
	if err := conn(ctx, r.db).
		Where("status = ?", status).
		Order("id ASC").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
