package repository

import (
	"context"

	"github.com/takebay/auction-backend/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PaymentRepository interface {
	Create(ctx context.Context, p *model.Payment) error
	FindByID(ctx context.Context, id uint64) (*model.Payment, error)
	// FindByIDForUpdate locks the payment row so duplicate gateway callbacks
	// serialize instead of double-applying.
	FindByIDForUpdate(ctx context.Context, id uint64) (*model.Payment, error)
	FindByReference(ctx context.Context, reference string) (*model.Payment, error)
	ListByEscrow(ctx context.Context, escrowID uint64) ([]model.Payment, error)
	Update(ctx context.Context, p *model.Payment) error
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, p *model.Payment) error {
	return conn(ctx, r.db).Create(p).Error
}

func (r *paymentRepository) FindByID(ctx context.Context, id uint64) (*model.Payment, error) {
	var p model.Payment
	if err := conn(ctx, r.db).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepository) FindByIDForUpdate(ctx context.Context, id uint64) (*model.Payment, error) {
	var p model.Payment
	if err := conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepository) FindByReference(ctx context.Context, reference string) (*model.Payment, error) {
	var p model.Payment
	if err := conn(ctx, r.db).
		Where("reference = ?", reference).
		First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepository) ListByEscrow(ctx context.Context, escrowID uint64) ([]model.Payment, error) {
	var list []model.Payment
	if err := conn(ctx, r.db).
		Where("escrow_id = ?", escrowID).
		Order("id ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *paymentRepository) Update(ctx context.Context, p *model.Payment) error {
	return conn(ctx, r.db).Save(p).Error
}
