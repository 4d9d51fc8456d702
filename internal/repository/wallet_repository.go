package repository

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/takebay/auction-backend/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WalletRepository interface {
	// FindOrCreate returns the user's wallet, creating a zero-balance one on
	// first touch.
	FindOrCreate(ctx context.Context, userUID string) (*model.Wallet, error)
	// FindForUpdate locks the wallet row; all debits/credits for a wallet
	// serialize on it.
	FindForUpdate(ctx context.Context, userUID string) (*model.Wallet, error)
	Update(ctx context.Context, w *model.Wallet) error
	CreateTransaction(ctx context.Context, t *model.WalletTransaction) error
	ListTransactions(ctx context.Context, userUID string, limit int) ([]model.WalletTransaction, error)
	// SumTransactions recomputes the ledger total for consistency audits.
	SumTransactions(ctx context.Context, userUID string) (decimal.Decimal, error)
}

type walletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{db: db}
}

func (r *walletRepository) FindOrCreate(ctx context.Context, userUID string) (*model.Wallet, error) {
	var w model.Wallet
	err := conn(ctx, r.db).Where("user_uid = ?", userUID).First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		w = model.Wallet{UserUID: userUID, Balance: decimal.Zero}
		if err := conn(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(&w).Error; err != nil {
			return nil, err
		}
		return &w, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *walletRepository) FindForUpdate(ctx context.Context, userUID string) (*model.Wallet, error) {
	var w model.Wallet
	if err := conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_uid = ?", userUID).
		First(&w).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *walletRepository) Update(ctx context.Context, w *model.Wallet) error {
	return conn(ctx, r.db).Save(w).Error
}

func (r *walletRepository) CreateTransaction(ctx context.Context, t *model.WalletTransaction) error {
	return conn(ctx, r.db).Create(t).Error
}

func (r *walletRepository) ListTransactions(ctx context.Context, userUID string, limit int) ([]model.WalletTransaction, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var list []model.WalletTransaction
	if err := conn(ctx, r.db).
		Where("wallet_uid = ?", userUID).
		Order("id DESC").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *walletRepository) SumTransactions(ctx context.Context, userUID string) (decimal.Decimal, error) {
	var out decimal.NullDecimal
	err := conn(ctx, r.db).
		Model(&model.WalletTransaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("wallet_uid = ?", userUID).
		Scan(&out).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !out.Valid {
		return decimal.Zero, nil
	}
	return out.Decimal, nil
}
