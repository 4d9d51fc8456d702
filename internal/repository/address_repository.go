package repository

import (
	"context"
	"errors"

	"github.com/takebay/auction-backend/internal/model"
	"gorm.io/gorm"
)

type AddressRepository interface {
	Create(ctx context.Context, a *model.Address) error
	// FindDefaultByUser returns nil when the user has no default address.
	FindDefaultByUser(ctx context.Context, userUID string) (*model.Address, error)
}

type addressRepository struct {
	db *gorm.DB
}

func NewAddressRepository(db *gorm.DB) AddressRepository {
	return &addressRepository{db: db}
}

func (r *addressRepository) Create(ctx context.Context, a *model.Address) error {
	return conn(ctx, r.db).Create(a).Error
}

func (r *addressRepository) FindDefaultByUser(ctx context.Context, userUID string) (*model.Address, error) {
	var a model.Address
	err := conn(ctx, r.db).
		Where("user_uid = ? AND is_default = ?", userUID, true).
		Order("id DESC").
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}
