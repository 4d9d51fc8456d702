package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet holds a user's internal balance. The balance changes only through
// Deposit and Withdraw, and every call must be paired with a
// WalletTransaction in the same database transaction so that
// balance == sum(transactions) holds after every commit.
type Wallet struct {
	UserUID   string          `gorm:"column:user_uid;primaryKey;size:128"`
	Balance   decimal.Decimal `gorm:"column:balance;type:decimal(12,2);not null;default:0"`
	CreatedAt time.Time       `gorm:"autoCreateTime"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime"`
}

func (Wallet) TableName() string {
	return "wallets"
}

// Deposit increases the balance. amount must be > 0.
func (w *Wallet) Deposit(amount decimal.Decimal) error {
	if !amount.GreaterThan(decimal.Zero) {
		return ErrInvalidAmount
	}
	w.Balance = w.Balance.Add(amount)
	return nil
}

// Withdraw decreases the balance. amount must be > 0 and covered.
func (w *Wallet) Withdraw(amount decimal.Decimal) error {
	if !amount.GreaterThan(decimal.Zero) {
		return ErrInvalidAmount
	}
	if w.Balance.LessThan(amount) {
		return ErrInsufficientFunds
	}
	w.Balance = w.Balance.Sub(amount)
	return nil
}
