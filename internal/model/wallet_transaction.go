package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type WalletTransactionType string

const (
	WalletTxDeposit    WalletTransactionType = "deposit"
	WalletTxWithdrawal WalletTransactionType = "withdrawal"
	WalletTxPayment    WalletTransactionType = "payment"
	WalletTxRefund     WalletTransactionType = "refund"
	WalletTxCommission WalletTransactionType = "commission"
	WalletTxBonus      WalletTransactionType = "bonus"
)

// WalletTransaction is an immutable journal entry. Amount is signed: credits
// positive, debits negative; zero is rejected at construction.
type WalletTransaction struct {
	ID          uint64                `gorm:"primaryKey;autoIncrement"`
	WalletUID   string                `gorm:"column:wallet_uid;size:128;index;not null;<-:create"`
	Amount      decimal.Decimal       `gorm:"column:amount;type:decimal(12,2);not null;<-:create"`
	Type        WalletTransactionType `gorm:"column:type;size:32;not null;<-:create"`
	Description string                `gorm:"column:description;size:255;<-:create"`
	RelatedType string                `gorm:"column:related_type;size:32;index:idx_wallet_tx_related;<-:create"`
	RelatedID   uint64                `gorm:"column:related_id;index:idx_wallet_tx_related;<-:create"`
	CreatedAt   time.Time             `gorm:"autoCreateTime"`
}

func (WalletTransaction) TableName() string {
	return "wallet_transactions"
}

func NewWalletTransaction(walletUID string, amount decimal.Decimal, typ WalletTransactionType, description string) (*WalletTransaction, error) {
	if amount.IsZero() {
		return nil, ErrInvalidAmount
	}
	return &WalletTransaction{
		WalletUID:   walletUID,
		Amount:      amount,
		Type:        typ,
		Description: description,
	}, nil
}

// WithRelated attaches the entity this entry settles against (escrow, payout).
func (t *WalletTransaction) WithRelated(typ string, id uint64) *WalletTransaction {
	t.RelatedType = typ
	t.RelatedID = id
	return t
}
