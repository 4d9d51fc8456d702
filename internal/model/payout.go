package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PayoutStatus string

const (
	PayoutStatusPending   PayoutStatus = "pending"
	PayoutStatusApproved  PayoutStatus = "approved"
	PayoutStatusRejected  PayoutStatus = "rejected"
	PayoutStatusCompleted PayoutStatus = "completed"
)

// PayoutRequest moves wallet balance to a bank account. The debit happens at
// request time, so a pending request already implies encumbered funds; a
// rejection must credit the wallet back in the same transaction.
// Bank details are immutable after creation.
type PayoutRequest struct {
	ID                  uint64          `gorm:"primaryKey;autoIncrement"`
	UserUID             string          `gorm:"column:user_uid;size:128;index;not null"`
	Amount              decimal.Decimal `gorm:"column:amount;type:decimal(12,2);not null;<-:create"`
	BankName            string          `gorm:"column:bank_name;size:128;not null;<-:create"`
	BankAccountNumber   string          `gorm:"column:bank_account_number;size:64;not null;<-:create"`
	BankAccountHolder   string          `gorm:"column:bank_account_holder;size:128;not null;<-:create"`
	Status              PayoutStatus    `gorm:"column:status;size:32;index;not null"`
	Note                string          `gorm:"column:note;size:255"`
	WalletTransactionID *uint64         `gorm:"column:wallet_transaction_id"`
	CreatedAt           time.Time       `gorm:"autoCreateTime"`
	UpdatedAt           time.Time       `gorm:"autoUpdateTime"`
}

func (PayoutRequest) TableName() string {
	return "payout_requests"
}

// Approve is only valid from pending.
func (p *PayoutRequest) Approve(note string) error {
	if p.Status != PayoutStatusPending {
		return ErrInvalidTransition
	}
	p.Status = PayoutStatusApproved
	p.Note = note
	return nil
}

// Reject is valid from pending or approved. The caller must credit the
// wallet back in the same transaction.
func (p *PayoutRequest) Reject(note string) error {
	if p.Status != PayoutStatusPending && p.Status != PayoutStatusApproved {
		return ErrInvalidTransition
	}
	p.Status = PayoutStatusRejected
	p.Note = note
	return nil
}

// Complete marks the bank transfer done. Terminal; only valid from approved.
func (p *PayoutRequest) Complete(note string) error {
	if p.Status != PayoutStatusApproved {
		return ErrInvalidTransition
	}
	p.Status = PayoutStatusCompleted
	p.Note = note
	return nil
}

// LinkTransaction attaches the wallet debit that encumbered the funds.
// Settable exactly once.
func (p *PayoutRequest) LinkTransaction(id uint64) error {
	if p.WalletTransactionID != nil {
		return ErrAlreadyLinked
	}
	p.WalletTransactionID = &id
	return nil
}
