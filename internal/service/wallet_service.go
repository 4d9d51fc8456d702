package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/takebay/auction-backend/internal/model"
	"github.com/takebay/auction-backend/internal/repository"
	"gorm.io/gorm"
)

// WalletService is the only path that moves wallet balance. Credit and Debit
// are transaction-aware: called with a ctx from TxManager.Do they join the
// caller's transaction, so the balance change and its journal entry commit
// together and balance == sum(journal) holds after every commit.
type WalletService interface {
	Balance(ctx context.Context, userUID string) (*model.Wallet, error)
	History(ctx context.Context, userUID string, limit int) ([]model.WalletTransaction, error)
	Deposit(ctx context.Context, userUID string, amount decimal.Decimal, description string) (*model.Wallet, error)

	Credit(ctx context.Context, userUID string, amount decimal.Decimal, typ model.WalletTransactionType, description, relatedType string, relatedID uint64) (*model.WalletTransaction, error)
	Debit(ctx context.Context, userUID string, amount decimal.Decimal, typ model.WalletTransactionType, description, relatedType string, relatedID uint64) (*model.WalletTransaction, error)

	// AuditLedger recomputes the journal sum and reports whether it matches
	// the stored balance.
	AuditLedger(ctx context.Context, userUID string) (bool, decimal.Decimal, decimal.Decimal, error)
}

type walletService struct {
	repo repository.WalletRepository
	txm  repository.TxManager
}

func NewWalletService(repo repository.WalletRepository, txm repository.TxManager) WalletService {
	return &walletService{repo: repo, txm: txm}
}

func (s *walletService) Balance(ctx context.Context, userUID string) (*model.Wallet, error) {
	return s.repo.FindOrCreate(ctx, userUID)
}

func (s *walletService) History(ctx context.Context, userUID string, limit int) ([]model.WalletTransaction, error) {
	return s.repo.ListTransactions(ctx, userUID, limit)
}

func (s *walletService) Deposit(ctx context.Context, userUID string, amount decimal.Decimal, description string) (*model.Wallet, error) {
	var w *model.Wallet
	err := s.txm.Do(ctx, func(ctx context.Context) error {
		if _, err := s.Credit(ctx, userUID, amount, model.WalletTxDeposit, description, "", 0); err != nil {
			return err
		}
		var err error
		w, err = s.repo.FindOrCreate(ctx, userUID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (s *walletService) Credit(ctx context.Context, userUID string, amount decimal.Decimal, typ model.WalletTransactionType, description, relatedType string, relatedID uint64) (*model.WalletTransaction, error) {
	if _, err := s.repo.FindOrCreate(ctx, userUID); err != nil {
		return nil, err
	}
	w, err := s.repo.FindForUpdate(ctx, userUID)
	if err != nil {
		return nil, err
	}
	if err := w.Deposit(amount); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, w); err != nil {
		return nil, err
	}
	t, err := model.NewWalletTransaction(userUID, amount, typ, description)
	if err != nil {
		return nil, err
	}
	if relatedType != "" {
		t.WithRelated(relatedType, relatedID)
	}
	if err := s.repo.CreateTransaction(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *walletService) Debit(ctx context.Context, userUID string, amount decimal.Decimal, typ model.WalletTransactionType, description, relatedType string, relatedID uint64) (*model.WalletTransaction, error) {
	w, err := s.repo.FindForUpdate(ctx, userUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInsufficientFunds
		}
		return nil, err
	}
	if err := w.Withdraw(amount); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, w); err != nil {
		return nil, err
	}
	t, err := model.NewWalletTransaction(userUID, amount.Neg(), typ, description)
	if err != nil {
		return nil, err
	}
	if relatedType != "" {
		t.WithRelated(relatedType, relatedID)
	}
	if err := s.repo.CreateTransaction(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *walletService) AuditLedger(ctx context.Context, userUID string) (bool, decimal.Decimal, decimal.Decimal, error) {
	w, err := s.repo.FindOrCreate(ctx, userUID)
	if err != nil {
		return false, decimal.Zero, decimal.Zero, err
	}
	sum, err := s.repo.SumTransactions(ctx, userUID)
	if err != nil {
		return false, decimal.Zero, decimal.Zero, err
	}
	return w.Balance.Equal(sum), w.Balance, sum, nil
}
