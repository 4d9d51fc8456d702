package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/takebay/auction-backend/internal/model"
	"github.com/takebay/auction-backend/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PayoutService moves wallet balance out to a bank account. The wallet debit
// happens at request time, so pending requests already hold the funds; a
// rejection credits the wallet back in the same transaction that flips the
// request status.
type PayoutService interface {
	Request(ctx context.Context, userUID string, amount decimal.Decimal, bankName, accountNumber, accountHolder string) (*model.PayoutRequest, error)
	Approve(ctx context.Context, payoutID uint64, note string) (*model.PayoutRequest, error)
	Reject(ctx context.Context, payoutID uint64, note string) (*model.PayoutRequest, error)
	Complete(ctx context.Context, payoutID uint64, note string) (*model.PayoutRequest, error)
	ListByUser(ctx context.Context, userUID string) ([]model.PayoutRequest, error)
	ListPending(ctx context.Context, limit int) ([]model.PayoutRequest, error)
}

type payoutService struct {
	repo    repository.PayoutRepository
	wallets WalletService
	txm     repository.TxManager
	notify  NotificationService
	log     *zap.Logger
}

func NewPayoutService(
	repo repository.PayoutRepository,
	wallets WalletService,
	txm repository.TxManager,
	notify NotificationService,
	log *zap.Logger,
) PayoutService {
	return &payoutService{repo: repo, wallets: wallets, txm: txm, notify: notify, log: log}
}

func (s *payoutService) Request(ctx context.Context, userUID string, amount decimal.Decimal, bankName, accountNumber, accountHolder string) (*model.PayoutRequest, error) {
	if userUID == "" {
		return nil, ErrUnauthorized
	}
	if bankName == "" || accountNumber == "" || accountHolder == "" {
		return nil, ErrInvalidAmount
	}

	var payout *model.PayoutRequest
	err := s.txm.Do(ctx, func(ctx context.Context) error {
		txn, err := s.wallets.Debit(ctx, userUID, amount, model.WalletTxWithdrawal,
			"payout request", "", 0)
		if err != nil {
			return err
		}
		payout = &model.PayoutRequest{
			UserUID:           userUID,
			Amount:            amount,
			BankName:          bankName,
			BankAccountNumber: accountNumber,
			BankAccountHolder: accountHolder,
			Status:            model.PayoutStatusPending,
		}
		if err := s.repo.Create(ctx, payout); err != nil {
			return err
		}
		if err := payout.LinkTransaction(txn.ID); err != nil {
			return err
		}
		return s.repo.Update(ctx, payout)
	})
	if err != nil {
		return nil, err
	}
	return payout, nil
}

func (s *payoutService) Approve(ctx context.Context, payoutID uint64, note string) (*model.PayoutRequest, error) {
	return s.transition(ctx, payoutID, func(p *model.PayoutRequest) error {
		return p.Approve(note)
	}, "Payout approved", "Your payout request was approved and is being processed.")
}

// Reject returns the encumbered funds. The status flip and the compensating
// credit commit together; a crash between them cannot strand the money.
func (s *payoutService) Reject(ctx context.Context, payoutID uint64, note string) (*model.PayoutRequest, error) {
	var payout *model.PayoutRequest
	err := s.txm.Do(ctx, func(ctx context.Context) error {
		p, err := s.repo.FindByIDForUpdate(ctx, payoutID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := p.Reject(note); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, p); err != nil {
			return err
		}
		if _, err := s.wallets.Credit(ctx, p.UserUID, p.Amount, model.WalletTxRefund,
			fmt.Sprintf("payout request %d rejected", p.ID), "payout", p.ID); err != nil {
			return err
		}
		payout = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify.Notify(ctx, payout.UserUID, model.NotificationTypePayoutUpdated,
		"Payout rejected",
		fmt.Sprintf("%s returned to your wallet. %s", payout.Amount.StringFixed(2), note),
		nil, nil, nil)
	return payout, nil
}

func (s *payoutService) Complete(ctx context.Context, payoutID uint64, note string) (*model.PayoutRequest, error) {
	return s.transition(ctx, payoutID, func(p *model.PayoutRequest) error {
		return p.Complete(note)
	}, "Payout sent", "The transfer to your bank account is complete.")
}

func (s *payoutService) transition(ctx context.Context, payoutID uint64, apply func(*model.PayoutRequest) error, title, body string) (*model.PayoutRequest, error) {
	var payout *model.PayoutRequest
	err := s.txm.Do(ctx, func(ctx context.Context) error {
		p, err := s.repo.FindByIDForUpdate(ctx, payoutID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := apply(p); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, p); err != nil {
			return err
		}
		payout = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify.Notify(ctx, payout.UserUID, model.NotificationTypePayoutUpdated, title, body, nil, nil, nil)
	return payout, nil
}

func (s *payoutService) ListByUser(ctx context.Context, userUID string) ([]model.PayoutRequest, error) {
	if userUID == "" {
		return nil, ErrUnauthorized
	}
	return s.repo.ListByUser(ctx, userUID)
}

func (s *payoutService) ListPending(ctx context.Context, limit int) ([]model.PayoutRequest, error) {
	return s.repo.ListByStatus(ctx, model.PayoutStatusPending, limit)
}
