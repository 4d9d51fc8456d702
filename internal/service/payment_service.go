package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/takebay/auction-backend/internal/gateway"
	"github.com/takebay/auction-backend/internal/model"
	"github.com/takebay/auction-backend/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PaymentService funds escrows. Two funding paths exist: a hosted gateway
// checkout confirmed asynchronously via callback, and a direct wallet debit.
// Confirmation handling is idempotent; replaying a callback is a no-op.
type PaymentService interface {
	InitiateCheckout(ctx context.Context, escrowID uint64, buyerUID string) (*model.Payment, *gateway.CheckoutSession, error)
	// HandleConfirmation applies a gateway callback exactly once. A callback
	// for a payment that already left pending returns the payment unchanged.
	HandleConfirmation(ctx context.Context, conf gateway.Confirmation) (*model.Payment, error)
	PayFromWallet(ctx context.Context, escrowID uint64, buyerUID string) (*model.Payment, error)
	ListByEscrow(ctx context.Context, escrowID uint64, actorUID string) ([]model.Payment, error)
}

type paymentService struct {
	paymentRepo repository.PaymentRepository
	escrowRepo  repository.EscrowRepository
	wallets     WalletService
	gw          gateway.PaymentGateway
	txm         repository.TxManager
	notify      NotificationService
	log         *zap.Logger
}

func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	escrowRepo repository.EscrowRepository,
	wallets WalletService,
	gw gateway.PaymentGateway,
	txm repository.TxManager,
	notify NotificationService,
	log *zap.Logger,
) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		escrowRepo:  escrowRepo,
		wallets:     wallets,
		gw:          gw,
		txm:         txm,
		notify:      notify,
		log:         log,
	}
}

func (s *paymentService) InitiateCheckout(ctx context.Context, escrowID uint64, buyerUID string) (*model.Payment, *gateway.CheckoutSession, error) {
	var payment *model.Payment
	err := s.txm.Do(ctx, func(ctx context.Context) error {
		escrow, err := s.escrowRepo.FindByID(ctx, escrowID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if escrow.BuyerUID != buyerUID {
			return ErrUnauthorized
		}
		if escrow.Status != model.EscrowStatusPending {
			return ErrInvalidState
		}
		payment = &model.Payment{
			EscrowID:  escrowID,
			PayerUID:  buyerUID,
			Amount:    escrow.Amount,
			Method:    model.PaymentMethodGateway,
			Status:    model.PaymentStatusPending,
			Reference: uuid.NewString(),
		}
		return s.paymentRepo.Create(ctx, payment)
	})
	if err != nil {
		return nil, nil, err
	}

	session, err := s.gw.CreateCheckout(ctx, gateway.CheckoutRequest{
		PaymentID: payment.ID,
		Reference: payment.Reference,
		PayerUID:  payment.PayerUID,
		Amount:    payment.Amount,
	})
	if err != nil {
		// The attempt never reached the gateway; abandon it so the buyer can
		// retry with a fresh reference.
		s.cancelAttempt(ctx, payment.ID)
		return nil, nil, err
	}
	return payment, session, nil
}

func (s *paymentService) cancelAttempt(ctx context.Context, paymentID uint64) {
	err := s.txm.Do(ctx, func(ctx context.Context) error {
		p, err := s.paymentRepo.FindByIDForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}
		if err := p.Cancel(); err != nil {
			return err
		}
		return s.paymentRepo.Update(ctx, p)
	})
	if err != nil {
		s.log.Warn("payment cancel after checkout failure did not apply",
			zap.Uint64("payment_id", paymentID),
			zap.Error(err))
	}
}

func (s *paymentService) HandleConfirmation(ctx context.Context, conf gateway.Confirmation) (*model.Payment, error) {
	var payment *model.Payment
	var funded bool

	err := s.txm.Do(ctx, func(ctx context.Context) error {
		p, err := s.paymentRepo.FindByIDForUpdate(ctx, conf.PaymentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		// Duplicate callback: the payment already settled one way or the
		// other. Acknowledge without touching anything.
		if p.Status != model.PaymentStatusPending && p.Status != model.PaymentStatusProcessing {
			payment = p
			return nil
		}

		if !conf.Success {
			if err := p.Fail(conf.GatewayResponse); err != nil {
				return err
			}
			if err := s.paymentRepo.Update(ctx, p); err != nil {
				return err
			}
			payment = p
			return nil
		}

		now := time.Now()
		if err := p.Complete(conf.TransactionID, conf.GatewayResponse, now); err != nil {
			return err
		}
		if err := s.paymentRepo.Update(ctx, p); err != nil {
			return err
		}

		escrow, err := s.escrowRepo.FindByIDForUpdate(ctx, p.EscrowID)
		if err != nil {
			return err
		}
		if err := escrow.Fund(now); err != nil {
			return err
		}
		if err := s.escrowRepo.Update(ctx, escrow); err != nil {
			return err
		}
		payment = p
		funded = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	switch {
	case funded:
		s.notify.Notify(ctx, payment.PayerUID, model.NotificationTypePaymentSuccess,
			"Payment received",
			fmt.Sprintf("%s is now held in escrow.", payment.Amount.StringFixed(2)),
			nil, uint64Ptr(payment.EscrowID), uint64Ptr(payment.ID))
	case payment.Status == model.PaymentStatusFailed:
		s.notify.Notify(ctx, payment.PayerUID, model.NotificationTypePaymentFailed,
			"Payment failed", conf.ErrorMessage,
			nil, uint64Ptr(payment.EscrowID), uint64Ptr(payment.ID))
	}
	return payment, nil
}

func (s *paymentService) PayFromWallet(ctx context.Context, escrowID uint64, buyerUID string) (*model.Payment, error) {
	var payment *model.Payment
	err := s.txm.Do(ctx, func(ctx context.Context) error {
		escrow, err := s.escrowRepo.FindByIDForUpdate(ctx, escrowID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if escrow.BuyerUID != buyerUID {
			return ErrUnauthorized
		}
		if escrow.Status != model.EscrowStatusPending {
			return ErrInvalidState
		}

		if _, err := s.wallets.Debit(ctx, buyerUID, escrow.Amount, model.WalletTxPayment,
			fmt.Sprintf("escrow funding for auction %d", escrow.AuctionID), "escrow", escrow.ID); err != nil {
			return err
		}

		now := time.Now()
		payment = &model.Payment{
			EscrowID:    escrowID,
			PayerUID:    buyerUID,
			Amount:      escrow.Amount,
			Method:      model.PaymentMethodWallet,
			Status:      model.PaymentStatusCompleted,
			Reference:   uuid.NewString(),
			CompletedAt: &now,
		}
		if err := s.paymentRepo.Create(ctx, payment); err != nil {
			return err
		}

		if err := escrow.Fund(now); err != nil {
			return err
		}
		return s.escrowRepo.Update(ctx, escrow)
	})
	if err != nil {
		return nil, err
	}

	s.notify.Notify(ctx, payment.PayerUID, model.NotificationTypePaymentSuccess,
		"Payment received",
		fmt.Sprintf("%s moved from your wallet into escrow.", payment.Amount.StringFixed(2)),
		nil, uint64Ptr(payment.EscrowID), uint64Ptr(payment.ID))
	return payment, nil
}

func (s *paymentService) ListByEscrow(ctx context.Context, escrowID uint64, actorUID string) ([]model.Payment, error) {
	escrow, err := s.escrowRepo.FindByID(ctx, escrowID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if actorUID != "" && actorUID != escrow.BuyerUID && actorUID != escrow.SellerUID {
		return nil, ErrUnauthorized
	}
	return s.paymentRepo.ListByEscrow(ctx, escrowID)
}
