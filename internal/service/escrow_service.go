package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/takebay/auction-backend/internal/model"
	"github.com/takebay/auction-backend/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EscrowService drives the custody account through its life: shipping
// handoff, delivery-triggered release (seller credit plus commission
// collection), refunds and dispute resolution. Every money-moving path is
// one transaction over the escrow, the wallets and the commission.
type EscrowService interface {
	GetByAuction(ctx context.Context, auctionID uint64, actorUID string) (*model.Escrow, error)
	MarkShipped(ctx context.Context, shipmentID uint64, sellerUID string) (*model.Shipment, error)
	// ConfirmDelivery is the buyer acknowledging receipt; it releases the
	// escrow to the seller and collects the platform commission.
	ConfirmDelivery(ctx context.Context, shipmentID uint64, buyerUID string) (*model.Shipment, error)
	Refund(ctx context.Context, escrowID uint64, sellerUID string) (*model.Escrow, error)
	OpenDispute(ctx context.Context, escrowID uint64, actorUID, reason string) (*model.Escrow, error)
	ResolveDispute(ctx context.Context, escrowID uint64, release bool) (*model.Escrow, error)
}

type escrowService struct {
	escrowRepo     repository.EscrowRepository
	shipmentRepo   repository.ShipmentRepository
	commissionRepo repository.CommissionRepository
	paymentRepo    repository.PaymentRepository
	wallets        WalletService
	txm            repository.TxManager
	notify         NotificationService
	log            *zap.Logger
}

func NewEscrowService(
	escrowRepo repository.EscrowRepository,
	shipmentRepo repository.ShipmentRepository,
	commissionRepo repository.CommissionRepository,
	paymentRepo repository.PaymentRepository,
	wallets WalletService,
	txm repository.TxManager,
	notify NotificationService,
	log *zap.Logger,
) EscrowService {
	return &escrowService{
		escrowRepo:     escrowRepo,
		shipmentRepo:   shipmentRepo,
		commissionRepo: commissionRepo,
		paymentRepo:    paymentRepo,
		wallets:        wallets,
		txm:            txm,
		notify:         notify,
		log:            log,
	}
}

func (s *escrowService) GetByAuction(ctx context.Context, auctionID uint64, actorUID string) (*model.Escrow, error) {
	e, err := s.escrowRepo.FindByAuction(ctx, auctionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if actorUID != "" && actorUID != e.BuyerUID && actorUID != e.SellerUID {
		return nil, ErrUnauthorized
	}
	return e, nil
}

func (s *escrowService) MarkShipped(ctx context.Context, shipmentID uint64, sellerUID string) (*model.Shipment, error) {
	var shipment *model.Shipment
	var buyerUID string
	var escrowID uint64

	err := s.txm.Do(ctx, func(ctx context.Context) error {
		sh, err := s.shipmentRepo.FindByID(ctx, shipmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if sh.SellerUID != sellerUID {
			return ErrUnauthorized
		}
		now := time.Now()
		if err := sh.MarkShipped(now); err != nil {
			return err
		}
		if err := s.shipmentRepo.Update(ctx, sh); err != nil {
			return err
		}

		escrow, err := s.escrowRepo.FindByIDForUpdate(ctx, sh.EscrowID)
		if err != nil {
			return err
		}
		if err := escrow.MarkShipped(); err != nil {
			return err
		}
		if err := s.escrowRepo.Update(ctx, escrow); err != nil {
			return err
		}
		shipment = sh
		buyerUID = sh.BuyerUID
		escrowID = escrow.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify.Notify(ctx, buyerUID, model.NotificationTypeShipped,
		"Your item has shipped", "Confirm delivery once it arrives to release payment.",
		uint64Ptr(shipment.AuctionID), uint64Ptr(escrowID), nil)
	return shipment, nil
}

func (s *escrowService) ConfirmDelivery(ctx context.Context, shipmentID uint64, buyerUID string) (*model.Shipment, error) {
	var shipment *model.Shipment
	var escrow *model.Escrow

	err := s.txm.Do(ctx, func(ctx context.Context) error {
		sh, err := s.shipmentRepo.FindByID(ctx, shipmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if sh.BuyerUID != buyerUID {
			return ErrUnauthorized
		}
		now := time.Now()
		if err := sh.MarkDelivered(now); err != nil {
			return err
		}
		if err := s.shipmentRepo.Update(ctx, sh); err != nil {
			return err
		}

		e, err := s.escrowRepo.FindByIDForUpdate(ctx, sh.EscrowID)
		if err != nil {
			return err
		}
		if err := e.Release(now); err != nil {
			return err
		}
		if err := s.escrowRepo.Update(ctx, e); err != nil {
			return err
		}
		if err := s.settleSeller(ctx, e); err != nil {
			return err
		}
		shipment = sh
		escrow = e
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify.Notify(ctx, escrow.SellerUID, model.NotificationTypeEscrowReleased,
		"Payment released",
		fmt.Sprintf("Escrow of %s released to your wallet.", escrow.Amount.StringFixed(2)),
		uint64Ptr(escrow.AuctionID), uint64Ptr(escrow.ID), nil)
	s.notify.Notify(ctx, escrow.BuyerUID, model.NotificationTypeDelivered,
		"Delivery confirmed", "Thanks for confirming delivery.",
		uint64Ptr(escrow.AuctionID), uint64Ptr(escrow.ID), nil)
	return shipment, nil
}

// settleSeller credits the seller's wallet with the sale amount and collects
// the snapshotted commission, all within the caller's transaction.
func (s *escrowService) settleSeller(ctx context.Context, e *model.Escrow) error {
	if _, err := s.wallets.Credit(ctx, e.SellerUID, e.Amount, model.WalletTxDeposit,
		fmt.Sprintf("sale proceeds for auction %d", e.AuctionID), "escrow", e.ID); err != nil {
		return err
	}
	commission, err := s.commissionRepo.FindByAuction(ctx, e.AuctionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("commission row missing for auction %d: %w", e.AuctionID, err)
		}
		return err
	}
	if commission.Status != model.CommissionStatusPending {
		return nil
	}
	if !commission.Amount.IsZero() {
		if _, err := s.wallets.Debit(ctx, e.SellerUID, commission.Amount, model.WalletTxCommission,
			fmt.Sprintf("platform commission for auction %d", e.AuctionID), "escrow", e.ID); err != nil {
			return err
		}
	}
	if err := commission.MarkCollected(); err != nil {
		return err
	}
	return s.commissionRepo.Update(ctx, commission)
}

func (s *escrowService) Refund(ctx context.Context, escrowID uint64, sellerUID string) (*model.Escrow, error) {
	var escrow *model.Escrow
	err := s.txm.Do(ctx, func(ctx context.Context) error {
		e, err := s.escrowRepo.FindByIDForUpdate(ctx, escrowID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if e.SellerUID != sellerUID {
			return ErrUnauthorized
		}
		now := time.Now()
		if err := e.Refund(now); err != nil {
			return err
		}
		if err := s.escrowRepo.Update(ctx, e); err != nil {
			return err
		}
		if err := s.refundBuyer(ctx, e); err != nil {
			return err
		}
		escrow = e
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify.Notify(ctx, escrow.BuyerUID, model.NotificationTypeEscrowRefunded,
		"Purchase refunded",
		fmt.Sprintf("%s returned to your wallet.", escrow.Amount.StringFixed(2)),
		uint64Ptr(escrow.AuctionID), uint64Ptr(escrow.ID), nil)
	return escrow, nil
}

// refundBuyer returns escrowed funds to the buyer's wallet, waives the
// commission that can no longer be collected, and flags the completed
// payment as refunded, within the caller's transaction.
func (s *escrowService) refundBuyer(ctx context.Context, e *model.Escrow) error {
	if _, err := s.wallets.Credit(ctx, e.BuyerUID, e.Amount, model.WalletTxRefund,
		fmt.Sprintf("refund for auction %d", e.AuctionID), "escrow", e.ID); err != nil {
		return err
	}
	commission, err := s.commissionRepo.FindByAuction(ctx, e.AuctionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("commission row missing for auction %d: %w", e.AuctionID, err)
		}
		return err
	}
	if commission.Status == model.CommissionStatusPending {
		if err := commission.Waive(); err != nil {
			return err
		}
		if err := s.commissionRepo.Update(ctx, commission); err != nil {
			return err
		}
	}
	payments, err := s.paymentRepo.ListByEscrow(ctx, e.ID)
	if err != nil {
		return err
	}
	for i := range payments {
		if payments[i].Status == model.PaymentStatusCompleted {
			if err := payments[i].MarkRefunded(); err != nil {
				return err
			}
			if err := s.paymentRepo.Update(ctx, &payments[i]); err != nil {
				return err
			}
			break
		}
	}
	return nil
}

func (s *escrowService) OpenDispute(ctx context.Context, escrowID uint64, actorUID, reason string) (*model.Escrow, error) {
	var escrow *model.Escrow
	err := s.txm.Do(ctx, func(ctx context.Context) error {
		e, err := s.escrowRepo.FindByIDForUpdate(ctx, escrowID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if actorUID != e.BuyerUID && actorUID != e.SellerUID {
			return ErrUnauthorized
		}
		if err := e.OpenDispute(reason); err != nil {
			return err
		}
		if err := s.escrowRepo.Update(ctx, e); err != nil {
			return err
		}
		escrow = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return escrow, nil
}

func (s *escrowService) ResolveDispute(ctx context.Context, escrowID uint64, release bool) (*model.Escrow, error) {
	var escrow *model.Escrow
	err := s.txm.Do(ctx, func(ctx context.Context) error {
		e, err := s.escrowRepo.FindByIDForUpdate(ctx, escrowID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		now := time.Now()
		if release {
			if err := e.ResolveByReleasing(now); err != nil {
				return err
			}
			if err := s.escrowRepo.Update(ctx, e); err != nil {
				return err
			}
			if err := s.settleSeller(ctx, e); err != nil {
				return err
			}
		} else {
			if err := e.ResolveByRefunding(now); err != nil {
				return err
			}
			if err := s.escrowRepo.Update(ctx, e); err != nil {
				return err
			}
			if err := s.refundBuyer(ctx, e); err != nil {
				return err
			}
		}
		escrow = e
		return nil
	})
	if err != nil {
		return nil, err
	}

	typ := model.NotificationTypeEscrowRefunded
	target := escrow.BuyerUID
	if release {
		typ = model.NotificationTypeEscrowReleased
		target = escrow.SellerUID
	}
	s.notify.Notify(ctx, target, typ, "Dispute resolved", "",
		uint64Ptr(escrow.AuctionID), uint64Ptr(escrow.ID), nil)
	return escrow, nil
}
