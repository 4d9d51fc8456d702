package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/takebay/auction-backend/internal/model"
	"github.com/takebay/auction-backend/internal/money"
	"github.com/takebay/auction-backend/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CloserService settles ended auctions: winner determination, the escrow and
// commission rows for a sale, and the shipping request. The whole close is
// one transaction; an aborted close leaves the auction active and retryable.
type CloserService interface {
	CloseAuction(ctx context.Context, auctionID uint64, now time.Time) error
	// CloseDueAuctions is the scheduler entrypoint; it closes every active
	// auction whose end time has passed and returns how many it settled.
	CloseDueAuctions(ctx context.Context, now time.Time) (int, error)
}

type closerService struct {
	auctionRepo    repository.AuctionRepository
	bidRepo        repository.BidRepository
	escrowRepo     repository.EscrowRepository
	commissionRepo repository.CommissionRepository
	shipmentRepo   repository.ShipmentRepository
	addressRepo    repository.AddressRepository
	settingRepo    repository.SettingRepository
	txm            repository.TxManager
	notify         NotificationService
	log            *zap.Logger
}

func NewCloserService(
	auctionRepo repository.AuctionRepository,
	bidRepo repository.BidRepository,
	escrowRepo repository.EscrowRepository,
	commissionRepo repository.CommissionRepository,
	shipmentRepo repository.ShipmentRepository,
	addressRepo repository.AddressRepository,
	settingRepo repository.SettingRepository,
	txm repository.TxManager,
	notify NotificationService,
	log *zap.Logger,
) CloserService {
	return &closerService{
		auctionRepo:    auctionRepo,
		bidRepo:        bidRepo,
		escrowRepo:     escrowRepo,
		commissionRepo: commissionRepo,
		shipmentRepo:   shipmentRepo,
		addressRepo:    addressRepo,
		settingRepo:    settingRepo,
		txm:            txm,
		notify:         notify,
		log:            log,
	}
}

type closeOutcome struct {
	sold      bool
	winnerUID string
	sellerUID string
	amount    decimal.Decimal
	escrowID  uint64
	losers    []string
}

func (s *closerService) CloseAuction(ctx context.Context, auctionID uint64, now time.Time) error {
	var out closeOutcome

	err := s.txm.Do(ctx, func(ctx context.Context) error {
		auction, err := s.auctionRepo.FindByIDForUpdate(ctx, auctionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		// The scheduler is at-least-once; a second invocation finds the
		// auction already closed and must not settle twice.
		if auction.Status != model.AuctionStatusActive {
			return ErrInvalidState
		}
		if now.Before(auction.EndAt) {
			return ErrInvalidState
		}
		out.sellerUID = auction.SellerUID

		highest, err := s.bidRepo.HighestForAuction(ctx, auctionID)
		if err != nil {
			return err
		}
		if highest == nil || !auction.MeetsReserve(highest.Amount) {
			if err := auction.CloseAsUnsold(now); err != nil {
				return err
			}
			return s.auctionRepo.Update(ctx, auction)
		}

		if err := auction.CloseAsSold(highest.BidderUID, highest.ID, now); err != nil {
			return err
		}
		if err := s.auctionRepo.Update(ctx, auction); err != nil {
			return err
		}

		escrow, err := model.NewEscrow(auctionID, highest.BidderUID, auction.SellerUID, highest.Amount)
		if err != nil {
			return err
		}
		if err := s.escrowRepo.Create(ctx, escrow); err != nil {
			return err
		}

		rate, err := s.commissionRate(ctx)
		if err != nil {
			return err
		}
		commission := &model.Commission{
			AuctionID: auctionID,
			Price:     highest.Amount,
			Rate:      rate,
			Amount:    money.Commission(highest.Amount, rate),
			Status:    model.CommissionStatusPending,
		}
		if err := s.commissionRepo.Create(ctx, commission); err != nil {
			return err
		}

		addr, err := s.addressRepo.FindDefaultByUser(ctx, highest.BidderUID)
		if err != nil {
			return err
		}
		if addr == nil {
			// Aborts the whole transaction, auction-close included, so the
			// auction stays active and the close can be retried.
			return ErrMissingAddress
		}
		shipment := &model.Shipment{
			AuctionID:     auctionID,
			EscrowID:      escrow.ID,
			BuyerUID:      highest.BidderUID,
			SellerUID:     auction.SellerUID,
			RecipientName: addr.RecipientName,
			Line1:         addr.Line1,
			Line2:         addr.Line2,
			City:          addr.City,
			PostalCode:    addr.PostalCode,
			Status:        model.ShipmentStatusPending,
		}
		if err := s.shipmentRepo.Create(ctx, shipment); err != nil {
			return err
		}

		out.sold = true
		out.winnerUID = highest.BidderUID
		out.amount = highest.Amount
		out.escrowID = escrow.ID

		bids, err := s.bidRepo.ListByAuction(ctx, auctionID)
		if err != nil {
			return err
		}
		seen := map[string]bool{highest.BidderUID: true}
		for _, b := range bids {
			if !seen[b.BidderUID] {
				seen[b.BidderUID] = true
				out.losers = append(out.losers, b.BidderUID)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if out.sold {
		s.notify.Notify(ctx, out.winnerUID, model.NotificationTypeAuctionWon,
			"You won the auction",
			fmt.Sprintf("Winning bid %s. Complete payment to fund escrow.", out.amount.StringFixed(2)),
			uint64Ptr(auctionID), uint64Ptr(out.escrowID), nil)
		s.notify.Notify(ctx, out.sellerUID, model.NotificationTypeAuctionWon,
			"Your auction sold",
			fmt.Sprintf("Sold for %s. Funds will be held in escrow until delivery.", out.amount.StringFixed(2)),
			uint64Ptr(auctionID), uint64Ptr(out.escrowID), nil)
		for _, loser := range out.losers {
			s.notify.Notify(ctx, loser, model.NotificationTypeAuctionLost,
				"Auction ended", "You did not win this auction.",
				uint64Ptr(auctionID), nil, nil)
		}
	} else {
		s.notify.Notify(ctx, out.sellerUID, model.NotificationTypeAuctionUnsold,
			"Auction ended without a sale",
			"No bid met the reserve price.",
			uint64Ptr(auctionID), nil, nil)
	}
	return nil
}

func (s *closerService) CloseDueAuctions(ctx context.Context, now time.Time) (int, error) {
	due, err := s.auctionRepo.ListDueForClose(ctx, now, 100)
	if err != nil {
		return 0, err
	}
	closed := 0
	for _, a := range due {
		err := s.CloseAuction(ctx, a.ID, now)
		switch {
		case err == nil:
			closed++
		case errors.Is(err, ErrInvalidState):
			// Another worker got there first.
		case errors.Is(err, ErrMissingAddress):
			s.log.Warn("auction close blocked on missing buyer address",
				zap.Uint64("auction_id", a.ID))
		default:
			s.log.Error("auction close failed",
				zap.Uint64("auction_id", a.ID),
				zap.Error(err))
		}
	}
	return closed, nil
}

// commissionRate reads the current platform rate. A missing or malformed
// setting aborts the enclosing close transaction.
func (s *closerService) commissionRate(ctx context.Context) (decimal.Decimal, error) {
	setting, err := s.settingRepo.Get(ctx, model.SettingKeyCommissionRate)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, fmt.Errorf("commission rate setting missing: %w", err)
		}
		return decimal.Zero, err
	}
	rate, err := decimal.NewFromString(setting.Value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("commission rate setting malformed: %w", err)
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.Zero, fmt.Errorf("commission rate out of range: %s", setting.Value)
	}
	return rate, nil
}
