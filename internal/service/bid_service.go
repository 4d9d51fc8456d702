package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/takebay/auction-backend/internal/model"
	"github.com/takebay/auction-backend/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type BidService interface {
	// PlaceBid validates and records a manual bid, then runs proxy-bid
	// resolution, which may append a chain of synthetic bids.
	PlaceBid(ctx context.Context, auctionID uint64, bidderUID string, amount decimal.Decimal) (*model.Bid, error)
	SetAutoBid(ctx context.Context, auctionID uint64, userUID string, maxAmount, increment decimal.Decimal) (*model.AutoBidConfig, error)
	CancelAutoBid(ctx context.Context, auctionID uint64, userUID string) error
	ListBids(ctx context.Context, auctionID uint64) ([]model.Bid, error)
	HighestBid(ctx context.Context, auctionID uint64) (*model.Bid, error)
}

type bidService struct {
	auctionRepo repository.AuctionRepository
	bidRepo     repository.BidRepository
	autoBidRepo repository.AutoBidRepository
	txm         repository.TxManager
	notify      NotificationService
	log         *zap.Logger
}

func NewBidService(
	auctionRepo repository.AuctionRepository,
	bidRepo repository.BidRepository,
	autoBidRepo repository.AutoBidRepository,
	txm repository.TxManager,
	notify NotificationService,
	log *zap.Logger,
) BidService {
	return &bidService{
		auctionRepo: auctionRepo,
		bidRepo:     bidRepo,
		autoBidRepo: autoBidRepo,
		txm:         txm,
		notify:      notify,
		log:         log,
	}
}

// outbidEvent remembers who lost the lead while the transaction was open so
// they can be notified after commit.
type outbidEvent struct {
	userUID   string
	newAmount decimal.Decimal
}

func (s *bidService) PlaceBid(ctx context.Context, auctionID uint64, bidderUID string, amount decimal.Decimal) (*model.Bid, error) {
	if bidderUID == "" {
		return nil, ErrUnauthorized
	}

	var placed *model.Bid
	var outbid []outbidEvent

	err := s.txm.Do(ctx, func(ctx context.Context) error {
		// Row lock on the auction serializes all bid placement for it, so
		// the highest-bid read below cannot race a concurrent acceptance.
		auction, err := s.auctionRepo.FindByIDForUpdate(ctx, auctionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !auction.AcceptsBids(time.Now()) {
			return ErrInvalidState
		}
		if auction.SellerUID == bidderUID {
			return ErrUnauthorized
		}

		highest, err := s.bidRepo.HighestForAuction(ctx, auctionID)
		if err != nil {
			return err
		}
		if highest == nil {
			if amount.LessThanOrEqual(auction.StartingPrice) {
				return ErrInvalidAmount
			}
		} else if amount.LessThanOrEqual(highest.Amount.Add(auction.BidIncrement)) {
			return ErrInvalidAmount
		}

		bid, err := model.NewBid(auctionID, bidderUID, amount, false)
		if err != nil {
			return err
		}
		if err := s.bidRepo.Create(ctx, bid); err != nil {
			return err
		}
		placed = bid
		if highest != nil && highest.BidderUID != bidderUID {
			outbid = append(outbid, outbidEvent{userUID: highest.BidderUID, newAmount: amount})
		}

		configs, err := s.autoBidRepo.ListActiveByAuction(ctx, auctionID)
		if err != nil {
			return err
		}
		currentBidder := bidderUID
		for _, p := range resolveAutoBids(bidderUID, amount, configs) {
			synthetic, err := model.NewBid(auctionID, p.UserUID, p.Amount, true)
			if err != nil {
				return err
			}
			if err := s.bidRepo.Create(ctx, synthetic); err != nil {
				return err
			}
			outbid = append(outbid, outbidEvent{userUID: currentBidder, newAmount: p.Amount})
			currentBidder = p.UserUID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, ev := range outbid {
		s.notify.Notify(ctx, ev.userUID, model.NotificationTypeOutbid,
			"You have been outbid",
			fmt.Sprintf("Bidding has reached %s.", ev.newAmount.StringFixed(2)),
			uint64Ptr(auctionID), nil, nil)
	}
	return placed, nil
}

func (s *bidService) SetAutoBid(ctx context.Context, auctionID uint64, userUID string, maxAmount, increment decimal.Decimal) (*model.AutoBidConfig, error) {
	if userUID == "" {
		return nil, ErrUnauthorized
	}
	auction, err := s.auctionRepo.FindByID(ctx, auctionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !auction.AcceptsBids(time.Now()) {
		return nil, ErrInvalidState
	}
	if auction.SellerUID == userUID {
		return nil, ErrUnauthorized
	}

	cfg := &model.AutoBidConfig{
		AuctionID: auctionID,
		UserUID:   userUID,
		MaxAmount: maxAmount,
		Increment: increment,
		Active:    true,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := s.autoBidRepo.Upsert(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *bidService) CancelAutoBid(ctx context.Context, auctionID uint64, userUID string) error {
	if userUID == "" {
		return ErrUnauthorized
	}
	existing, err := s.autoBidRepo.FindByOwner(ctx, auctionID, userUID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotFound
	}
	return s.autoBidRepo.Deactivate(ctx, auctionID, userUID)
}

func (s *bidService) ListBids(ctx context.Context, auctionID uint64) ([]model.Bid, error) {
	return s.bidRepo.ListByAuction(ctx, auctionID)
}

func (s *bidService) HighestBid(ctx context.Context, auctionID uint64) (*model.Bid, error) {
	return s.bidRepo.HighestForAuction(ctx, auctionID)
}
