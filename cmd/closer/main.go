package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/takebay/auction-backend/internal/config"
	"github.com/takebay/auction-backend/internal/db"
	"github.com/takebay/auction-backend/internal/logger"
	"github.com/takebay/auction-backend/internal/repository"
	"github.com/takebay/auction-backend/internal/service"
	"go.uber.org/zap"
)

// The closer worker settles ended auctions on a schedule. It shares nothing
// with the api process except the database; running both against the same
// schema is the deployment unit.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	zl, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer zl.Sync()

	conn, err := db.Connect(cfg)
	if err != nil {
		zl.Fatal("db connect failed", zap.Error(err))
	}

	txm := repository.NewTxManager(conn)
	notifySvc := service.NewNotificationService(repository.NewNotificationRepository(conn), zl)
	closer := service.NewCloserService(
		repository.NewAuctionRepository(conn),
		repository.NewBidRepository(conn),
		repository.NewEscrowRepository(conn),
		repository.NewCommissionRepository(conn),
		repository.NewShipmentRepository(conn),
		repository.NewAddressRepository(conn),
		repository.NewSettingRepository(conn),
		txm,
		notifySvc,
		zl,
	)

	c := cron.New()
	_, err = c.AddFunc(cfg.CloserSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		closed, err := closer.CloseDueAuctions(ctx, time.Now())
		if err != nil {
			zl.Error("close sweep failed", zap.Error(err))
			return
		}
		if closed > 0 {
			zl.Info("auctions settled", zap.Int("count", closed))
		}
	})
	if err != nil {
		zl.Fatal("invalid closer schedule", zap.String("schedule", cfg.CloserSchedule), zap.Error(err))
	}

	zl.Info("starting closer worker", zap.String("schedule", cfg.CloserSchedule))
	c.Run()
}
