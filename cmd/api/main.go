package main

import (
	"context"
	"errors"
	"log"

	"github.com/joho/godotenv"
	"github.com/takebay/auction-backend/internal/config"
	"github.com/takebay/auction-backend/internal/db"
	"github.com/takebay/auction-backend/internal/logger"
	"github.com/takebay/auction-backend/internal/model"
	"github.com/takebay/auction-backend/internal/repository"
	"github.com/takebay/auction-backend/internal/server"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

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
	if err := migrate(conn); err != nil {
		zl.Fatal("auto migrate failed", zap.Error(err))
	}
	if err := seedCommissionRate(conn, cfg); err != nil {
		zl.Fatal("commission rate seed failed", zap.Error(err))
	}

	srv := server.New(conn, cfg, zl)
	addr := ":" + cfg.Port
	zl.Info("starting api server", zap.String("addr", addr))
	if err := srv.Start(addr); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}

func migrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&model.Auction{},
		&model.Bid{},
		&model.AutoBidConfig{},
		&model.Escrow{},
		&model.Commission{},
		&model.Payment{},
		&model.Wallet{},
		&model.WalletTransaction{},
		&model.PayoutRequest{},
		&model.Shipment{},
		&model.Address{},
		&model.Setting{},
		&model.Notification{},
	)
}

// seedCommissionRate writes the env default only when no row exists yet, so
// an admin-tuned rate survives restarts.
func seedCommissionRate(conn *gorm.DB, cfg *config.Config) error {
	repo := repository.NewSettingRepository(conn)
	ctx := context.Background()
	_, err := repo.Get(ctx, model.SettingKeyCommissionRate)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return repo.Upsert(ctx, model.SettingKeyCommissionRate, cfg.CommissionRate)
}
