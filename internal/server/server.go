package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/takebay/auction-backend/internal/config"
	"github.com/takebay/auction-backend/internal/gateway"
	"github.com/takebay/auction-backend/internal/handler"
	appmw "github.com/takebay/auction-backend/internal/middleware"
	"github.com/takebay/auction-backend/internal/repository"
	"github.com/takebay/auction-backend/internal/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Server struct {
	e *echo.Echo
}

func New(db *gorm.DB, cfg *config.Config, log *zap.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization", "X-User-UID"},
		AllowCredentials: true,
	}))

	txm := repository.NewTxManager(db)
	auctionRepo := repository.NewAuctionRepository(db)
	bidRepo := repository.NewBidRepository(db)
	autoBidRepo := repository.NewAutoBidRepository(db)
	escrowRepo := repository.NewEscrowRepository(db)
	commissionRepo := repository.NewCommissionRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	walletRepo := repository.NewWalletRepository(db)
	payoutRepo := repository.NewPayoutRepository(db)
	shipmentRepo := repository.NewShipmentRepository(db)
	addressRepo := repository.NewAddressRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	gw := gateway.NewHostedCheckout(cfg.GatewayBaseURL, log)

	notifySvc := service.NewNotificationService(notificationRepo, log)
	walletSvc := service.NewWalletService(walletRepo, txm)
	bidSvc := service.NewBidService(auctionRepo, bidRepo, autoBidRepo, txm, notifySvc, log)
	closerSvc := service.NewCloserService(auctionRepo, bidRepo, escrowRepo, commissionRepo, shipmentRepo, addressRepo, settingRepo, txm, notifySvc, log)
	escrowSvc := service.NewEscrowService(escrowRepo, shipmentRepo, commissionRepo, paymentRepo, walletSvc, txm, notifySvc, log)
	paymentSvc := service.NewPaymentService(paymentRepo, escrowRepo, walletSvc, gw, txm, notifySvc, log)
	payoutSvc := service.NewPayoutService(payoutRepo, walletSvc, txm, notifySvc, log)

	auctionHandler := handler.NewAuctionHandler(auctionRepo, shipmentRepo, closerSvc)
	bidHandler := handler.NewBidHandler(bidSvc)
	escrowHandler := handler.NewEscrowHandler(escrowSvc)
	paymentHandler := handler.NewPaymentHandler(paymentSvc)
	walletHandler := handler.NewWalletHandler(walletSvc)
	payoutHandler := handler.NewPayoutHandler(payoutSvc)
	notificationHandler := handler.NewNotificationHandler(notifySvc)
	accountHandler := handler.NewAccountHandler(addressRepo, settingRepo)

	authMw := appmw.NewAuthMiddleware(cfg.AdminUIDs)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"ok": "true"})
	})

	api := e.Group("/api")

	api.POST("/auctions", auctionHandler.Create, authMw.RequireAuth)
	api.GET("/auctions/:id", auctionHandler.Get)
	api.GET("/auctions/:id/bids", bidHandler.List)
	api.GET("/auctions/:id/bids/highest", bidHandler.Highest)
	api.POST("/auctions/:id/bids", bidHandler.Place, authMw.RequireAuth)
	api.PUT("/auctions/:id/auto-bid", bidHandler.SetAutoBid, authMw.RequireAuth)
	api.DELETE("/auctions/:id/auto-bid", bidHandler.CancelAutoBid, authMw.RequireAuth)
	api.GET("/auctions/:id/escrow", escrowHandler.GetByAuction, authMw.RequireAuth)
	api.GET("/auctions/:id/shipment", auctionHandler.GetShipment, authMw.RequireAuth)

	api.POST("/shipments/:id/ship", escrowHandler.MarkShipped, authMw.RequireAuth)
	api.POST("/shipments/:id/deliver", escrowHandler.ConfirmDelivery, authMw.RequireAuth)

	api.POST("/escrows/:id/refund", escrowHandler.Refund, authMw.RequireAuth)
	api.POST("/escrows/:id/dispute", escrowHandler.OpenDispute, authMw.RequireAuth)
	api.POST("/escrows/:id/checkout", paymentHandler.InitiateCheckout, authMw.RequireAuth)
	api.POST("/escrows/:id/pay-from-wallet", paymentHandler.PayFromWallet, authMw.RequireAuth)
	api.GET("/escrows/:id/payments", paymentHandler.ListByEscrow, authMw.RequireAuth)

	// Gateway callback. The processor authenticates out of band; the handler
	// is idempotent so retries are harmless.
	api.POST("/payments/confirm", paymentHandler.Confirm)

	api.GET("/me/wallet", walletHandler.Balance, authMw.RequireAuth)
	api.GET("/me/wallet/transactions", walletHandler.History, authMw.RequireAuth)
	api.POST("/me/wallet/deposit", walletHandler.Deposit, authMw.RequireAuth)
	api.POST("/me/payouts", payoutHandler.Request, authMw.RequireAuth)
	api.GET("/me/payouts", payoutHandler.ListMine, authMw.RequireAuth)
	api.GET("/me/notifications", notificationHandler.List, authMw.RequireAuth)
	api.POST("/me/notifications/read", notificationHandler.MarkAllRead, authMw.RequireAuth)
	api.POST("/me/addresses", accountHandler.CreateAddress, authMw.RequireAuth)
	api.GET("/me/addresses/default", accountHandler.GetDefaultAddress, authMw.RequireAuth)

	admin := api.Group("/admin", authMw.RequireAdmin)
	admin.POST("/auctions/:id/close", auctionHandler.Close)
	admin.POST("/escrows/:id/resolve", escrowHandler.ResolveDispute)
	admin.GET("/payouts/pending", payoutHandler.ListPending)
	admin.POST("/payouts/:id/approve", payoutHandler.Approve)
	admin.POST("/payouts/:id/reject", payoutHandler.Reject)
	admin.POST("/payouts/:id/complete", payoutHandler.Complete)
	admin.GET("/wallets/:uid/audit", walletHandler.Audit)
	admin.PUT("/settings/commission-rate", accountHandler.UpdateCommissionRate)

	return &Server{e: e}
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}
