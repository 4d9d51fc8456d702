package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/takebay/auction-backend/internal/model"
	"go.uber.org/zap"
)

type escrowFixture struct {
	svc            EscrowService
	escrowRepo     *fakeEscrowRepo
	shipmentRepo   *fakeShipmentRepo
	commissionRepo *fakeCommissionRepo
	paymentRepo    *fakePaymentRepo
	walletRepo     *fakeWalletRepo
	wallets        WalletService
	notifyRepo     *fakeNotificationRepo
}

func newEscrowFixture(t *testing.T) *escrowFixture {
	t.Helper()
	f := &escrowFixture{
		escrowRepo:     newFakeEscrowRepo(),
		shipmentRepo:   newFakeShipmentRepo(),
		commissionRepo: newFakeCommissionRepo(),
		paymentRepo:    newFakePaymentRepo(),
		walletRepo:     newFakeWalletRepo(),
		notifyRepo:     newFakeNotificationRepo(),
	}
	f.wallets = NewWalletService(f.walletRepo, fakeTxManager{})
	notify := NewNotificationService(f.notifyRepo, zap.NewNop())
	f.svc = NewEscrowService(
		f.escrowRepo, f.shipmentRepo, f.commissionRepo, f.paymentRepo,
		f.wallets, fakeTxManager{}, notify, zap.NewNop(),
	)
	return f
}

// fundedSale seeds a funded escrow with its commission, shipment and the
// completed payment, as the closer plus a confirmation would have left them.
func (f *escrowFixture) fundedSale(t *testing.T, amount, commission string) (*model.Escrow, *model.Shipment) {
	t.Helper()
	ctx := context.Background()

	e, err := model.NewEscrow(1, "buyer", "seller", decimal.RequireFromString(amount))
	require.NoError(t, err)
	require.NoError(t, f.escrowRepo.Create(ctx, e))
	require.NoError(t, e.Fund(time.Now()))

	c := &model.Commission{
		AuctionID: 1,
		Price:     decimal.RequireFromString(amount),
		Rate:      decimal.RequireFromString("10"),
		Amount:    decimal.RequireFromString(commission),
		Status:    model.CommissionStatusPending,
	}
	require.NoError(t, f.commissionRepo.Create(ctx, c))

	sh := &model.Shipment{
		AuctionID: 1,
		EscrowID:  e.ID,
		BuyerUID:  "buyer",
		SellerUID: "seller",
		Status:    model.ShipmentStatusPending,
	}
	require.NoError(t, f.shipmentRepo.Create(ctx, sh))

	now := time.Now()
	p := &model.Payment{
		EscrowID:    e.ID,
		PayerUID:    "buyer",
		Amount:      e.Amount,
		Method:      model.PaymentMethodGateway,
		Status:      model.PaymentStatusCompleted,
		Reference:   "ref-1",
		CompletedAt: &now,
	}
	require.NoError(t, f.paymentRepo.Create(ctx, p))
	return e, sh
}

func TestMarkShippedFlow(t *testing.T) {
	f := newEscrowFixture(t)
	ctx := context.Background()
	e, sh := f.fundedSale(t, "200.00", "20.00")

	t.Run("only the seller ships", func(t *testing.T) {
		_, err := f.svc.MarkShipped(ctx, sh.ID, "buyer")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	got, err := f.svc.MarkShipped(ctx, sh.ID, "seller")
	require.NoError(t, err)
	assert.Equal(t, model.ShipmentStatusShipped, got.Status)
	assert.Equal(t, model.EscrowStatusShipped, e.Status)
	assert.Contains(t, f.notifyRepo.typesFor("buyer"), model.NotificationTypeShipped)

	t.Run("shipping twice is rejected", func(t *testing.T) {
		_, err := f.svc.MarkShipped(ctx, sh.ID, "seller")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestConfirmDeliveryReleasesAndSettles(t *testing.T) {
	f := newEscrowFixture(t)
	ctx := context.Background()
	e, sh := f.fundedSale(t, "200.00", "20.00")

	_, err := f.svc.MarkShipped(ctx, sh.ID, "seller")
	require.NoError(t, err)

	t.Run("only the buyer confirms", func(t *testing.T) {
		_, err := f.svc.ConfirmDelivery(ctx, sh.ID, "seller")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	got, err := f.svc.ConfirmDelivery(ctx, sh.ID, "buyer")
	require.NoError(t, err)
	assert.Equal(t, model.ShipmentStatusDelivered, got.Status)
	assert.Equal(t, model.EscrowStatusReleased, e.Status)

	// seller nets sale minus commission, and the ledger stays consistent.
	w, err := f.wallets.Balance(ctx, "seller")
	require.NoError(t, err)
	assert.True(t, w.Balance.Equal(decimal.RequireFromString("180.00")), "balance=%s", w.Balance)
	ok, _, _, err := f.wallets.AuditLedger(ctx, "seller")
	require.NoError(t, err)
	assert.True(t, ok)

	commission, err := f.commissionRepo.FindByAuction(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, model.CommissionStatusCollected, commission.Status)

	assert.Contains(t, f.notifyRepo.typesFor("seller"), model.NotificationTypeEscrowReleased)

	t.Run("confirming again is rejected", func(t *testing.T) {
		_, err := f.svc.ConfirmDelivery(ctx, sh.ID, "buyer")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestRefundReturnsFundsToBuyer(t *testing.T) {
	f := newEscrowFixture(t)
	ctx := context.Background()
	e, _ := f.fundedSale(t, "200.00", "20.00")

	t.Run("only the seller refunds", func(t *testing.T) {
		_, err := f.svc.Refund(ctx, e.ID, "buyer")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	got, err := f.svc.Refund(ctx, e.ID, "seller")
	require.NoError(t, err)
	assert.Equal(t, model.EscrowStatusRefunded, got.Status)

	w, err := f.wallets.Balance(ctx, "buyer")
	require.NoError(t, err)
	assert.True(t, w.Balance.Equal(decimal.RequireFromString("200.00")))

	payments, err := f.paymentRepo.ListByEscrow(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusRefunded, payments[0].Status)

	// no sale, no fee.
	commission, err := f.commissionRepo.FindByAuction(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, model.CommissionStatusWaived, commission.Status)

	assert.Contains(t, f.notifyRepo.typesFor("buyer"), model.NotificationTypeEscrowRefunded)
}

func TestDisputeLifecycle(t *testing.T) {
	f := newEscrowFixture(t)
	ctx := context.Background()
	e, _ := f.fundedSale(t, "200.00", "20.00")

	t.Run("outsiders cannot dispute", func(t *testing.T) {
		_, err := f.svc.OpenDispute(ctx, e.ID, "stranger", "never arrived")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
	t.Run("reason required", func(t *testing.T) {
		_, err := f.svc.OpenDispute(ctx, e.ID, "buyer", "  ")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	got, err := f.svc.OpenDispute(ctx, e.ID, "buyer", "never arrived")
	require.NoError(t, err)
	assert.Equal(t, model.EscrowStatusDisputed, got.Status)

	t.Run("refund is frozen while disputed", func(t *testing.T) {
		_, err := f.svc.Refund(ctx, e.ID, "seller")
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	resolved, err := f.svc.ResolveDispute(ctx, e.ID, false)
	require.NoError(t, err)
	assert.Equal(t, model.EscrowStatusRefunded, resolved.Status)

	w, err := f.wallets.Balance(ctx, "buyer")
	require.NoError(t, err)
	assert.True(t, w.Balance.Equal(decimal.RequireFromString("200.00")))

	commission, err := f.commissionRepo.FindByAuction(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, model.CommissionStatusWaived, commission.Status)
}

func TestResolveDisputeByReleasing(t *testing.T) {
	f := newEscrowFixture(t)
	ctx := context.Background()
	e, _ := f.fundedSale(t, "200.00", "20.00")

	_, err := f.svc.OpenDispute(ctx, e.ID, "seller", "buyer ghosted after delivery")
	require.NoError(t, err)

	resolved, err := f.svc.ResolveDispute(ctx, e.ID, true)
	require.NoError(t, err)
	assert.Equal(t, model.EscrowStatusReleased, resolved.Status)

	w, err := f.wallets.Balance(ctx, "seller")
	require.NoError(t, err)
	assert.True(t, w.Balance.Equal(decimal.RequireFromString("180.00")))

	commission, err := f.commissionRepo.FindByAuction(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, model.CommissionStatusCollected, commission.Status)
}
