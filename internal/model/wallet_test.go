package model

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestWalletDeposit(t *testing.T) {
	w := &Wallet{UserUID: "u1", Balance: decimal.Zero}
	if err := w.Deposit(decimal.RequireFromString("25.50")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !w.Balance.Equal(decimal.RequireFromString("25.50")) {
		t.Fatalf("balance=%s want 25.50", w.Balance)
	}
	if err := w.Deposit(decimal.Zero); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("err=%v want ErrInvalidAmount", err)
	}
	if err := w.Deposit(decimal.RequireFromString("-1")); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("err=%v want ErrInvalidAmount", err)
	}
}

func TestWalletWithdraw(t *testing.T) {
	w := &Wallet{UserUID: "u1", Balance: decimal.RequireFromString("100.00")}
	if err := w.Withdraw(decimal.RequireFromString("40.00")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !w.Balance.Equal(decimal.RequireFromString("60.00")) {
		t.Fatalf("balance=%s want 60.00", w.Balance)
	}

	if err := w.Withdraw(decimal.RequireFromString("60.01")); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err=%v want ErrInsufficientFunds", err)
	}
	if !w.Balance.Equal(decimal.RequireFromString("60.00")) {
		t.Fatalf("failed withdraw changed balance to %s", w.Balance)
	}

	// exact balance drains to zero
	if err := w.Withdraw(decimal.RequireFromString("60.00")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !w.Balance.IsZero() {
		t.Fatalf("balance=%s want 0", w.Balance)
	}
}

func TestNewWalletTransactionRejectsZero(t *testing.T) {
	if _, err := NewWalletTransaction("u1", decimal.Zero, WalletTxDeposit, "x"); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("err=%v want ErrInvalidAmount", err)
	}
	tx, err := NewWalletTransaction("u1", decimal.RequireFromString("-10"), WalletTxWithdrawal, "debit")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !tx.Amount.IsNegative() {
		t.Fatalf("debit amount should stay signed, got %s", tx.Amount)
	}
}
