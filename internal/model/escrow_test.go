package model

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestNewEscrow(t *testing.T) {
	tests := []struct {
		name    string
		buyer   string
		seller  string
		amount  string
		wantErr bool
	}{
		{"valid", "buyer", "seller", "100.00", false},
		{"buyer is seller", "u1", "u1", "100.00", true},
		{"empty buyer", "", "seller", "100.00", true},
		{"zero amount", "buyer", "seller", "0", true},
		{"negative amount", "buyer", "seller", "-5", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewEscrow(1, tt.buyer, tt.seller, decimal.RequireFromString(tt.amount))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err=%v wantErr=%v", err, tt.wantErr)
			}
			if !tt.wantErr && e.Status != EscrowStatusPending {
				t.Fatalf("status=%s want pending", e.Status)
			}
		})
	}
}

func TestEscrowTransitions(t *testing.T) {
	now := time.Now()
	apply := map[string]func(*Escrow) error{
		"fund":    func(e *Escrow) error { return e.Fund(now) },
		"ship":    func(e *Escrow) error { return e.MarkShipped() },
		"release": func(e *Escrow) error { return e.Release(now) },
		"refund":  func(e *Escrow) error { return e.Refund(now) },
		"dispute": func(e *Escrow) error { return e.OpenDispute("item not as described") },
		"resolveRelease": func(e *Escrow) error {
			return e.ResolveByReleasing(now)
		},
		"resolveRefund": func(e *Escrow) error {
			return e.ResolveByRefunding(now)
		},
	}

	tests := []struct {
		name string
		from EscrowStatus
		op   string
		want EscrowStatus
		ok   bool
	}{
		{"fund pending", EscrowStatusPending, "fund", EscrowStatusFunded, true},
		{"fund twice", EscrowStatusFunded, "fund", EscrowStatusFunded, false},
		{"ship funded", EscrowStatusFunded, "ship", EscrowStatusShipped, true},
		{"ship before funding", EscrowStatusPending, "ship", EscrowStatusPending, false},
		{"release funded", EscrowStatusFunded, "release", EscrowStatusReleased, true},
		{"release shipped", EscrowStatusShipped, "release", EscrowStatusReleased, true},
		{"release pending", EscrowStatusPending, "release", EscrowStatusPending, false},
		{"release twice", EscrowStatusReleased, "release", EscrowStatusReleased, false},
		{"refund shipped", EscrowStatusShipped, "refund", EscrowStatusRefunded, true},
		{"refund released", EscrowStatusReleased, "refund", EscrowStatusReleased, false},
		{"dispute funded", EscrowStatusFunded, "dispute", EscrowStatusDisputed, true},
		{"dispute pending", EscrowStatusPending, "dispute", EscrowStatusPending, false},
		{"release disputed directly", EscrowStatusDisputed, "release", EscrowStatusDisputed, false},
		{"resolve disputed releasing", EscrowStatusDisputed, "resolveRelease", EscrowStatusReleased, true},
		{"resolve disputed refunding", EscrowStatusDisputed, "resolveRefund", EscrowStatusRefunded, true},
		{"resolve funded", EscrowStatusFunded, "resolveRelease", EscrowStatusFunded, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Escrow{Status: tt.from}
			err := apply[tt.op](e)
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidTransition) {
				t.Fatalf("err=%v want ErrInvalidTransition", err)
			}
			if e.Status != tt.want {
				t.Fatalf("status=%s want=%s", e.Status, tt.want)
			}
		})
	}
}

func TestEscrowDisputeNeedsReason(t *testing.T) {
	e := &Escrow{Status: EscrowStatusFunded}
	if err := e.OpenDispute("   "); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err=%v want ErrInvalidTransition", err)
	}
	if e.Status != EscrowStatusFunded {
		t.Fatalf("guard failure mutated status to %s", e.Status)
	}
}
