package model

import (
	"errors"
	"testing"
)

func TestPayoutLifecycle(t *testing.T) {
	p := &PayoutRequest{Status: PayoutStatusPending}
	if err := p.Approve("looks good"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.Approve("again"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err=%v want ErrInvalidTransition", err)
	}
	if err := p.Complete("wired"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Status != PayoutStatusCompleted {
		t.Fatalf("status=%s want completed", p.Status)
	}
	if err := p.Reject("too late"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("completed payout accepted reject: %v", err)
	}
}

func TestPayoutRejectFromApproved(t *testing.T) {
	p := &PayoutRequest{Status: PayoutStatusApproved}
	if err := p.Reject("bank bounced"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Status != PayoutStatusRejected {
		t.Fatalf("status=%s want rejected", p.Status)
	}
}

func TestPayoutCompleteRequiresApproval(t *testing.T) {
	p := &PayoutRequest{Status: PayoutStatusPending}
	if err := p.Complete("wired"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err=%v want ErrInvalidTransition", err)
	}
	if p.Status != PayoutStatusPending {
		t.Fatalf("guard failure mutated status to %s", p.Status)
	}
}

func TestPayoutLinkTransactionOnce(t *testing.T) {
	p := &PayoutRequest{Status: PayoutStatusPending}
	if err := p.LinkTransaction(7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.LinkTransaction(8); !errors.Is(err, ErrAlreadyLinked) {
		t.Fatalf("err=%v want ErrAlreadyLinked", err)
	}
	if *p.WalletTransactionID != 7 {
		t.Fatalf("link overwritten: %d", *p.WalletTransactionID)
	}
}
