package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/takebay/auction-backend/internal/model"
)

func cfg(id uint64, uid, max, inc string, createdAt time.Time) model.AutoBidConfig {
	return model.AutoBidConfig{
		ID:        id,
		AuctionID: 1,
		UserUID:   uid,
		MaxAmount: decimal.RequireFromString(max),
		Increment: decimal.RequireFromString(inc),
		Active:    true,
		CreatedAt: createdAt,
	}
}

func TestResolveAutoBids(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		bidder      string
		amount      string
		configs     []model.AutoBidConfig
		wantAmounts []string
		wantWinner  string
	}{
		{
			name:   "two proxies chase each other",
			bidder: "manual",
			amount: "50",
			configs: []model.AutoBidConfig{
				cfg(1, "alice", "100", "5", base),
				cfg(2, "bob", "80", "10", base.Add(time.Minute)),
			},
			// alice 55, bob 65, alice 70, bob 80, alice 85; bob's ceiling is
			// spent and alice keeps the lead.
			wantAmounts: []string{"55", "65", "70", "80", "85"},
			wantWinner:  "alice",
		},
		{
			name:        "no configs",
			bidder:      "manual",
			amount:      "50",
			configs:     nil,
			wantAmounts: nil,
			wantWinner:  "manual",
		},
		{
			name:   "holder of the lead does not bid against itself",
			bidder: "alice",
			amount: "50",
			configs: []model.AutoBidConfig{
				cfg(1, "alice", "100", "5", base),
			},
			wantAmounts: nil,
			wantWinner:  "alice",
		},
		{
			name:   "ceiling at current is no candidate",
			bidder: "manual",
			amount: "50",
			configs: []model.AutoBidConfig{
				cfg(1, "alice", "50", "5", base),
			},
			wantAmounts: nil,
			wantWinner:  "manual",
		},
		{
			name:   "capped at ceiling instead of full increment",
			bidder: "manual",
			amount: "50",
			configs: []model.AutoBidConfig{
				cfg(1, "alice", "52", "5", base),
			},
			wantAmounts: []string{"52"},
			wantWinner:  "alice",
		},
		{
			name:   "equal ceilings alternate to the shared maximum",
			bidder: "manual",
			amount: "50",
			configs: []model.AutoBidConfig{
				cfg(2, "late", "100", "5", base.Add(time.Hour)),
				cfg(1, "early", "100", "5", base),
			},
			// the earliest config opens each contested round; the chain then
			// alternates until one side takes the shared ceiling outright.
			wantAmounts: []string{"55", "60", "65", "70", "75", "80", "85", "90", "95", "100"},
			wantWinner:  "late",
		},
		{
			name:   "inactive configs ignored",
			bidder: "manual",
			amount: "50",
			configs: []model.AutoBidConfig{
				{ID: 1, AuctionID: 1, UserUID: "alice", MaxAmount: decimal.RequireFromString("100"), Increment: decimal.RequireFromString("5"), Active: false, CreatedAt: base},
			},
			wantAmounts: nil,
			wantWinner:  "manual",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveAutoBids(tt.bidder, decimal.RequireFromString(tt.amount), tt.configs)
			if len(got) != len(tt.wantAmounts) {
				t.Fatalf("placements=%d want=%d (%v)", len(got), len(tt.wantAmounts), got)
			}
			for i, want := range tt.wantAmounts {
				if !got[i].Amount.Equal(decimal.RequireFromString(want)) {
					t.Fatalf("placement %d amount=%s want=%s", i, got[i].Amount, want)
				}
			}
			winner := tt.bidder
			if len(got) > 0 {
				winner = got[len(got)-1].UserUID
			}
			if winner != tt.wantWinner {
				t.Fatalf("winner=%s want=%s", winner, tt.wantWinner)
			}
		})
	}
}
