package service

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/takebay/auction-backend/internal/model"
)

// autoBidPlacement is one synthetic bid produced by proxy resolution.
type autoBidPlacement struct {
	UserUID string
	Amount  decimal.Decimal
}

// resolveAutoBids simulates competitive proxy bidding after a bid lands.
// Each round, the standing instructions that can still beat the current
// highest (and do not already hold it) compete; the one with the highest
// ceiling wins the round, ties broken by earliest-created config. It bids
// the lesser of its ceiling and current + its own increment. Rounds repeat
// until nobody can out-bid, so a single manual bid may trigger a chain of
// synthetic bids.
func resolveAutoBids(highestBidder string, highestAmount decimal.Decimal, configs []model.AutoBidConfig) []autoBidPlacement {
	// The loop strictly raises the highest amount toward the largest
	// ceiling, but cap rounds in case a stored increment is degenerate.
	const maxRounds = 10000

	var placements []autoBidPlacement
	current := highestAmount
	currentBidder := highestBidder

	for round := 0; round < maxRounds; round++ {
		var candidates []model.AutoBidConfig
		for _, c := range configs {
			if !c.Active || c.UserUID == currentBidder {
				continue
			}
			if c.MaxAmount.GreaterThan(current) {
				candidates = append(candidates, c)
			}
		}
		if len(candidates) == 0 {
			break
		}
		sort.SliceStable(candidates, func(i, j int) bool {
			if !candidates[i].MaxAmount.Equal(candidates[j].MaxAmount) {
				return candidates[i].MaxAmount.GreaterThan(candidates[j].MaxAmount)
			}
			if !candidates[i].CreatedAt.Equal(candidates[j].CreatedAt) {
				return candidates[i].CreatedAt.Before(candidates[j].CreatedAt)
			}
			return candidates[i].ID < candidates[j].ID
		})
		winner := candidates[0]

		amount := current.Add(winner.Increment)
		if amount.GreaterThan(winner.MaxAmount) {
			amount = winner.MaxAmount
		}
		if !amount.GreaterThan(current) {
			break
		}

		placements = append(placements, autoBidPlacement{UserUID: winner.UserUID, Amount: amount})
		current = amount
		currentBidder = winner.UserUID
	}
	return placements
}
