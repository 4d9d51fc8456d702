// Package money owns the fixed-point semantics shared by every amount in the
// settlement engine: two decimal places, half-away-from-zero rounding.
package money

import "github.com/shopspring/decimal"

// Round2 applies the platform rounding rule. Every computed amount
// (commission, refunds, payouts) must pass through here so no two
// calculators diverge on rounding.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Commission computes the platform fee for a sale price at a percent rate.
// The result is snapshotted at escrow creation and never recomputed.
func Commission(price, ratePercent decimal.Decimal) decimal.Decimal {
	return Round2(price.Mul(ratePercent).Div(decimal.NewFromInt(100)))
}

// IsPositive reports whether d is a valid money amount for a bid, deposit or
// withdrawal (> 0).
func IsPositive(d decimal.Decimal) bool {
	return d.GreaterThan(decimal.Zero)
}
