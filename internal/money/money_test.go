package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestRound2(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no fraction", "100", "100"},
		{"two places kept", "99.99", "99.99"},
		{"rounds down", "1.014", "1.01"},
		{"half away from zero", "1.015", "1.02"},
		{"negative half away from zero", "-1.015", "-1.02"},
		{"rounds up", "2.996", "3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Round2(decimal.RequireFromString(tt.input))
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Fatalf("got=%s want=%s", got, tt.want)
			}
		})
	}
}

func TestCommission(t *testing.T) {
	tests := []struct {
		name  string
		price string
		rate  string
		want  string
	}{
		{"ten percent", "1000.00", "10", "100.00"},
		{"fractional rate", "1000.00", "12.5", "125.00"},
		{"rounding", "99.99", "10", "10.00"},
		{"zero rate", "500.00", "0", "0"},
		{"small price", "0.01", "10", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Commission(decimal.RequireFromString(tt.price), decimal.RequireFromString(tt.rate))
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Fatalf("got=%s want=%s", got, tt.want)
			}
		})
	}
}
