package fundpush

import (
	"testing"

	"github.com/etnz/fundpush/date"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestComputeReturns(t *testing.T) {
	d := date.MustParse
	tests := []struct {
		name              string
		bought, valued    date.Date
		profit, principal Money
		valid             bool
		wantAbs, wantAnn  string
	}{
		{"one year", d("2023-01-01"), d("2024-01-01"), M(25000), M(100000), true, "+25.00%", "+25.00%"},
		{"half a year", d("2023-01-01"), d("2023-07-02"), M(-5000), M(100000), true, "-5.00%", "-10.03%"},
		{"invalid", d("2023-01-01"), d("2024-01-01"), M(25000), M(100000), false, Unknown, Unknown},
		{"valued before bought", d("2024-01-01"), d("2023-01-01"), M(25000), M(100000), true, NotApplicable, NotApplicable},
		{"same day", d("2024-01-01"), d("2024-01-01"), M(0), M(100000), true, NotApplicable, NotApplicable},
		{"zero principal", d("2023-01-01"), d("2024-01-01"), M(10), M(0), true, NotApplicable, NotApplicable},
		{"missing valuation date", d("2023-01-01"), date.Date{}, M(10), M(100), true, NotApplicable, NotApplicable},
		{"no loss no gain", d("2023-01-01"), d("2023-01-02"), M(0), M(100), true, "+0.00%", "+0.00%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			abs, ann := ComputeReturns(tt.bought, tt.valued, tt.profit, tt.principal, tt.valid)
			if abs != tt.wantAbs || ann != tt.wantAnn {
				t.Errorf("ComputeReturns() = (%q, %q), want (%q, %q)", abs, ann, tt.wantAbs, tt.wantAnn)
			}
		})
	}
}

func TestComputeReturns_Properties(t *testing.T) {
	properties := gopter.NewProperties(nil)
	origin := date.New(2020, 1, 1)

	properties.Property("annualized equals absolute on a 365 days holding", prop.ForAll(
		func(profit int64, principal int64) bool {
			abs, ann := ComputeReturns(origin, origin.Add(365), M(profit), M(principal), true)
			return abs == ann && !IsSentinel(abs)
		},
		gen.Int64Range(-1_000_000, 1_000_000),
		gen.Int64Range(1, 10_000_000),
	))

	properties.Property("returns are never computed on a non positive duration", prop.ForAll(
		func(days int) bool {
			abs, ann := ComputeReturns(origin, origin.Add(days), M(100), M(1000), true)
			return abs == NotApplicable && ann == NotApplicable
		},
		gen.IntRange(-1000, 0),
	))

	properties.Property("an invalid holding is always unknown", prop.ForAll(
		func(days int, profit int64) bool {
			abs, ann := ComputeReturns(origin, origin.Add(days), M(profit), M(1000), false)
			return abs == Unknown && ann == Unknown
		},
		gen.IntRange(-1000, 1000),
		gen.Int64Range(-1000, 1000),
	))

	properties.Property("rendered percentages parse back", prop.ForAll(
		func(days int, profit int64) bool {
			abs, ann := ComputeReturns(origin, origin.Add(days), M(profit), M(1000), true)
			_, errAbs := ParsePercent(abs)
			_, errAnn := ParsePercent(ann)
			return errAbs == nil && errAnn == nil
		},
		gen.IntRange(1, 5000),
		gen.Int64Range(-1000, 1_000_000),
	))

	properties.TestingRun(t)
}
