package fundpush

import (
	"math"

	"github.com/etnz/fundpush/date"
	"github.com/shopspring/decimal"
)

// Sentinels used in place of a return percentage.
const (
	Unknown       = "unknown" // the fund could not be valued
	NotApplicable = "N/A"     // the return cannot be computed from the available figures
)

var (
	hundred   = decimal.NewFromInt(100)
	yearDays  = decimal.NewFromInt(365)
	sentinels = map[string]bool{Unknown: true, NotApplicable: true}
)

// ComputeReturns returns the absolute and annualized return of a holding bought on bought for
// principal, whose valuation dated valued shows profit. Both are rendered like "+12.34%".
//
// An invalid holding yields Unknown for both. Degenerate inputs (missing dates, a valuation
// that is not after the purchase, a zero principal) yield NotApplicable for both.
func ComputeReturns(bought, valued date.Date, profit, principal Money, valid bool) (abs, ann string) {
	if !valid {
		return Unknown, Unknown
	}
	if bought.IsZero() || valued.IsZero() || valued.Before(bought) {
		return NotApplicable, NotApplicable
	}
	days := valued.DaysSince(bought)
	if days <= 0 || principal.IsZero() {
		return NotApplicable, NotApplicable
	}

	absolute := profit.Decimal().Div(principal.Decimal()).Mul(hundred)
	annualized := absolute.Mul(yearDays).Div(decimal.NewFromInt(int64(days)))

	a, y := absolute.InexactFloat64(), annualized.InexactFloat64()
	if !finite(a) || !finite(y) {
		return NotApplicable, NotApplicable
	}
	return Percent(a).SignedString(), Percent(y).SignedString()
}

// IsSentinel reports whether s is one of the return sentinels rather than a percentage.
func IsSentinel(s string) bool { return sentinels[s] }

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
