package fundpush

import "github.com/etnz/fundpush/date"

// Holding is one purchase of a fund by an owner, as read from the ledger.
type Holding struct {
	Owner     string
	Code      string
	Bought    date.Date
	Principal Money    // amount paid
	Shares    Quantity // number of fund shares acquired
}

// ResolvedHolding is a Holding enriched with the valuation of its fund.
//
// MarketValue and Profit are zero when the valuation is not usable, in which case Absolute
// and Annualized hold the "unknown" sentinel.
type ResolvedHolding struct {
	Holding
	Valuation   Valuation
	MarketValue Money
	Profit      Money
	Absolute    string // absolute return, e.g. "+25.00%", or a sentinel
	Annualized  string // annualized return, e.g. "+12.47%", or a sentinel
	Valid       bool
}

// Name returns the display name of the holding's fund.
func (r ResolvedHolding) Name() string { return r.Valuation.Name }

// Resolve computes the derived figures of h valued by v.
//
// The holding is valid only when the valuation is valid and dated.
func Resolve(h Holding, v Valuation) ResolvedHolding {
	r := ResolvedHolding{
		Holding:   h,
		Valuation: v,
		Valid:     v.Valid && !v.Date.IsZero(),
	}
	if r.Valid {
		r.MarketValue = h.Shares.Value(v.NAV)
		r.Profit = r.MarketValue.Sub(h.Principal)
	}
	r.Absolute, r.Annualized = ComputeReturns(h.Bought, v.Date, r.Profit, h.Principal, r.Valid)
	return r
}

// ResolveHoldings resolves every holding, in order, with the valuation of its code.
// A code absent from valuations is treated as a failed lookup.
func ResolveHoldings(holdings []Holding, valuations map[string]Valuation) []ResolvedHolding {
	res := make([]ResolvedHolding, 0, len(holdings))
	for _, h := range holdings {
		v, ok := valuations[h.Code]
		if !ok {
			v = Unresolved(h.Code)
		}
		res = append(res, Resolve(h, v))
	}
	return res
}
