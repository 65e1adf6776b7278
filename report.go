package fundpush

import (
	"slices"
	"time"

	"github.com/etnz/fundpush/date"
)

// ReportKind tells what a Report is about.
type ReportKind int

const (
	UserReportKind ReportKind = iota
	FundReportKind
	PerformanceReportKind
)

func (k ReportKind) String() string {
	switch k {
	case UserReportKind:
		return "user"
	case FundReportKind:
		return "fund"
	default:
		return "performance"
	}
}

// SummaryKey is the Key of the performance summary Report.
const SummaryKey = "portfolio-summary"

// Report is a rendered report ready to be delivered or archived.
type Report struct {
	Kind     ReportKind
	Key      string // owner, fund code or SummaryKey
	Text     string
	Holdings []ResolvedHolding
}

// UserReport lists the holdings of one owner.
type UserReport struct {
	Owner    string
	Position int               // 0-based rank of the owner in the ledger
	Holdings []ResolvedHolding // valid holdings first, then by buy date
}

// NewUserReport builds the report of owner from its holdings.
func NewUserReport(owner string, position int, holdings []ResolvedHolding) *UserReport {
	sorted := slices.Clone(holdings)
	slices.SortStableFunc(sorted, func(a, b ResolvedHolding) int {
		if a.Valid != b.Valid {
			if a.Valid {
				return -1
			}
			return 1
		}
		return a.Bought.Compare(b.Bought)
	})
	return &UserReport{Owner: owner, Position: position, Holdings: sorted}
}

// NewUserReports builds one UserReport per owner, in first-seen order.
func NewUserReports(holdings []ResolvedHolding) []*UserReport {
	owners, groups := groupBy(holdings, func(h ResolvedHolding) string { return h.Owner })
	reports := make([]*UserReport, len(owners))
	for i, owner := range owners {
		reports[i] = NewUserReport(owner, i, groups[owner])
	}
	return reports
}

// OwnerHoldings are the holdings of a fund by a single owner.
type OwnerHoldings struct {
	Owner    string
	Holdings []ResolvedHolding // by buy date
}

func (o OwnerHoldings) earliest() date.Date { return o.Holdings[0].Bought }

// FundReport lists the holders of one fund.
type FundReport struct {
	Code           string
	Name           string // without the Unavailable marker
	Valuation      Valuation
	Owners         []OwnerHoldings // by earliest buy date
	Count          int             // number of holdings
	TotalPrincipal Money
	TotalProfit    Money // over valid holdings only
}

// NewFundReport builds the report of fund code from its holdings.
func NewFundReport(code string, holdings []ResolvedHolding) *FundReport {
	r := &FundReport{Code: code, Count: len(holdings)}
	if len(holdings) > 0 {
		r.Valuation = holdings[0].Valuation
		r.Name = r.Valuation.DisplayName()
	}
	owners, groups := groupBy(holdings, func(h ResolvedHolding) string { return h.Owner })
	for _, owner := range owners {
		hs := slices.Clone(groups[owner])
		slices.SortStableFunc(hs, func(a, b ResolvedHolding) int { return a.Bought.Compare(b.Bought) })
		r.Owners = append(r.Owners, OwnerHoldings{Owner: owner, Holdings: hs})
	}
	slices.SortStableFunc(r.Owners, func(a, b OwnerHoldings) int { return a.earliest().Compare(b.earliest()) })

	for _, h := range holdings {
		r.TotalPrincipal = r.TotalPrincipal.Add(h.Principal)
		if h.Valid {
			r.TotalProfit = r.TotalProfit.Add(h.Profit)
		}
	}
	return r
}

// NewFundReports builds one FundReport per fund code, in first-seen order.
func NewFundReports(holdings []ResolvedHolding) []*FundReport {
	codes, groups := groupBy(holdings, func(h ResolvedHolding) string { return h.Code })
	reports := make([]*FundReport, len(codes))
	for i, code := range codes {
		reports[i] = NewFundReport(code, groups[code])
	}
	return reports
}

// Performer is a holding whose annualized return reached the target.
type Performer struct {
	Name       string
	Code       string
	Annualized Percent
}

// OwnerPerformers are the performers of one owner.
type OwnerPerformers struct {
	Owner      string
	Performers []Performer
}

// PerformanceReport lists, by owner, the holdings whose annualized return reached Target.
type PerformanceReport struct {
	Target    Percent
	Owners    []OwnerPerformers // owners in first-seen order, only those with performers
	Failed    []string          // owners whose report could not be delivered
	Generated time.Time
}

// NewPerformanceReport selects the valid holdings whose annualized return is at least target.
func NewPerformanceReport(holdings []ResolvedHolding, target Percent, failed []string, now time.Time) *PerformanceReport {
	r := &PerformanceReport{Target: target, Failed: failed, Generated: now}
	var qualifying []ResolvedHolding
	for _, h := range holdings {
		if !h.Valid || IsSentinel(h.Annualized) {
			continue
		}
		ann, err := ParsePercent(h.Annualized)
		if err != nil || ann < target {
			continue
		}
		qualifying = append(qualifying, h)
	}
	owners, groups := groupBy(qualifying, func(h ResolvedHolding) string { return h.Owner })
	for _, owner := range owners {
		op := OwnerPerformers{Owner: owner}
		for _, h := range groups[owner] {
			ann, _ := ParsePercent(h.Annualized)
			op.Performers = append(op.Performers, Performer{Name: h.Name(), Code: h.Code, Annualized: ann})
		}
		r.Owners = append(r.Owners, op)
	}
	return r
}

// groupBy groups items by key, returning the keys in first-seen order.
func groupBy[T any](items []T, key func(T) string) ([]string, map[string][]T) {
	var keys []string
	groups := make(map[string][]T)
	for _, it := range items {
		k := key(it)
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], it)
	}
	return keys, groups
}
