// Package pingzhong fetches fund valuations from the eastmoney "pingzhongdata" scripts.
//
// These scripts are meant for the eastmoney web pages and declare plenty of javascript
// variables, among them:
//
//	var fS_name = "兴全合润混合(LOF)";
//	var syl_1y="12.34";
//	var Data_netWorthTrend = [{"x":1704384000000,"y":2.5,"equityReturn":0.48,"unitMoney":""}, ...];
//
// The NAV time series is scanned from the end: its last point is the latest published NAV.
package pingzhong

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/fundpush"
	"github.com/etnz/fundpush/date"
	"github.com/shopspring/decimal"
)

// BaseURL is the default address of the scripts.
const BaseURL = "https://fund.eastmoney.com"

// timestamps in the series are Beijing midnights.
var cst = time.FixedZone("CST", 8*3600)

var (
	nameRe   = regexp.MustCompile(`var fS_name\s*=\s*"([^"]+)"`)
	trendRe  = regexp.MustCompile(`var Data_netWorthTrend\s*=\s*(\[.*?\])`)
	changeRe = regexp.MustCompile(`var syl_1y\s*=\s*"([^"]*)"`)
)

// Source is a fundpush.Source backed by the pingzhongdata scripts.
type Source struct {
	Client  *http.Client
	BaseURL string
	Now     func() time.Time // defaults to time.Now
}

// New returns a Source using client.
func New(client *http.Client) *Source {
	return &Source{Client: client, BaseURL: BaseURL, Now: time.Now}
}

func (s *Source) Name() string { return "pingzhong" }

func (s *Source) today() date.Date {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return date.Of(now().In(cst))
}

// Fetch returns the latest NAV of code that is not dated in the future.
//
// When the only point of the series is in the future the fund is answered as not valid,
// with Unavailable appended to its name.
func (s *Source) Fetch(ctx context.Context, code string) (fundpush.Valuation, error) {
	body, err := fundpush.Get(ctx, s.Client, fmt.Sprintf("%s/pingzhongdata/%s.js", s.BaseURL, code))
	if err != nil {
		return fundpush.Valuation{}, err
	}

	name := fundpush.Unresolved(code).Name
	if m := nameRe.FindSubmatch(body); m != nil {
		name = string(m[1])
	}

	m := trendRe.FindSubmatch(body)
	if m == nil {
		return fundpush.Valuation{}, fmt.Errorf("no NAV series for %s: %w", code, fundpush.ErrNoAnswer)
	}
	var trend []any
	dec := json.NewDecoder(bytes.NewReader(m[1]))
	dec.UseNumber()
	if err := dec.Decode(&trend); err != nil {
		return fundpush.Valuation{}, fmt.Errorf("cannot decode NAV series for %s: %w", code, err)
	}
	if len(trend) == 0 {
		return fundpush.Valuation{}, fmt.Errorf("empty NAV series for %s: %w", code, fundpush.ErrNoAnswer)
	}

	on, nav, err := point(trend[len(trend)-1])
	if err != nil {
		return fundpush.Valuation{}, fmt.Errorf("invalid NAV point for %s: %w", code, err)
	}
	if on.After(s.today()) {
		if len(trend) < 2 {
			return fundpush.Valuation{
				Code:   code,
				Name:   name + fundpush.Unavailable,
				Change: fundpush.NotApplicable,
			}, nil
		}
		if on, nav, err = point(trend[len(trend)-2]); err != nil {
			return fundpush.Valuation{}, fmt.Errorf("invalid NAV point for %s: %w", code, err)
		}
	}

	change := fundpush.NotApplicable
	if m := changeRe.FindSubmatch(body); m != nil {
		change = string(m[1])
	}
	return fundpush.Valuation{
		Code:   code,
		Name:   name,
		Date:   on,
		NAV:    nav,
		Change: change,
		Valid:  true,
	}, nil
}

// point reads the date (x, epoch milliseconds) and NAV (y) of a series point.
func point(p any) (date.Date, fundpush.Quantity, error) {
	x, err := jsonpath.Get("$.x", p)
	if err != nil {
		return date.Date{}, fundpush.Quantity{}, err
	}
	y, err := jsonpath.Get("$.y", p)
	if err != nil {
		return date.Date{}, fundpush.Quantity{}, err
	}
	xn, ok := x.(json.Number)
	if !ok {
		return date.Date{}, fundpush.Quantity{}, fmt.Errorf("x is not a number: %v", x)
	}
	ms, err := xn.Int64()
	if err != nil {
		f, ferr := xn.Float64()
		if ferr != nil {
			return date.Date{}, fundpush.Quantity{}, err
		}
		ms = int64(f)
	}
	yn, ok := y.(json.Number)
	if !ok {
		return date.Date{}, fundpush.Quantity{}, fmt.Errorf("y is not a number: %v", y)
	}
	nav, err := decimal.NewFromString(yn.String())
	if err != nil {
		return date.Date{}, fundpush.Quantity{}, err
	}
	if !nav.IsPositive() {
		return date.Date{}, fundpush.Quantity{}, errors.New("y is not positive")
	}
	return date.Of(time.UnixMilli(ms).In(cst)), fundpush.Q(nav), nil
}
