// Package esong fetches fund valuations from the esongfund public portal API.
package esong

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/etnz/fundpush"
	"github.com/etnz/fundpush/date"
	"github.com/shopspring/decimal"
)

// BaseURL is the default address of the API.
const BaseURL = "https://j4.esongfund.com"

// Source is a fundpush.Source backed by esongfund.
type Source struct {
	Client  *http.Client
	BaseURL string
}

// New returns a Source using client.
func New(client *http.Client) *Source {
	return &Source{Client: client, BaseURL: BaseURL}
}

func (s *Source) Name() string { return "esong" }

// envelope is the API answer, Code is 200 on success.
type envelope struct {
	Code    int    `json:"code"`
	Message string `json:"msg"`
	Data    *struct {
		FundName     string          `json:"fundName"`
		NetValueDate date.Date       `json:"netValueDate"`
		NetValue     decimal.Decimal `json:"netValue"`
		DayGrowth    json.RawMessage `json:"dayGrowth"`
	} `json:"data"`
}

// Fetch returns the last published NAV of code.
func (s *Source) Fetch(ctx context.Context, code string) (fundpush.Valuation, error) {
	addr := fmt.Sprintf("%s/eap/api/fund/public/portal/fundDetail/getFundBaseInfo?fundCode=%s", s.BaseURL, url.QueryEscape(code))
	var env envelope
	if err := fundpush.GetJSON(ctx, s.Client, addr, &env); err != nil {
		return fundpush.Valuation{}, fmt.Errorf("cannot get esong answer for %s: %w", code, err)
	}
	if env.Code != 200 || env.Data == nil {
		return fundpush.Valuation{}, fmt.Errorf("esong answered code %d %q for %s: %w", env.Code, env.Message, code, fundpush.ErrNoAnswer)
	}
	return fundpush.Valuation{
		Code:   code,
		Name:   env.Data.FundName,
		Date:   env.Data.NetValueDate,
		NAV:    fundpush.Q(env.Data.NetValue),
		Change: growth(env.Data.DayGrowth),
		Valid:  true,
	}, nil
}

// growth renders the daily growth that is sometimes a string, sometimes a number.
func growth(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return fundpush.NotApplicable
		}
		return s
	}
	txt := strings.TrimSpace(string(raw))
	if txt == "" || txt == "null" {
		return fundpush.NotApplicable
	}
	return txt
}
