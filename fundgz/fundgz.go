// Package fundgz fetches fund valuations from the fundgz.1234567.com.cn estimation service.
//
// The service answers a JSONP script:
//
//	jsonpgz({"fundcode":"163406","name":"...","jzrq":"2024-01-05","dwjz":"2.1234","gsz":"2.1301","gszzl":"0.32","gztime":"2024-01-08 15:00"});
//
// where jzrq and dwjz are the date and value of the last published NAV.
package fundgz

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/etnz/fundpush"
	"github.com/etnz/fundpush/date"
)

// BaseURL is the default address of the service.
const BaseURL = "http://fundgz.1234567.com.cn"

var (
	prefix = []byte("jsonpgz(")
	suffix = []byte(");")
)

// Source is a fundpush.Source backed by fundgz.
type Source struct {
	Client  *http.Client
	BaseURL string
}

// New returns a Source using client.
func New(client *http.Client) *Source {
	return &Source{Client: client, BaseURL: BaseURL}
}

func (s *Source) Name() string { return "fundgz" }

// payload is the JSON object wrapped in the jsonpgz call.
type payload struct {
	Code    string    `json:"fundcode"`
	Name    string    `json:"name"`
	NAVDate date.Date `json:"jzrq"`
	NAV     string    `json:"dwjz"`
	Change  *string   `json:"jzzl"`
}

// Fetch returns the last published NAV of code.
func (s *Source) Fetch(ctx context.Context, code string) (fundpush.Valuation, error) {
	body, err := fundpush.Get(ctx, s.Client, fmt.Sprintf("%s/js/%s.js", s.BaseURL, code))
	if err != nil {
		return fundpush.Valuation{}, err
	}
	p, err := decode(body)
	if err != nil {
		return fundpush.Valuation{}, fmt.Errorf("cannot decode fundgz answer for %s: %w", code, err)
	}
	nav, err := fundpush.ParseQuantity(p.NAV)
	if err != nil {
		return fundpush.Valuation{}, fmt.Errorf("invalid dwjz %q for %s: %w", p.NAV, code, err)
	}
	change := fundpush.NotApplicable
	if p.Change != nil {
		change = *p.Change
	}
	return fundpush.Valuation{
		Code:   p.Code,
		Name:   p.Name,
		Date:   p.NAVDate,
		NAV:    nav,
		Change: change,
		Valid:  true,
	}, nil
}

// decode strips the JSONP wrapper and decodes the payload.
func decode(body []byte) (*payload, error) {
	body = bytes.TrimSpace(body)
	if !bytes.HasPrefix(body, prefix) {
		return nil, fmt.Errorf("not a jsonpgz answer: %w", fundpush.ErrNoAnswer)
	}
	body = bytes.TrimSuffix(bytes.TrimPrefix(body, prefix), suffix)
	if len(bytes.TrimSpace(body)) == 0 {
		// unknown codes are answered with an empty call.
		return nil, fmt.Errorf("empty jsonpgz answer: %w", fundpush.ErrNoAnswer)
	}
	p := new(payload)
	if err := json.Unmarshal(body, p); err != nil {
		return nil, err
	}
	return p, nil
}
