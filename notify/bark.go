package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Bark pushes to iOS devices through a Bark server.
type Bark struct {
	URL    string // server, e.g. https://api.day.app
	Token  string // device key
	Client *http.Client
}

func (b *Bark) Name() string { return "bark" }

// Post sends GET <url>/<token>?title=...&body=...
func (b *Bark) Post(ctx context.Context, title, body string) error {
	if b.URL == "" || b.Token == "" {
		return fmt.Errorf("bark needs url and token: %w", ErrMisconfigured)
	}
	q := url.Values{"title": {title}, "body": {body}}
	addr := strings.TrimRight(b.URL, "/") + "/" + url.PathEscape(b.Token) + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	return expectOK(b.Client, req)
}
