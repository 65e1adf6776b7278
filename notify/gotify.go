package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Gotify pushes to a self hosted Gotify server.
type Gotify struct {
	URL      string
	Token    string // application token
	Priority int
	Client   *http.Client
}

func (g *Gotify) Name() string { return "gotify" }

type gotifyMessage struct {
	Title    string `json:"title"`
	Message  string `json:"message"`
	Priority int    `json:"priority"`
}

// Post sends POST <url>/message?token=...
func (g *Gotify) Post(ctx context.Context, title, body string) error {
	if g.URL == "" || g.Token == "" {
		return fmt.Errorf("gotify needs url and token: %w", ErrMisconfigured)
	}
	data, err := json.Marshal(gotifyMessage{Title: title, Message: body, Priority: g.Priority})
	if err != nil {
		return err
	}
	addr := strings.TrimRight(g.URL, "/") + "/message?token=" + url.QueryEscape(g.Token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, addr, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return expectOK(g.Client, req)
}
