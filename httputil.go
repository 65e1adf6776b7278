package fundpush

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// contains http utils shared by the valuation sources

// Referer is sent with every valuation request, the upstream providers reject requests without it.
const Referer = "http://fundf10.eastmoney.com/"

// NewHTTPClient returns a client whose calls time out after timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// Get performs an HTTP GET request with the valuation Referer and returns the body.
// Any status other than 200 is an error.
func Get(ctx context.Context, client *http.Client, addr string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Referer", Referer)
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cannot http GET %v%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GetJSON performs Get and unmarshals the JSON response into data.
func GetJSON(ctx context.Context, client *http.Client, addr string, data any) error {
	body, err := Get(ctx, client, addr)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, data)
}
