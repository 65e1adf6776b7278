package notify

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// expectOK performs req and fails on any status other than 200.
func expectOK(client *http.Client, req *http.Request) error {
	resp, err := httpClient(client).Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 100))
		return fmt.Errorf("%s %s: %s %s", req.Method, req.URL.Host, resp.Status, msg)
	}
	return nil
}

// doJSON performs req expecting a 200 JSON answer decoded into data.
func doJSON(client *http.Client, req *http.Request, data any) error {
	resp, err := httpClient(client).Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s %s: %s", req.Method, req.URL.Host, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(data)
}

func httpClient(c *http.Client) *http.Client {
	if c == nil {
		return http.DefaultClient
	}
	return c
}
