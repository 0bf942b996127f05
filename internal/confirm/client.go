package confirm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client queries a storefront's checkout status endpoint over HTTP.
type Client struct {
	BaseURL string
	client  *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// CheckoutStatus issues GET /api/checkout/status/{sessionID}.
func (c *Client) CheckoutStatus(ctx context.Context, sessionID string) (*Status, error) {
	endpoint := c.BaseURL + "/api/checkout/status/" + url.PathEscape(sessionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("checkout status: %d %s", resp.StatusCode, string(body))
	}
	var out Status
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("checkout status: decode: %w", err)
	}
	return &out, nil
}
