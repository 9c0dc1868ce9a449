// Package catalog serves the assistant's denormalized product catalog with
// a lazy-refresh, stale-read cache.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Item is one denormalized catalog row across all businesses.
type Item struct {
	Business string  `json:"business"`
	Product  string  `json:"product"`
	Price    float64 `json:"price"`
	Stock    int64   `json:"stock"`
	Contact  string  `json:"contact,omitempty"`
}

// Fetcher retrieves the full catalog from upstream.
type Fetcher interface {
	FetchCatalog(ctx context.Context) ([]Item, error)
}

// Client fetches the catalog from the sales backend over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a new catalog client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// FetchCatalog retrieves the upstream catalog endpoint.
func (c *Client) FetchCatalog(ctx context.Context) ([]Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/products/ai/catalog", c.baseURL), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("catalog upstream returned status %d", resp.StatusCode)
	}
	var items []Item
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, err
	}
	return items, nil
}
