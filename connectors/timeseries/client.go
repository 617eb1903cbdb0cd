// Package timeseries implements the HTTP client for the external set-point
// and actual-value data provider. Payloads are validated into fixed-size
// series at this boundary; partial data fails the request.
package timeseries

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gridpool/scr/core/model"
	core "github.com/gridpool/scr/core/timeseries"
)

// Config defines the provider endpoint.
type Config struct {
	BaseURL   string `json:"base_url"`
	TimeoutMS int    `json:"timeout_ms"`
}

// SetDefaults fills unset optional fields.
func (c *Config) SetDefaults() {
	if c.TimeoutMS == 0 {
		c.TimeoutMS = 10000
	}
}

// Validate checks the endpoint configuration.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("time-series provider base_url is required")
	}
	return nil
}

// Client fetches historical series over HTTP. It implements
// core/timeseries.Provider.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a provider client from the configuration.
func NewClient(cfg Config) (*Client, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond},
	}, nil
}

// OfferSeries fetches the channels recorded for an offer, e.g.
// GET {base}/activate/offer-1/2021-06-01_0812?type=POSITIVE.
func (c *Client) OfferSeries(ctx context.Context, offerID, interval string, slice model.TimeSlice, product model.ProductType) (*core.OfferSeries, error) {
	url := fmt.Sprintf("%s/activate/%s/%s_%s?type=%s", c.baseURL, offerID, interval, slice.Key(), product)
	var payload offerPayload
	if err := c.fetch(ctx, url, &payload); err != nil {
		return nil, fmt.Errorf("offer series %s: %w", offerID, err)
	}
	series, err := payload.toSeries()
	if err != nil {
		return nil, fmt.Errorf("offer series %s: %w", offerID, err)
	}
	return series, nil
}

// UnitSeries fetches the channels recorded for a technical unit, e.g.
// GET {base}/technical/unit-1/2021-06-01_0812.
func (c *Client) UnitSeries(ctx context.Context, unitID, interval string, slice model.TimeSlice) (*core.UnitSeries, error) {
	url := fmt.Sprintf("%s/technical/%s/%s_%s", c.baseURL, unitID, interval, slice.Key())
	var payload unitPayload
	if err := c.fetch(ctx, url, &payload); err != nil {
		return nil, fmt.Errorf("unit series %s: %w", unitID, err)
	}
	series, err := payload.toSeries()
	if err != nil {
		return nil, fmt.Errorf("unit series %s: %w", unitID, err)
	}
	return series, nil
}

func (c *Client) fetch(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, body)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
