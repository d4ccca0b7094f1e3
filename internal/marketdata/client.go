// Package marketdata fetches coin market listings (CoinGecko
// /coins/markets shape) from an upstream JSON endpoint.
package marketdata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ErlanBelekov/data-drive/internal/domain"
)

const (
	DefaultTimeout   = 15 * time.Second
	userAgent        = "DataDrive/1.0"
	maxResponseBytes = 16 << 20
)

// Coin is one element of the upstream list. Missing numbers stay nil.
type Coin struct {
	ID                       string   `json:"id"`
	Symbol                   string   `json:"symbol"`
	Name                     string   `json:"name"`
	CurrentPrice             *float64 `json:"current_price"`
	MarketCap                *float64 `json:"market_cap"`
	TotalVolume              *float64 `json:"total_volume"`
	PriceChange24h           *float64 `json:"price_change_24h"`
	PriceChangePercentage24h *float64 `json:"price_change_percentage_24h"`
	High24h                  *float64 `json:"high_24h"`
	Low24h                   *float64 `json:"low_24h"`
	CirculatingSupply        *float64 `json:"circulating_supply"`
	MaxSupply                *float64 `json:"max_supply"`
	ATH                      *float64 `json:"ath"`
	ATHChangePercentage      *float64 `json:"ath_change_percentage"`
}

type Client struct {
	http *http.Client
}

func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{http: &http.Client{Timeout: timeout}}
}

// Fetch GETs rawURL and decodes a JSON array of coins. Transport failures
// and non-2xx answers wrap domain.ErrUpstream; a body that is valid JSON but
// not an array returns domain.ErrNotAList.
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]Coin, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", domain.ErrBadSource, rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", domain.ErrUpstream, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, fmt.Errorf("%w: unexpected status code: %d", domain.ErrUpstream, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", domain.ErrUpstream, err)
	}

	body = bytes.TrimSpace(body)
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: response is not valid json", domain.ErrUpstream)
	}
	if len(body) == 0 || body[0] != '[' {
		return nil, domain.ErrNotAList
	}

	var coins []Coin
	if err := json.Unmarshal(body, &coins); err != nil {
		return nil, fmt.Errorf("%w: decode coins: %w", domain.ErrUpstream, err)
	}
	return coins, nil
}
