// Package quotes supplies index quotes the brokerage does not serve, via the
// Yahoo Finance API.
package quotes

import (
	"context"
	"fmt"

	"github.com/piquette/finance-go/quote"

	"tradebot-backend/internal/domain"
)

const vixSymbol = "^VIX"

// Client fetches volatility-index quotes.
type Client struct {
	symbol string
}

// NewClient creates a quote client for the given index symbol; empty means
// the CBOE volatility index.
func NewClient(symbol string) *Client {
	if symbol == "" {
		symbol = vixSymbol
	}
	return &Client{symbol: symbol}
}

// GetVolatilityIndex returns the current value of the configured volatility
// index.
func (c *Client) GetVolatilityIndex(_ context.Context) (float64, error) {
	q, err := quote.Get(c.symbol)
	if err != nil {
		return 0, err
	}
	if q == nil || q.RegularMarketPrice <= 0 {
		return 0, fmt.Errorf("no quote for %s", c.symbol)
	}
	return q.RegularMarketPrice, nil
}

var _ domain.VolatilityIndexSource = (*Client)(nil)
