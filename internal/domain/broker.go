package domain

import (
	"context"
	"time"
)

// Bar is a single OHLCV candle.
type Bar struct {
	Timestamp time.Time `json:"t"`
	Open      float64   `json:"o"`
	High      float64   `json:"h"`
	Low       float64   `json:"l"`
	Close     float64   `json:"c"`
	Volume    float64   `json:"v"`
}

// Order is the broker's view of a submitted order.
type Order struct {
	ID             string  `json:"id"`
	Symbol         string  `json:"symbol"`
	Side           Side    `json:"side"`
	Quantity       int     `json:"quantity"`
	Status         string  `json:"status"`
	FilledAvgPrice float64 `json:"filledAvgPrice"`
}

// MarketDataGateway is the read side of the brokerage API. GetPosition and
// GetLastClosedOrder return (nil, nil) when there is no position / no
// matching fill; any error means the data is unavailable right now.
type MarketDataGateway interface {
	GetAccount(ctx context.Context) (*Account, error)
	GetPosition(ctx context.Context, symbol string) (*Position, error)
	GetPrice(ctx context.Context, symbol string) (float64, error)
	GetMinuteBars(ctx context.Context, symbol string, limit int) ([]Bar, error)
	GetLastClosedOrder(ctx context.Context, symbol string) (*Order, error)
}

// OrderRouter submits bracket orders: one submission that atomically
// establishes the entry plus paired stop-loss and take-profit exits.
type OrderRouter interface {
	SubmitBracketOrder(ctx context.Context, intent *TradeIntent) (*Order, error)
}

// VolatilityIndexSource supplies the current value of a volatility index
// (e.g. VIX) from a quote API separate from the brokerage.
type VolatilityIndexSource interface {
	GetVolatilityIndex(ctx context.Context) (float64, error)
}
