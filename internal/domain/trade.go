package domain

import (
	"context"
	"time"
)

// TradeRecord is one row of the trade journal. Created in the open state at
// order submission time, mutated exactly once when the close reconciler
// detects the position is gone, never deleted.
type TradeRecord struct {
	Ref             int64      `json:"ref"` // assigned by the journal store
	Date            time.Time  `json:"date"`
	Symbol          string     `json:"symbol"`
	NumShares       int        `json:"numShares"`
	BuyPrice        float64    `json:"buyPrice"`
	PositionSize    float64    `json:"positionSize"` // num_shares * buy_price
	SellDate        *time.Time `json:"sellDate,omitempty"`
	SellPrice       float64    `json:"sellPrice"`
	NetPnl          float64    `json:"netPnl"`
	NetRoi          float64    `json:"netRoi"` // percent
	Notes           string     `json:"notes"`
	RiskAmount      float64    `json:"riskAmount"`
	RMultiple       float64    `json:"rMultiple"`
	SetupTag        string     `json:"setupTag"`
	ConfidenceScore float64    `json:"confidenceScore"`
}

// IsOpen reports whether the trade has not been closed out yet.
func (t *TradeRecord) IsOpen() bool {
	return t.SellDate == nil && t.SellPrice == 0
}

// ClosedUpdate carries the close-out figures the reconciler computed for an
// open trade.
type ClosedUpdate struct {
	Ref       int64     `json:"ref"`
	SellDate  time.Time `json:"sellDate"`
	SellPrice float64   `json:"sellPrice"`
	NetPnl    float64   `json:"netPnl"`
	NetRoi    float64   `json:"netRoi"`
}

// TradeJournal persists trade records. Implementations: Postgres (production)
// and in-memory (dev / tests).
type TradeJournal interface {
	InsertOpenTrade(ctx context.Context, rec *TradeRecord) (int64, error)
	ListOpenTrades(ctx context.Context) ([]*TradeRecord, error)
	UpdateClosedTrade(ctx context.Context, upd ClosedUpdate) error
	ListRecentTrades(ctx context.Context, limit int) ([]*TradeRecord, error)
}
