package domain

// Side is the direction of a trade.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Direction returns +1 for buy and -1 for sell.
func (s Side) Direction() float64 {
	if s == SideSell {
		return -1
	}
	return 1
}

// Signal is a candidate trade produced by the signal generator, once per
// scan pass per symbol. Immutable once created; it has no identity beyond
// the tuple itself and is never persisted independently of the trade it
// produces.
type Signal struct {
	Symbol     string  `json:"symbol"`
	Side       Side    `json:"side"`
	StopLoss   float64 `json:"stopLoss"`
	TakeProfit float64 `json:"takeProfit,omitempty"` // advisory; the engine recomputes
	Confidence float64 `json:"confidence,omitempty"` // 0..1
	SetupTag   string  `json:"setupTag,omitempty"`
}

// TradeIntent is the decision engine's output: a fully sized, priced order
// ready for the router. Quantity is always computed, never caller-provided,
// and an intent with Quantity == 0 must never reach the order router.
type TradeIntent struct {
	Symbol     string  `json:"symbol"`
	Side       Side    `json:"side"`
	Quantity   int     `json:"quantity"`
	EntryPrice float64 `json:"entryPrice"`
	StopLoss   float64 `json:"stopLoss"`
	TakeProfit float64 `json:"takeProfit"`
	RiskAmount float64 `json:"riskAmount"` // |entry - stop| * quantity
	RMultiple  float64 `json:"rMultiple"`
	Confidence float64 `json:"confidence,omitempty"`
	SetupTag   string  `json:"setupTag,omitempty"`
}
