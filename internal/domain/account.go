package domain

// Account is a point-in-time snapshot of the brokerage account.
// It is fetched fresh for every decision and never cached or mutated locally.
type Account struct {
	Equity      float64 `json:"equity"`
	LastEquity  float64 `json:"lastEquity"` // equity at previous session close
	BuyingPower float64 `json:"buyingPower"`
}

// Position is a read-only snapshot of a held position.
// Quantity is signed; short positions are negative. A missing position
// (nil from the gateway) means flat, which is a valid state.
type Position struct {
	Symbol        string  `json:"symbol"`
	Quantity      int     `json:"quantity"`
	AvgEntryPrice float64 `json:"avgEntryPrice"`
}
