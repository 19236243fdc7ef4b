package usecase

import "math"

// PositionSize computes the order quantity for a trade. Two independent caps
// apply and both are necessary: riskPct bounds the loss if the stop is hit,
// maxPositionPct bounds notional concentration regardless of stop distance
// (a tight stop must not buy an oversized position).
//
// Returns 0 when sizing is impossible (degenerate stop, non-positive
// inputs). Callers treat 0 as "do not trade", not as an error.
func PositionSize(price, stopLoss, equity, riskPct, maxPositionPct float64) int {
	if price <= 0 || equity <= 0 {
		return 0
	}

	stopDistance := math.Abs(price - stopLoss)
	if stopDistance == 0 {
		return 0
	}

	riskBasedQty := math.Floor(equity * riskPct / stopDistance)
	exposureCappedQty := math.Floor(equity * maxPositionPct / price)

	qty := math.Min(riskBasedQty, exposureCappedQty)
	if qty < 0 {
		return 0
	}
	return int(qty)
}
