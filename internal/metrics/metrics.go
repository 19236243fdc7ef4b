// Package metrics – Prometheus metrics for observability.
//
// Exposes the primary metrics the bot updates during operation:
//   - bot_decisions_total{outcome}     – decisions by outcome (submitted|risk_blocked|sized_zero|no_price|no_signal)
//   - bot_risk_blocks_total{reason}    – risk-gate rejections by failed check
//   - bot_orders_total{side}           – bracket orders submitted
//   - bot_order_failures_total         – order submissions the broker refused
//   - bot_trades_closed_total{result}  – trades closed out, split win|loss|flat
//   - bot_equity_usd                   – last observed account equity (gauge)
//
// Registered in init() and served at /metrics by the HTTP server in main.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	Decisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_decisions_total",
			Help: "Decisions taken per processed signal",
		},
		[]string{"outcome"},
	)

	RiskBlocks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_risk_blocks_total",
			Help: "Risk gate rejections by failed check",
		},
		[]string{"reason"},
	)

	Orders = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_orders_total",
			Help: "Bracket orders submitted",
		},
		[]string{"side"},
	)

	OrderFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_order_failures_total",
			Help: "Order submissions rejected by the broker",
		},
	)

	TradesClosed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_trades_closed_total",
			Help: "Trades closed by the reconciler, split by result",
		},
		[]string{"result"},
	)

	Equity = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bot_equity_usd",
			Help: "Last observed account equity in USD",
		},
	)
)

func init() {
	prometheus.MustRegister(
		Decisions,
		RiskBlocks,
		Orders,
		OrderFailures,
		TradesClosed,
		Equity,
	)
}
