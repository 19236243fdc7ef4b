package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"tradebot-backend/internal/config"
	"tradebot-backend/internal/domain"
	"tradebot-backend/internal/metrics"
)

// RiskGate is the pre-trade gatekeeper. Every check is recomputed from live
// snapshots on each call (nothing is sticky: a tripped daily-loss breaker
// untrips if equity recovers intra-day), and every check fails closed when
// its data cannot be fetched.
type RiskGate struct {
	market domain.MarketDataGateway
	vol    domain.VolatilityIndexSource
	cfg    *config.Config
	log    zerolog.Logger
}

func NewRiskGate(
	market domain.MarketDataGateway,
	vol domain.VolatilityIndexSource,
	cfg *config.Config,
	log zerolog.Logger,
) *RiskGate {
	return &RiskGate{
		market: market,
		vol:    vol,
		cfg:    cfg,
		log:    log.With().Str("component", "risk_gate").Logger(),
	}
}

// Evaluate reports whether a new trade on (symbol, side) is allowed.
// Checks run cheapest/most-global first and short-circuit on the first
// failure: daily-loss breaker, per-symbol position cap, symbol allow-list.
func (g *RiskGate) Evaluate(ctx context.Context, symbol string, side domain.Side) bool {
	account, err := g.market.GetAccount(ctx)
	if err != nil {
		g.block(symbol, "account_unavailable").Err(err).Msg("risk check failed, blocking")
		return false
	}
	metrics.Equity.Set(account.Equity)

	pnlToday := account.Equity - account.LastEquity
	if pnlToday < -g.cfg.MaxDailyLoss {
		g.block(symbol, "daily_loss").
			Float64("pnl_today", pnlToday).
			Float64("max_daily_loss", g.cfg.MaxDailyLoss).
			Msg("daily loss breaker tripped")
		return false
	}

	position, err := g.market.GetPosition(ctx, symbol)
	if err != nil {
		g.block(symbol, "position_unavailable").Err(err).Msg("risk check failed, blocking")
		return false
	}
	currentQty := 0
	if position != nil {
		currentQty = position.Quantity
		if currentQty < 0 {
			currentQty = -currentQty
		}
	}
	if currentQty >= g.cfg.MaxPositionSize {
		g.block(symbol, "position_size").
			Int("current_qty", currentQty).
			Int("max_position_size", g.cfg.MaxPositionSize).
			Msg("position cap reached")
		return false
	}

	if !g.cfg.SymbolAllowed(symbol) {
		g.block(symbol, "symbol_not_allowed").Msg("symbol not in allow-list")
		return false
	}

	g.log.Debug().Str("symbol", symbol).Str("side", string(side)).Msg("risk gate approved")
	return true
}

// VolatilityAcceptable reports whether market-wide volatility permits new
// trades. A fetch failure blocks: trading into unknown volatility is the
// riskier default.
func (g *RiskGate) VolatilityAcceptable(ctx context.Context) bool {
	value, err := g.vol.GetVolatilityIndex(ctx)
	if err != nil {
		g.block("", "volatility_unavailable").Err(err).Msg("volatility check failed, blocking")
		return false
	}
	if value >= g.cfg.VolatilityThreshold {
		g.block("", "volatility").
			Float64("vix", value).
			Float64("threshold", g.cfg.VolatilityThreshold).
			Msg("volatility above threshold")
		return false
	}
	return true
}

func (g *RiskGate) block(symbol, reason string) *zerolog.Event {
	metrics.RiskBlocks.WithLabelValues(reason).Inc()
	e := g.log.Warn().Str("reason", reason)
	if symbol != "" {
		e = e.Str("symbol", symbol)
	}
	return e
}
