package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"tradebot-backend/internal/config"
	"tradebot-backend/internal/domain"
	"tradebot-backend/internal/metrics"
	"tradebot-backend/internal/money"
)

// ExecutionEngine turns candidate signals into sized, risk-gated bracket
// orders and journals confirmed submissions. Decide is pure decision logic
// over the collaborators; ProcessSignal adds the side effects.
type ExecutionEngine struct {
	market   domain.MarketDataGateway
	router   domain.OrderRouter
	journal  domain.TradeJournal
	risk     *RiskGate
	notifier *NotificationService
	cfg      *config.Config
	log      zerolog.Logger
}

func NewExecutionEngine(
	market domain.MarketDataGateway,
	router domain.OrderRouter,
	journal domain.TradeJournal,
	risk *RiskGate,
	notifier *NotificationService,
	cfg *config.Config,
	log zerolog.Logger,
) *ExecutionEngine {
	return &ExecutionEngine{
		market:   market,
		router:   router,
		journal:  journal,
		risk:     risk,
		notifier: notifier,
		cfg:      cfg,
		log:      log.With().Str("component", "execution").Logger(),
	}
}

// Decide validates, prices and sizes a signal. Returns nil when no trade
// should be placed; that is a normal outcome, not an error.
func (e *ExecutionEngine) Decide(ctx context.Context, sig *domain.Signal) *domain.TradeIntent {
	if sig == nil {
		return nil
	}

	log := e.log.With().Str("symbol", sig.Symbol).Str("side", string(sig.Side)).Logger()

	if e.cfg.VolatilityGate && !e.risk.VolatilityAcceptable(ctx) {
		metrics.Decisions.WithLabelValues("risk_blocked").Inc()
		return nil
	}
	if !e.risk.Evaluate(ctx, sig.Symbol, sig.Side) {
		metrics.Decisions.WithLabelValues("risk_blocked").Inc()
		return nil
	}

	// Price fetch failures are not retried here; retry policy belongs to
	// the data gateway.
	price, err := e.market.GetPrice(ctx, sig.Symbol)
	if err != nil {
		log.Error().Err(err).Msg("could not fetch price")
		metrics.Decisions.WithLabelValues("no_price").Inc()
		return nil
	}

	account, err := e.market.GetAccount(ctx)
	if err != nil {
		log.Error().Err(err).Msg("could not fetch account for sizing")
		metrics.Decisions.WithLabelValues("no_price").Inc()
		return nil
	}

	qty := PositionSize(price, sig.StopLoss, account.Equity, e.cfg.RiskPct, e.cfg.MaxPositionPct)
	if qty == 0 {
		log.Warn().Float64("price", price).Float64("stop_loss", sig.StopLoss).
			Msg("position size computed as 0, skipping trade")
		metrics.Decisions.WithLabelValues("sized_zero").Inc()
		return nil
	}

	stopDistance := math.Abs(price - sig.StopLoss)
	takeProfit := money.Round2(price + sig.Side.Direction()*e.cfg.RMultiple*stopDistance)

	return &domain.TradeIntent{
		Symbol:     sig.Symbol,
		Side:       sig.Side,
		Quantity:   qty,
		EntryPrice: price,
		StopLoss:   sig.StopLoss,
		TakeProfit: takeProfit,
		RiskAmount: money.Round2(stopDistance * float64(qty)),
		RMultiple:  e.cfg.RMultiple,
		Confidence: sig.Confidence,
		SetupTag:   sig.SetupTag,
	}
}

// ProcessSignal runs the full path for one signal: decide, submit the
// bracket order, and journal the open trade. The journal entry is written
// only on confirmed submission; a refused order is logged and dropped.
func (e *ExecutionEngine) ProcessSignal(ctx context.Context, sig *domain.Signal) {
	intent := e.Decide(ctx, sig)
	if intent == nil {
		return
	}

	log := e.log.With().Str("symbol", intent.Symbol).Str("side", string(intent.Side)).Logger()

	order, err := e.router.SubmitBracketOrder(ctx, intent)
	if err != nil {
		log.Error().Err(err).Int("qty", intent.Quantity).Msg("bracket order submission failed")
		metrics.OrderFailures.Inc()
		return
	}
	metrics.Orders.WithLabelValues(string(intent.Side)).Inc()

	rec := &domain.TradeRecord{
		Date:            time.Now(),
		Symbol:          intent.Symbol,
		NumShares:       intent.Quantity,
		BuyPrice:        intent.EntryPrice,
		PositionSize:    money.Round2(float64(intent.Quantity) * intent.EntryPrice),
		Notes:           fmt.Sprintf("Take profit set at %.2f", intent.TakeProfit),
		RiskAmount:      intent.RiskAmount,
		RMultiple:       intent.RMultiple,
		SetupTag:        intent.SetupTag,
		ConfidenceScore: intent.Confidence,
	}
	ref, err := e.journal.InsertOpenTrade(ctx, rec)
	if err != nil {
		// The order is live but unjournaled; loud log so it can be
		// reconciled by hand.
		log.Error().Err(err).Str("order_id", order.ID).Msg("CRITICAL: trade executed but journaling failed")
		return
	}

	log.Info().
		Str("order_id", order.ID).
		Int64("ref", ref).
		Int("qty", intent.Quantity).
		Float64("entry", intent.EntryPrice).
		Float64("stop_loss", intent.StopLoss).
		Float64("take_profit", intent.TakeProfit).
		Msg("trade executed and journaled")
	metrics.Decisions.WithLabelValues("submitted").Inc()

	if e.notifier != nil {
		e.notifier.NotifyTradeOpened(ctx, rec)
	}
}
