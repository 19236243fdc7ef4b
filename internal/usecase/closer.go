package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"tradebot-backend/internal/domain"
	"tradebot-backend/internal/metrics"
	"tradebot-backend/internal/money"
)

// CloseReconciler polls open journal entries against live positions and
// closes out the ones whose position is gone, pricing the exit from the
// broker's fill record. Designed to run as a single instance; the journal
// row is the only shared state.
type CloseReconciler struct {
	market   domain.MarketDataGateway
	journal  domain.TradeJournal
	notifier *NotificationService
	interval time.Duration
	log      zerolog.Logger
}

func NewCloseReconciler(
	market domain.MarketDataGateway,
	journal domain.TradeJournal,
	notifier *NotificationService,
	interval time.Duration,
	log zerolog.Logger,
) *CloseReconciler {
	return &CloseReconciler{
		market:   market,
		journal:  journal,
		notifier: notifier,
		interval: interval,
		log:      log.With().Str("component", "close_reconciler").Logger(),
	}
}

// Run starts the polling loop and blocks until the context is cancelled.
func (r *CloseReconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.CheckForClosedTrades(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.CheckForClosedTrades(ctx)
		}
	}
}

// CheckForClosedTrades runs one reconciliation pass over all open trades.
func (r *CloseReconciler) CheckForClosedTrades(ctx context.Context) {
	open, err := r.journal.ListOpenTrades(ctx)
	if err != nil {
		r.log.Error().Err(err).Msg("could not list open trades")
		return
	}
	r.log.Debug().Int("open_trades", len(open)).Msg("running close check")

	for _, rec := range open {
		upd := r.ReconcileOne(ctx, rec)
		if upd == nil {
			continue
		}

		if err := r.journal.UpdateClosedTrade(ctx, *upd); err != nil {
			r.log.Error().Err(err).Int64("ref", upd.Ref).Msg("could not update closed trade")
			continue
		}

		result := "flat"
		if upd.NetPnl > 0 {
			result = "win"
		} else if upd.NetPnl < 0 {
			result = "loss"
		}
		metrics.TradesClosed.WithLabelValues(result).Inc()

		r.log.Info().
			Int64("ref", upd.Ref).
			Str("symbol", rec.Symbol).
			Float64("sell_price", upd.SellPrice).
			Float64("net_pnl", upd.NetPnl).
			Float64("net_roi", upd.NetRoi).
			Msg("trade closed")

		if r.notifier != nil {
			r.notifier.NotifyTradeClosed(ctx, rec, upd)
		}
	}
}

// ReconcileOne determines whether one open trade's position has been closed
// and computes its close-out figures. Returns nil while the position is
// still open, and also when fill data is missing: that is a transient
// condition and the trade is retried on the next poll cycle.
func (r *CloseReconciler) ReconcileOne(ctx context.Context, rec *domain.TradeRecord) *domain.ClosedUpdate {
	position, err := r.market.GetPosition(ctx, rec.Symbol)
	if err != nil {
		r.log.Warn().Err(err).Str("symbol", rec.Symbol).Msg("position fetch failed, will retry")
		return nil
	}
	if position != nil {
		r.log.Debug().Str("symbol", rec.Symbol).Msg("still open")
		return nil
	}

	// The position is gone, so there is no live price to use; the exit
	// price must come from the broker's fill record.
	order, err := r.market.GetLastClosedOrder(ctx, rec.Symbol)
	if err != nil || order == nil {
		r.log.Warn().Err(err).Str("symbol", rec.Symbol).Msg("no closed order fill yet, will retry")
		return nil
	}

	sellPrice := money.Round2(order.FilledAvgPrice)
	qty := float64(rec.NumShares)

	return &domain.ClosedUpdate{
		Ref:       rec.Ref,
		SellDate:  time.Now(),
		SellPrice: sellPrice,
		NetPnl:    money.Round2((sellPrice - rec.BuyPrice) * qty),
		NetRoi:    money.Round2((sellPrice - rec.BuyPrice) / rec.BuyPrice * 100),
	}
}
