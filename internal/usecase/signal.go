package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"tradebot-backend/internal/domain"
	"tradebot-backend/internal/infrastructure/indicators"
	"tradebot-backend/internal/money"
)

const (
	signalBarCount   = 50
	rsiPeriod        = 14
	volumeAvgWindow  = 10
	rsiEntryCeiling  = 45.0
	stopBelowVwapPct = 0.995 // stop ~0.5% below VWAP
	bounceConfidence = 0.85
	vwapBounceTag    = "VWAP Bounce"
)

// Trading window for the bounce setup: the first 90 minutes or so after the
// open, when VWAP reversion is most reliable.
var (
	windowStart = clockTime{9, 35}
	windowEnd   = clockTime{11, 0}
)

type clockTime struct{ hour, minute int }

func (c clockTime) minutes() int { return c.hour*60 + c.minute }

// SignalGenerator detects the VWAP-bounce pattern on one-minute bars: price
// crossing back above VWAP after the prior bar dipped below it, with a
// washed-out RSI and above-average volume.
type SignalGenerator struct {
	market domain.MarketDataGateway
	retry  RetryPolicy
	loc    *time.Location
	now    func() time.Time
	log    zerolog.Logger
}

func NewSignalGenerator(market domain.MarketDataGateway, log zerolog.Logger) *SignalGenerator {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.UTC
	}
	return &SignalGenerator{
		market: market,
		retry: RetryPolicy{
			MaxAttempts: 3,
			Backoff:     LinearBackoff(2 * time.Second),
		},
		loc: loc,
		now: time.Now,
		log: log.With().Str("component", "signal_generator").Logger(),
	}
}

// InWindow reports whether now falls inside the preferred bounce window.
func (g *SignalGenerator) InWindow() bool {
	now := g.now().In(g.loc)
	m := now.Hour()*60 + now.Minute()
	return m >= windowStart.minutes() && m <= windowEnd.minutes()
}

// Generate produces a candidate signal for symbol, or nil when no setup is
// present. Bar-fetch exhaustion yields nil, never an error: the scan loop
// moves on to the next symbol.
func (g *SignalGenerator) Generate(ctx context.Context, symbol string) *domain.Signal {
	if !g.InWindow() {
		g.log.Debug().Str("symbol", symbol).Msg("outside preferred VWAP bounce window")
		return nil
	}

	var bars []domain.Bar
	err := g.retry.Do(ctx, func() error {
		var fetchErr error
		bars, fetchErr = g.market.GetMinuteBars(ctx, symbol, signalBarCount)
		return fetchErr
	})
	if err != nil {
		g.log.Warn().Err(err).Str("symbol", symbol).Msg("bar fetch exhausted retries")
		return nil
	}
	if len(bars) < signalBarCount {
		g.log.Debug().Str("symbol", symbol).Int("bars", len(bars)).Msg("not enough bar data")
		return nil
	}

	highs := make([]float64, len(bars))
	lows := make([]float64, len(bars))
	closes := make([]float64, len(bars))
	volumes := make([]float64, len(bars))
	for i, b := range bars {
		highs[i] = b.High
		lows[i] = b.Low
		closes[i] = b.Close
		volumes[i] = b.Volume
	}

	vwapSeries := indicators.CalculateVWAP(highs, lows, closes, volumes)
	rsiSeries := indicators.CalculateRSI(closes, rsiPeriod)

	last := len(bars) - 1
	price := closes[last]
	vwap := vwapSeries[last]
	rsi := rsiSeries[last]
	volume := volumes[last]
	avgVolume := indicators.AverageVolume(volumes, volumeAvgWindow)

	// Bounce: price back above VWAP after the previous bar dipped below it.
	if !(price > vwap && lows[last-1] < vwap) {
		return nil
	}
	if rsi >= rsiEntryCeiling || volume <= avgVolume {
		return nil
	}

	stopLoss := money.Round2(vwap * stopBelowVwapPct)
	riskPerShare := price - stopLoss
	sig := &domain.Signal{
		Symbol:     symbol,
		Side:       domain.SideBuy,
		StopLoss:   stopLoss,
		TakeProfit: money.Round2(price + 1.5*riskPerShare),
		Confidence: bounceConfidence,
		SetupTag:   vwapBounceTag,
	}

	g.log.Info().
		Str("symbol", symbol).
		Float64("price", price).
		Float64("vwap", vwap).
		Float64("rsi", rsi).
		Float64("stop_loss", sig.StopLoss).
		Msg("generated VWAP bounce signal")
	return sig
}
