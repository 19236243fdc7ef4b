package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradebot-backend/internal/domain"
)

func newTestSignalGen(market *fakeMarket) *SignalGenerator {
	g := NewSignalGenerator(market, zerolog.Nop())
	g.retry = RetryPolicy{MaxAttempts: 2, Backoff: LinearBackoff(time.Millisecond)}
	g.now = func() time.Time {
		return time.Date(2026, 3, 2, 10, 0, 0, 0, g.loc)
	}
	return g
}

// bounceBars builds a one-minute session with the full setup: a morning
// selloff (washed-out RSI), a flat base, a dip under VWAP on the prior bar,
// and a high-volume close back above VWAP.
func bounceBars() []domain.Bar {
	bars := make([]domain.Bar, 50)
	for i := 0; i < 50; i++ {
		var close float64
		switch {
		case i <= 20:
			close = 120 - float64(i) // selloff 120 -> 100
		case i <= 47:
			close = 100 // base
		case i == 48:
			close = 99.8 // dip under VWAP
		default:
			close = 100.4 // recovery close above VWAP
		}

		bar := domain.Bar{
			Timestamp: time.Date(2026, 3, 2, 14, 10, 0, 0, time.UTC).Add(time.Duration(i) * time.Minute),
			Close:     close,
			High:      close + 0.2,
			Low:       close - 0.2,
			Volume:    1,
		}
		if i >= 40 {
			bar.Volume = 1000
		}
		if i == 48 {
			bar.High = 100.0
			bar.Low = 99.5
		}
		if i == 49 {
			bar.High = 100.6
			bar.Low = 99.9
			bar.Volume = 5000
		}
		bars[i] = bar
	}
	return bars
}

func TestGenerateDetectsVwapBounce(t *testing.T) {
	market := &fakeMarket{bars: bounceBars()}
	gen := newTestSignalGen(market)

	sig := gen.Generate(context.Background(), "AAPL")

	require.NotNil(t, sig)
	assert.Equal(t, "AAPL", sig.Symbol)
	assert.Equal(t, domain.SideBuy, sig.Side)
	assert.Equal(t, "VWAP Bounce", sig.SetupTag)
	assert.Equal(t, 0.85, sig.Confidence)
	// Session VWAP works out to ~100.105; the stop sits 0.5% under it.
	assert.InDelta(t, 99.60, sig.StopLoss, 1e-9)
	assert.InDelta(t, 101.60, sig.TakeProfit, 1e-9)
	assert.Less(t, sig.StopLoss, 100.4)
}

func TestGenerateRejectsNonSetups(t *testing.T) {
	t.Run("no dip under vwap", func(t *testing.T) {
		bars := bounceBars()
		// Prior bar holds above VWAP instead of dipping under it.
		bars[48] = domain.Bar{Close: 100.3, High: 100.45, Low: 100.2, Volume: 1000}
		gen := newTestSignalGen(&fakeMarket{bars: bars})
		assert.Nil(t, gen.Generate(context.Background(), "AAPL"))
	})

	t.Run("price below vwap", func(t *testing.T) {
		bars := bounceBars()
		bars[49].Close = 99.9
		bars[49].High = 100.1
		bars[49].Low = 99.7
		gen := newTestSignalGen(&fakeMarket{bars: bars})
		assert.Nil(t, gen.Generate(context.Background(), "AAPL"))
	})

	t.Run("volume not above average", func(t *testing.T) {
		bars := bounceBars()
		bars[49].Volume = 1000 // equal to the running average
		gen := newTestSignalGen(&fakeMarket{bars: bars})
		assert.Nil(t, gen.Generate(context.Background(), "AAPL"))
	})

	t.Run("rsi not washed out", func(t *testing.T) {
		// Steady uptrend keeps RSI pinned high even with a bounce-shaped
		// final two bars.
		bars := make([]domain.Bar, 50)
		for i := 0; i < 50; i++ {
			close := 90 + 0.4*float64(i)
			bars[i] = domain.Bar{
				Close:  close,
				High:   close + 0.2,
				Low:    close - 0.2,
				Volume: 1000,
			}
		}
		bars[48].Low = 99.0 // wick under the session VWAP
		bars[49].Volume = 5000
		gen := newTestSignalGen(&fakeMarket{bars: bars})
		assert.Nil(t, gen.Generate(context.Background(), "AAPL"))
	})
}

func TestGenerateSkipsOnMissingData(t *testing.T) {
	t.Run("not enough bars", func(t *testing.T) {
		gen := newTestSignalGen(&fakeMarket{bars: bounceBars()[:30]})
		assert.Nil(t, gen.Generate(context.Background(), "AAPL"))
	})

	t.Run("fetch failure exhausts retries", func(t *testing.T) {
		market := &fakeMarket{barsErr: errors.New("rate limited")}
		gen := newTestSignalGen(market)
		assert.Nil(t, gen.Generate(context.Background(), "AAPL"))
		assert.Equal(t, 2, market.barsCalls)
	})
}

func TestGenerateOutsideWindow(t *testing.T) {
	market := &fakeMarket{bars: bounceBars()}
	gen := newTestSignalGen(market)
	gen.now = func() time.Time {
		return time.Date(2026, 3, 2, 13, 0, 0, 0, gen.loc)
	}

	assert.Nil(t, gen.Generate(context.Background(), "AAPL"))
	assert.Equal(t, 0, market.barsCalls)
}

func TestInWindowBoundaries(t *testing.T) {
	market := &fakeMarket{}
	gen := newTestSignalGen(market)

	at := func(hour, minute int) {
		gen.now = func() time.Time {
			return time.Date(2026, 3, 2, hour, minute, 30, 0, gen.loc)
		}
	}

	at(9, 34)
	assert.False(t, gen.InWindow())
	at(9, 35)
	assert.True(t, gen.InWindow())
	at(10, 30)
	assert.True(t, gen.InWindow())
	at(11, 0)
	assert.True(t, gen.InWindow())
	at(11, 1)
	assert.False(t, gen.InWindow())
}
