package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"tradebot-backend/internal/domain"
)

func newTestRiskGate(market *fakeMarket, vol *fakeVol) *RiskGate {
	return NewRiskGate(market, vol, testConfig("AAPL", "MSFT"), zerolog.Nop())
}

func TestRiskGateApprovesHealthyAccount(t *testing.T) {
	market := &fakeMarket{
		account: &domain.Account{Equity: 100000, LastEquity: 100000},
	}
	gate := newTestRiskGate(market, &fakeVol{value: 15})

	assert.True(t, gate.Evaluate(context.Background(), "AAPL", domain.SideBuy))
}

func TestRiskGateDailyLossBreaker(t *testing.T) {
	tests := []struct {
		name       string
		equity     float64
		lastEquity float64
		want       bool
	}{
		{"small loss allowed", 9900, 10000, true},
		{"loss at exactly the limit allowed", 9500, 10000, true},
		{"loss past the limit blocked", 9499.99, 10000, false},
		{"intraday gain allowed", 10500, 10000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			market := &fakeMarket{
				account: &domain.Account{Equity: tt.equity, LastEquity: tt.lastEquity},
			}
			gate := newTestRiskGate(market, &fakeVol{})
			assert.Equal(t, tt.want, gate.Evaluate(context.Background(), "AAPL", domain.SideBuy))
		})
	}
}

func TestRiskGatePositionCap(t *testing.T) {
	tests := []struct {
		name string
		qty  int
		want bool
	}{
		{"below cap allowed", 999, true},
		{"at cap blocked", 1000, false},
		{"above cap blocked", 1500, false},
		{"short position counts by magnitude", -1000, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			market := &fakeMarket{
				account: &domain.Account{Equity: 100000, LastEquity: 100000},
				positions: map[string]*domain.Position{
					"AAPL": {Symbol: "AAPL", Quantity: tt.qty, AvgEntryPrice: 100},
				},
			}
			gate := newTestRiskGate(market, &fakeVol{})
			assert.Equal(t, tt.want, gate.Evaluate(context.Background(), "AAPL", domain.SideBuy))
		})
	}
}

func TestRiskGateSymbolAllowList(t *testing.T) {
	market := &fakeMarket{
		account: &domain.Account{Equity: 100000, LastEquity: 100000},
	}
	gate := newTestRiskGate(market, &fakeVol{})

	assert.True(t, gate.Evaluate(context.Background(), "MSFT", domain.SideBuy))
	assert.False(t, gate.Evaluate(context.Background(), "GME", domain.SideBuy))
}

func TestRiskGateFailsClosedOnFetchErrors(t *testing.T) {
	t.Run("account fetch error blocks", func(t *testing.T) {
		market := &fakeMarket{accountErr: errors.New("api down")}
		gate := newTestRiskGate(market, &fakeVol{})
		assert.False(t, gate.Evaluate(context.Background(), "AAPL", domain.SideBuy))
	})

	t.Run("position fetch error blocks", func(t *testing.T) {
		market := &fakeMarket{
			account:     &domain.Account{Equity: 100000, LastEquity: 100000},
			positionErr: errors.New("api down"),
		}
		gate := newTestRiskGate(market, &fakeVol{})
		assert.False(t, gate.Evaluate(context.Background(), "AAPL", domain.SideBuy))
	})
}

func TestRiskGateIsStateless(t *testing.T) {
	// A tripped breaker untrips when equity recovers; nothing is sticky.
	market := &fakeMarket{
		account: &domain.Account{Equity: 9000, LastEquity: 10000},
	}
	gate := newTestRiskGate(market, &fakeVol{})

	assert.False(t, gate.Evaluate(context.Background(), "AAPL", domain.SideBuy))

	market.account = &domain.Account{Equity: 9800, LastEquity: 10000}
	assert.True(t, gate.Evaluate(context.Background(), "AAPL", domain.SideBuy))
}

func TestVolatilityAcceptable(t *testing.T) {
	tests := []struct {
		name string
		vol  *fakeVol
		want bool
	}{
		{"calm market allowed", &fakeVol{value: 14.2}, true},
		{"just under the threshold allowed", &fakeVol{value: 19.99}, true},
		{"at the threshold blocked", &fakeVol{value: 20.0}, false},
		{"elevated volatility blocked", &fakeVol{value: 31.7}, false},
		{"fetch error blocks", &fakeVol{err: errors.New("quote source down")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := newTestRiskGate(&fakeMarket{}, tt.vol)
			assert.Equal(t, tt.want, gate.VolatilityAcceptable(context.Background()))
		})
	}
}
