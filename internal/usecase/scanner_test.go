package usecase

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradebot-backend/internal/domain"
	"tradebot-backend/internal/repository"
)

func TestScannerProcessSubmitsDetectedSetups(t *testing.T) {
	market := &fakeMarket{
		account: &domain.Account{Equity: 100000, LastEquity: 100000},
		prices:  map[string]float64{"AAPL": 100.4, "MSFT": 100.4, "NVDA": 100.4},
		bars:    bounceBars(),
	}
	cfg := testConfig("AAPL", "MSFT", "NVDA")
	router := &fakeRouter{}
	journal := repository.NewInMemoryTradeJournal()
	risk := NewRiskGate(market, &fakeVol{}, cfg, zerolog.Nop())
	engine := NewExecutionEngine(market, router, journal, risk, nil, cfg, zerolog.Nop())
	scanner := NewScanner(newTestSignalGen(market), engine, cfg, zerolog.Nop())

	scanner.process(context.Background())

	assert.Len(t, router.intents, 3)
	open, err := journal.ListOpenTrades(context.Background())
	require.NoError(t, err)
	assert.Len(t, open, 3)
}

func TestScannerProcessQuietMarket(t *testing.T) {
	// Flat tape, no bounce anywhere.
	bars := bounceBars()
	for i := range bars {
		bars[i].Close = 100
		bars[i].High = 100.2
		bars[i].Low = 99.8
		bars[i].Volume = 1000
	}
	market := &fakeMarket{
		account: &domain.Account{Equity: 100000, LastEquity: 100000},
		bars:    bars,
	}
	cfg := testConfig("AAPL", "MSFT")
	router := &fakeRouter{}
	journal := repository.NewInMemoryTradeJournal()
	risk := NewRiskGate(market, &fakeVol{}, cfg, zerolog.Nop())
	engine := NewExecutionEngine(market, router, journal, risk, nil, cfg, zerolog.Nop())
	scanner := NewScanner(newTestSignalGen(market), engine, cfg, zerolog.Nop())

	scanner.process(context.Background())

	assert.Empty(t, router.intents)
}
