package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredKeys(t *testing.T) {
	t.Setenv("ALPACA_API_KEY", "key")
	t.Setenv("ALPACA_SECRET_KEY", "secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredKeys(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "https://paper-api.alpaca.markets", cfg.AlpacaBaseURL)
	assert.Equal(t, 500.0, cfg.MaxDailyLoss)
	assert.Equal(t, 1000, cfg.MaxPositionSize)
	assert.Equal(t, 0.01, cfg.RiskPct)
	assert.Equal(t, 0.03, cfg.MaxPositionPct)
	assert.Equal(t, 1.5, cfg.RMultiple)
	assert.False(t, cfg.VolatilityGate)
	assert.Equal(t, 20.0, cfg.VolatilityThreshold)
	assert.Equal(t, time.Minute, cfg.ScanInterval)
	assert.Equal(t, time.Minute, cfg.CloseCheckInterval)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.NotEmpty(t, cfg.ScanSymbols)
	// The allow-list defaults to the scan universe.
	for _, sym := range cfg.ScanSymbols {
		assert.True(t, cfg.SymbolAllowed(sym))
	}
}

func TestLoadRequiresCredentials(t *testing.T) {
	t.Setenv("ALPACA_API_KEY", "")
	t.Setenv("ALPACA_SECRET_KEY", "")

	_, err := Load()

	assert.Error(t, err)
}

func TestLoadParsesSymbolLists(t *testing.T) {
	setRequiredKeys(t)
	t.Setenv("SCAN_SYMBOLS", "aapl, msft ,NVDA")
	t.Setenv("ALLOWED_SYMBOLS", "AAPL,MSFT")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT", "NVDA"}, cfg.ScanSymbols)
	assert.True(t, cfg.SymbolAllowed("AAPL"))
	assert.False(t, cfg.SymbolAllowed("NVDA"))
	assert.False(t, cfg.SymbolAllowed("GME"))
}

func TestLoadValidatesFractions(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"risk pct zero", "RISK_PCT", "0"},
		{"risk pct whole-number percent", "RISK_PCT", "1"},
		{"position pct negative", "MAX_POSITION_PCT", "-0.5"},
		{"position pct over one", "MAX_POSITION_PCT", "1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredKeys(t)
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequiredKeys(t)
	t.Setenv("MAX_DAILY_LOSS", "250.50")
	t.Setenv("MAX_POSITION_SIZE", "200")
	t.Setenv("VOLATILITY_GATE", "true")
	t.Setenv("SCAN_INTERVAL", "30s")
	t.Setenv("LOG_PRETTY", "yes")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 250.50, cfg.MaxDailyLoss)
	assert.Equal(t, 200, cfg.MaxPositionSize)
	assert.True(t, cfg.VolatilityGate)
	assert.Equal(t, 30*time.Second, cfg.ScanInterval)
	assert.True(t, cfg.LogPretty)
}

func TestEnvHelpersFallBackOnGarbage(t *testing.T) {
	setRequiredKeys(t)
	t.Setenv("MAX_DAILY_LOSS", "lots")
	t.Setenv("MAX_POSITION_SIZE", "many")
	t.Setenv("SCAN_INTERVAL", "soon")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 500.0, cfg.MaxDailyLoss)
	assert.Equal(t, 1000, cfg.MaxPositionSize)
	assert.Equal(t, time.Minute, cfg.ScanInterval)
}
