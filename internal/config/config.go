package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the full process configuration, built once at startup and passed
// by reference into each component constructor.
type Config struct {
	// Brokerage
	AlpacaAPIKey    string
	AlpacaAPISecret string
	AlpacaBaseURL   string
	AlpacaDataURL   string

	// Journal store; empty means in-memory (dev / paper mode)
	DatabaseURL string

	// Universe
	ScanSymbols    []string
	AllowedSymbols map[string]struct{}

	// Risk
	MaxDailyLoss        float64 // currency units
	MaxPositionSize     int     // shares
	RiskPct             float64 // fraction of equity risked per trade
	MaxPositionPct      float64 // fraction of equity per position (notional cap)
	RMultiple           float64 // take-profit distance in risk units
	VolatilityGate      bool
	VolatilityThreshold float64

	// Loops
	ScanInterval       time.Duration
	CloseCheckInterval time.Duration

	// Delivery
	HTTPAddr string

	// Push notifications; empty disables FCM
	FirebaseCredentialsPath string

	// Logging
	LogLevel  string
	LogPretty bool
}

// defaultScanSymbols is the starter universe; override via SCAN_SYMBOLS.
var defaultScanSymbols = []string{
	"AAPL", "MSFT", "TSLA", "NVDA", "AMD",
	"GOOGL", "META", "AMZN", "NFLX", "INTC",
	"CRM", "SHOP", "BABA", "NKE", "UBER",
	"DIS", "PYPL", "QCOM", "MU", "F",
}

// Load reads configuration from the environment, after loading .env if one
// is present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AlpacaAPIKey:    getEnv("ALPACA_API_KEY", ""),
		AlpacaAPISecret: getEnv("ALPACA_SECRET_KEY", ""),
		AlpacaBaseURL:   getEnv("ALPACA_BASE_URL", "https://paper-api.alpaca.markets"),
		AlpacaDataURL:   getEnv("ALPACA_DATA_URL", "https://data.alpaca.markets"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		MaxDailyLoss:        getEnvFloat("MAX_DAILY_LOSS", 500),
		MaxPositionSize:     getEnvInt("MAX_POSITION_SIZE", 1000),
		RiskPct:             getEnvFloat("RISK_PCT", 0.01),
		MaxPositionPct:      getEnvFloat("MAX_POSITION_PCT", 0.03),
		RMultiple:           1.5, // fixed policy constant, not tunable
		VolatilityGate:      getEnvBool("VOLATILITY_GATE", false),
		VolatilityThreshold: getEnvFloat("VOLATILITY_THRESHOLD", 20.0),

		ScanInterval:       getEnvDuration("SCAN_INTERVAL", time.Minute),
		CloseCheckInterval: getEnvDuration("CLOSE_CHECK_INTERVAL", time.Minute),

		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),

		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogPretty: getEnvBool("LOG_PRETTY", false),
	}

	cfg.ScanSymbols = getEnvList("SCAN_SYMBOLS", defaultScanSymbols)
	allowed := getEnvList("ALLOWED_SYMBOLS", cfg.ScanSymbols)
	cfg.AllowedSymbols = make(map[string]struct{}, len(allowed))
	for _, s := range allowed {
		cfg.AllowedSymbols[s] = struct{}{}
	}

	if cfg.AlpacaAPIKey == "" || cfg.AlpacaAPISecret == "" {
		return nil, fmt.Errorf("ALPACA_API_KEY and ALPACA_SECRET_KEY are required")
	}
	if cfg.RiskPct <= 0 || cfg.RiskPct >= 1 {
		return nil, fmt.Errorf("RISK_PCT must be a fraction in (0, 1), got %v", cfg.RiskPct)
	}
	if cfg.MaxPositionPct <= 0 || cfg.MaxPositionPct >= 1 {
		return nil, fmt.Errorf("MAX_POSITION_PCT must be a fraction in (0, 1), got %v", cfg.MaxPositionPct)
	}

	return cfg, nil
}

// SymbolAllowed reports whether the symbol is in the configured allow-list.
func (c *Config) SymbolAllowed(symbol string) bool {
	_, ok := c.AllowedSymbols[symbol]
	return ok
}

// --------- Env helpers ---------

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getEnvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvBool(key string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "y", "yes":
		return true
	case "0", "false", "n", "no":
		return false
	default:
		return def
	}
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func getEnvList(key string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.ToUpper(strings.TrimSpace(p)); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
