package usecase

import (
	"context"
	"sync"

	"tradebot-backend/internal/config"
	"tradebot-backend/internal/domain"
)

// fakeMarket is a scripted MarketDataGateway for tests.
type fakeMarket struct {
	mu          sync.Mutex
	account     *domain.Account
	accountErr  error
	positions   map[string]*domain.Position
	positionErr error
	prices      map[string]float64
	priceErr    error
	bars        []domain.Bar
	barsErr     error
	barsCalls   int
	lastOrders  map[string]*domain.Order
	lastOrdErr  error
}

func (m *fakeMarket) GetAccount(context.Context) (*domain.Account, error) {
	if m.accountErr != nil {
		return nil, m.accountErr
	}
	return m.account, nil
}

func (m *fakeMarket) GetPosition(_ context.Context, symbol string) (*domain.Position, error) {
	if m.positionErr != nil {
		return nil, m.positionErr
	}
	return m.positions[symbol], nil
}

func (m *fakeMarket) GetPrice(_ context.Context, symbol string) (float64, error) {
	if m.priceErr != nil {
		return 0, m.priceErr
	}
	return m.prices[symbol], nil
}

func (m *fakeMarket) GetMinuteBars(_ context.Context, _ string, _ int) ([]domain.Bar, error) {
	m.mu.Lock()
	m.barsCalls++
	m.mu.Unlock()
	if m.barsErr != nil {
		return nil, m.barsErr
	}
	return m.bars, nil
}

func (m *fakeMarket) GetLastClosedOrder(_ context.Context, symbol string) (*domain.Order, error) {
	if m.lastOrdErr != nil {
		return nil, m.lastOrdErr
	}
	return m.lastOrders[symbol], nil
}

// fakeRouter records submitted intents.
type fakeRouter struct {
	mu      sync.Mutex
	err     error
	intents []*domain.TradeIntent
}

func (r *fakeRouter) SubmitBracketOrder(_ context.Context, intent *domain.TradeIntent) (*domain.Order, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.intents = append(r.intents, intent)
	return &domain.Order{
		ID:       "order-1",
		Symbol:   intent.Symbol,
		Side:     intent.Side,
		Quantity: intent.Quantity,
		Status:   "accepted",
	}, nil
}

// fakeVol is a scripted VolatilityIndexSource.
type fakeVol struct {
	value float64
	err   error
}

func (v *fakeVol) GetVolatilityIndex(context.Context) (float64, error) {
	if v.err != nil {
		return 0, v.err
	}
	return v.value, nil
}

func testConfig(symbols ...string) *config.Config {
	allowed := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		allowed[s] = struct{}{}
	}
	return &config.Config{
		ScanSymbols:         symbols,
		AllowedSymbols:      allowed,
		MaxDailyLoss:        500,
		MaxPositionSize:     1000,
		RiskPct:             0.01,
		MaxPositionPct:      0.03,
		RMultiple:           1.5,
		VolatilityThreshold: 20.0,
	}
}
