package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"tradebot-backend/internal/config"
)

// Scanner drives the scan-and-decide loop: one pass over the configured
// universe per interval, each symbol visited at most once per pass. Account
// and position snapshots are read fresh inside each decision, so a position
// opened earlier in the run is visible to later evaluations of the same
// symbol.
type Scanner struct {
	gen    *SignalGenerator
	engine *ExecutionEngine
	cfg    *config.Config
	log    zerolog.Logger
}

func NewScanner(gen *SignalGenerator, engine *ExecutionEngine, cfg *config.Config, log zerolog.Logger) *Scanner {
	return &Scanner{
		gen:    gen,
		engine: engine,
		cfg:    cfg,
		log:    log.With().Str("component", "scanner").Logger(),
	}
}

// Run starts the scanning loop and blocks until the context is cancelled.
// A pass in flight runs to completion.
func (s *Scanner) Run(ctx context.Context) {
	s.log.Info().
		Int("symbols", len(s.cfg.ScanSymbols)).
		Dur("interval", s.cfg.ScanInterval).
		Msg("starting VWAP bounce scanner")

	ticker := time.NewTicker(s.cfg.ScanInterval)
	defer ticker.Stop()

	s.process(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.process(ctx)
		}
	}
}

func (s *Scanner) process(ctx context.Context) {
	start := time.Now()

	var wg sync.WaitGroup
	sem := make(chan struct{}, 10) // bound concurrent broker requests

	for _, sym := range s.cfg.ScanSymbols {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			signal := s.gen.Generate(ctx, symbol)
			if signal == nil {
				return
			}
			s.engine.ProcessSignal(ctx, signal)
		}(sym)
	}

	wg.Wait()
	s.log.Debug().Dur("took", time.Since(start)).Msg("scan pass completed")
}
