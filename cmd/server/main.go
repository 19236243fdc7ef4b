package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpdelivery "tradebot-backend/internal/delivery/http"
	wsdelivery "tradebot-backend/internal/delivery/websocket"

	"tradebot-backend/internal/config"
	"tradebot-backend/internal/domain"
	"tradebot-backend/internal/infrastructure/alpaca"
	"tradebot-backend/internal/infrastructure/db"
	"tradebot-backend/internal/infrastructure/fcm"
	"tradebot-backend/internal/infrastructure/quotes"
	"tradebot-backend/internal/logger"
	"tradebot-backend/internal/repository"
	"tradebot-backend/internal/usecase"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Configuration + logger
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	// 2. Brokerage + quote gateways
	broker := alpaca.NewClient(cfg.AlpacaAPIKey, cfg.AlpacaAPISecret, cfg.AlpacaBaseURL, cfg.AlpacaDataURL)
	if err := broker.TestConnection(ctx); err != nil {
		log.Fatal().Err(err).Msg("could not connect to brokerage")
	}
	log.Info().Str("base_url", cfg.AlpacaBaseURL).Msg("connected to brokerage")
	volSource := quotes.NewClient("")

	// 3. Journal + token store (Postgres when configured, in-memory otherwise)
	var journal domain.TradeJournal
	var tokenRepo repository.TokenRepository
	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, db.PoolConfigFromEnv())
		if err != nil {
			log.Fatal().Err(err).Msg("could not create database pool")
		}
		defer pool.Close()
		if err := db.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migration failed")
		}
		journal = repository.NewPostgresTradeJournal(pool)
		tokenRepo = repository.NewPostgresTokenRepository(pool)
		log.Info().Msg("journal: postgres")
	} else {
		journal = repository.NewInMemoryTradeJournal()
		tokenRepo = repository.NewInMemoryTokenRepository()
		log.Warn().Msg("journal: in-memory (set DATABASE_URL for persistence)")
	}

	// 4. Notifications
	fcmClient, err := fcm.NewClient(ctx, cfg.FirebaseCredentialsPath, log)
	if err != nil {
		log.Fatal().Err(err).Msg("could not initialize FCM")
	}
	notifier := usecase.NewNotificationService(fcmClient, tokenRepo, log)

	// 5. Core services
	riskGate := usecase.NewRiskGate(broker, volSource, cfg, log)
	engine := usecase.NewExecutionEngine(broker, broker, journal, riskGate, notifier, cfg, log)
	signalGen := usecase.NewSignalGenerator(broker, log)
	scanner := usecase.NewScanner(signalGen, engine, cfg, log)
	reconciler := usecase.NewCloseReconciler(broker, journal, notifier, cfg.CloseCheckInterval, log)

	// 6. Background loops: scan-and-decide, poll-and-reconcile
	go scanner.Run(ctx)
	go reconciler.Run(ctx)

	// 7. Delivery
	tradeHandler := httpdelivery.NewTradeHandler(journal)
	tokenHandler := httpdelivery.NewTokenHandler(tokenRepo)
	wsHandler := wsdelivery.NewHandler(journal, log)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/trades/open", tradeHandler.GetOpenTrades)
	mux.HandleFunc("/api/trades/recent", tradeHandler.GetRecentTrades)
	mux.HandleFunc("/api/trades/stats", tradeHandler.GetStatistics)
	mux.HandleFunc("/api/tokens/register", tokenHandler.HandleRegisterToken)
	mux.HandleFunc("/api/tokens/unregister", tokenHandler.HandleUnregisterToken)
	mux.HandleFunc("/ws", wsHandler.Handle)
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: mux}
	go func() {
		<-ctx.Done()
		_ = server.Shutdown(context.Background())
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Msg("server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server error")
	}
}
