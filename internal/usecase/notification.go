package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"tradebot-backend/internal/domain"
	"tradebot-backend/internal/infrastructure/fcm"
	"tradebot-backend/internal/repository"
)

// NotificationService pushes trade open/close events to registered devices,
// with a per-symbol cooldown so a chatty symbol does not spam phones.
type NotificationService struct {
	fcmClient *fcm.Client
	tokenRepo repository.TokenRepository
	cooldown  time.Duration
	log       zerolog.Logger

	mu       sync.Mutex
	notified map[string]time.Time
}

func NewNotificationService(fcmClient *fcm.Client, tokenRepo repository.TokenRepository, log zerolog.Logger) *NotificationService {
	return &NotificationService{
		fcmClient: fcmClient,
		tokenRepo: tokenRepo,
		cooldown:  5 * time.Minute,
		log:       log.With().Str("component", "notifications").Logger(),
		notified:  make(map[string]time.Time),
	}
}

// NotifyTradeOpened announces a newly journaled trade.
func (n *NotificationService) NotifyTradeOpened(ctx context.Context, rec *domain.TradeRecord) {
	title := fmt.Sprintf("🟢 %s opened", rec.Symbol)
	body := fmt.Sprintf("%d shares @ $%.2f | risk $%.2f | %s",
		rec.NumShares, rec.BuyPrice, rec.RiskAmount, rec.SetupTag)
	n.send(ctx, rec.Symbol, title, body, map[string]string{
		"symbol": rec.Symbol,
		"event":  "opened",
		"ref":    fmt.Sprintf("%d", rec.Ref),
	})
}

// NotifyTradeClosed announces a close-out with its realized figures.
func (n *NotificationService) NotifyTradeClosed(ctx context.Context, rec *domain.TradeRecord, upd *domain.ClosedUpdate) {
	emoji := "🔴"
	if upd.NetPnl >= 0 {
		emoji = "💰"
	}
	title := fmt.Sprintf("%s %s closed", emoji, rec.Symbol)
	body := fmt.Sprintf("PnL $%.2f | ROI %.2f%%", upd.NetPnl, upd.NetRoi)
	n.send(ctx, rec.Symbol, title, body, map[string]string{
		"symbol": rec.Symbol,
		"event":  "closed",
		"ref":    fmt.Sprintf("%d", upd.Ref),
	})
}

func (n *NotificationService) send(ctx context.Context, symbol, title, body string, data map[string]string) {
	if n.fcmClient == nil || !n.fcmClient.IsEnabled() {
		return
	}

	now := time.Now()
	n.mu.Lock()
	if last, ok := n.notified[symbol]; ok && now.Sub(last) < n.cooldown {
		n.mu.Unlock()
		return
	}
	// Prune stale cooldown entries while we hold the lock.
	for sym, ts := range n.notified {
		if now.Sub(ts) > n.cooldown*2 {
			delete(n.notified, sym)
		}
	}
	n.mu.Unlock()

	tokens, err := n.tokenRepo.GetAllTokens(ctx)
	if err != nil || len(tokens) == 0 {
		return
	}

	if err := n.fcmClient.SendMulticast(ctx, tokens, title, body, data); err != nil {
		n.log.Error().Err(err).Str("symbol", symbol).Msg("error sending notification")
		return
	}

	n.mu.Lock()
	n.notified[symbol] = now
	n.mu.Unlock()
	n.log.Debug().Str("symbol", symbol).Int("devices", len(tokens)).Msg("notification sent")
}
