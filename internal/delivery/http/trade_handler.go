package http

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"

	"tradebot-backend/internal/domain"
)

// TradeHandler serves the trade journal over REST.
type TradeHandler struct {
	journal domain.TradeJournal
}

func NewTradeHandler(journal domain.TradeJournal) *TradeHandler {
	return &TradeHandler{journal: journal}
}

// GetOpenTrades handles GET /api/trades/open
func (h *TradeHandler) GetOpenTrades(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	trades, err := h.journal.ListOpenTrades(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if trades == nil {
		trades = make([]*domain.TradeRecord, 0)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(trades)
}

// GetRecentTrades handles GET /api/trades/recent?limit={n}
func (h *TradeHandler) GetRecentTrades(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	trades, err := h.journal.ListRecentTrades(r.Context(), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if trades == nil {
		trades = make([]*domain.TradeRecord, 0)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(trades)
}

// GetStatistics handles GET /api/trades/stats
func (h *TradeHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	trades, err := h.journal.ListRecentTrades(r.Context(), 500)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	open := 0
	closed := 0
	wins := 0
	totalPnl := 0.0
	totalRisk := 0.0

	for _, trade := range trades {
		if trade.IsOpen() {
			open++
			continue
		}
		closed++
		totalPnl += trade.NetPnl
		totalRisk += trade.RiskAmount
		if trade.NetPnl > 0 {
			wins++
		}
	}

	winRate := 0.0
	if closed > 0 {
		winRate = math.Round(float64(wins)/float64(closed)*10000) / 100
	}

	stats := map[string]any{
		"openTrades":   open,
		"closedTrades": closed,
		"winRate":      winRate,
		"totalNetPnl":  math.Round(totalPnl*100) / 100,
		"totalRisked":  math.Round(totalRisk*100) / 100,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
