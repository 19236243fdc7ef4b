package websocket

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"tradebot-backend/internal/domain"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for now
	},
}

// Handler streams the open-trades view of the journal to connected clients.
type Handler struct {
	journal domain.TradeJournal
	log     zerolog.Logger
}

func NewHandler(journal domain.TradeJournal, log zerolog.Logger) *Handler {
	return &Handler{
		journal: journal,
		log:     log.With().Str("component", "ws").Logger(),
	}
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("upgrade failed")
		return
	}
	defer conn.Close()

	h.log.Info().Str("remote", r.RemoteAddr).Msg("new client connected")

	// Send initial data immediately
	if err := h.writeOpenTrades(r, conn); err != nil {
		return
	}

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if err := h.writeOpenTrades(r, conn); err != nil {
				return
			}
		}
	}
}

func (h *Handler) writeOpenTrades(r *http.Request, conn *websocket.Conn) error {
	trades, err := h.journal.ListOpenTrades(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("could not list open trades")
		trades = make([]*domain.TradeRecord, 0)
	}
	if writeErr := conn.WriteJSON(trades); writeErr != nil {
		h.log.Debug().Err(writeErr).Msg("write error, dropping client")
		return writeErr
	}
	return nil
}
