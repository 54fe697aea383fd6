package trading

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"
)

// TradeSettler is notified once for every journaled trade. Position
// open/close lifecycle is reported separately through the risk API.
type TradeSettler interface {
	RecordTrade(pnl float64)
}

// Handlers contains HTTP handlers for the trade journal API
type Handlers struct {
	repo    *TradeRepository
	settler TradeSettler
	log     zerolog.Logger
}

// NewHandlers creates a new trading handlers instance
func NewHandlers(repo *TradeRepository, settler TradeSettler, log zerolog.Logger) *Handlers {
	return &Handlers{
		repo:    repo,
		settler: settler,
		log:     log.With().Str("handler", "trading").Logger(),
	}
}

// HandleRecordTrade journals a closed trade and settles it against the risk
// counters
// POST /api/trades
func (h *Handlers) HandleRecordTrade(w http.ResponseWriter, r *http.Request) {
	var trade ClosedTrade
	if err := json.NewDecoder(r.Body).Decode(&trade); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode trade")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := trade.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.repo.Create(&trade); err != nil {
		h.log.Error().Err(err).Msg("Failed to journal trade")
		http.Error(w, "Failed to journal trade", http.StatusInternalServerError)
		return
	}

	// One journal entry, one settlement
	if h.settler != nil {
		h.settler.RecordTrade(trade.PnL)
	}

	h.log.Info().
		Str("symbol", trade.Symbol).
		Str("side", string(trade.Side)).
		Float64("pnl", trade.PnL).
		Msg("Trade journaled")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(trade) // Ignore encode error - already committed response
}

// HandleGetTrades returns trade history, newest first
// GET /api/trades
func (h *Handlers) HandleGetTrades(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
		if parsed, err := strconv.Atoi(limitParam); err == nil {
			limit = parsed
		}
	}

	trades, err := h.repo.History(limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to get trade history")
		http.Error(w, "Failed to get trade history", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(trades) // Ignore encode error - already committed response
}
