package sessions

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Handlers contains HTTP handlers for the sessions API
type Handlers struct {
	gate *Gate
	log  zerolog.Logger
}

// NewHandlers creates a new sessions handlers instance
func NewHandlers(gate *Gate, log zerolog.Logger) *Handlers {
	return &Handlers{
		gate: gate,
		log:  log.With().Str("handler", "sessions").Logger(),
	}
}

// HandleStatus returns the market status, optionally at a caller-supplied
// time (?at=RFC3339) instead of now
// GET /api/sessions/status
func (h *Handlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	at := time.Now()

	if atParam := r.URL.Query().Get("at"); atParam != "" {
		parsed, err := time.Parse(time.RFC3339, atParam)
		if err != nil {
			http.Error(w, "Invalid 'at' parameter, expected RFC3339", http.StatusBadRequest)
			return
		}
		at = parsed
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(h.gate.TradingStatus(at)) // Ignore encode error - already committed response
}
