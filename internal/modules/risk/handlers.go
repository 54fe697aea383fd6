package risk

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
)

// Handlers contains HTTP handlers for the risk API
type Handlers struct {
	policy *Policy
	log    zerolog.Logger
}

// NewHandlers creates a new risk handlers instance
func NewHandlers(policy *Policy, log zerolog.Logger) *Handlers {
	return &Handlers{
		policy: policy,
		log:    log.With().Str("handler", "risk").Logger(),
	}
}

// validateRequest is the payload for signal validation
type validateRequest struct {
	Signal         Signal  `json:"signal"`
	CurrentPrice   float64 `json:"current_price"`
	AccountBalance float64 `json:"account_balance"`
}

// HandleValidate evaluates a proposed signal against the risk policy
// POST /api/risk/validate
func (h *Handlers) HandleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode validate request")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.CurrentPrice <= 0 || req.AccountBalance <= 0 {
		http.Error(w, "current_price and account_balance must be positive", http.StatusBadRequest)
		return
	}

	allowed := h.policy.ValidateSignal(req.Signal, req.CurrentPrice, req.AccountBalance)

	writeJSON(w, map[string]interface{}{
		"allowed":    allowed,
		"instrument": req.Signal.Instrument,
	})
}

// HandleStatus returns the current counters and limits
// GET /api/risk/status
func (h *Handlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.policy.CurrentStatus())
}

// HandlePositionOpened registers an opened position
// POST /api/risk/positions/opened
func (h *Handlers) HandlePositionOpened(w http.ResponseWriter, r *http.Request) {
	h.policy.NotifyOpened()
	writeJSON(w, map[string]interface{}{
		"open_positions": h.policy.CurrentStatus().OpenPositions,
	})
}

// HandlePositionClosed registers a closed position
// POST /api/risk/positions/closed
func (h *Handlers) HandlePositionClosed(w http.ResponseWriter, r *http.Request) {
	h.policy.NotifyClosed()
	writeJSON(w, map[string]interface{}{
		"open_positions": h.policy.CurrentStatus().OpenPositions,
	})
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(data) // Ignore encode error - already committed response
}
