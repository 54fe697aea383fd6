package charts

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"
)

// Handlers contains HTTP handlers for the charts API
type Handlers struct {
	service *Service
	log     zerolog.Logger
}

// NewHandlers creates a new charts handlers instance
func NewHandlers(service *Service, log zerolog.Logger) *Handlers {
	return &Handlers{
		service: service,
		log:     log.With().Str("handler", "charts").Logger(),
	}
}

// HandleEquityCurve returns the equity curve with its SMA overlay
// GET /api/charts/equity
func (h *Handlers) HandleEquityCurve(w http.ResponseWriter, r *http.Request) {
	period := DefaultSMAPeriod
	if periodParam := r.URL.Query().Get("period"); periodParam != "" {
		parsed, err := strconv.Atoi(periodParam)
		if err != nil || parsed < 2 {
			http.Error(w, "Invalid 'period' parameter, expected an integer >= 2", http.StatusBadRequest)
			return
		}
		period = parsed
	}

	points, err := h.service.EquityCurve(period)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to build equity curve")
		http.Error(w, "Failed to build equity curve", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(points) // Ignore encode error - already committed response
}
