package server

import (
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/rs/zerolog"

	"github.com/meridianfx/tradeguard/internal/modules/risk"
	"github.com/meridianfx/tradeguard/internal/modules/sessions"
	"github.com/meridianfx/tradeguard/internal/modules/trading"
)

// SystemHandlers handles system-wide monitoring endpoints
type SystemHandlers struct {
	log       zerolog.Logger
	dbPath    string
	startedAt time.Time
	policy    *risk.Policy
	gate      *sessions.Gate
	tradeRepo *trading.TradeRepository
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(
	log zerolog.Logger,
	dbPath string,
	policy *risk.Policy,
	gate *sessions.Gate,
	tradeRepo *trading.TradeRepository,
) *SystemHandlers {
	return &SystemHandlers{
		log:       log.With().Str("handler", "system").Logger(),
		dbPath:    dbPath,
		startedAt: time.Now(),
		policy:    policy,
		gate:      gate,
		tradeRepo: tradeRepo,
	}
}

// HandleStatus returns the full service status
// GET /api/system/status
func (h *SystemHandlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	tradeCount := 0
	if count, err := h.tradeRepo.Count(); err == nil {
		tradeCount = count
	} else {
		h.log.Error().Err(err).Msg("Failed to count trades")
	}

	response := map[string]interface{}{
		"status":         "running",
		"uptime_seconds": int(time.Since(h.startedAt).Seconds()),
		"database_path":  h.dbPath,
		"trade_count":    tradeCount,
		"market":         h.gate.TradingStatus(time.Now()),
		"risk":           h.policy.CurrentStatus(),
		"memory": map[string]interface{}{
			"alloc_mb":   m.Alloc / 1024 / 1024,
			"sys_mb":     m.Sys / 1024 / 1024,
			"num_gc":     m.NumGC,
			"goroutines": runtime.NumGoroutine(),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
