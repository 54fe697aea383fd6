package metrics

import (
	"encoding/json"
	"math"
	"net/http"

	"github.com/rs/zerolog"
)

// TradeSource supplies the completed trade log, ordered by exit time
type TradeSource interface {
	AllByExitTime() ([]TradeResult, error)
}

// Handlers contains HTTP handlers for the metrics API
type Handlers struct {
	service        *Service
	source         TradeSource
	initialBalance float64
	log            zerolog.Logger
}

// NewHandlers creates a new metrics handlers instance
func NewHandlers(service *Service, source TradeSource, initialBalance float64, log zerolog.Logger) *Handlers {
	return &Handlers{
		service:        service,
		source:         source,
		initialBalance: initialBalance,
		log:            log.With().Str("handler", "metrics").Logger(),
	}
}

// HandleSummary computes the statistics over the persisted trade log
// GET /api/metrics/summary
func (h *Handlers) HandleSummary(w http.ResponseWriter, r *http.Request) {
	trades, err := h.source.AllByExitTime()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load trade log")
		http.Error(w, "Failed to load trade log", http.StatusInternalServerError)
		return
	}

	summary := h.service.Summarize(trades, h.initialBalance)

	// encoding/json rejects IEEE infinities, so the no-losses profit factor
	// goes out as the string "inf"
	var profitFactor interface{} = summary.ProfitFactor
	if math.IsInf(summary.ProfitFactor, 1) {
		profitFactor = "inf"
	}

	response := map[string]interface{}{
		"total_return_pct": summary.TotalReturnPct,
		"max_drawdown_pct": summary.MaxDrawdownPct,
		"win_rate_pct":     summary.WinRatePct,
		"trade_count":      summary.TradeCount,
		"profit_factor":    profitFactor,
		"sharpe_ratio":     summary.SharpeRatio,
		"avg_trade":        summary.AvgTrade,
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response) // Ignore encode error - already committed response
}

// HandleMonthly returns the calendar-month return buckets
// GET /api/metrics/monthly
func (h *Handlers) HandleMonthly(w http.ResponseWriter, r *http.Request) {
	trades, err := h.source.AllByExitTime()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to load trade log")
		http.Error(w, "Failed to load trade log", http.StatusInternalServerError)
		return
	}

	monthly := h.service.MonthlyReturns(trades, h.initialBalance)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(monthly) // Ignore encode error - already committed response
}
