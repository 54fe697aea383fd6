package trading

import (
	"github.com/meridianfx/tradeguard/internal/modules/metrics"
)

// MetricsSource adapts the trade repository to the metrics trade-log input
type MetricsSource struct {
	repo *TradeRepository
}

// NewMetricsSource creates a metrics source backed by the trade journal
func NewMetricsSource(repo *TradeRepository) *MetricsSource {
	return &MetricsSource{repo: repo}
}

// AllByExitTime returns the journaled trades as metric inputs, ordered by
// exit time ascending
func (s *MetricsSource) AllByExitTime() ([]metrics.TradeResult, error) {
	trades, err := s.repo.AllByExitTime()
	if err != nil {
		return nil, err
	}

	results := make([]metrics.TradeResult, len(trades))
	for i, t := range trades {
		results[i] = metrics.TradeResult{
			ExitTime: t.ExitTime,
			PnL:      t.PnL,
		}
	}

	return results, nil
}
