package charts

import (
	"fmt"
	"time"

	"github.com/markcheno/go-talib"
	"github.com/rs/zerolog"

	"github.com/meridianfx/tradeguard/internal/modules/metrics"
	"github.com/meridianfx/tradeguard/pkg/formulas"
)

// DefaultSMAPeriod is the smoothing period for the equity overlay
const DefaultSMAPeriod = 20

// EquityPoint is one point of the equity curve, with the smoothed overlay
// attached once enough history exists
type EquityPoint struct {
	Time    time.Time `json:"t"`
	Balance float64   `json:"balance"`
	SMA     *float64  `json:"sma,omitempty"`
}

// Service builds chart series for the dashboard
type Service struct {
	source         metrics.TradeSource
	initialBalance float64
	log            zerolog.Logger
}

// NewService creates a charts service over the trade journal
func NewService(source metrics.TradeSource, initialBalance float64, log zerolog.Logger) *Service {
	return &Service{
		source:         source,
		initialBalance: initialBalance,
		log:            log.With().Str("component", "charts").Logger(),
	}
}

// EquityCurve derives the running balance series from the journal and
// overlays a simple moving average with the given period. The period must
// be at least 2; an average over fewer points is not a smoothing.
func (s *Service) EquityCurve(period int) ([]EquityPoint, error) {
	if period < 2 {
		return nil, fmt.Errorf("sma period must be at least 2, got %d", period)
	}

	trades, err := s.source.AllByExitTime()
	if err != nil {
		return nil, err
	}

	if len(trades) == 0 {
		return []EquityPoint{}, nil
	}

	pnls := make([]float64, len(trades))
	for i, trade := range trades {
		pnls[i] = trade.PnL
	}

	balances := formulas.CumulativeBalance(s.initialBalance, pnls)

	points := make([]EquityPoint, len(balances))
	for i := range balances {
		points[i] = EquityPoint{
			Time:    trades[i].ExitTime,
			Balance: balances[i],
		}
	}

	// The overlay needs a full period of history before it is meaningful
	if len(balances) >= period {
		sma := talib.Sma(balances, period)
		for i := period - 1; i < len(sma); i++ {
			value := sma[i]
			points[i].SMA = &value
		}
	}

	return points, nil
}
