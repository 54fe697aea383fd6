package metrics

import (
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/meridianfx/tradeguard/pkg/formulas"
)

// TradeResult is the slice of a closed trade the calculator needs
type TradeResult struct {
	ExitTime time.Time `json:"exit_time"`
	PnL      float64   `json:"pnl"`
}

// Summary holds the post-hoc evaluation statistics for a trade log.
// ProfitFactor is +Inf when there are no losing trades.
type Summary struct {
	TotalReturnPct float64 `json:"total_return_pct"`
	MaxDrawdownPct float64 `json:"max_drawdown_pct"`
	WinRatePct     float64 `json:"win_rate_pct"`
	TradeCount     int     `json:"trade_count"`
	ProfitFactor   float64 `json:"-"`
	SharpeRatio    float64 `json:"sharpe_ratio"`
	AvgTrade       float64 `json:"avg_trade"`
}

// MonthlyReturn is one calendar-month pnl bucket as a percentage of the
// initial balance
type MonthlyReturn struct {
	Month     string  `json:"month"` // YYYY-MM
	ReturnPct float64 `json:"return_pct"`
}

// Service computes summary statistics over a completed trade log
type Service struct {
	log zerolog.Logger
}

// NewService creates a metrics service
func NewService(log zerolog.Logger) *Service {
	return &Service{
		log: log.With().Str("component", "metrics").Logger(),
	}
}

// Summarize computes the full statistics set over the given trades.
// An empty trade log yields an all-zero Summary, not an error.
func (s *Service) Summarize(trades []TradeResult, initialBalance float64) Summary {
	if len(trades) == 0 {
		return Summary{}
	}

	ordered := make([]TradeResult, len(trades))
	copy(ordered, trades)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ExitTime.Before(ordered[j].ExitTime)
	})

	pnls := make([]float64, len(ordered))
	for i, trade := range ordered {
		pnls[i] = trade.PnL
	}

	balances := formulas.CumulativeBalance(initialBalance, pnls)
	finalBalance := balances[len(balances)-1]

	totalReturn := (finalBalance - initialBalance) / initialBalance * 100

	// The running peak starts at the first post-trade balance; the decline
	// from the initial deposit to the first balance is not counted
	maxDrawdown := formulas.MaxDrawdown(balances) * 100

	wins := 0
	grossProfit := 0.0
	grossLoss := 0.0
	for _, pnl := range pnls {
		if pnl > 0 {
			wins++
			grossProfit += pnl
		} else if pnl < 0 {
			grossLoss += -pnl
		}
	}

	winRate := float64(wins) / float64(len(pnls)) * 100

	profitFactor := math.Inf(1)
	if grossLoss > 0 {
		profitFactor = grossProfit / grossLoss
	}

	// Per-trade returns relative to the starting balance
	returns := make([]float64, len(pnls))
	for i, pnl := range pnls {
		returns[i] = pnl / initialBalance
	}
	sharpe := formulas.SharpeRatio(returns)

	return Summary{
		TotalReturnPct: totalReturn,
		MaxDrawdownPct: maxDrawdown,
		WinRatePct:     winRate,
		TradeCount:     len(pnls),
		ProfitFactor:   profitFactor,
		SharpeRatio:    sharpe,
		AvgTrade:       formulas.Mean(pnls),
	}
}

// MonthlyReturns aggregates pnl into calendar-month buckets, each expressed
// as a percentage of the initial balance, ordered by month ascending.
// Empty input yields an empty slice.
func (s *Service) MonthlyReturns(trades []TradeResult, initialBalance float64) []MonthlyReturn {
	if len(trades) == 0 {
		return []MonthlyReturn{}
	}

	buckets := make(map[string]float64)
	for _, trade := range trades {
		month := trade.ExitTime.Format("2006-01")
		buckets[month] += trade.PnL
	}

	months := make([]string, 0, len(buckets))
	for month := range buckets {
		months = append(months, month)
	}
	sort.Strings(months)

	result := make([]MonthlyReturn, len(months))
	for i, month := range months {
		result[i] = MonthlyReturn{
			Month:     month,
			ReturnPct: buckets[month] / initialBalance * 100,
		}
	}

	return result
}
