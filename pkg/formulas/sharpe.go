package formulas

import (
	"math"
)

// TradingDaysPerYear is the annualization factor used for Sharpe ratios and
// volatility.
const TradingDaysPerYear = 252

// SharpeRatio calculates an annualized Sharpe ratio from a series of
// per-period returns, without a risk-free rate.
//
// Sharpe Ratio Formula:
//
//	Sharpe = Mean(returns) / StdDev(returns) × sqrt(252)
//
// Returns 0 when the return series has no variance, so callers always get a
// defined value instead of NaN.
func SharpeRatio(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}

	stdDev := StdDev(returns)
	if stdDev == 0 {
		return 0
	}

	return Mean(returns) / stdDev * math.Sqrt(TradingDaysPerYear)
}
