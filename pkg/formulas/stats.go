package formulas

import (
	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the standard deviation of a slice of float64 values
func StdDev(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	return stat.StdDev(data, nil)
}

// CumulativeBalance derives a running balance series from an initial balance
// and a sequence of trade results.
// Balance[i] = initial + sum(pnl[0..i])
func CumulativeBalance(initial float64, pnls []float64) []float64 {
	balances := make([]float64, len(pnls))
	running := initial
	for i, pnl := range pnls {
		running += pnl
		balances[i] = running
	}
	return balances
}
