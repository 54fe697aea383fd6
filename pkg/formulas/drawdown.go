package formulas

// MaxDrawdown calculates the maximum peak-to-trough decline of a balance
// series.
//
// Drawdown Formula:
//
//	Drawdown = (Peak Value - Current Value) / Peak Value
//	Max Drawdown = Maximum of all drawdowns
//
// Returns the maximum drawdown as a positive fraction (0.25 = 25% decline
// from peak), or 0 for series with fewer than two points.
func MaxDrawdown(balances []float64) float64 {
	if len(balances) < 2 {
		return 0
	}

	maxDrawdown := 0.0
	peak := balances[0]

	for _, balance := range balances {
		if balance > peak {
			peak = balance
		}

		if peak > 0 {
			drawdown := (peak - balance) / peak
			if drawdown > maxDrawdown {
				maxDrawdown = drawdown
			}
		}
	}

	return maxDrawdown
}
