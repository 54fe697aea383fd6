package formulas

import (
	"math"
	"testing"
)

func TestMean(t *testing.T) {
	if got := Mean([]float64{1, 2, 3, 4}); got != 2.5 {
		t.Errorf("Expected 2.5, got %f", got)
	}

	if got := Mean(nil); got != 0 {
		t.Errorf("Expected 0 for empty input, got %f", got)
	}
}

func TestStdDev_SinglePoint(t *testing.T) {
	if got := StdDev([]float64{5}); got != 0 {
		t.Errorf("Expected 0 for single point, got %f", got)
	}
}

func TestCumulativeBalance(t *testing.T) {
	balances := CumulativeBalance(10000, []float64{500, -200, 100})

	expected := []float64{10500, 10300, 10400}
	for i, want := range expected {
		if balances[i] != want {
			t.Errorf("Balance[%d]: expected %f, got %f", i, want, balances[i])
		}
	}
}

func TestMaxDrawdown(t *testing.T) {
	tests := []struct {
		name     string
		balances []float64
		expected float64
	}{
		{
			name:     "Monotonic rise has no drawdown",
			balances: []float64{100, 110, 120},
			expected: 0,
		},
		{
			name:     "Single decline",
			balances: []float64{100, 80, 90},
			expected: 0.2, // (100-80)/100
		},
		{
			name:     "Deepest trough wins",
			balances: []float64{100, 90, 120, 60, 110},
			expected: 0.5, // (120-60)/120
		},
		{
			name:     "Too short",
			balances: []float64{100},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MaxDrawdown(tt.balances)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Expected %f, got %f", tt.expected, got)
			}
		})
	}
}

func TestSharpeRatio_ZeroVariance(t *testing.T) {
	if got := SharpeRatio([]float64{0.01, 0.01, 0.01}); got != 0 {
		t.Errorf("Expected 0 for constant returns, got %f", got)
	}
}

func TestSharpeRatio_Annualized(t *testing.T) {
	returns := []float64{0.01, 0.02, -0.005, 0.015}

	mean := Mean(returns)
	std := StdDev(returns)
	expected := mean / std * math.Sqrt(252)

	got := SharpeRatio(returns)
	if math.Abs(got-expected) > 1e-9 {
		t.Errorf("Expected %f, got %f", expected, got)
	}
}
