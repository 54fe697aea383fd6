package risk

import (
	"fmt"
	"strings"
)

// Direction represents the trade direction (BUY or SELL)
type Direction string

const (
	DirectionBuy  Direction = "BUY"
	DirectionSell Direction = "SELL"
)

// IsValid checks if the direction is valid
func (d Direction) IsValid() bool {
	return d == DirectionBuy || d == DirectionSell
}

// DirectionFromString creates a Direction from a string (case-insensitive)
func DirectionFromString(value string) (Direction, error) {
	if value == "" {
		return "", fmt.Errorf("invalid direction: empty string")
	}

	direction := Direction(strings.ToUpper(value))
	if !direction.IsValid() {
		return "", fmt.Errorf("invalid direction: %s", value)
	}

	return direction, nil
}

// Signal is a proposed trade awaiting risk approval.
// Entry is the price the signal was generated against; the gate re-checks
// SL/TP ordering against the live price at evaluation time.
type Signal struct {
	Instrument  string    `json:"instrument"`
	Direction   Direction `json:"direction"`
	Entry       float64   `json:"entry"`
	StopLoss    float64   `json:"stop_loss"`
	TakeProfit  float64   `json:"take_profit"`
	RiskPercent float64   `json:"risk_percent"`
}

// Limits holds the configured risk limits. Immutable after construction.
type Limits struct {
	MaxDailyLossPercent float64 `json:"max_daily_loss_percent"`
	MaxOpenPositions    int     `json:"max_open_positions"`
	MaxLotSize          float64 `json:"max_lot_size"`
	MaxDailyTrades      int     `json:"max_daily_trades"`
}

// DefaultLimits returns the limits the product ships with
func DefaultLimits() Limits {
	return Limits{
		MaxDailyLossPercent: 5.0,
		MaxOpenPositions:    4,
		MaxLotSize:          1.0,
		MaxDailyTrades:      10,
	}
}

// Status is a read-only snapshot of the current counters and limits
type Status struct {
	OpenPositions       int     `json:"open_positions"`
	DailyTrades         int     `json:"daily_trades"`
	DailyPnL            float64 `json:"daily_pnl"`
	MaxDailyLossPercent float64 `json:"max_daily_loss_percent"`
	MaxOpenPositions    int     `json:"max_open_positions"`
	MaxLotSize          float64 `json:"max_lot_size"`
	MaxDailyTrades      int     `json:"max_daily_trades"`
}
