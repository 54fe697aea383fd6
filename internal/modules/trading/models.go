package trading

import (
	"fmt"
	"strings"
	"time"
)

// Side represents the trade direction (BUY or SELL)
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// IsValid checks if the side is valid
func (s Side) IsValid() bool {
	return s == SideBuy || s == SideSell
}

// SideFromString creates a Side from a string (case-insensitive)
func SideFromString(value string) (Side, error) {
	if value == "" {
		return "", fmt.Errorf("invalid side: empty string")
	}

	side := Side(strings.ToUpper(value))
	if !side.IsValid() {
		return "", fmt.Errorf("invalid side: %s", value)
	}

	return side, nil
}

// ClosedTrade is one settled trade in the journal
type ClosedTrade struct {
	ID         int        `json:"id"`
	Symbol     string     `json:"symbol"`
	Side       Side       `json:"side"`
	Lots       float64    `json:"lots"`
	EntryPrice float64    `json:"entry_price,omitempty"`
	ExitPrice  float64    `json:"exit_price,omitempty"`
	PnL        float64    `json:"pnl"`
	OpenedAt   *time.Time `json:"opened_at,omitempty"`
	ExitTime   time.Time  `json:"exit_time"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
}

// Validate validates trade data and normalizes the symbol
func (t *ClosedTrade) Validate() error {
	if strings.TrimSpace(t.Symbol) == "" {
		return fmt.Errorf("symbol cannot be empty")
	}

	side, err := SideFromString(string(t.Side))
	if err != nil {
		return err
	}
	t.Side = side

	if t.Lots <= 0 {
		return fmt.Errorf("lots must be positive")
	}

	if t.ExitTime.IsZero() {
		return fmt.Errorf("exit time is required")
	}

	// Normalize symbol
	t.Symbol = strings.ToUpper(strings.TrimSpace(t.Symbol))

	return nil
}
