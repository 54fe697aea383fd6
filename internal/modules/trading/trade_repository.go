package trading

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// TradeRepository handles trade journal database operations
type TradeRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewTradeRepository creates a new trade repository
func NewTradeRepository(db *sql.DB, log zerolog.Logger) *TradeRepository {
	return &TradeRepository{
		db:  db,
		log: log.With().Str("repo", "trade").Logger(),
	}
}

// Create inserts a new closed trade record
func (r *TradeRepository) Create(trade *ClosedTrade) error {
	now := time.Now().Format(time.RFC3339)

	var openedAt interface{}
	if trade.OpenedAt != nil {
		openedAt = trade.OpenedAt.Format(time.RFC3339)
	}

	query := `
		INSERT INTO trades
		(symbol, direction, lots, entry_price, exit_price, pnl, opened_at, exit_time, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query,
		trade.Symbol,
		string(trade.Side),
		trade.Lots,
		trade.EntryPrice,
		trade.ExitPrice,
		trade.PnL,
		openedAt,
		trade.ExitTime.Format(time.RFC3339),
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create trade: %w", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		trade.ID = int(id)
	}

	return nil
}

// History returns the most recent trades, newest first
func (r *TradeRepository) History(limit int) ([]ClosedTrade, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, symbol, direction, lots, entry_price, exit_price, pnl, opened_at, exit_time, created_at
		FROM trades
		ORDER BY exit_time DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query trade history: %w", err)
	}
	defer rows.Close()

	return scanTrades(rows)
}

// AllByExitTime returns every trade ordered by exit time ascending
func (r *TradeRepository) AllByExitTime() ([]ClosedTrade, error) {
	query := `
		SELECT id, symbol, direction, lots, entry_price, exit_price, pnl, opened_at, exit_time, created_at
		FROM trades
		ORDER BY exit_time ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	return scanTrades(rows)
}

// Count returns the number of journaled trades
func (r *TradeRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM trades`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count trades: %w", err)
	}
	return count, nil
}

func scanTrades(rows *sql.Rows) ([]ClosedTrade, error) {
	trades := []ClosedTrade{}

	for rows.Next() {
		var t ClosedTrade
		var side string
		var openedAt, exitTime, createdAt sql.NullString
		var entryPrice, exitPrice sql.NullFloat64

		if err := rows.Scan(&t.ID, &t.Symbol, &side, &t.Lots, &entryPrice, &exitPrice,
			&t.PnL, &openedAt, &exitTime, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}

		t.Side = Side(side)
		t.EntryPrice = entryPrice.Float64
		t.ExitPrice = exitPrice.Float64

		if openedAt.Valid {
			if parsed, err := time.Parse(time.RFC3339, openedAt.String); err == nil {
				t.OpenedAt = &parsed
			}
		}
		if exitTime.Valid {
			if parsed, err := time.Parse(time.RFC3339, exitTime.String); err == nil {
				t.ExitTime = parsed
			}
		}
		if createdAt.Valid {
			if parsed, err := time.Parse(time.RFC3339, createdAt.String); err == nil {
				t.CreatedAt = &parsed
			}
		}

		trades = append(trades, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trades: %w", err)
	}

	return trades, nil
}
