package risk

import (
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// standardLotUnits converts a quote-currency stop distance into lots.
// Tuned for USD-quoted FX pairs with 100k-unit standard lots (EURUSD);
// instruments with other contract sizes need their own divisor.
const standardLotUnits = 100000

const dateKeyFormat = "2006-01-02"

// dayCounters tracks per-day activity. Keyed by the evaluation host's
// calendar date, so a trade settled after midnight counts against the
// settlement date.
type dayCounters struct {
	trades int
	pnl    float64
}

// Policy gates trade entry against the configured limits and tracks the
// counters the limits are checked against. Safe for concurrent use: HTTP
// handlers and the eviction job share one policy, and the mutex keeps each
// increment-and-check sequence atomic so parallel evaluations cannot overrun
// the daily limits.
type Policy struct {
	mu            sync.Mutex
	limits        Limits
	openPositions int
	daily         map[string]*dayCounters
	now           func() time.Time
	log           zerolog.Logger
}

// NewPolicy creates a risk policy with the given limits
func NewPolicy(limits Limits, log zerolog.Logger) *Policy {
	return &Policy{
		limits: limits,
		daily:  make(map[string]*dayCounters),
		now:    time.Now,
		log:    log.With().Str("component", "risk_policy").Logger(),
	}
}

// SetClock overrides the policy's clock. Used by tests.
func (p *Policy) SetClock(now func() time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.now = now
}

// CanOpen checks whether a new position of the given size may be opened.
// Fails closed: any breached limit rejects, and the breach is logged.
func (p *Policy) CanOpen(instrument string, lotSize, accountBalance float64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.canOpen(instrument, lotSize, accountBalance)
}

// canOpen runs the limit checks. Callers must hold p.mu.
func (p *Policy) canOpen(instrument string, lotSize, accountBalance float64) bool {
	if p.openPositions >= p.limits.MaxOpenPositions {
		p.log.Warn().
			Str("instrument", instrument).
			Int("open_positions", p.openPositions).
			Int("max", p.limits.MaxOpenPositions).
			Msg("Maximum open positions reached")
		return false
	}

	if lotSize > p.limits.MaxLotSize {
		p.log.Warn().
			Str("instrument", instrument).
			Float64("lot_size", lotSize).
			Float64("max", p.limits.MaxLotSize).
			Msg("Lot size exceeds maximum")
		return false
	}

	today := p.today()
	if today.trades >= p.limits.MaxDailyTrades {
		p.log.Warn().
			Str("instrument", instrument).
			Int("daily_trades", today.trades).
			Int("max", p.limits.MaxDailyTrades).
			Msg("Daily trades limit reached")
		return false
	}

	lossLimit := accountBalance * p.limits.MaxDailyLossPercent / 100
	if today.pnl < -lossLimit {
		p.log.Warn().
			Str("instrument", instrument).
			Float64("daily_pnl", today.pnl).
			Float64("limit", lossLimit).
			Msg("Daily loss limit reached")
		return false
	}

	return true
}

// ValidateSignal checks a proposed signal's SL/TP levels against the current
// price, derives the position size from the fractional-risk formula, and
// runs the limit checks. Sizing and check happen under one lock so a second
// signal cannot slip in between. Rejections are logged, never raised.
func (p *Policy) ValidateSignal(sig Signal, currentPrice, accountBalance float64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if sig.StopLoss == 0 || sig.TakeProfit == 0 {
		p.log.Error().
			Str("instrument", sig.Instrument).
			Msg("Signal missing SL or TP")
		return false
	}

	direction, err := DirectionFromString(string(sig.Direction))
	if err != nil {
		p.log.Error().
			Str("instrument", sig.Instrument).
			Str("direction", string(sig.Direction)).
			Msg("Unknown signal direction")
		return false
	}

	if direction == DirectionBuy {
		// BUY: SL < price < TP
		if !(sig.StopLoss < currentPrice && currentPrice < sig.TakeProfit) {
			p.log.Warn().
				Str("instrument", sig.Instrument).
				Float64("price", currentPrice).
				Float64("sl", sig.StopLoss).
				Float64("tp", sig.TakeProfit).
				Msg("Invalid SL/TP levels for BUY signal")
			return false
		}
	} else {
		// SELL: TP < price < SL
		if !(sig.TakeProfit < currentPrice && currentPrice < sig.StopLoss) {
			p.log.Warn().
				Str("instrument", sig.Instrument).
				Float64("price", currentPrice).
				Float64("sl", sig.StopLoss).
				Float64("tp", sig.TakeProfit).
				Msg("Invalid SL/TP levels for SELL signal")
			return false
		}
	}

	riskPercent := sig.RiskPercent
	if riskPercent == 0 {
		riskPercent = 1.0
	}

	stopDistance := math.Abs(currentPrice - sig.StopLoss)
	if stopDistance == 0 {
		p.log.Error().
			Str("instrument", sig.Instrument).
			Msg("Stop distance cannot be zero")
		return false
	}

	riskAmount := accountBalance * riskPercent / 100
	lotSize := riskAmount / (stopDistance * standardLotUnits)

	return p.canOpen(sig.Instrument, lotSize, accountBalance)
}

// RecordTrade settles one closed trade against today's counters.
// Callers must invoke exactly once per trade.
func (p *Policy) RecordTrade(pnl float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	today := p.today()
	today.trades++
	today.pnl += pnl

	p.log.Debug().
		Float64("pnl", pnl).
		Int("daily_trades", today.trades).
		Float64("daily_pnl", today.pnl).
		Msg("Trade recorded")
}

// NotifyOpened registers a newly opened position
func (p *Policy) NotifyOpened() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.openPositions++
}

// NotifyClosed registers a closed position, floored at zero
func (p *Policy) NotifyClosed() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.openPositions > 0 {
		p.openPositions--
	}
}

// CurrentStatus returns a snapshot of the counters and configured limits
func (p *Policy) CurrentStatus() Status {
	p.mu.Lock()
	defer p.mu.Unlock()

	today := p.today()

	return Status{
		OpenPositions:       p.openPositions,
		DailyTrades:         today.trades,
		DailyPnL:            today.pnl,
		MaxDailyLossPercent: p.limits.MaxDailyLossPercent,
		MaxOpenPositions:    p.limits.MaxOpenPositions,
		MaxLotSize:          p.limits.MaxLotSize,
		MaxDailyTrades:      p.limits.MaxDailyTrades,
	}
}

// EvictStale drops daily counter entries older than the retention window and
// returns the number of evicted entries. Only today's entry is ever read, so
// old entries are pure memory cost.
func (p *Policy) EvictStale(retention time.Duration) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	cutoff := p.now().Add(-retention).Format(dateKeyFormat)

	evicted := 0
	for key := range p.daily {
		if key < cutoff {
			delete(p.daily, key)
			evicted++
		}
	}

	if evicted > 0 {
		p.log.Debug().Int("evicted", evicted).Msg("Evicted stale daily counters")
	}

	return evicted
}

// today returns the counter row for the current calendar date, creating it
// on first access (implicit reset on date rollover). Callers must hold p.mu.
func (p *Policy) today() *dayCounters {
	key := p.now().Format(dateKeyFormat)

	counters, ok := p.daily[key]
	if !ok {
		counters = &dayCounters{}
		p.daily[key] = counters
	}

	return counters
}
