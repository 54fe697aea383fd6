package sessions

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// serverTimezone is the broker server timezone (EET). All session windows
// and the weekend rule are expressed in server time.
const serverTimezone = "Europe/Kiev"

// marketOpenHour is the Sunday open / Friday close boundary in server time
const marketOpenHour = 22

// Window is a named daily session interval in server time. Windows may wrap
// past midnight.
type Window struct {
	Name        string
	StartHour   int
	StartMinute int
	EndHour     int
	EndMinute   int
}

// Status describes the market state at a point in time
type Status struct {
	MarketOpen bool     `json:"market_open"`
	Weekend    bool     `json:"is_weekend"`
	Sessions   []string `json:"sessions"`
	Message    string   `json:"message"`
}

// Gate answers whether the market is open and which sessions are active.
// The session table is fixed; it is not runtime configuration.
type Gate struct {
	loc     *time.Location
	windows []Window
	log     zerolog.Logger
}

// NewGate creates a session gate with the standard forex session table
func NewGate(log zerolog.Logger) (*Gate, error) {
	loc, err := time.LoadLocation(serverTimezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load server timezone: %w", err)
	}

	return &Gate{
		loc: loc,
		windows: []Window{
			{Name: "Asian Session", StartHour: 1, StartMinute: 0, EndHour: 10, EndMinute: 0},
			{Name: "London Session", StartHour: 9, StartMinute: 0, EndHour: 17, EndMinute: 30},
			{Name: "New York Session", StartHour: 15, StartMinute: 30, EndHour: 22, EndMinute: 0},
			{Name: "London-NY Overlap", StartHour: 15, StartMinute: 30, EndHour: 17, EndMinute: 30},
		},
		log: log.With().Str("component", "session_gate").Logger(),
	}, nil
}

// Location returns the server timezone
func (g *Gate) Location() *time.Location {
	return g.loc
}

// IsWeekend reports whether the forex market is in its weekend break.
// Saturday all day, Sunday before 22:00 server time, and Friday at or after
// 22:00 server time are closed.
func (g *Gate) IsWeekend(t time.Time) bool {
	st := t.In(g.loc)

	switch st.Weekday() {
	case time.Saturday:
		return true
	case time.Sunday:
		return st.Hour() < marketOpenHour
	case time.Friday:
		return st.Hour() >= marketOpenHour
	default:
		return false
	}
}

// Current determines the market state and active sessions at the given time
func (g *Gate) Current(t time.Time) Status {
	st := t.In(g.loc)

	if g.IsWeekend(st) {
		return g.weekendStatus(st)
	}

	minute := minuteOfDay(st)

	var active []string
	for _, w := range g.windows {
		if w.contains(minute) {
			active = append(active, w.Name)
		}
	}

	if len(active) > 0 {
		joined := strings.Join(active, " + ")
		return Status{
			MarketOpen: true,
			Sessions:   active,
			Message:    "Market open - " + joined,
		}
	}

	// Open but outside the named windows
	return Status{
		MarketOpen: true,
		Sessions:   []string{"Pre-market"},
		Message:    "Market open - quiet time. Next session: " + nextSession(minute),
	}
}

// TradingStatus returns the full market snapshot for display
func (g *Gate) TradingStatus(t time.Time) map[string]interface{} {
	st := t.In(g.loc)
	status := g.Current(st)

	return map[string]interface{}{
		"market_open":     status.MarketOpen,
		"is_weekend":      status.Weekend,
		"current_session": strings.Join(status.Sessions, " + "),
		"message":         status.Message,
		"server_time":     st.Format("2006-01-02 15:04:05 MST"),
		"weekday":         st.Weekday().String(),
	}
}

func (g *Gate) weekendStatus(st time.Time) Status {
	var msg string
	switch st.Weekday() {
	case time.Saturday:
		msg = "Market closed - Saturday. Opens Sunday 22:00"
	case time.Sunday:
		hoursUntilOpen := marketOpenHour - st.Hour()
		msg = fmt.Sprintf("Market closed - Sunday. Opens in %dh (at 22:00)", hoursUntilOpen)
	default: // Friday after the close
		msg = "Market closed - Friday (after 22:00). Opens Sunday 22:00"
	}

	return Status{
		MarketOpen: false,
		Weekend:    true,
		Message:    msg,
	}
}

// contains tests window membership, inclusive of both ends. Windows that
// wrap past midnight use the inverted test: inside when at/after start OR
// at/before end.
func (w Window) contains(minute int) bool {
	start := w.StartHour*60 + w.StartMinute
	end := w.EndHour*60 + w.EndMinute

	if start <= end {
		return start <= minute && minute <= end
	}
	return minute >= start || minute <= end
}

// nextSession names the upcoming session for quiet-time reporting. The
// thresholds do not consult the weekend rule; late Friday reports the Asian
// open even though Saturday is closed.
func nextSession(minute int) string {
	switch {
	case minute < 1*60:
		return "Asian (01:00)"
	case minute < 9*60:
		return "London (09:00)"
	case minute < 15*60+30:
		return "New York (15:30)"
	default:
		return "Asian (01:00 next day)"
	}
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
