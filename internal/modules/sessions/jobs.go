package sessions

import (
	"time"

	"github.com/rs/zerolog"
)

// StatusLogJob logs the market status on a cadence so session transitions
// show up in the service log.
type StatusLogJob struct {
	gate *Gate
	log  zerolog.Logger

	lastOpen    bool
	lastMessage string
	initialized bool
}

// NewStatusLogJob creates a status log job
func NewStatusLogJob(gate *Gate, log zerolog.Logger) *StatusLogJob {
	return &StatusLogJob{
		gate: gate,
		log:  log.With().Str("job", "session_status").Logger(),
	}
}

// Name returns the job name
func (j *StatusLogJob) Name() string {
	return "session_status_log"
}

// Run logs the current market status when it changed since the last run
func (j *StatusLogJob) Run() error {
	status := j.gate.Current(time.Now())

	if j.initialized && status.MarketOpen == j.lastOpen && status.Message == j.lastMessage {
		return nil
	}

	j.log.Info().
		Bool("market_open", status.MarketOpen).
		Strs("sessions", status.Sessions).
		Msg(status.Message)

	j.initialized = true
	j.lastOpen = status.MarketOpen
	j.lastMessage = status.Message

	return nil
}
