package risk

import (
	"time"
)

// EvictionJob drops stale daily counters on a schedule, keeping the
// counter map bounded to the retention window.
type EvictionJob struct {
	policy    *Policy
	retention time.Duration
}

// NewEvictionJob creates an eviction job with the given retention window
func NewEvictionJob(policy *Policy, retentionDays int) *EvictionJob {
	return &EvictionJob{
		policy:    policy,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
	}
}

// Name returns the job name
func (j *EvictionJob) Name() string {
	return "risk_counter_eviction"
}

// Run evicts counters older than the retention window
func (j *EvictionJob) Run() error {
	j.policy.EvictStale(j.retention)
	return nil
}
