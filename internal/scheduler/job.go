package scheduler

import (
	"context"
	"time"
)

// Job is a unit of scheduled work.
// ⭐ SSOT: the scheduled-job contract is defined here only
type Job interface {
	// Name identifies the job in logs and history
	Name() string

	// Run executes the job
	Run(ctx context.Context) error

	// Schedule is the cron expression (with seconds field),
	// e.g. "0 0 7 * * 1-5" for weekday mornings
	Schedule() string
}

// JobResult records one execution
type JobResult struct {
	JobName   string        `json:"job_name"`
	StartTime time.Time     `json:"start_time"`
	Duration  time.Duration `json:"duration"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

// maxHistory bounds per-job history growth
const maxHistory = 100

// JobHistory keeps a bounded run log per job
type JobHistory struct {
	Results []JobResult
}

// Add appends a result, dropping the oldest past the bound
func (h *JobHistory) Add(result JobResult) {
	h.Results = append(h.Results, result)
	if len(h.Results) > maxHistory {
		h.Results = h.Results[len(h.Results)-maxHistory:]
	}
}

// Last returns the most recent result
func (h *JobHistory) Last() (JobResult, bool) {
	if len(h.Results) == 0 {
		return JobResult{}, false
	}
	return h.Results[len(h.Results)-1], true
}
