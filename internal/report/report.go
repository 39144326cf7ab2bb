// Package report records scenario outcomes and renders them.
package report

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Status is the outcome of one scenario.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Result is the outcome of one scenario run.
type Result struct {
	Name     string        `json:"name"`
	Status   Status        `json:"status"`
	Error    string        `json:"error,omitempty"`
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration"`
}

// Summary collects the results of one suite run.
type Summary struct {
	RunID    string    `json:"run_id"`
	BaseURL  string    `json:"base_url"`
	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished"`
	Results  []Result  `json:"results"`
}

// NewSummary starts a summary with a fresh run id.
func NewSummary(baseURL string, started time.Time) *Summary {
	return &Summary{
		RunID:   uuid.NewString(),
		BaseURL: baseURL,
		Started: started,
	}
}

// Add appends a result.
func (s *Summary) Add(r Result) {
	s.Results = append(s.Results, r)
}

func (s *Summary) count(status Status) int {
	n := 0
	for _, r := range s.Results {
		if r.Status == status {
			n++
		}
	}
	return n
}

func (s *Summary) Passed() int  { return s.count(StatusPassed) }
func (s *Summary) Failed() int  { return s.count(StatusFailed) }
func (s *Summary) Skipped() int { return s.count(StatusSkipped) }

// OK reports whether every scenario passed and at least one ran.
func (s *Summary) OK() bool {
	return len(s.Results) > 0 && s.Passed() == len(s.Results)
}

// Duration is the wall time of the run.
func (s *Summary) Duration() time.Duration {
	if s.Finished.IsZero() {
		return 0
	}
	return s.Finished.Sub(s.Started)
}

// Sink receives every finished summary, e.g. to export metrics or keep
// history.
type Sink interface {
	Publish(ctx context.Context, s *Summary) error
}
