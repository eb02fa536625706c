// Package report fans figure generation out across tracks and aggregates the
// per-track outcomes into a run summary.
package report

// Status classifies the result of one track's unit of work.
type Status string

const (
	// StatusSuccess means the track loaded and all figures were written.
	StatusSuccess Status = "success"

	// StatusNotFound means the track's results directory was absent; the
	// loader is never invoked in this case.
	StatusNotFound Status = "not_found"

	// StatusError means the unit failed with an ordinary error (load,
	// decode, or render).
	StatusError Status = "error"

	// StatusException means the unit panicked and was recovered.
	StatusException Status = "exception"
)

// TrackOutcome is the immutable result of one unit of work.
type TrackOutcome struct {
	TrackID   int    `json:"track_num"`
	Status    Status `json:"status"`
	Reversals int    `json:"reversals"`
	Error     string `json:"error,omitempty"`
}

// RunSummary aggregates a run's outcomes. Tracks holds outcomes in
// completion order, which varies between runs; the totals do not.
type RunSummary struct {
	RunID          string         `json:"run_id"`
	Tracks         []TrackOutcome `json:"tracks"`
	TotalReversals int            `json:"total_reversals"`
}

// SuccessCount returns the number of successful outcomes.
func (s *RunSummary) SuccessCount() int {
	n := 0
	for _, t := range s.Tracks {
		if t.Status == StatusSuccess {
			n++
		}
	}
	return n
}
