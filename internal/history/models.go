package history

import "time"

// Status represents the lifecycle of a run or one of its jobs.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	// StatusInvalid marks runs rejected before extraction, such as a
	// malformed cue sheet or an incomplete track.
	StatusInvalid  Status = "invalid"
	StatusCanceled Status = "canceled"
)

// IsTerminal reports whether no further transitions are expected.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusInvalid, StatusCanceled:
		return true
	}
	return false
}

// Run is one invocation of the split pipeline against a cue sheet.
type Run struct {
	ID           string
	CuePath      string
	OutputDir    string
	Status       Status
	ErrorMessage string
	JobCount     int
	StartedAt    time.Time
	FinishedAt   time.Time
}

// Elapsed returns the wall time of a finished run, or zero while running.
func (r Run) Elapsed() time.Duration {
	if r.FinishedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// JobRecord is the persisted state of a single planned extraction.
type JobRecord struct {
	RunID           string
	Position        int
	SourcePath      string
	OutputFilename  string
	StartSeconds    float64
	DurationSeconds *float64
	Status          Status
	ErrorMessage    string
	UpdatedAt       time.Time
}
