package workflow

import "time"

// StepStatus tracks a step's lifecycle.
type StepStatus string

// Step statuses.
const (
	StatusPending   StepStatus = "pending"
	StatusRunning   StepStatus = "running"
	StatusSucceeded StepStatus = "succeeded"
	StatusFailed    StepStatus = "failed"
	StatusSkipped   StepStatus = "skipped"
)

// Terminal reports whether the status is final.
func (s StepStatus) Terminal() bool {
	switch s {
	case StatusSucceeded, StatusFailed, StatusSkipped:
		return true
	}
	return false
}

// StepResult records one step's execution: status, produced artifact,
// gate verdict, attempt count, and timing. Created when the step starts
// and finalized on completion or retry exhaustion.
type StepResult struct {
	StepID      string      `json:"step_id"`
	Capability  string      `json:"capability"`
	Status      StepStatus  `json:"status"`
	Artifact    *Artifact   `json:"artifact,omitempty"`
	Gate        *GateResult `json:"gate,omitempty"`
	Attempts    int         `json:"attempts"`
	StartedAt   time.Time   `json:"started_at"`
	CompletedAt time.Time   `json:"completed_at"`
	Error       string      `json:"error,omitempty"`
	SkipReason  string      `json:"skip_reason,omitempty"`
}

// ExecutionResult is the terminal aggregate for one request: every step
// result in execution order, produced artifacts keyed by step id, and
// the first fatal error if any. Executions always return a complete
// result so partial pipelines remain inspectable.
type ExecutionResult struct {
	Workflow    string              `json:"workflow"`
	Version     string              `json:"version"`
	Success     bool                `json:"success"`
	Steps       []StepResult        `json:"steps"`
	Artifacts   map[string]Artifact `json:"artifacts"`
	Error       string              `json:"error,omitempty"`
	StartedAt   time.Time           `json:"started_at"`
	CompletedAt time.Time           `json:"completed_at"`
}

// FirstFailure returns the first failed step result, or nil when every
// step succeeded or was skipped.
func (r *ExecutionResult) FirstFailure() *StepResult {
	for i := range r.Steps {
		if r.Steps[i].Status == StatusFailed {
			return &r.Steps[i]
		}
	}
	return nil
}

// Issues returns the blocking issues of the first failed step, used as
// the user-facing explanation for an unsuccessful execution.
func (r *ExecutionResult) Issues() []string {
	failure := r.FirstFailure()
	if failure == nil || failure.Gate == nil {
		return nil
	}
	return failure.Gate.Issues
}

// Step returns the result for the given step id, or nil.
func (r *ExecutionResult) Step(id string) *StepResult {
	for i := range r.Steps {
		if r.Steps[i].StepID == id {
			return &r.Steps[i]
		}
	}
	return nil
}
