// Package runs implements the production run domain. It provides types,
// data access, and business logic for submitting content requests to the
// workflow engine and storing, querying, and inspecting the results.
package runs

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/quill/workflow"
)

// Run statuses. A run is inserted as running and settles to succeeded
// or failed when the workflow completes.
const (
	StatusRunning   = "running"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Run represents a stored production run. It mirrors the runs table
// schema with the request and per-step results held as JSON documents.
type Run struct {
	ID          uuid.UUID             `json:"id"`
	Workflow    string                `json:"workflow"`
	Version     string                `json:"version"`
	Status      string                `json:"status"`
	Request     workflow.Request      `json:"request"`
	Steps       []workflow.StepResult `json:"steps"`
	Error       *string               `json:"error"`
	SubmittedAt time.Time             `json:"submitted_at"`
	CompletedAt *time.Time            `json:"completed_at"`
}

// Succeeded reports whether the run completed with every step passing.
func (r *Run) Succeeded() bool {
	return r.Status == StatusSucceeded
}

// SubmitCommand carries a content request to execute. It is the JSON
// body of the submit endpoint.
type SubmitCommand struct {
	workflow.Request
}
