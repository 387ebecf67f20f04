// Package workflow defines the foundational types for the Quill content
// production engine: requests, artifacts, step specifications, workflow
// definitions, and the result types produced by an execution. It carries
// no execution logic; the engine package walks these structures.
package workflow

import "errors"

// Sentinel errors for workflow operations.
var (
	// ErrInvalidRequest indicates a submission missing required fields.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrUnknownContentType indicates no registered definition matches the
	// requested content types. Raised before any step runs.
	ErrUnknownContentType = errors.New("no workflow registered for content type")

	// ErrStructural indicates a malformed workflow definition (cycle,
	// dangling reference, mismatched parallel group). Detected at load
	// time; aborts startup rather than a single execution.
	ErrStructural = errors.New("invalid workflow definition")

	// ErrCollaborator indicates the external capability backing a step
	// returned an error or exceeded its timeout.
	ErrCollaborator = errors.New("collaborator failed")

	// ErrGateFailed indicates an artifact failed its bound quality gate
	// after the step's retry budget was exhausted.
	ErrGateFailed = errors.New("quality gate failed")
)
