package runs

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/JaimeStill/quill/pkg/query"
	"github.com/JaimeStill/quill/pkg/repository"
	"github.com/JaimeStill/quill/workflow"
)

var projection = query.
	NewProjectionMap("public", "runs", "r").
	Project("id", "ID").
	Project("workflow", "Workflow").
	Project("version", "Version").
	Project("status", "Status").
	Project("request", "Request").
	Project("steps", "Steps").
	Project("error", "Error").
	Project("submitted_at", "SubmittedAt").
	Project("completed_at", "CompletedAt")

var defaultSort = query.SortField{
	Field:      "SubmittedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for run queries.
// Nil fields are ignored. All fields use exact matching.
type Filters struct {
	Workflow *string `json:"workflow,omitempty"`
	Status   *string `json:"status,omitempty"`
	Success  *bool   `json:"success,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	b.WhereEquals("Workflow", f.Workflow).
		WhereEquals("Status", f.Status)

	if f.Success != nil {
		status := StatusFailed
		if *f.Success {
			status = StatusSucceeded
		}
		b.WhereEquals("Status", &status)
	}

	return b
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if w := values.Get("workflow"); w != "" {
		f.Workflow = &w
	}

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if s := values.Get("success"); s != "" {
		if ok, err := strconv.ParseBool(s); err == nil {
			f.Success = &ok
		}
	}

	return f
}

func scanRun(s repository.Scanner) (Run, error) {
	var r Run
	var requestRaw, stepsRaw []byte

	err := s.Scan(
		&r.ID,
		&r.Workflow,
		&r.Version,
		&r.Status,
		&requestRaw,
		&stepsRaw,
		&r.Error,
		&r.SubmittedAt,
		&r.CompletedAt,
	)

	if err != nil {
		return r, err
	}

	if len(requestRaw) > 0 {
		if err := json.Unmarshal(requestRaw, &r.Request); err != nil {
			return r, fmt.Errorf("unmarshal request: %w", err)
		}
	}

	if len(stepsRaw) > 0 {
		if err := json.Unmarshal(stepsRaw, &r.Steps); err != nil {
			return r, fmt.Errorf("unmarshal steps: %w", err)
		}
	}

	if r.Steps == nil {
		r.Steps = []workflow.StepResult{}
	}

	return r, nil
}
