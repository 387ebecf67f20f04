package workflow

import "time"

// MaxRetryBudget caps per-step retries.
const MaxRetryBudget = 3

// StepSpec is the static description of one workflow step: the external
// capability it invokes, the bound quality gate, ordering dependencies,
// and its retry budget.
type StepSpec struct {
	// ID uniquely identifies the step within its definition.
	ID string `json:"id"`

	// Capability names the external production capability invoked for
	// this step, e.g. "research" or "draft".
	Capability string `json:"capability"`

	// ContentType scopes fan-out steps to one deliverable type. Empty
	// for shared upstream steps.
	ContentType ContentType `json:"content_type,omitempty"`

	// After lists the ids of steps that must complete before this step
	// starts. Steps sharing identical After sets and successor sets form
	// a parallel group.
	After []string `json:"after,omitempty"`

	// Gate is the bound quality gate, nil when the step is ungated.
	Gate Gate `json:"-"`

	// RetryBudget is the number of re-invocations permitted after a gate
	// failure or collaborator error. The capability is invoked at most
	// RetryBudget+1 times.
	RetryBudget int `json:"retry_budget"`

	// Timeout bounds a single collaborator invocation. Zero means the
	// engine default applies.
	Timeout time.Duration `json:"timeout,omitempty"`
}

// Gated reports whether the step carries a quality gate.
func (s *StepSpec) Gated() bool {
	return s.Gate != nil
}
