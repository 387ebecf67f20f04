// Package capability defines the production capability boundary: any
// component that can produce an artifact for a step type is a valid
// collaborator, whether it is backed by a model provider, a format
// writer, or a deterministic stub. The engine resolves capabilities by
// name and treats them as opaque blocking operations.
package capability

import (
	"context"
	"errors"
	"fmt"

	"github.com/JaimeStill/quill/workflow"
)

// Standard capability names referenced by the workflow catalog.
const (
	Research = "research"
	Brief    = "brief"
	Draft    = "draft"
	Render   = "render"
)

// ErrUnknownCapability indicates a step references a capability that is
// not registered.
var ErrUnknownCapability = errors.New("unknown capability")

// Task carries everything a capability needs to produce one artifact.
type Task struct {
	// Step is the spec of the step being executed.
	Step *workflow.StepSpec

	// Request is the originating workflow request. AdditionalContext
	// passes through unmodified.
	Request *workflow.Request

	// Input is the upstream artifact. Zero for entry steps.
	Input workflow.Artifact

	// Feedback carries the prior attempt's gate issues on a quality
	// retry. Empty on first attempts and collaborator-error retries.
	Feedback []string
}

// Capability produces an artifact for a step. Implementations must not
// mutate the input artifact.
type Capability interface {
	Produce(ctx context.Context, task Task) (workflow.Artifact, error)
}

// Func adapts a function to the Capability interface.
type Func func(ctx context.Context, task Task) (workflow.Artifact, error)

// Produce invokes the function.
func (f Func) Produce(ctx context.Context, task Task) (workflow.Artifact, error) {
	return f(ctx, task)
}

// Registry maps capability names to implementations. It is populated at
// startup and read-only afterward.
type Registry struct {
	caps map[string]Capability
}

// NewRegistry creates an empty capability registry.
func NewRegistry() *Registry {
	return &Registry{caps: make(map[string]Capability)}
}

// Register binds a capability implementation to a name, replacing any
// existing binding.
func (r *Registry) Register(name string, c Capability) {
	r.caps[name] = c
}

// Resolve returns the capability registered under name.
func (r *Registry) Resolve(name string) (Capability, error) {
	c, ok := r.caps[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCapability, name)
	}
	return c, nil
}

// Names returns the registered capability names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.caps))
	for name := range r.caps {
		names = append(names, name)
	}
	return names
}
