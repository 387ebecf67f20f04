// Package engine implements the content production workflow engine: a
// catalog of step-graph definitions, quality gates backed by the scoring
// engine, a retrying step runner, and the executor that walks a compiled
// plan stage by stage with parallel fan-out.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/quill/internal/capability"
	"github.com/JaimeStill/quill/workflow"
)

// Executor walks a workflow plan stage by stage. Each stage's output
// feeds the next stage's input; parallel stage members run concurrently
// against the same upstream artifact and settle before the successor
// starts. The executor itself never retries; retry belongs to the
// runner. It always returns a complete execution result so partial
// pipelines remain inspectable.
type Executor struct {
	catalog *Catalog
	runner  *Runner
	logger  *slog.Logger
}

// Options configures an executor.
type Options struct {
	Capabilities *capability.Registry
	Gates        GateConfig
	Logger       *slog.Logger

	// RetryBudget applies to gated catalog steps.
	RetryBudget int

	// StepTimeout bounds a single collaborator invocation.
	StepTimeout time.Duration

	// Sink receives per-attempt step events. Defaults to a log sink.
	Sink EventSink
}

// New creates an executor, building and validating the workflow catalog.
// A malformed definition fails construction rather than an execution.
func New(opts Options) (*Executor, error) {
	catalog, err := NewCatalog(opts.Gates, opts.RetryBudget)
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}

	if opts.Sink == nil {
		opts.Sink = NewLogSink(opts.Logger)
	}
	if opts.StepTimeout <= 0 {
		opts.StepTimeout = 2 * time.Minute
	}

	return &Executor{
		catalog: catalog,
		runner:  NewRunner(opts.Capabilities, opts.Logger, opts.Sink, opts.StepTimeout),
		logger:  opts.Logger.With("system", "executor"),
	}, nil
}

// Catalog exposes the validated workflow catalog.
func (e *Executor) Catalog() *Catalog {
	return e.catalog
}

// Execute runs the workflow selected by the request's content types.
// Selection and validation errors are returned directly as precondition
// violations; step failures never escape as errors, they are captured
// in the execution result.
func (e *Executor) Execute(ctx context.Context, req *workflow.Request) (*workflow.ExecutionResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	plan, err := e.catalog.Select(req.ContentTypes)
	if err != nil {
		return nil, err
	}

	result := &workflow.ExecutionResult{
		Workflow:  plan.Definition.Name,
		Version:   plan.Definition.Version,
		Artifacts: make(map[string]workflow.Artifact),
		StartedAt: time.Now(),
	}

	e.logger.InfoContext(
		ctx, "execution started",
		"workflow", plan.Definition.Name,
		"steps", plan.StepCount(),
	)

	var upstream workflow.Artifact
	var fatal error

	for i, stage := range plan.Stages {
		if fatal != nil {
			skipStage(result, stage, "upstream step failed")
			continue
		}

		// The deadline is a soft cutoff: no new step starts after it
		// passes, but in-flight steps run to completion.
		if req.PastDeadline(time.Now()) {
			skipStage(result, stage, "request deadline elapsed")
			fatal = fmt.Errorf("request deadline elapsed")
			continue
		}

		if len(stage) == 1 {
			upstream, fatal = e.runSingle(ctx, result, stage[0], req, upstream)
			continue
		}

		upstream, fatal = e.runParallel(ctx, result, i, stage, req, upstream)
	}

	result.Success = fatal == nil
	result.CompletedAt = time.Now()
	if fatal != nil {
		result.Error = fatal.Error()
	}

	e.logger.InfoContext(
		ctx, "execution finished",
		"workflow", plan.Definition.Name,
		"success", result.Success,
	)

	return result, nil
}

func (e *Executor) runSingle(
	ctx context.Context,
	result *workflow.ExecutionResult,
	step *workflow.StepSpec,
	req *workflow.Request,
	upstream workflow.Artifact,
) (workflow.Artifact, error) {
	res := e.runner.Run(ctx, step, req, upstream)
	record(result, res)

	if res.Status == workflow.StatusFailed {
		return upstream, fmt.Errorf("step %s failed: %s", step.ID, res.Error)
	}
	return *res.Artifact, nil
}

// runParallel fans a stage out across workers and waits for every
// member to settle. A failed member prevents not-yet-started siblings
// from starting; already-running siblings finish rather than being
// cancelled, to avoid partially written artifacts. Successors receive
// the member outputs bundled by step id.
func (e *Executor) runParallel(
	ctx context.Context,
	result *workflow.ExecutionResult,
	stageIndex int,
	stage []*workflow.StepSpec,
	req *workflow.Request,
	upstream workflow.Artifact,
) (workflow.Artifact, error) {
	results := make([]workflow.StepResult, len(stage))
	var failed atomic.Bool

	g := new(errgroup.Group)
	g.SetLimit(workerCount(len(stage)))

	for i, step := range stage {
		g.Go(func() error {
			if failed.Load() {
				results[i] = skippedResult(step, "parallel sibling failed")
				return nil
			}
			if req.PastDeadline(time.Now()) {
				results[i] = skippedResult(step, "request deadline elapsed")
				return nil
			}

			results[i] = e.runner.Run(ctx, step, req, upstream)
			if results[i].Status == workflow.StatusFailed {
				failed.Store(true)
			}
			return nil
		})
	}
	g.Wait()

	members := make(map[string]workflow.Artifact, len(stage))
	var fatal error

	for _, res := range results {
		record(result, res)
		switch res.Status {
		case workflow.StatusSucceeded:
			members[res.StepID] = *res.Artifact
		case workflow.StatusFailed:
			if fatal == nil {
				fatal = fmt.Errorf("step %s failed: %s", res.StepID, res.Error)
			}
		case workflow.StatusSkipped:
			if fatal == nil && res.SkipReason == "request deadline elapsed" {
				fatal = fmt.Errorf("request deadline elapsed")
			}
		}
	}

	if fatal != nil {
		return upstream, fatal
	}

	return workflow.Bundle(fmt.Sprintf("stage-%d", stageIndex), members), nil
}

func record(result *workflow.ExecutionResult, res workflow.StepResult) {
	result.Steps = append(result.Steps, res)
	if res.Artifact != nil {
		result.Artifacts[res.StepID] = *res.Artifact
	}
}

func skipStage(result *workflow.ExecutionResult, stage []*workflow.StepSpec, reason string) {
	for _, step := range stage {
		record(result, skippedResult(step, reason))
	}
}

func skippedResult(step *workflow.StepSpec, reason string) workflow.StepResult {
	now := time.Now()
	return workflow.StepResult{
		StepID:      step.ID,
		Capability:  step.Capability,
		Status:      workflow.StatusSkipped,
		SkipReason:  reason,
		StartedAt:   now,
		CompletedAt: now,
	}
}

func workerCount(members int) int {
	return max(min(runtime.NumCPU(), members), 1)
}
