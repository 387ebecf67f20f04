package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/JaimeStill/quill/internal/capability"
	"github.com/JaimeStill/quill/workflow"
)

// Runner executes one step: it delegates production to the capability
// registered for the step type, evaluates the bound quality gate, and
// applies the step's retry budget. Gate-failure retries re-invoke the
// capability with the prior attempt's issues as feedback; collaborator
// errors and timeouts retry with unchanged input. The capability is
// invoked at most RetryBudget+1 times.
type Runner struct {
	caps           *capability.Registry
	logger         *slog.Logger
	sink           EventSink
	defaultTimeout time.Duration
}

// NewRunner creates a step runner.
func NewRunner(
	caps *capability.Registry,
	logger *slog.Logger,
	sink EventSink,
	defaultTimeout time.Duration,
) *Runner {
	if sink == nil {
		sink = NoopSink{}
	}
	return &Runner{
		caps:           caps,
		logger:         logger.With("system", "runner"),
		sink:           sink,
		defaultTimeout: defaultTimeout,
	}
}

// Run executes one step to a terminal result. Failures are captured in
// the result, never returned as errors.
func (r *Runner) Run(
	ctx context.Context,
	step *workflow.StepSpec,
	req *workflow.Request,
	input workflow.Artifact,
) workflow.StepResult {
	result := workflow.StepResult{
		StepID:     step.ID,
		Capability: step.Capability,
		Status:     workflow.StatusRunning,
		StartedAt:  time.Now(),
	}

	impl, err := r.caps.Resolve(step.Capability)
	if err != nil {
		return r.fail(ctx, result, fmt.Errorf("%w: %w", workflow.ErrCollaborator, err))
	}

	var feedback []string
	var lastErr error

	for attempt := 1; attempt <= step.RetryBudget+1; attempt++ {
		result.Attempts = attempt

		artifact, err := r.produce(ctx, impl, capability.Task{
			Step:     step,
			Request:  req,
			Input:    input,
			Feedback: feedback,
		})
		if err != nil {
			// Collaborator errors and timeouts retry on the same budget
			// without feedback annotation.
			lastErr = fmt.Errorf("%w: %w", workflow.ErrCollaborator, err)
			r.emit(ctx, &result, nil, lastErr)
			continue
		}

		if !step.Gated() {
			result.Artifact = &artifact
			return r.succeed(ctx, result)
		}

		gr := step.Gate.Evaluate(ctx, artifact)
		if req.AdvisoryOverride && !gr.Passed {
			gr.Passed = true
			gr.Advisory = true
		}
		result.Gate = &gr
		result.Artifact = &artifact

		if gr.Passed {
			if gr.Advisory && gr.Blocked() {
				r.logger.WarnContext(
					ctx, "advisory gate recorded issues",
					"step", step.ID,
					"score", gr.Score,
					"issues", len(gr.Issues),
				)
			}
			return r.succeed(ctx, result)
		}

		lastErr = fmt.Errorf("%w: %s", workflow.ErrGateFailed, step.Gate.Name())
		feedback = gr.Issues
		r.emit(ctx, &result, &gr, lastErr)
	}

	// Budget exhausted; the last gate result is preserved on the step.
	return r.fail(ctx, result, lastErr)
}

// produce invokes the capability under the step timeout. Exceeding the
// timeout is handled identically to a collaborator error.
func (r *Runner) produce(
	ctx context.Context,
	impl capability.Capability,
	task capability.Task,
) (workflow.Artifact, error) {
	timeout := task.Step.Timeout
	if timeout <= 0 {
		timeout = r.defaultTimeout
	}

	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return impl.Produce(cctx, task)
}

func (r *Runner) succeed(ctx context.Context, result workflow.StepResult) workflow.StepResult {
	result.Status = workflow.StatusSucceeded
	result.CompletedAt = time.Now()
	r.emit(ctx, &result, result.Gate, nil)
	return result
}

func (r *Runner) fail(ctx context.Context, result workflow.StepResult, err error) workflow.StepResult {
	result.Status = workflow.StatusFailed
	result.CompletedAt = time.Now()
	if err != nil {
		result.Error = err.Error()
	}
	r.emit(ctx, &result, result.Gate, err)
	return result
}

func (r *Runner) emit(ctx context.Context, result *workflow.StepResult, gr *workflow.GateResult, err error) {
	event := Event{
		StepID:     result.StepID,
		Capability: result.Capability,
		Attempt:    result.Attempts,
		Status:     result.Status,
		Gate:       gr,
		At:         time.Now(),
	}
	if err != nil {
		event.Error = err.Error()
	}
	r.sink.StepEvent(ctx, event)
}
