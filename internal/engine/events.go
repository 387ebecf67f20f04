package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/JaimeStill/quill/workflow"
)

// Event records one step attempt for observability. The runner emits one
// event per attempt; sinks must not block.
type Event struct {
	StepID     string               `json:"step_id"`
	Capability string               `json:"capability"`
	Attempt    int                  `json:"attempt"`
	Status     workflow.StepStatus  `json:"status"`
	Gate       *workflow.GateResult `json:"gate,omitempty"`
	Error      string               `json:"error,omitempty"`
	At         time.Time            `json:"at"`
}

// EventSink receives step attempt events. Implementations are append
// only; the engine never reads events back.
type EventSink interface {
	StepEvent(ctx context.Context, event Event)
}

// NoopSink discards all events.
type NoopSink struct{}

// StepEvent discards the event.
func (NoopSink) StepEvent(context.Context, Event) {}

type logSink struct {
	logger *slog.Logger
}

// NewLogSink returns a sink that logs each step attempt.
func NewLogSink(logger *slog.Logger) EventSink {
	return &logSink{logger: logger.With("system", "engine")}
}

func (s *logSink) StepEvent(ctx context.Context, event Event) {
	attrs := []any{
		"step", event.StepID,
		"capability", event.Capability,
		"attempt", event.Attempt,
		"status", event.Status,
	}
	if event.Gate != nil {
		attrs = append(attrs, "score", event.Gate.Score, "passed", event.Gate.Passed)
	}

	if event.Error != "" {
		attrs = append(attrs, "error", event.Error)
		s.logger.WarnContext(ctx, "step attempt", attrs...)
		return
	}

	s.logger.InfoContext(ctx, "step attempt", attrs...)
}
