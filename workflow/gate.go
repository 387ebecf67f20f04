package workflow

import "context"

// GateMode controls how a gate's verdict affects the bound step.
type GateMode string

// Gate modes.
const (
	// GateStrict fails the bound step on any blocking issue or
	// sub-threshold score.
	GateStrict GateMode = "strict"

	// GateAdvisory records issues and low scores but forces passed=true
	// so the pipeline continues.
	GateAdvisory GateMode = "advisory"
)

// GateResult is the outcome of evaluating one artifact against a quality
// gate. Issues block in strict mode; Suggestions never block.
type GateResult struct {
	Passed      bool     `json:"passed"`
	Score       float64  `json:"score"`
	Threshold   float64  `json:"threshold"`
	Issues      []string `json:"issues,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`

	// Advisory records that the gate ran in advisory mode, either by
	// step configuration or request-level override.
	Advisory bool `json:"advisory,omitempty"`
}

// Blocked reports whether the underlying evaluation would have failed a
// strict gate, regardless of advisory forcing: any blocking issue or a
// score below the gate threshold.
func (r *GateResult) Blocked() bool {
	return len(r.Issues) > 0 || r.Score < r.Threshold
}

// Gate decides whether a step's output artifact may proceed. Evaluation
// must be deterministic: the same artifact always yields the same result.
type Gate interface {
	Name() string
	Mode() GateMode
	Evaluate(ctx context.Context, artifact Artifact) GateResult
}
