package workflow

import "time"

// ArtifactKind identifies the payload type carried by an artifact.
type ArtifactKind string

// Artifact kinds produced by the standard pipeline stages.
const (
	ArtifactResearch ArtifactKind = "research"
	ArtifactBrief    ArtifactKind = "brief"
	ArtifactDraft    ArtifactKind = "draft"
	ArtifactRendered ArtifactKind = "rendered"

	// ArtifactBundle aggregates the outputs of a parallel group for the
	// group's successor step. Payload is a map[string]Artifact keyed by
	// producing step id.
	ArtifactBundle ArtifactKind = "bundle"
)

// Artifact is an opaque typed payload passed between steps. Ownership
// transfers from the producing step to the consuming step; no step
// mutates another step's artifact in place.
type Artifact struct {
	Kind      ArtifactKind `json:"kind"`
	StepID    string       `json:"step_id"`
	Payload   any          `json:"payload"`
	CreatedAt time.Time    `json:"created_at"`
}

// NewArtifact creates an artifact stamped with the producing step.
func NewArtifact(kind ArtifactKind, stepID string, payload any) Artifact {
	return Artifact{
		Kind:      kind,
		StepID:    stepID,
		Payload:   payload,
		CreatedAt: time.Now(),
	}
}

// Bundle aggregates parallel group outputs into a single artifact keyed
// by producing step id.
func Bundle(stepID string, members map[string]Artifact) Artifact {
	return NewArtifact(ArtifactBundle, stepID, members)
}

// Payload extracts a typed payload from an artifact. It returns the
// zero value and false when the artifact carries a different type.
func Payload[T any](a Artifact) (T, bool) {
	v, ok := a.Payload.(T)
	return v, ok
}
