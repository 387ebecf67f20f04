package engine

import (
	"context"
	"fmt"

	"github.com/JaimeStill/quill/internal/content"
	"github.com/JaimeStill/quill/internal/voice"
	"github.com/JaimeStill/quill/workflow"
)

// Gate names used by the standard catalog.
const (
	GateResearchCompleteness = "research-completeness"
	GateBriefAlignment       = "brief-alignment"
	GateBrandConsistency     = "brand-consistency"
	GateFormatCompliance     = "format-compliance"
)

// GateConfig carries the quality gate thresholds and modes.
type GateConfig struct {
	// ResearchMinSources is the minimum source count for the research
	// gate.
	ResearchMinSources int

	// ResearchMinCredibility is the credibility at least one source must
	// reach.
	ResearchMinCredibility float64

	// BrandThreshold is the minimum brand voice score.
	BrandThreshold float64

	// Guidelines configures brand voice scoring.
	Guidelines voice.Guidelines

	// Modes overrides the default strict mode per gate name.
	Modes map[string]workflow.GateMode
}

// DefaultGateConfig returns the standard gate thresholds: research
// requires 2 sources with one at credibility 0.7, brand consistency
// requires score 0.7. All gates default to strict.
func DefaultGateConfig() GateConfig {
	return GateConfig{
		ResearchMinSources:     2,
		ResearchMinCredibility: 0.7,
		BrandThreshold:         0.7,
		Guidelines:             voice.DefaultGuidelines(),
	}
}

func (c *GateConfig) mode(name string) workflow.GateMode {
	if m, ok := c.Modes[name]; ok {
		return m
	}
	return workflow.GateStrict
}

// evaluation is the raw outcome of a gate's structural and scoring
// checks, before the gate mode is applied.
type evaluation struct {
	score       float64
	issues      []string
	suggestions []string
}

// gate wraps one structural-plus-scoring evaluation with a threshold and
// mode. Evaluation is deterministic; the same artifact always yields the
// same result.
type gate struct {
	name      string
	mode      workflow.GateMode
	threshold float64
	eval      func(artifact workflow.Artifact) evaluation
}

func (g *gate) Name() string            { return g.name }
func (g *gate) Mode() workflow.GateMode { return g.mode }

func (g *gate) Evaluate(_ context.Context, artifact workflow.Artifact) workflow.GateResult {
	ev := g.eval(artifact)

	result := workflow.GateResult{
		Score:       ev.score,
		Threshold:   g.threshold,
		Issues:      ev.issues,
		Suggestions: ev.suggestions,
		Advisory:    g.mode == workflow.GateAdvisory,
	}

	// Pass requires both the threshold and zero blocking issues; an
	// artifact can average well yet carry one disqualifying factor.
	result.Passed = result.Score >= g.threshold && len(result.Issues) == 0

	if result.Advisory {
		result.Passed = true
	}

	return result
}

// NewResearchGate builds the research-completeness gate: at least
// minSources sources with at least one at or above minCredibility. The
// score is the mean credibility of the bundle's sources.
func NewResearchGate(cfg GateConfig) workflow.Gate {
	return &gate{
		name: GateResearchCompleteness,
		mode: cfg.mode(GateResearchCompleteness),
		eval: func(artifact workflow.Artifact) evaluation {
			research, ok := workflow.Payload[*content.Research](artifact)
			if !ok {
				return invalidPayload("research")
			}

			ev := evaluation{
				issues: research.StructuralIssues(cfg.ResearchMinSources, cfg.ResearchMinCredibility),
			}
			for _, s := range research.Sources {
				ev.score += s.Credibility
			}
			if len(research.Sources) > 0 {
				ev.score /= float64(len(research.Sources))
			}
			return ev
		},
	}
}

// NewBriefGate builds the brief-alignment gate: non-empty audience, at
// least one key message, and a valid word-count range. The score is the
// fraction of structural checks passed.
func NewBriefGate(cfg GateConfig) workflow.Gate {
	const checks = 3

	return &gate{
		name: GateBriefAlignment,
		mode: cfg.mode(GateBriefAlignment),
		eval: func(artifact workflow.Artifact) evaluation {
			brief, ok := workflow.Payload[*content.Brief](artifact)
			if !ok {
				return invalidPayload("brief")
			}

			issues := brief.StructuralIssues()
			return evaluation{
				score:  float64(checks-len(issues)) / checks,
				issues: issues,
			}
		},
	}
}

// NewBrandGate builds the brand-consistency gate: brand voice score at
// or above the threshold with zero blocking issues.
func NewBrandGate(cfg GateConfig) workflow.Gate {
	return &gate{
		name:      GateBrandConsistency,
		mode:      cfg.mode(GateBrandConsistency),
		threshold: cfg.BrandThreshold,
		eval: func(artifact workflow.Artifact) evaluation {
			draft, ok := workflow.Payload[*content.Draft](artifact)
			if !ok {
				return invalidPayload("draft")
			}

			ev := evaluation{issues: draft.StructuralIssues()}

			scored, err := voice.Evaluate(draft, cfg.Guidelines)
			if err != nil {
				ev.issues = append(ev.issues, fmt.Sprintf("voice scoring failed: %v", err))
				return ev
			}

			ev.score = scored.Score
			ev.issues = append(ev.issues, scored.Issues...)
			ev.suggestions = append(ev.suggestions, scored.Suggestions...)
			return ev
		},
	}
}

// NewFormatGate builds the format-compliance gate: the rendered
// artifact's declared format matches the requested format and its
// backing content is non-empty.
func NewFormatGate(cfg GateConfig) workflow.Gate {
	return &gate{
		name: GateFormatCompliance,
		mode: cfg.mode(GateFormatCompliance),
		eval: func(artifact workflow.Artifact) evaluation {
			rendered, ok := workflow.Payload[*content.Rendered](artifact)
			if !ok {
				return invalidPayload("rendered")
			}

			issues := rendered.StructuralIssues(rendered.Requested)
			score := 1.0
			if len(issues) > 0 {
				score = 0
			}
			return evaluation{score: score, issues: issues}
		},
	}
}

func invalidPayload(expected string) evaluation {
	return evaluation{
		issues: []string{fmt.Sprintf("artifact does not carry a %s payload", expected)},
	}
}
