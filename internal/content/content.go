// Package content defines the payload types that flow between pipeline
// steps as workflow artifacts: research bundles, briefs, drafts, and
// rendered outputs. Each type carries the structural checks its bound
// quality gate applies.
package content

import (
	"fmt"
	"strings"
	"time"

	"github.com/JaimeStill/quill/workflow"
)

// Source is one research source with credibility metadata attached by
// the source evaluation factors.
type Source struct {
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Author      string    `json:"author,omitempty"`
	PublishedAt time.Time `json:"published_at,omitempty"`
	Snippet     string    `json:"snippet,omitempty"`
	Body        string    `json:"body,omitempty"`
	Credibility float64   `json:"credibility"`
	KeyFacts    []string  `json:"key_facts,omitempty"`
}

// Research is the output of the research step: evaluated sources plus
// synthesized findings for the brief step.
type Research struct {
	Topic       string         `json:"topic"`
	Sources     []Source       `json:"sources"`
	KeyFindings []string       `json:"key_findings"`
	DataPoints  map[string]any `json:"data_points,omitempty"`
	Gaps        []string       `json:"gaps,omitempty"`
}

// CredibleSources returns the sources at or above the given credibility.
func (r *Research) CredibleSources(minimum float64) []Source {
	var credible []Source
	for _, s := range r.Sources {
		if s.Credibility >= minimum {
			credible = append(credible, s)
		}
	}
	return credible
}

// StructuralIssues returns the research-completeness violations: fewer
// than minSources sources, no source at or above minCredibility, an
// empty topic, or no key findings.
func (r *Research) StructuralIssues(minSources int, minCredibility float64) []string {
	var issues []string
	if r.Topic == "" {
		issues = append(issues, "research topic is empty")
	}
	if len(r.Sources) < minSources {
		issues = append(issues, fmt.Sprintf("insufficient sources: need at least %d", minSources))
	}
	if len(r.CredibleSources(minCredibility)) < 1 {
		issues = append(issues, fmt.Sprintf("no source meets credibility %.2f", minCredibility))
	}
	if len(r.KeyFindings) == 0 {
		issues = append(issues, "research has no key findings")
	}
	return issues
}

// WordRange bounds a draft's length.
type WordRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Valid reports whether the range is positive and ordered.
func (w WordRange) Valid() bool {
	return w.Min > 0 && w.Max > w.Min
}

// Contains reports whether count falls inside the range.
func (w WordRange) Contains(count int) bool {
	return count >= w.Min && count <= w.Max
}

// Brief guides content creation for one content type: audience, key
// messages, tone, structure, and length targets derived from research.
type Brief struct {
	ContentType workflow.ContentType `json:"content_type"`
	Audience    string               `json:"audience"`
	KeyMessages []string             `json:"key_messages"`
	Tone        workflow.Tone        `json:"tone"`
	Structure   []string             `json:"structure"`
	WordRange   WordRange            `json:"word_range"`
	SEOKeywords []string             `json:"seo_keywords,omitempty"`
}

// StructuralIssues returns the brief-alignment violations: empty
// audience, no key messages, or an invalid word-count range.
func (b *Brief) StructuralIssues() []string {
	var issues []string
	if strings.TrimSpace(b.Audience) == "" {
		issues = append(issues, "brief has no target audience")
	}
	if len(b.KeyMessages) == 0 {
		issues = append(issues, "brief has no key messages")
	}
	if !b.WordRange.Valid() {
		issues = append(issues, "brief word-count range is invalid")
	}
	return issues
}

// Draft is a produced piece of content awaiting voice validation and
// rendering. Body is markdown.
type Draft struct {
	ContentType workflow.ContentType `json:"content_type"`
	Title       string               `json:"title"`
	Body        string               `json:"body"`
	Tone        workflow.Tone        `json:"tone,omitempty"`
	Brief       *Brief               `json:"brief,omitempty"`
	Feedback    []string             `json:"feedback,omitempty"`
}

// WordCount returns the number of whitespace-separated words in the body.
func (d *Draft) WordCount() int {
	return len(strings.Fields(d.Body))
}

// StructuralIssues returns content-completeness violations: an empty or
// trivially short body, or a word count outside the brief's range.
func (d *Draft) StructuralIssues() []string {
	var issues []string
	if len(strings.TrimSpace(d.Body)) < 100 {
		issues = append(issues, "draft body is empty or too short")
	}
	if d.Brief != nil && d.Brief.WordRange.Valid() && !d.Brief.WordRange.Contains(d.WordCount()) {
		issues = append(issues, "draft word count outside the brief range")
	}
	return issues
}

// Rendered is a formatted output document produced from a draft.
// Requested records the format the originating request asked for, set by
// the render capability so the format-compliance gate can compare it
// against the declared Format.
type Rendered struct {
	ContentType workflow.ContentType `json:"content_type"`
	Format      string               `json:"format"`
	Requested   string               `json:"requested,omitempty"`
	StorageKey  string               `json:"storage_key,omitempty"`
	Data        []byte               `json:"-"`
	Size        int64                `json:"size"`
}

// StructuralIssues returns format-compliance violations against the
// requested format: a declared format mismatch or empty backing content.
func (r *Rendered) StructuralIssues(requested string) []string {
	var issues []string
	if requested != "" && r.Format != requested {
		issues = append(issues, "rendered format does not match the requested format")
	}
	if len(r.Data) == 0 && r.Size == 0 {
		issues = append(issues, "rendered output is empty")
	}
	return issues
}
