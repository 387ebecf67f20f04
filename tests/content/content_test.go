package content_test

import (
	"strings"
	"testing"

	"github.com/JaimeStill/quill/internal/content"
)

func TestCredibleSources(t *testing.T) {
	research := content.Research{
		Sources: []content.Source{
			{URL: "https://a.example", Credibility: 0.9},
			{URL: "https://b.example", Credibility: 0.7},
			{URL: "https://c.example", Credibility: 0.4},
		},
	}

	credible := research.CredibleSources(0.7)
	if len(credible) != 2 {
		t.Fatalf("credible sources: got %d, want 2", len(credible))
	}
	for _, s := range credible {
		if s.Credibility < 0.7 {
			t.Errorf("source %s below threshold", s.URL)
		}
	}
}

func TestResearchStructuralIssues(t *testing.T) {
	tests := []struct {
		name     string
		research content.Research
		want     int
	}{
		{
			name: "complete",
			research: content.Research{
				Topic: "cloud migration",
				Sources: []content.Source{
					{Credibility: 0.8},
					{Credibility: 0.75},
				},
				KeyFindings: []string{"adoption is accelerating"},
			},
			want: 0,
		},
		{
			name:     "everything missing",
			research: content.Research{},
			want:     4,
		},
		{
			name: "low credibility only",
			research: content.Research{
				Topic: "cloud migration",
				Sources: []content.Source{
					{Credibility: 0.3},
					{Credibility: 0.4},
				},
				KeyFindings: []string{"adoption is accelerating"},
			},
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := tt.research.StructuralIssues(2, 0.7)
			if len(issues) != tt.want {
				t.Errorf("issues: got %v, want %d", issues, tt.want)
			}
		})
	}
}

func TestWordRange(t *testing.T) {
	tests := []struct {
		name  string
		r     content.WordRange
		valid bool
	}{
		{"ordered", content.WordRange{Min: 100, Max: 500}, true},
		{"zero", content.WordRange{}, false},
		{"inverted", content.WordRange{Min: 500, Max: 100}, false},
		{"degenerate", content.WordRange{Min: 100, Max: 100}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Valid(); got != tt.valid {
				t.Errorf("Valid() = %v, want %v", got, tt.valid)
			}
		})
	}

	r := content.WordRange{Min: 100, Max: 500}
	if !r.Contains(100) || !r.Contains(500) || !r.Contains(300) {
		t.Error("bounds should be inclusive")
	}
	if r.Contains(99) || r.Contains(501) {
		t.Error("out-of-range counts accepted")
	}
}

func TestBriefStructuralIssues(t *testing.T) {
	complete := content.Brief{
		Audience:    "engineering leads",
		KeyMessages: []string{"migrate incrementally"},
		WordRange:   content.WordRange{Min: 400, Max: 900},
	}
	if issues := complete.StructuralIssues(); len(issues) != 0 {
		t.Errorf("complete brief issues: %v", issues)
	}

	empty := content.Brief{Audience: "   "}
	issues := empty.StructuralIssues()
	if len(issues) != 3 {
		t.Errorf("empty brief issues: got %v, want 3", issues)
	}
}

func TestDraftWordCount(t *testing.T) {
	draft := content.Draft{Body: "one two  three\nfour"}
	if got := draft.WordCount(); got != 4 {
		t.Errorf("word count: got %d, want 4", got)
	}
}

func TestDraftStructuralIssues(t *testing.T) {
	body := strings.Repeat("word ", 450)

	tests := []struct {
		name  string
		draft content.Draft
		want  int
	}{
		{
			name: "within range",
			draft: content.Draft{
				Body:  body,
				Brief: &content.Brief{WordRange: content.WordRange{Min: 400, Max: 900}},
			},
			want: 0,
		},
		{
			name:  "short body",
			draft: content.Draft{Body: "too short"},
			want:  1,
		},
		{
			name: "outside brief range",
			draft: content.Draft{
				Body:  body,
				Brief: &content.Brief{WordRange: content.WordRange{Min: 500, Max: 900}},
			},
			want: 1,
		},
		{
			name: "invalid range ignored",
			draft: content.Draft{
				Body:  body,
				Brief: &content.Brief{WordRange: content.WordRange{Min: 0, Max: 0}},
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := tt.draft.StructuralIssues()
			if len(issues) != tt.want {
				t.Errorf("issues: got %v, want %d", issues, tt.want)
			}
		})
	}
}

func TestRenderedStructuralIssues(t *testing.T) {
	tests := []struct {
		name      string
		rendered  content.Rendered
		requested string
		want      int
	}{
		{
			name:      "matching format with data",
			rendered:  content.Rendered{Format: "html", Data: []byte("<html>"), Size: 6},
			requested: "html",
			want:      0,
		},
		{
			name:      "format mismatch",
			rendered:  content.Rendered{Format: "markdown", Data: []byte("# t"), Size: 3},
			requested: "pdf",
			want:      1,
		},
		{
			name:      "empty output",
			rendered:  content.Rendered{Format: "html"},
			requested: "html",
			want:      1,
		},
		{
			name:      "size recorded without inline data",
			rendered:  content.Rendered{Format: "pdf", Size: 2048},
			requested: "pdf",
			want:      0,
		},
		{
			name:     "no requested format skips comparison",
			rendered: content.Rendered{Format: "html", Size: 10},
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := tt.rendered.StructuralIssues(tt.requested)
			if len(issues) != tt.want {
				t.Errorf("issues: got %v, want %d", issues, tt.want)
			}
		})
	}
}
