package sources_test

import (
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/quill/internal/content"
	"github.com/JaimeStill/quill/internal/sources"
	"github.com/JaimeStill/quill/pkg/scoring"
)

var evalTime = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

func substantialBody() string {
	return strings.Repeat("The study presents research data on migration outcomes. ", 40)
}

func TestFactorWeights(t *testing.T) {
	if err := scoring.ValidateWeights(sources.Factors(evalTime)); err != nil {
		t.Fatalf("factor weights invalid: %v", err)
	}
}

func TestEvaluateCredibleSource(t *testing.T) {
	source := content.Source{
		URL:         "https://www.nature.com/articles/s41586-026-1234",
		Title:       "Large-scale analysis of cloud adoption",
		Author:      "J. Rivera",
		PublishedAt: evalTime.Add(-10 * 24 * time.Hour),
		Body:        substantialBody(),
	}

	result, err := sources.Evaluate(source, evalTime)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}

	if result.Score < 0.7 {
		t.Errorf("credible source scored %v, want >= 0.7", result.Score)
	}
	if len(result.Issues) != 0 {
		t.Errorf("unexpected issues: %v", result.Issues)
	}
}

func TestEvaluateWeakSource(t *testing.T) {
	source := content.Source{
		URL:     "https://randomblog.example.com/post",
		Title:   "You won't believe this shocking result",
		Snippet: "short",
	}

	result, err := sources.Evaluate(source, evalTime)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}

	if result.Score >= 0.7 {
		t.Errorf("weak source scored %v, want < 0.7", result.Score)
	}
	if len(result.Suggestions) == 0 {
		t.Error("expected suggestions for anonymous short-content source")
	}
}

func TestDomainReputation(t *testing.T) {
	tests := []struct {
		name string
		url  string
		min  float64
		max  float64
	}{
		{"trusted journal", "https://www.nature.com/articles/1", 0.95, 0.95},
		{"trusted news", "https://reuters.com/business/story", 0.8, 0.8},
		{"gov domain", "https://data.census.gov/report", 0.9, 0.9},
		{"edu domain", "https://cs.stanford.edu/paper", 0.85, 0.85},
		{"subdomain of trusted", "https://blog.github.com/post", 0.6, 0.65},
		{"unknown domain", "https://example.org/page", 0.5, 0.5},
		{"unparseable url", "::not a url::", 0.3, 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := content.Source{URL: tt.url}
			result, err := sources.Evaluate(source, evalTime)
			if err != nil {
				t.Fatalf("evaluate failed: %v", err)
			}

			var domain float64
			for _, f := range result.Factors {
				if f.Name == "domain-reputation" {
					domain = f.Score
				}
			}
			if domain < tt.min || domain > tt.max {
				t.Errorf("domain score: got %v, want in [%v, %v]", domain, tt.min, tt.max)
			}
		})
	}
}

func TestRecencyBands(t *testing.T) {
	tests := []struct {
		name string
		age  time.Duration
		want float64
	}{
		{"fresh", 10 * 24 * time.Hour, 1.0},
		{"recent", 90 * 24 * time.Hour, 0.9},
		{"within a year", 300 * 24 * time.Hour, 0.8},
		{"within two years", 600 * 24 * time.Hour, 0.7},
		{"within three years", 1000 * 24 * time.Hour, 0.6},
		{"stale", 2000 * 24 * time.Hour, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := content.Source{
				URL:         "https://example.org/page",
				PublishedAt: evalTime.Add(-tt.age),
			}
			result, err := sources.Evaluate(source, evalTime)
			if err != nil {
				t.Fatalf("evaluate failed: %v", err)
			}

			for _, f := range result.Factors {
				if f.Name == "recency" && f.Score != tt.want {
					t.Errorf("recency score: got %v, want %v", f.Score, tt.want)
				}
			}
		})
	}
}

func TestRecencyUndated(t *testing.T) {
	source := content.Source{URL: "https://example.org/page"}
	result, err := sources.Evaluate(source, evalTime)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}

	for _, f := range result.Factors {
		if f.Name == "recency" && f.Score != 0.6 {
			t.Errorf("undated recency score: got %v, want 0.6", f.Score)
		}
	}
}

func TestAttribution(t *testing.T) {
	authored := content.Source{URL: "https://example.org/a", Author: "A. Writer"}
	anonymous := content.Source{URL: "https://example.org/b", Author: "  "}

	authoredResult, err := sources.Evaluate(authored, evalTime)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	anonymousResult, err := sources.Evaluate(anonymous, evalTime)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}

	factor := func(r scoring.Result, name string) float64 {
		for _, f := range r.Factors {
			if f.Name == name {
				return f.Score
			}
		}
		return -1
	}

	if factor(authoredResult, "attribution") != 0.8 {
		t.Errorf("authored attribution: got %v, want 0.8", factor(authoredResult, "attribution"))
	}
	if factor(anonymousResult, "attribution") != 0.4 {
		t.Errorf("anonymous attribution: got %v, want 0.4", factor(anonymousResult, "attribution"))
	}

	found := false
	for _, s := range anonymousResult.Suggestions {
		if strings.Contains(s, "no attributed author") {
			found = true
		}
	}
	if !found {
		t.Errorf("missing attribution suggestion: %v", anonymousResult.Suggestions)
	}
}

func TestContentQualityClickbait(t *testing.T) {
	source := content.Source{
		URL:   "https://example.org/post",
		Title: "One weird trick for cloud savings",
		Body:  substantialBody(),
	}

	result, err := sources.Evaluate(source, evalTime)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}

	found := false
	for _, s := range result.Suggestions {
		if strings.Contains(s, "clickbait") {
			found = true
		}
	}
	if !found {
		t.Errorf("missing clickbait suggestion: %v", result.Suggestions)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	source := content.Source{
		URL:         "https://www.wired.com/story/example",
		Author:      "B. Chen",
		PublishedAt: evalTime.Add(-45 * 24 * time.Hour),
		Body:        substantialBody(),
	}

	first, err := sources.Evaluate(source, evalTime)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	second, err := sources.Evaluate(source, evalTime)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}

	if first.Score != second.Score {
		t.Errorf("scores differ: %v vs %v", first.Score, second.Score)
	}
}
