// Package sources scores research source credibility. Four weighted
// factors feed the scoring engine: domain reputation (0.4), recency
// (0.2), attribution (0.1), and content quality (0.3).
package sources

import (
	"net/url"
	"strings"
	"time"

	"github.com/JaimeStill/quill/internal/content"
	"github.com/JaimeStill/quill/pkg/scoring"
)

// Factor weights for source credibility.
const (
	WeightDomain      = 0.4
	WeightRecency     = 0.2
	WeightAttribution = 0.1
	WeightQuality     = 0.3
)

// Sub-scores for inputs that cannot be assessed.
const (
	scoreUnknownDomain = 0.5
	scoreInvalidURL    = 0.3
	scoreNoDate        = 0.6
	scoreAuthored      = 0.8
	scoreAnonymous     = 0.4
)

// Factors returns the source credibility factor set. The evaluation
// instant is fixed once so recency scoring stays deterministic within
// an execution.
func Factors(now time.Time) []scoring.Factor[content.Source] {
	return []scoring.Factor[content.Source]{
		{
			Name:   "domain-reputation",
			Weight: WeightDomain,
			Floor:  0.2,
			Warn:   0.5,
			Eval: func(s content.Source) scoring.Sub {
				return scoring.Sub{Score: scoreDomain(s.URL)}
			},
		},
		{
			Name:   "recency",
			Weight: WeightRecency,
			Warn:   0.6,
			Eval: func(s content.Source) scoring.Sub {
				return scoring.Sub{Score: scoreRecency(s.PublishedAt, now)}
			},
		},
		{
			Name:   "attribution",
			Weight: WeightAttribution,
			Warn:   0.5,
			Eval: func(s content.Source) scoring.Sub {
				if strings.TrimSpace(s.Author) == "" {
					return scoring.Sub{
						Score:       scoreAnonymous,
						Suggestions: []string{"source has no attributed author"},
					}
				}
				return scoring.Sub{Score: scoreAuthored}
			},
		},
		{
			Name:   "content-quality",
			Weight: WeightQuality,
			Floor:  0.2,
			Warn:   0.5,
			Eval: func(s content.Source) scoring.Sub {
				return scoreQuality(s)
			},
		},
	}
}

// Evaluate scores one source's credibility in [0,1].
func Evaluate(source content.Source, now time.Time) (scoring.Result, error) {
	return scoring.Score(source, Factors(now))
}

// trustedDomains maps known domains to base reputation scores.
var trustedDomains = map[string]float64{
	"arxiv.org":          0.9,
	"scholar.google.com": 0.9,
	"ncbi.nlm.nih.gov":   0.9,
	"ieee.org":           0.9,
	"nature.com":         0.95,
	"science.org":        0.95,
	"sciencedirect.com":  0.85,
	"reuters.com":        0.8,
	"apnews.com":         0.8,
	"bbc.com":            0.8,
	"nytimes.com":        0.75,
	"wsj.com":            0.75,
	"economist.com":      0.75,
	"techcrunch.com":     0.7,
	"wired.com":          0.7,
	"arstechnica.com":    0.7,
	"hbr.org":            0.75,
	"forbes.com":         0.65,
	"stackoverflow.com":  0.7,
	"github.com":         0.7,
	"medium.com":         0.5,
}

func scoreDomain(raw string) float64 {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return scoreInvalidURL
	}

	domain := strings.ToLower(parsed.Host)
	domain = strings.TrimPrefix(domain, "www.")

	if score, ok := trustedDomains[domain]; ok {
		return score
	}
	if strings.HasSuffix(domain, ".gov") {
		return 0.9
	}
	if strings.HasSuffix(domain, ".edu") {
		return 0.85
	}

	// Subdomain of a trusted domain scores slightly below the parent.
	for trusted, score := range trustedDomains {
		if strings.HasSuffix(domain, "."+trusted) {
			return score * 0.9
		}
	}

	return scoreUnknownDomain
}

// Recency bands in days.
var recencyBands = []struct {
	maxAge time.Duration
	score  float64
}{
	{30 * 24 * time.Hour, 1.0},
	{180 * 24 * time.Hour, 0.9},
	{365 * 24 * time.Hour, 0.8},
	{730 * 24 * time.Hour, 0.7},
	{1095 * 24 * time.Hour, 0.6},
}

func scoreRecency(published, now time.Time) float64 {
	if published.IsZero() {
		return scoreNoDate
	}

	age := now.Sub(published)
	for _, band := range recencyBands {
		if age <= band.maxAge {
			return band.score
		}
	}
	return 0.5
}

var clickbaitMarkers = []string{
	"you won't believe",
	"shocking",
	"one weird trick",
	"doctors hate",
}

func scoreQuality(s content.Source) scoring.Sub {
	body := s.Body
	if body == "" {
		body = s.Snippet
	}

	if len(body) < 100 {
		return scoring.Sub{
			Score:       0.3,
			Suggestions: []string{"source has little assessable content"},
		}
	}

	score := 0.5
	lower := strings.ToLower(body)

	if len(body) > 1000 {
		score += 0.1
	}
	if len(body) > 2000 {
		score += 0.1
	}
	if strings.Contains(lower, "references") ||
		strings.Contains(lower, "sources") ||
		strings.Contains(lower, "citation") {
		score += 0.1
	}
	if strings.ContainsAny(body, "%$") ||
		strings.Contains(lower, "data") ||
		strings.Contains(lower, "study") ||
		strings.Contains(lower, "research") {
		score += 0.1
	}

	var sub scoring.Sub
	haystack := lower + " " + strings.ToLower(s.Title)
	for _, marker := range clickbaitMarkers {
		if strings.Contains(haystack, marker) {
			score -= 0.2
			sub.Suggestions = append(sub.Suggestions, "source shows clickbait markers")
			break
		}
	}

	sub.Score = score
	return sub
}
