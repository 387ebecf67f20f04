// Package voice scores drafts against brand voice guidelines. Five
// equally weighted factors feed the scoring engine: vocabulary
// compliance, sentence length, tone alignment, passive voice, and
// readability. An avoided term is a blocking issue regardless of the
// aggregate, so a draft that averages well can still fail on a single
// banned word.
package voice

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/JaimeStill/quill/internal/content"
	"github.com/JaimeStill/quill/pkg/scoring"
)

// FactorWeight is the share of each of the five voice factors.
const FactorWeight = 0.2

// Guidelines configures brand voice scoring.
type Guidelines struct {
	PreferredTerms []string            `json:"preferred_terms" toml:"preferred_terms"`
	AvoidedTerms   []string            `json:"avoided_terms" toml:"avoided_terms"`
	SentenceAvg    int                 `json:"sentence_avg" toml:"sentence_avg"`
	SentenceWarn   int                 `json:"sentence_warn" toml:"sentence_warn"`
	PassiveMax     float64             `json:"passive_max" toml:"passive_max"`
	ReadabilityMin float64             `json:"readability_min" toml:"readability_min"`
	ToneKeywords   map[string][]string `json:"tone_keywords" toml:"tone_keywords"`
}

// DefaultGuidelines returns the built-in brand voice guidelines.
func DefaultGuidelines() Guidelines {
	return Guidelines{
		PreferredTerms: []string{"customer", "solution", "innovative", "data-driven", "streamline"},
		AvoidedTerms:   []string{"cheap", "easy", "best", "revolutionary", "game-changing"},
		SentenceAvg:    15,
		SentenceWarn:   30,
		PassiveMax:     15,
		ReadabilityMin: 60,
		ToneKeywords: map[string][]string{
			"professional":   {"implement", "strategy", "optimize", "analyze", "framework"},
			"conversational": {"you", "we", "let's", "simply", "just"},
			"technical":      {"algorithm", "architecture", "protocol", "implementation", "system"},
			"educational":    {"learn", "understand", "example", "step", "guide"},
			"persuasive":     {"proven", "results", "transform", "success", "effective"},
			"inspirational":  {"achieve", "potential", "vision", "innovate", "empower"},
		},
	}
}

// Factors returns the brand voice factor set for the given guidelines.
func Factors(g Guidelines) []scoring.Factor[*content.Draft] {
	return []scoring.Factor[*content.Draft]{
		{
			Name:   "vocabulary",
			Weight: FactorWeight,
			Floor:  0.4,
			Warn:   0.7,
			Eval:   func(d *content.Draft) scoring.Sub { return checkVocabulary(d.Body, g) },
		},
		{
			Name:   "sentence-length",
			Weight: FactorWeight,
			Floor:  0.2,
			Warn:   0.6,
			Eval:   func(d *content.Draft) scoring.Sub { return checkSentenceLength(d.Body, g) },
		},
		{
			Name:   "tone-alignment",
			Weight: FactorWeight,
			Warn:   0.5,
			Eval:   func(d *content.Draft) scoring.Sub { return checkTone(d.Body, string(d.Tone), g) },
		},
		{
			Name:   "passive-voice",
			Weight: FactorWeight,
			Floor:  0.2,
			Warn:   0.7,
			Eval:   func(d *content.Draft) scoring.Sub { return checkPassiveVoice(d.Body, g) },
		},
		{
			Name:   "readability",
			Weight: FactorWeight,
			Floor:  0.2,
			Warn:   0.6,
			Eval:   func(d *content.Draft) scoring.Sub { return checkReadability(d.Body, g) },
		},
	}
}

// Evaluate scores one draft against the guidelines.
func Evaluate(draft *content.Draft, g Guidelines) (scoring.Result, error) {
	return scoring.Score(draft, Factors(g))
}

func checkVocabulary(body string, g Guidelines) scoring.Sub {
	var sub scoring.Sub
	lower := strings.ToLower(body)

	avoided := 0
	for _, term := range g.AvoidedTerms {
		if strings.Contains(lower, term) {
			avoided++
			sub.Issues = append(sub.Issues, fmt.Sprintf("avoided term %q present", term))
			sub.Suggestions = append(sub.Suggestions, fmt.Sprintf("replace %q with brand-preferred terminology", term))
		}
	}

	preferred := 0
	for _, term := range g.PreferredTerms {
		if strings.Contains(lower, term) {
			preferred++
		}
	}

	total := avoided + preferred
	if total == 0 {
		sub.Score = 1.0
		return sub
	}

	sub.Score = 1.0 - float64(avoided)/float64(total)
	return sub
}

var sentenceSplit = regexp.MustCompile(`[.!?]+`)

func sentences(body string) []string {
	var out []string
	for _, s := range sentenceSplit.Split(body, -1) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func checkSentenceLength(body string, g Guidelines) scoring.Sub {
	var sub scoring.Sub

	parts := sentences(body)
	if len(parts) == 0 {
		sub.Score = 1.0
		return sub
	}

	total := 0
	long := 0
	for _, s := range parts {
		words := len(strings.Fields(s))
		total += words
		if words > g.SentenceWarn {
			long++
		}
	}
	avg := float64(total) / float64(len(parts))

	if avg > float64(g.SentenceAvg)*1.5 {
		sub.Suggestions = append(sub.Suggestions, fmt.Sprintf(
			"average sentence length %.1f words is high; aim for %d", avg, g.SentenceAvg,
		))
	}
	if long > 0 {
		sub.Suggestions = append(sub.Suggestions, fmt.Sprintf(
			"%d sentence(s) exceed %d words", long, g.SentenceWarn,
		))
	}

	sub.Score = 1.0 - (avg-float64(g.SentenceAvg))/20
	return sub
}

func checkTone(body, tone string, g Guidelines) scoring.Sub {
	keywords := g.ToneKeywords[tone]
	if tone == "" || len(keywords) == 0 {
		return scoring.Sub{Score: 1.0}
	}

	var sub scoring.Sub
	lower := strings.ToLower(body)

	matches := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			matches++
		}
	}

	expected := max(float64(len(keywords))*0.3, 1)
	sub.Score = float64(matches) / expected

	if sub.Score < 0.5 {
		sub.Suggestions = append(sub.Suggestions, fmt.Sprintf(
			"content may not match %s tone; consider terms like %s",
			tone, strings.Join(keywords[:min(3, len(keywords))], ", "),
		))
	}

	return sub
}

var passivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bis\s+\w+ed\b`),
	regexp.MustCompile(`(?i)\bare\s+\w+ed\b`),
	regexp.MustCompile(`(?i)\bwas\s+\w+ed\b`),
	regexp.MustCompile(`(?i)\bwere\s+\w+ed\b`),
	regexp.MustCompile(`(?i)\bbeen\s+\w+ed\b`),
	regexp.MustCompile(`(?i)\bbe\s+\w+ed\b`),
}

func checkPassiveVoice(body string, g Guidelines) scoring.Sub {
	var sub scoring.Sub

	parts := sentences(body)
	if len(parts) == 0 {
		sub.Score = 1.0
		return sub
	}

	passive := 0
	for _, s := range parts {
		for _, pattern := range passivePatterns {
			if pattern.MatchString(s) {
				passive++
				break
			}
		}
	}

	percentage := float64(passive) / float64(len(parts)) * 100
	if percentage > g.PassiveMax {
		sub.Issues = append(sub.Issues, fmt.Sprintf(
			"passive voice at %.1f%% exceeds %.0f%%", percentage, g.PassiveMax,
		))
		sub.Suggestions = append(sub.Suggestions, "prefer active voice for clarity")
	}

	sub.Score = 1.0 - percentage/100
	return sub
}

// checkReadability approximates Flesch reading ease and normalizes to
// [0,1].
func checkReadability(body string, g Guidelines) scoring.Sub {
	var sub scoring.Sub

	parts := sentences(body)
	words := strings.Fields(body)
	if len(parts) == 0 || len(words) == 0 {
		sub.Score = 1.0
		return sub
	}

	syllables := 0
	for _, w := range words {
		syllables += countSyllables(w)
	}

	avgSentence := float64(len(words)) / float64(len(parts))
	avgSyllables := float64(syllables) / float64(len(words))

	flesch := 206.835 - 1.015*avgSentence - 84.6*avgSyllables
	flesch = max(0, min(100, flesch))

	if flesch < g.ReadabilityMin {
		sub.Suggestions = append(sub.Suggestions, fmt.Sprintf(
			"readability %.1f below target %.0f; use shorter sentences and simpler words",
			flesch, g.ReadabilityMin,
		))
	}

	sub.Score = flesch / 100
	return sub
}

func countSyllables(word string) int {
	word = strings.ToLower(strings.Trim(word, ".,;:!?\"'()"))
	if word == "" {
		return 0
	}

	count := 0
	prevVowel := false
	for _, r := range word {
		vowel := strings.ContainsRune("aeiouy", r)
		if vowel && !prevVowel {
			count++
		}
		prevVowel = vowel
	}

	if strings.HasSuffix(word, "e") && count > 1 {
		count--
	}
	return max(count, 1)
}
