package capability

import (
	"context"
	"fmt"
	"strings"

	"github.com/JaimeStill/quill/internal/content"
	"github.com/JaimeStill/quill/workflow"
)

// briefTemplate holds per-content-type brief defaults.
type briefTemplate struct {
	structure []string
	words     content.WordRange
	tone      workflow.Tone
}

var briefTemplates = map[workflow.ContentType]briefTemplate{
	workflow.ContentArticle: {
		structure: []string{
			"Engaging hook/intro",
			"Problem statement",
			"Main content (3-5 sections)",
			"Examples/case studies",
			"Conclusion with key takeaways",
		},
		words: content.WordRange{Min: 800, Max: 1500},
		tone:  workflow.ToneEducational,
	},
	workflow.ContentBlogPost: {
		structure: []string{
			"Catchy title and intro",
			"Main points (2-4 sections)",
			"Practical tips or examples",
			"Call to action",
		},
		words: content.WordRange{Min: 600, Max: 1200},
		tone:  workflow.ToneConversational,
	},
	workflow.ContentSocialPost: {
		structure: []string{
			"Hook (first line)",
			"Main message",
			"Call to action or question",
		},
		words: content.WordRange{Min: 50, Max: 300},
		tone:  workflow.ToneConversational,
	},
	workflow.ContentWhitepaper: {
		structure: []string{
			"Executive summary",
			"Problem analysis",
			"Solution framework",
			"Case studies/data",
			"Implementation guidance",
			"Conclusion",
		},
		words: content.WordRange{Min: 2000, Max: 5000},
		tone:  workflow.ToneProfessional,
	},
	workflow.ContentEmail: {
		structure: []string{
			"Subject line",
			"Preview text",
			"Body (problem, solution, action)",
			"Clear CTA",
		},
		words: content.WordRange{Min: 100, Max: 400},
		tone:  workflow.ToneConversational,
	},
	workflow.ContentPresentation: {
		structure: []string{
			"Title slide",
			"Agenda/overview",
			"Key points (1 per slide)",
			"Supporting data/visuals",
			"Summary/next steps",
		},
		words: content.WordRange{Min: 500, Max: 1000},
		tone:  workflow.ToneProfessional,
	},
}

func templateFor(ct workflow.ContentType) briefTemplate {
	if t, ok := briefTemplates[ct]; ok {
		return t
	}
	return briefTemplates[workflow.ContentArticle]
}

// NewBriefBuilder returns the brief capability: a deterministic
// transformation of a research artifact into a content brief for the
// step's content type.
func NewBriefBuilder() Capability {
	return Func(func(_ context.Context, task Task) (workflow.Artifact, error) {
		research, ok := workflow.Payload[*content.Research](task.Input)
		if !ok {
			return workflow.Artifact{}, fmt.Errorf("brief step requires a research artifact")
		}

		ct := task.Step.ContentType
		if ct == "" && len(task.Request.ContentTypes) > 0 {
			ct = task.Request.ContentTypes[0]
		}
		template := templateFor(ct)

		tone := task.Request.Tone
		if tone == "" {
			tone = template.tone
		}

		audience := task.Request.Audience
		if audience == "" {
			audience = inferAudience(research.Topic)
		}

		brief := &content.Brief{
			ContentType: ct,
			Audience:    audience,
			KeyMessages: keyMessages(research),
			Tone:        tone,
			Structure:   template.structure,
			WordRange:   template.words,
			SEOKeywords: seoKeywords(research),
		}

		return workflow.NewArtifact(workflow.ArtifactBrief, task.Step.ID, brief), nil
	})
}

// retarget clones a brief for a different content type, swapping in that
// type's structure, word range, and default tone while keeping the
// audience, key messages, and keywords. Campaign draft steps use this to
// adapt the shared brief to their own deliverable.
func retarget(brief *content.Brief, ct workflow.ContentType) *content.Brief {
	if ct == "" || ct == brief.ContentType {
		return brief
	}

	template := templateFor(ct)
	clone := *brief
	clone.ContentType = ct
	clone.Structure = template.structure
	clone.WordRange = template.words
	clone.Tone = template.tone
	return &clone
}

func inferAudience(topic string) string {
	lower := strings.ToLower(topic)
	switch {
	case containsAny(lower, "technical", "engineering", "development"):
		return "Technical professionals and engineers"
	case containsAny(lower, "business", "strategy", "executive"):
		return "Business leaders and decision-makers"
	case containsAny(lower, "beginner", "introduction", "basics"):
		return "Beginners and general audience"
	default:
		return "General professional audience"
	}
}

func keyMessages(research *content.Research) []string {
	messages := research.KeyFindings
	if len(messages) > 5 {
		messages = messages[:5]
	}
	if len(messages) > 0 {
		return messages
	}

	for _, source := range research.Sources {
		if len(source.KeyFacts) > 0 {
			messages = append(messages, source.KeyFacts[0])
		}
		if len(messages) == 3 {
			break
		}
	}
	return messages
}

func seoKeywords(research *content.Research) []string {
	seen := make(map[string]bool)
	var keywords []string

	appendWords := func(text string, minLen int) {
		for _, word := range strings.Fields(text) {
			word = strings.ToLower(strings.Trim(word, ".,;:!?"))
			if len(word) <= minLen || seen[word] {
				continue
			}
			seen[word] = true
			keywords = append(keywords, word)
		}
	}

	appendWords(research.Topic, 3)
	for _, finding := range research.KeyFindings {
		appendWords(finding, 5)
	}

	if len(keywords) > 10 {
		keywords = keywords[:10]
	}
	return keywords
}

func containsAny(s string, terms ...string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}
