package capability

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/JaimeStill/quill/internal/content"
	"github.com/JaimeStill/quill/internal/sources"
	"github.com/JaimeStill/quill/pkg/formatting"
	"github.com/JaimeStill/quill/workflow"
)

type researchResponse struct {
	Topic       string           `json:"topic"`
	KeyFindings []string         `json:"key_findings"`
	DataPoints  map[string]any   `json:"data_points"`
	Gaps        []string         `json:"gaps"`
	Sources     []sourceResponse `json:"sources"`
}

type sourceResponse struct {
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	PublishedAt string   `json:"published_at"`
	Snippet     string   `json:"snippet"`
	Body        string   `json:"body"`
	KeyFacts    []string `json:"key_facts"`
}

type researcher struct {
	agent  gaconfig.AgentConfig
	logger *slog.Logger
}

// NewResearcher returns the research capability. Each invocation creates
// its own agent, requests findings and sources for the request topic,
// and scores every returned source's credibility before handing the
// research bundle downstream.
func NewResearcher(cfg gaconfig.AgentConfig, logger *slog.Logger) Capability {
	return &researcher{
		agent:  cfg,
		logger: logger.With("capability", Research),
	}
}

func (r *researcher) Produce(ctx context.Context, task Task) (workflow.Artifact, error) {
	a, err := agent.New(&r.agent)
	if err != nil {
		return workflow.Artifact{}, fmt.Errorf("create agent: %w", err)
	}

	resp, err := a.Chat(ctx, researchPrompt(task))
	if err != nil {
		return workflow.Artifact{}, fmt.Errorf("chat call: %w", err)
	}

	parsed, err := formatting.Parse[researchResponse](resp.Content())
	if err != nil {
		return workflow.Artifact{}, fmt.Errorf("parse response: %w", err)
	}

	research := buildResearch(parsed, task.Request.RequestText, time.Now())

	r.logger.InfoContext(
		ctx, "research produced",
		"topic", research.Topic,
		"sources", len(research.Sources),
		"findings", len(research.KeyFindings),
	)

	return workflow.NewArtifact(workflow.ArtifactResearch, task.Step.ID, research), nil
}

// buildResearch converts a model response into a research bundle, scoring
// each source's credibility at the given instant.
func buildResearch(parsed researchResponse, fallbackTopic string, now time.Time) *content.Research {
	research := &content.Research{
		Topic:       parsed.Topic,
		KeyFindings: parsed.KeyFindings,
		DataPoints:  parsed.DataPoints,
		Gaps:        parsed.Gaps,
	}
	if research.Topic == "" {
		research.Topic = fallbackTopic
	}

	for _, s := range parsed.Sources {
		source := content.Source{
			URL:      s.URL,
			Title:    s.Title,
			Author:   s.Author,
			Snippet:  s.Snippet,
			Body:     s.Body,
			KeyFacts: s.KeyFacts,
		}
		if s.PublishedAt != "" {
			if published, err := time.Parse(time.RFC3339, s.PublishedAt); err == nil {
				source.PublishedAt = published
			}
		}

		if result, err := sources.Evaluate(source, now); err == nil {
			source.Credibility = result.Score
		}

		research.Sources = append(research.Sources, source)
	}

	return research
}

func researchPrompt(task Task) string {
	var b strings.Builder

	b.WriteString("Research the following topic and respond with JSON containing ")
	b.WriteString("topic, key_findings, data_points, gaps, and sources ")
	b.WriteString("(url, title, author, published_at, snippet, body, key_facts).\n\n")
	b.WriteString("Topic: ")
	b.WriteString(task.Request.RequestText)
	b.WriteString("\n")

	if len(task.Feedback) > 0 {
		b.WriteString("\nThe previous attempt was rejected for these reasons; address them:\n")
		for _, issue := range task.Feedback {
			b.WriteString("- ")
			b.WriteString(issue)
			b.WriteString("\n")
		}
	}

	return b.String()
}
