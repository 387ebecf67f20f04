package capability

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/JaimeStill/quill/internal/content"
	"github.com/JaimeStill/quill/internal/sources"
	"github.com/JaimeStill/quill/workflow"
)

// StubResearcher returns a deterministic research capability used when
// no model provider is configured. The engine does not distinguish stubs
// from production collaborators.
func StubResearcher(now time.Time) Capability {
	return Func(func(_ context.Context, task Task) (workflow.Artifact, error) {
		topic := task.Request.RequestText

		research := &content.Research{
			Topic: topic,
			KeyFindings: []string{
				fmt.Sprintf("%s is seeing growing adoption across the industry", topic),
				fmt.Sprintf("Research coverage of %s spans academic and trade publications", topic),
				fmt.Sprintf("Practitioners report measurable results applying %s", topic),
			},
			DataPoints: map[string]any{"coverage": "stub"},
			Sources: []content.Source{
				{
					URL:         "https://arxiv.org/abs/0000.00000",
					Title:       fmt.Sprintf("A survey of %s", topic),
					Author:      "Example Researcher",
					PublishedAt: now.AddDate(0, -2, 0),
					Body: strings.Repeat(
						fmt.Sprintf("Study data on %s with research references and citation coverage. ", topic), 20,
					),
				},
				{
					URL:         "https://reuters.com/technology/example",
					Title:       fmt.Sprintf("Industry adopts %s", topic),
					Author:      "Example Reporter",
					PublishedAt: now.AddDate(0, -1, 0),
					Body: strings.Repeat(
						fmt.Sprintf("Industry reporting on %s adoption with market data. ", topic), 20,
					),
				},
			},
		}

		for i := range research.Sources {
			if result, err := sources.Evaluate(research.Sources[i], now); err == nil {
				research.Sources[i].Credibility = result.Score
			}
		}

		return workflow.NewArtifact(workflow.ArtifactResearch, task.Step.ID, research), nil
	})
}

// StubDrafter returns a deterministic drafting capability that expands
// the brief's key messages into a body sized to the middle of the word
// range.
func StubDrafter() Capability {
	return Func(func(_ context.Context, task Task) (workflow.Artifact, error) {
		brief, ok := workflow.Payload[*content.Brief](task.Input)
		if !ok {
			return workflow.Artifact{}, fmt.Errorf("draft step requires a brief artifact")
		}
		brief = retarget(brief, task.Step.ContentType)

		var b strings.Builder
		for _, msg := range brief.KeyMessages {
			fmt.Fprintf(&b, "%s. We streamline this solution for every customer. ", msg)
		}

		target := (brief.WordRange.Min + brief.WordRange.Max) / 2
		filler := "Our data-driven approach helps you understand each step. "
		for len(strings.Fields(b.String())) < target {
			b.WriteString(filler)
		}

		draft := &content.Draft{
			ContentType: brief.ContentType,
			Title:       fmt.Sprintf("Working with %s", brief.Audience),
			Body:        b.String(),
			Tone:        brief.Tone,
			Brief:       brief,
			Feedback:    task.Feedback,
		}

		return workflow.NewArtifact(workflow.ArtifactDraft, task.Step.ID, draft), nil
	})
}
