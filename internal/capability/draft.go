package capability

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/JaimeStill/quill/internal/content"
	"github.com/JaimeStill/quill/pkg/formatting"
	"github.com/JaimeStill/quill/workflow"
)

type draftResponse struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type drafter struct {
	agent  gaconfig.AgentConfig
	logger *slog.Logger
}

// NewDrafter returns the drafting capability: it turns a brief into a
// markdown draft via a single chat call. Retry feedback from the brand
// gate is appended to the prompt so a rejected draft is revised rather
// than regenerated blind.
func NewDrafter(cfg gaconfig.AgentConfig, logger *slog.Logger) Capability {
	return &drafter{
		agent:  cfg,
		logger: logger.With("capability", Draft),
	}
}

func (d *drafter) Produce(ctx context.Context, task Task) (workflow.Artifact, error) {
	brief, ok := workflow.Payload[*content.Brief](task.Input)
	if !ok {
		return workflow.Artifact{}, fmt.Errorf("draft step requires a brief artifact")
	}
	brief = retarget(brief, task.Step.ContentType)

	a, err := agent.New(&d.agent)
	if err != nil {
		return workflow.Artifact{}, fmt.Errorf("create agent: %w", err)
	}

	resp, err := a.Chat(ctx, draftPrompt(brief, task.Feedback))
	if err != nil {
		return workflow.Artifact{}, fmt.Errorf("chat call: %w", err)
	}

	parsed, err := formatting.Parse[draftResponse](resp.Content())
	if err != nil {
		return workflow.Artifact{}, fmt.Errorf("parse response: %w", err)
	}

	draft := &content.Draft{
		ContentType: brief.ContentType,
		Title:       parsed.Title,
		Body:        parsed.Body,
		Tone:        brief.Tone,
		Brief:       brief,
		Feedback:    task.Feedback,
	}

	d.logger.InfoContext(
		ctx, "draft produced",
		"content_type", draft.ContentType,
		"words", draft.WordCount(),
	)

	return workflow.NewArtifact(workflow.ArtifactDraft, task.Step.ID, draft), nil
}

func draftPrompt(brief *content.Brief, feedback []string) string {
	var b strings.Builder

	b.WriteString("Write content following this brief. Respond with JSON containing title and body (markdown).\n\n")
	fmt.Fprintf(&b, "Content type: %s\n", brief.ContentType)
	fmt.Fprintf(&b, "Audience: %s\n", brief.Audience)
	fmt.Fprintf(&b, "Tone: %s\n", brief.Tone)
	fmt.Fprintf(&b, "Length: %d-%d words\n", brief.WordRange.Min, brief.WordRange.Max)

	if len(brief.KeyMessages) > 0 {
		b.WriteString("Key messages:\n")
		for _, msg := range brief.KeyMessages {
			fmt.Fprintf(&b, "- %s\n", msg)
		}
	}
	if len(brief.Structure) > 0 {
		b.WriteString("Structure:\n")
		for _, section := range brief.Structure {
			fmt.Fprintf(&b, "- %s\n", section)
		}
	}
	if len(brief.SEOKeywords) > 0 {
		fmt.Fprintf(&b, "Keywords: %s\n", strings.Join(brief.SEOKeywords, ", "))
	}

	if len(feedback) > 0 {
		b.WriteString("\nThe previous draft was rejected for these reasons; revise to address them:\n")
		for _, issue := range feedback {
			fmt.Fprintf(&b, "- %s\n", issue)
		}
	}

	return b.String()
}
