// Package render provides the thin format writers that turn a canonical
// draft into deliverable documents, and the render capability that
// invokes them. Writers are deliberately minimal: visual fidelity is a
// non-goal, format compliance is the contract.
package render

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/quill/internal/capability"
	"github.com/JaimeStill/quill/internal/content"
	"github.com/JaimeStill/quill/pkg/storage"
	"github.com/JaimeStill/quill/workflow"
)

// DefaultFormat applies when a request does not name an output format.
const DefaultFormat = "html"

// Writer renders a draft into one output format.
type Writer interface {
	// Format returns the format name, e.g. "html" or "pdf".
	Format() string
	// MIME returns the output content type for storage.
	MIME() string
	// Write renders the draft.
	Write(draft *content.Draft) ([]byte, error)
}

// Writers maps format names to writers. Read-only after construction.
type Writers struct {
	writers map[string]Writer
}

// NewWriters builds the standard writer set: HTML, Markdown, and PDF.
func NewWriters() *Writers {
	ws := &Writers{writers: make(map[string]Writer)}
	for _, w := range []Writer{NewHTMLWriter(), NewMarkdownWriter(), NewPDFWriter()} {
		ws.writers[w.Format()] = w
	}
	return ws
}

// Resolve returns the writer for a format name.
func (ws *Writers) Resolve(format string) (Writer, error) {
	w, ok := ws.writers[format]
	if !ok {
		return nil, fmt.Errorf("no writer for format %q", format)
	}
	return w, nil
}

// Formats returns the supported format names.
func (ws *Writers) Formats() []string {
	formats := make([]string, 0, len(ws.writers))
	for format := range ws.writers {
		formats = append(formats, format)
	}
	return formats
}

type renderer struct {
	writers *Writers
	store   storage.System
	logger  *slog.Logger
}

// NewCapability returns the render capability: it writes the upstream
// draft in the requested format and uploads the result to artifact
// storage. A nil store skips the upload and keeps the bytes on the
// artifact.
func NewCapability(writers *Writers, store storage.System, logger *slog.Logger) capability.Capability {
	return &renderer{
		writers: writers,
		store:   store,
		logger:  logger.With("capability", capability.Render),
	}
}

func (r *renderer) Produce(ctx context.Context, task capability.Task) (workflow.Artifact, error) {
	draft, ok := workflow.Payload[*content.Draft](task.Input)
	if !ok {
		return workflow.Artifact{}, fmt.Errorf("render step requires a draft artifact")
	}

	requested := RequestedFormat(task.Request)
	writer, err := r.writers.Resolve(requested)
	if err != nil {
		return workflow.Artifact{}, err
	}

	data, err := writer.Write(draft)
	if err != nil {
		return workflow.Artifact{}, fmt.Errorf("write %s: %w", requested, err)
	}

	rendered := &content.Rendered{
		ContentType: draft.ContentType,
		Format:      writer.Format(),
		Requested:   requested,
		Data:        data,
		Size:        int64(len(data)),
	}

	if r.store != nil {
		key := storageKey(task, writer.Format())
		if err := r.store.Upload(ctx, key, bytes.NewReader(data), writer.MIME()); err != nil {
			return workflow.Artifact{}, fmt.Errorf("upload rendered output: %w", err)
		}
		rendered.StorageKey = key
	}

	r.logger.InfoContext(
		ctx, "rendered output",
		"format", rendered.Format,
		"size", rendered.Size,
		"key", rendered.StorageKey,
	)

	return workflow.NewArtifact(workflow.ArtifactRendered, task.Step.ID, rendered), nil
}

// RequestedFormat resolves the output format a request asks for, falling
// back to DefaultFormat.
func RequestedFormat(req *workflow.Request) string {
	if v, ok := req.AdditionalContext["output_format"].(string); ok && v != "" {
		return v
	}
	return DefaultFormat
}

func storageKey(task capability.Task, format string) string {
	runID, ok := task.Request.AdditionalContext["run_id"].(string)
	if !ok || runID == "" {
		runID = uuid.NewString()
	}
	return fmt.Sprintf("runs/%s/%s.%s", runID, task.Step.ID, format)
}
