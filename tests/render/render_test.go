package render_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/JaimeStill/quill/internal/capability"
	"github.com/JaimeStill/quill/internal/content"
	"github.com/JaimeStill/quill/internal/render"
	"github.com/JaimeStill/quill/pkg/lifecycle"
	"github.com/JaimeStill/quill/pkg/storage"
	"github.com/JaimeStill/quill/workflow"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleDraft() *content.Draft {
	return &content.Draft{
		ContentType: workflow.ContentArticle,
		Title:       "Shipping Small Changes",
		Body:        "Small changes ship faster.\n\nThey are easier to review.\n\nRollbacks stay cheap.",
	}
}

// memoryStore records uploads for assertions.
type memoryStore struct {
	uploads map[string][]byte
	mimes   map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		uploads: make(map[string][]byte),
		mimes:   make(map[string]string),
	}
}

func (m *memoryStore) Start(*lifecycle.Coordinator) error { return nil }

func (m *memoryStore) Upload(_ context.Context, key string, reader io.Reader, contentType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	m.uploads[key] = data
	m.mimes[key] = contentType
	return nil
}

func (m *memoryStore) Download(_ context.Context, key string) (*storage.DownloadResult, error) {
	data, ok := m.uploads[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &storage.DownloadResult{
		Body:          io.NopCloser(bytes.NewReader(data)),
		ContentType:   m.mimes[key],
		ContentLength: int64(len(data)),
	}, nil
}

func (m *memoryStore) Delete(_ context.Context, key string) error {
	if _, ok := m.uploads[key]; !ok {
		return storage.ErrNotFound
	}
	delete(m.uploads, key)
	return nil
}

func (m *memoryStore) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.uploads[key]
	return ok, nil
}

func (m *memoryStore) Find(_ context.Context, key string) (*storage.BlobMeta, error) {
	data, ok := m.uploads[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &storage.BlobMeta{Key: key, ContentType: m.mimes[key], Size: int64(len(data))}, nil
}

func (m *memoryStore) List(context.Context, string, string, int32) (*storage.ListResult, error) {
	return &storage.ListResult{}, nil
}

func TestWritersRegistry(t *testing.T) {
	writers := render.NewWriters()

	for _, format := range []string{"html", "markdown", "pdf"} {
		w, err := writers.Resolve(format)
		if err != nil {
			t.Errorf("resolve %s: %v", format, err)
			continue
		}
		if w.Format() != format {
			t.Errorf("format: got %s, want %s", w.Format(), format)
		}
		if w.MIME() == "" {
			t.Errorf("%s has no mime type", format)
		}
	}

	if _, err := writers.Resolve("docx"); err == nil {
		t.Error("expected error for unsupported format")
	}
	if len(writers.Formats()) != 3 {
		t.Errorf("formats: got %v", writers.Formats())
	}
}

func TestHTMLWriter(t *testing.T) {
	data, err := render.NewHTMLWriter().Write(sampleDraft())
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}

	html := string(data)
	if !strings.Contains(html, "<h1>Shipping Small Changes</h1>") {
		t.Error("missing title heading")
	}
	if strings.Count(html, "<p>") != 3 {
		t.Errorf("paragraphs: got %d, want 3", strings.Count(html, "<p>"))
	}
}

func TestHTMLWriterEscapes(t *testing.T) {
	draft := &content.Draft{
		Title: "Using <script> safely",
		Body:  "Never inject <script>alert(1)</script> into pages.",
	}

	data, err := render.NewHTMLWriter().Write(draft)
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}

	html := string(data)
	if strings.Contains(html, "<script>alert") {
		t.Error("body script tag not escaped")
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Error("expected escaped markup")
	}
}

func TestMarkdownWriter(t *testing.T) {
	data, err := render.NewMarkdownWriter().Write(sampleDraft())
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}

	md := string(data)
	if !strings.HasPrefix(md, "# Shipping Small Changes\n\n") {
		t.Errorf("missing title heading: %q", md[:40])
	}
	if !strings.Contains(md, "They are easier to review.\n\n") {
		t.Error("missing paragraph separation")
	}
}

func TestPDFWriter(t *testing.T) {
	data, err := render.NewPDFWriter().Write(sampleDraft())
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}

	if !bytes.HasPrefix(data, []byte("%PDF-1.4")) {
		t.Error("missing pdf header")
	}
	if !bytes.Contains(data, []byte("%%EOF")) {
		t.Error("missing pdf trailer")
	}
}

func TestPDFWriterMultiPage(t *testing.T) {
	long := sampleDraft()
	long.Body = strings.TrimSpace(strings.Repeat("A paragraph of body text for pagination.\n\n", 120))

	data, err := render.NewPDFWriter().Write(long)
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}

	// Two page objects at minimum; Write verifies the count via pdfcpu.
	if bytes.Count(data, []byte("/Type /Page ")) < 2 {
		t.Error("expected multiple pages")
	}
}

func TestRequestedFormat(t *testing.T) {
	tests := []struct {
		name string
		req  workflow.Request
		want string
	}{
		{"default", workflow.Request{}, "html"},
		{
			"explicit pdf",
			workflow.Request{AdditionalContext: map[string]any{"output_format": "pdf"}},
			"pdf",
		},
		{
			"empty value falls back",
			workflow.Request{AdditionalContext: map[string]any{"output_format": ""}},
			"html",
		},
		{
			"non-string value falls back",
			workflow.Request{AdditionalContext: map[string]any{"output_format": 7}},
			"html",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := render.RequestedFormat(&tt.req); got != tt.want {
				t.Errorf("RequestedFormat() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCapabilityUploadsRendered(t *testing.T) {
	store := newMemoryStore()
	renderer := render.NewCapability(render.NewWriters(), store, testLogger())

	task := capability.Task{
		Step: &workflow.StepSpec{ID: "render", Capability: capability.Render},
		Request: &workflow.Request{
			RequestText:  "x",
			ContentTypes: []workflow.ContentType{workflow.ContentArticle},
			AdditionalContext: map[string]any{
				"run_id":        "run-123",
				"output_format": "markdown",
			},
		},
		Input: workflow.NewArtifact(workflow.ArtifactDraft, "draft", sampleDraft()),
	}

	artifact, err := renderer.Produce(context.Background(), task)
	if err != nil {
		t.Fatalf("produce failed: %v", err)
	}

	rendered, ok := workflow.Payload[*content.Rendered](artifact)
	if !ok {
		t.Fatal("payload is not rendered content")
	}

	if rendered.Format != "markdown" || rendered.Requested != "markdown" {
		t.Errorf("formats: %+v", rendered)
	}
	if rendered.StorageKey != "runs/run-123/render.markdown" {
		t.Errorf("storage key: got %s", rendered.StorageKey)
	}

	data, ok := store.uploads[rendered.StorageKey]
	if !ok {
		t.Fatal("rendered output not uploaded")
	}
	if int64(len(data)) != rendered.Size {
		t.Errorf("size: got %d, want %d", rendered.Size, len(data))
	}
	if store.mimes[rendered.StorageKey] != "text/markdown; charset=utf-8" {
		t.Errorf("mime: got %s", store.mimes[rendered.StorageKey])
	}
}

func TestCapabilityNilStoreKeepsBytes(t *testing.T) {
	renderer := render.NewCapability(render.NewWriters(), nil, testLogger())

	task := capability.Task{
		Step: &workflow.StepSpec{ID: "render", Capability: capability.Render},
		Request: &workflow.Request{
			RequestText:  "x",
			ContentTypes: []workflow.ContentType{workflow.ContentArticle},
		},
		Input: workflow.NewArtifact(workflow.ArtifactDraft, "draft", sampleDraft()),
	}

	artifact, err := renderer.Produce(context.Background(), task)
	if err != nil {
		t.Fatalf("produce failed: %v", err)
	}

	rendered, _ := workflow.Payload[*content.Rendered](artifact)
	if rendered.StorageKey != "" {
		t.Errorf("storage key set without store: %s", rendered.StorageKey)
	}
	if len(rendered.Data) == 0 {
		t.Error("rendered bytes not kept on artifact")
	}
	if rendered.Format != "html" {
		t.Errorf("format: got %s, want html default", rendered.Format)
	}
}

func TestCapabilityUnknownFormat(t *testing.T) {
	renderer := render.NewCapability(render.NewWriters(), nil, testLogger())

	task := capability.Task{
		Step: &workflow.StepSpec{ID: "render", Capability: capability.Render},
		Request: &workflow.Request{
			RequestText:       "x",
			ContentTypes:      []workflow.ContentType{workflow.ContentArticle},
			AdditionalContext: map[string]any{"output_format": "docx"},
		},
		Input: workflow.NewArtifact(workflow.ArtifactDraft, "draft", sampleDraft()),
	}

	if _, err := renderer.Produce(context.Background(), task); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestCapabilityRejectsWrongInput(t *testing.T) {
	renderer := render.NewCapability(render.NewWriters(), nil, testLogger())

	task := capability.Task{
		Step:    &workflow.StepSpec{ID: "render", Capability: capability.Render},
		Request: &workflow.Request{RequestText: "x"},
		Input:   workflow.NewArtifact(workflow.ArtifactBrief, "brief", &content.Brief{}),
	}

	if _, err := renderer.Produce(context.Background(), task); err == nil {
		t.Fatal("expected error for non-draft input")
	}
}
