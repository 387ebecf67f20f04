package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/JaimeStill/quill/internal/content"
)

type markdownWriter struct{}

// NewMarkdownWriter returns the Markdown writer.
func NewMarkdownWriter() Writer {
	return &markdownWriter{}
}

func (w *markdownWriter) Format() string { return "markdown" }
func (w *markdownWriter) MIME() string   { return "text/markdown; charset=utf-8" }

func (w *markdownWriter) Write(draft *content.Draft) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n\n", strings.TrimSpace(draft.Title))
	for _, p := range paragraphs(draft.Body) {
		buf.WriteString(p)
		buf.WriteString("\n\n")
	}
	return buf.Bytes(), nil
}
