package render

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/JaimeStill/quill/internal/content"
)

const htmlPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<article>
<h1>{{.Title}}</h1>
{{range .Paragraphs}}<p>{{.}}</p>
{{end}}</article>
</body>
</html>
`

type htmlWriter struct {
	tmpl *template.Template
}

// NewHTMLWriter returns the HTML writer. Paragraphs split on blank
// lines; html/template handles escaping.
func NewHTMLWriter() Writer {
	return &htmlWriter{
		tmpl: template.Must(template.New("page").Parse(htmlPage)),
	}
}

func (w *htmlWriter) Format() string { return "html" }
func (w *htmlWriter) MIME() string   { return "text/html; charset=utf-8" }

func (w *htmlWriter) Write(draft *content.Draft) ([]byte, error) {
	var buf bytes.Buffer
	err := w.tmpl.Execute(&buf, struct {
		Title      string
		Paragraphs []string
	}{
		Title:      draft.Title,
		Paragraphs: paragraphs(draft.Body),
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func paragraphs(body string) []string {
	var out []string
	for _, block := range strings.Split(body, "\n\n") {
		block = strings.TrimSpace(block)
		if block != "" {
			out = append(out, block)
		}
	}
	return out
}
