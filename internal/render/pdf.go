package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/JaimeStill/quill/internal/content"
)

const (
	pdfLineWidth    = 90
	pdfLinesPerPage = 46
	pdfFontSize     = 12
	pdfLeading      = 14
	pdfMarginX      = 72
	pdfTopY         = 720
)

type pdfWriter struct{}

// NewPDFWriter returns the PDF writer. Output is a plain Helvetica text
// document; pdfcpu verifies the result parses before it leaves the
// writer.
func NewPDFWriter() Writer {
	return &pdfWriter{}
}

func (w *pdfWriter) Format() string { return "pdf" }
func (w *pdfWriter) MIME() string   { return "application/pdf" }

func (w *pdfWriter) Write(draft *content.Draft) ([]byte, error) {
	lines := wrapLines(draft)
	pages := paginate(lines, pdfLinesPerPage)
	data := buildPDF(pages)

	count, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return nil, fmt.Errorf("verify pdf: %w", err)
	}
	if count != len(pages) {
		return nil, fmt.Errorf("verify pdf: expected %d pages, counted %d", len(pages), count)
	}
	return data, nil
}

func wrapLines(draft *content.Draft) []string {
	lines := []string{strings.TrimSpace(draft.Title), ""}
	for _, p := range paragraphs(draft.Body) {
		lines = append(lines, wrapText(p, pdfLineWidth)...)
		lines = append(lines, "")
	}
	return lines
}

func wrapText(text string, width int) []string {
	var lines []string
	var line strings.Builder
	for _, word := range strings.Fields(text) {
		if line.Len() > 0 && line.Len()+1+len(word) > width {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(word)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return lines
}

func paginate(lines []string, perPage int) [][]string {
	var pages [][]string
	for len(lines) > perPage {
		pages = append(pages, lines[:perPage])
		lines = lines[perPage:]
	}
	pages = append(pages, lines)
	return pages
}

// buildPDF assembles objects in order: catalog, pages node, font, then a
// page and content stream per page, followed by the xref table.
func buildPDF(pages [][]string) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	objectCount := 3 + 2*len(pages)
	offsets := make([]int, objectCount+1)

	writeObj := func(num int, body string) {
		offsets[num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}

	writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(2, fmt.Sprintf(
		"<< /Type /Pages /Kids [%s] /Count %d >>",
		strings.Join(kids, " "), len(pages),
	))
	writeObj(3, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	for i, page := range pages {
		pageNum := 4 + 2*i
		streamNum := pageNum + 1
		writeObj(pageNum, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
				"/Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>",
			streamNum,
		))
		stream := contentStream(page)
		writeObj(streamNum, fmt.Sprintf(
			"<< /Length %d >>\nstream\n%sendstream",
			len(stream), stream,
		))
	}

	xrefStart := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", objectCount+1)
	buf.WriteString("0000000000 65535 f \n")
	for num := 1; num <= objectCount; num++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[num])
	}
	fmt.Fprintf(
		&buf,
		"trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		objectCount+1, xrefStart,
	)
	return buf.Bytes()
}

func contentStream(lines []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "BT\n/F1 %d Tf\n%d %d Td\n%d TL\n", pdfFontSize, pdfMarginX, pdfTopY, pdfLeading)
	for _, line := range lines {
		fmt.Fprintf(&sb, "(%s) Tj\nT*\n", escapePDF(line))
	}
	sb.WriteString("ET\n")
	return sb.String()
}

func escapePDF(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}
