// Package pages turns an uploaded document into per-page text.
package pages

import (
	"bytes"
	"context"
	"net/http"
	"strings"

	"github.com/dtnitsch/qgc-crawler/models"
)

// Kind is the detected document format.
type Kind string

const (
	KindPDF  Kind = "pdf"
	KindHTML Kind = "html"
	KindText Kind = "text"
)

var pdfMagic = []byte("%PDF-")

// Detect picks the document format from its leading bytes.
func Detect(data []byte) Kind {
	head := data[:min(len(data), 1024)]
	if bytes.HasPrefix(bytes.TrimLeft(head, "\x00\t\r\n "), pdfMagic) {
		return KindPDF
	}

	contentType := http.DetectContentType(head)
	switch {
	case strings.HasPrefix(contentType, "application/pdf"):
		return KindPDF
	case strings.HasPrefix(contentType, "text/html"), strings.HasPrefix(contentType, "text/xml"):
		return KindHTML
	}
	return KindText
}

// Extract returns the text of each page in order. A document with no text on
// any page is an extraction error; empty pages in between are kept.
func Extract(ctx context.Context, data []byte) ([]string, error) {
	if len(data) == 0 {
		return nil, models.ExtractionError("empty document", nil)
	}

	var (
		pages []string
		err   error
	)
	switch Detect(data) {
	case KindPDF:
		pages, err = extractPDF(ctx, data)
	case KindHTML:
		pages, err = extractHTML(ctx, data)
	default:
		pages, err = extractText(ctx, data)
	}
	if err != nil {
		return nil, err
	}

	for _, p := range pages {
		if strings.TrimSpace(p) != "" {
			return pages, nil
		}
	}
	return nil, models.ExtractionError("no extractable text in document", nil)
}

// cleanLines trims every line and drops runs of blank lines.
func cleanLines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	var b strings.Builder
	b.Grow(len(s))
	blank := false
	for _, line := range strings.Split(s, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			blank = b.Len() > 0
			continue
		}
		if b.Len() > 0 {
			if blank {
				b.WriteByte('\n')
			}
			b.WriteByte('\n')
		}
		b.WriteString(line)
		blank = false
	}
	return b.String()
}
