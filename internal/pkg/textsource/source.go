// Package textsource turns slip files (PDF or already extracted text) into
// line-oriented pages for the extractor.
package textsource

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tippmixmentor/tippmix/internal/pkg/config"
)

// PageMarkerFormat is written before every page by Document.Text.
const PageMarkerFormat = "=== PAGE %d ==="

// Source extracts text from one input file.
type Source interface {
	Name() string
	Extract(ctx context.Context, path string) (*Document, error)
}

// Document is the text of one input, page by page.
type Document struct {
	Path    string `json:"path"`
	Backend string `json:"backend"`
	Pages   []Page `json:"pages"`
}

// Page holds the non-empty lines of one page in reading order.
type Page struct {
	Number int      `json:"number"`
	Lines  []string `json:"lines"`
}

// Text renders the document with page markers, the format every parser
// variant consumed.
func (d *Document) Text() string {
	var b strings.Builder
	for _, p := range d.Pages {
		fmt.Fprintf(&b, PageMarkerFormat, p.Number)
		b.WriteByte('\n')
		for _, line := range p.Lines {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// LineCount returns the number of lines across all pages.
func (d *Document) LineCount() int {
	n := 0
	for _, p := range d.Pages {
		n += len(p.Lines)
	}
	return n
}

// FromText builds a document from raw text; form feeds start a new page.
func FromText(path, backend, text string) *Document {
	text = strings.TrimPrefix(text, "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	doc := &Document{Path: path, Backend: backend}
	for i, chunk := range strings.Split(text, "\f") {
		page := Page{Number: i + 1}
		for _, line := range strings.Split(chunk, "\n") {
			line = strings.TrimRight(line, " \t")
			if strings.TrimSpace(line) == "" {
				continue
			}
			page.Lines = append(page.Lines, line)
		}
		// pdftotext ends output with a trailing form feed
		if len(page.Lines) == 0 && i > 0 {
			continue
		}
		doc.Pages = append(doc.Pages, page)
	}
	return doc
}

// ForPath resolves the configured source for a file. "auto" picks the text
// backend for .txt files and cfg.PDFBackend for everything else.
func ForPath(path string, cfg *config.ExtractorConfig) (Source, error) {
	name := strings.ToLower(strings.TrimSpace(cfg.Source))
	if name == "" || name == "auto" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".txt", ".text":
			name = "text"
		default:
			name = cfg.PDFBackend
		}
	}
	return New(name, cfg)
}

// New builds a registered source by name.
func New(name string, cfg *config.ExtractorConfig) (Source, error) {
	f, ok := FactoryByName(name)
	if !ok {
		return nil, fmt.Errorf("unknown text source %q (available: %v)", name, AvailableNames())
	}
	return f(cfg), nil
}
