package textsource

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// gapFactor is the horizontal gap, relative to font size, above which two
// text runs on a row are separated by a space.
const gapFactor = 0.25

// PDFSource reads PDFs in process.
type PDFSource struct{}

func NewPDFSource() *PDFSource {
	return &PDFSource{}
}

func (s *PDFSource) Name() string { return "pdf" }

func (s *PDFSource) Extract(ctx context.Context, path string) (doc *Document, err error) {
	// the reader panics on some malformed xref tables
	defer func() {
		if rec := recover(); rec != nil {
			doc, err = nil, fmt.Errorf("malformed PDF %s: %v", path, rec)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening PDF %s: %w", path, err)
	}
	defer f.Close()

	doc = &Document{Path: path, Backend: s.Name()}
	total := r.NumPage()
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}

		rows, err := p.GetTextByRow()
		if err != nil {
			return nil, fmt.Errorf("error reading page %d of %s: %w", i, path, err)
		}

		page := Page{Number: i}
		for _, row := range rows {
			line := joinRow(row.Content)
			if strings.TrimSpace(line) == "" {
				continue
			}
			page.Lines = append(page.Lines, line)
		}
		doc.Pages = append(doc.Pages, page)
	}

	return doc, nil
}

// joinRow rebuilds one visual line from positioned text runs.
func joinRow(texts []pdf.Text) string {
	if len(texts) == 0 {
		return ""
	}
	runs := make([]pdf.Text, len(texts))
	copy(runs, texts)
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].X < runs[j].X })

	var b strings.Builder
	prevEnd := 0.0
	for i, t := range runs {
		if i > 0 {
			size := t.FontSize
			if size <= 0 {
				size = 10
			}
			if t.X-prevEnd > size*gapFactor && !strings.HasSuffix(b.String(), " ") && !strings.HasPrefix(t.S, " ") {
				b.WriteByte(' ')
			}
		}
		b.WriteString(t.S)
		prevEnd = t.X + t.W
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
