package textsource

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tippmixmentor/tippmix/internal/pkg/config"
)

func TestFromTextSplitsPagesOnFormFeed(t *testing.T) {
	text := "\ufeffLabdarúgás, NB I\r\nSzo 18:00 Ferencváros - Újpest 1,45 4,20 6,50\n\n\fV 15:00 MTK - Paks 2,10 3,30 3,10\n\f"

	doc := FromText("slip.txt", "text", text)

	require.Len(t, doc.Pages, 2)
	assert.Equal(t, 1, doc.Pages[0].Number)
	assert.Equal(t, []string{"Labdarúgás, NB I", "Szo 18:00 Ferencváros - Újpest 1,45 4,20 6,50"}, doc.Pages[0].Lines)
	assert.Equal(t, 2, doc.Pages[1].Number)
	assert.Equal(t, 3, doc.LineCount())
}

func TestDocumentTextAddsPageMarkers(t *testing.T) {
	doc := &Document{Pages: []Page{
		{Number: 1, Lines: []string{"a"}},
		{Number: 2, Lines: []string{"b", "c"}},
	}}
	assert.Equal(t, "=== PAGE 1 ===\na\n=== PAGE 2 ===\nb\nc\n", doc.Text())
}

func TestJoinRow(t *testing.T) {
	runs := []pdf.Text{
		{S: "Újpest", X: 120, W: 30, FontSize: 8},
		{S: "Szo", X: 10, W: 15, FontSize: 8},
		{S: "18:00", X: 30, W: 20, FontSize: 8},
		{S: "Ferencváros", X: 55, W: 50, FontSize: 8},
		{S: " - ", X: 105, W: 10, FontSize: 8},
		// glyph runs that touch are glued together
		{S: "1,4", X: 200, W: 12, FontSize: 8},
		{S: "5", X: 212, W: 4, FontSize: 8},
	}
	assert.Equal(t, "Szo 18:00 Ferencváros - Újpest 1,45", joinRow(runs))
	assert.Equal(t, "", joinRow(nil))
}

func TestDecodeTextLatin2(t *testing.T) {
	// "Győr" in ISO-8859-2: ő is 0xF5
	got, err := DecodeText([]byte{'G', 'y', 0xF5, 'r'})
	require.NoError(t, err)
	assert.Equal(t, "Győr", got)

	got, err = DecodeText([]byte("Győr"))
	require.NoError(t, err)
	assert.Equal(t, "Győr", got)
}

func TestTextSourceExtract(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slip.txt")
	require.NoError(t, os.WriteFile(path, []byte("line one\nline two\n"), 0o644))

	doc, err := NewTextSource().Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "text", doc.Backend)
	assert.Equal(t, 2, doc.LineCount())

	_, err = NewTextSource().Extract(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestPdftotextMissingBinary(t *testing.T) {
	src := NewPdftotextSource(filepath.Join(t.TempDir(), "no-such-pdftotext"))
	_, err := src.Extract(context.Background(), "slip.pdf")
	assert.Error(t, err)
}

func TestForPath(t *testing.T) {
	cfg := config.Default().Extractor

	src, err := ForPath("slips/2025-10-18.txt", &cfg)
	require.NoError(t, err)
	assert.Equal(t, "text", src.Name())

	src, err = ForPath("slips/2025-10-18.PDF", &cfg)
	require.NoError(t, err)
	assert.Equal(t, "pdf", src.Name())

	cfg.PDFBackend = "pdftotext"
	src, err = ForPath("slips/2025-10-18.pdf", &cfg)
	require.NoError(t, err)
	assert.Equal(t, "pdftotext", src.Name())

	cfg.Source = "ocr"
	_, err = ForPath("x.pdf", &cfg)
	assert.Error(t, err)
}

func TestAvailableNames(t *testing.T) {
	assert.Equal(t, []string{"pdf", "pdftotext", "text"}, AvailableNames())
}
