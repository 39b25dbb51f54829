package textsource

import (
	"context"
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// TextSource reads already extracted text, e.g. OCR output. Files that are
// not valid UTF-8 are decoded as ISO-8859-2, the usual Hungarian legacy encoding.
type TextSource struct{}

func NewTextSource() *TextSource {
	return &TextSource{}
}

func (s *TextSource) Name() string { return "text" }

func (s *TextSource) Extract(ctx context.Context, path string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	text, err := DecodeText(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return FromText(path, s.Name(), text), nil
}

// DecodeText returns data as a UTF-8 string.
func DecodeText(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	out, err := charmap.ISO8859_2.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
