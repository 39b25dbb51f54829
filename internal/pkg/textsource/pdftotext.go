package textsource

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// PdftotextSource shells out to poppler's pdftotext in layout mode.
type PdftotextSource struct {
	binary string
}

func NewPdftotextSource(binary string) *PdftotextSource {
	if binary == "" {
		binary = "pdftotext"
	}
	return &PdftotextSource{binary: binary}
}

func (s *PdftotextSource) Name() string { return "pdftotext" }

func (s *PdftotextSource) Extract(ctx context.Context, path string) (*Document, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, s.binary, "-layout", "-enc", "UTF-8", path, "-")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("%s failed for %s: %w: %s", s.binary, path, err, msg)
		}
		return nil, fmt.Errorf("%s failed for %s: %w", s.binary, path, err)
	}

	// Layout mode pads columns with runs of spaces; the classifier expects single spaces.
	doc := FromText(path, s.Name(), stdout.String())
	for i := range doc.Pages {
		for j, line := range doc.Pages[i].Lines {
			doc.Pages[i].Lines[j] = strings.Join(strings.Fields(line), " ")
		}
	}
	return doc, nil
}
