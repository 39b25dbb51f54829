package runner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tippmixmentor/tippmix/internal/extractor"
	"github.com/tippmixmentor/tippmix/internal/pkg/cache"
	"github.com/tippmixmentor/tippmix/internal/pkg/config"
	"github.com/tippmixmentor/tippmix/internal/pkg/performance"
)

const slipA = "Labdarúgás, NB I\nSzo 18:00 Ferencváros - Újpest 1,45 4,20 6,50\n"
const slipB = "Olasz Serie A\nV 20:45 Inter - Milan 2,00 3,40 3,60\nV 18:00 Roma - Lazio\n"

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func newRunner(opts Options) *Runner {
	cfg := config.Default().Extractor
	return New(&cfg, extractor.New(&cfg, nil, nil), opts)
}

func TestRunKeepsInputOrder(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", slipA)
	b := writeFile(t, dir, "b.txt", slipB)
	missing := filepath.Join(dir, "missing.txt")

	var mu sync.Mutex
	var failed []string
	r := newRunner(Options{
		Workers: 2,
		OnError: func(path string, err error) {
			mu.Lock()
			defer mu.Unlock()
			failed = append(failed, path)
		},
	})

	outcomes := r.Run(context.Background(), []string{b, missing, a})
	require.Len(t, outcomes, 3)

	assert.Equal(t, b, outcomes[0].Path)
	require.NoError(t, outcomes[0].Err)
	assert.Equal(t, "Inter", outcomes[0].Result.Matches[0].Team1)
	assert.Equal(t, 1, outcomes[0].Result.Summary.LinesDropped)

	assert.Error(t, outcomes[1].Err)
	assert.Equal(t, []string{missing}, failed)

	assert.Equal(t, "Ferencváros", outcomes[2].Result.Matches[0].Team1)

	assert.Len(t, Results(outcomes), 2)
	assert.Equal(t, 1, Failed(outcomes))
}

func TestRunUsesCache(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", slipA)
	copyOfA := writeFile(t, dir, "copy.txt", slipA)

	tracker := performance.NewTracker()
	r := newRunner(Options{Workers: 1, Cache: cache.NewMemoryCache(time.Hour), Tracker: tracker})

	first := r.Run(context.Background(), []string{a})
	require.NoError(t, first[0].Err)
	assert.False(t, first[0].Cached)

	second := r.Run(context.Background(), []string{copyOfA})
	require.NoError(t, second[0].Err)
	assert.True(t, second[0].Cached)
	assert.Equal(t, []string{copyOfA}, second[0].Result.Summary.Sources)
	assert.Equal(t, copyOfA, second[0].Result.Matches[0].Source)

	snap := tracker.Snapshot(10)
	assert.Equal(t, 2, snap.TotalRuns)
	assert.Equal(t, 2, snap.TotalInputs)
	assert.Equal(t, 1, snap.CacheHits)
}

func TestRunCancelled(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", slipA)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes := newRunner(Options{Workers: 1, OnError: func(string, error) {}}).Run(ctx, []string{a})
	require.Len(t, outcomes, 1)
	assert.True(t, errors.Is(outcomes[0].Err, context.Canceled))
}

func TestExtractUploadText(t *testing.T) {
	out := newRunner(Options{}).ExtractUpload(context.Background(), "slip.txt", "text/plain; charset=utf-8", []byte(slipA))
	require.NoError(t, out.Err)
	require.Len(t, out.Result.Matches, 1)
	assert.Equal(t, "slip.txt", out.Result.Matches[0].Source)
}

func TestExtractUploadBrokenPDF(t *testing.T) {
	out := newRunner(Options{OnError: func(string, error) {}}).ExtractUpload(context.Background(), "", "application/pdf", []byte("not a pdf"))
	assert.Error(t, out.Err)
	assert.Equal(t, "upload", out.Path)
}

func TestCacheKey(t *testing.T) {
	cfg := config.Default().Extractor
	fp := extractor.New(&cfg, nil, nil).Fingerprint()

	k1 := CacheKey(fp, "text", []byte(slipA))
	assert.Equal(t, k1, CacheKey(fp, "text", []byte(slipA)))
	assert.NotEqual(t, k1, CacheKey(fp, "pdf", []byte(slipA)))
	assert.NotEqual(t, k1, CacheKey(fp, "text", []byte(slipB)))
	assert.Contains(t, k1, extractor.RulesVersion)

	tests := []struct {
		name   string
		mutate func(c *config.ExtractorConfig)
	}{
		{"max odds", func(c *config.ExtractorConfig) { c.MaxOdds = 10 }},
		{"min odds", func(c *config.ExtractorConfig) { c.MinOdds = 1.2 }},
		{"default market", func(c *config.ExtractorConfig) { c.DefaultMarket = "1X2" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changed := config.Default().Extractor
			tt.mutate(&changed)
			other := extractor.New(&changed, nil, nil).Fingerprint()
			assert.NotEqual(t, fp, other)
			assert.NotEqual(t, k1, CacheKey(other, "text", []byte(slipA)))
		})
	}

	aliasPath := writeFile(t, t.TempDir(), "aliases.yaml", "teams:\n  Kazincbarcika: [KBSC]\n")
	aliases, err := extractor.LoadAliases(aliasPath)
	require.NoError(t, err)
	assert.NotEqual(t, fp, extractor.New(&cfg, aliases, nil).Fingerprint())
}

func TestCacheIgnoresResultsOfOtherSettings(t *testing.T) {
	dir := t.TempDir()
	slip := writeFile(t, dir, "high.txt", "Labdarúgás, NB I\nSzo 18:00 Paks - MTK 12,00 3,40 1,20\n")
	shared := cache.NewMemoryCache(time.Hour)

	wide := config.Default().Extractor
	first := New(&wide, extractor.New(&wide, nil, nil), Options{Workers: 1, Cache: shared}).Run(context.Background(), []string{slip})
	require.NoError(t, first[0].Err)
	require.Len(t, first[0].Result.Matches, 1)

	again := New(&wide, extractor.New(&wide, nil, nil), Options{Workers: 1, Cache: shared}).Run(context.Background(), []string{slip})
	require.NoError(t, again[0].Err)
	assert.True(t, again[0].Cached)
	assert.NotEqual(t, first[0].Result.Summary.RunID, again[0].Result.Summary.RunID)

	narrow := config.Default().Extractor
	narrow.MaxOdds = 10
	second := New(&narrow, extractor.New(&narrow, nil, nil), Options{Workers: 1, Cache: shared, OnError: func(string, error) {}}).Run(context.Background(), []string{slip})
	require.NoError(t, second[0].Err)
	assert.False(t, second[0].Cached)
	assert.Empty(t, second[0].Result.Matches)
}

func TestCollectInputs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "slips/b.pdf", "x")
	writeFile(t, dir, "slips/a.TXT", "x")
	writeFile(t, dir, "slips/notes.md", "x")
	writeFile(t, dir, "slips/nested/c.txt", "x")
	single := writeFile(t, dir, "single.csv", "x")

	got, err := CollectInputs([]string{filepath.Join(dir, "slips"), single})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "slips", "a.TXT"),
		filepath.Join(dir, "slips", "b.pdf"),
		filepath.Join(dir, "slips", "nested", "c.txt"),
		single,
	}, got)

	_, err = CollectInputs([]string{filepath.Join(dir, "nope")})
	assert.Error(t, err)
}
