// Package runner fans extraction out over many inputs.
package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/tippmixmentor/tippmix/internal/extractor"
	"github.com/tippmixmentor/tippmix/internal/pkg/config"
	"github.com/tippmixmentor/tippmix/internal/pkg/interfaces"
	"github.com/tippmixmentor/tippmix/internal/pkg/performance"
	"github.com/tippmixmentor/tippmix/internal/pkg/textsource"
)

// Options configures how inputs are processed
type Options struct {
	// Workers bounds the number of inputs processed at once
	Workers int
	// Timeout applies to each input separately; 0 means none
	Timeout time.Duration
	// LogStart logs when each input starts
	LogStart bool
	// OnError is called when an input fails. If nil, errors are logged.
	OnError func(path string, err error)
	// Cache is consulted before extracting; may be nil
	Cache interfaces.ResultCache
	// Tracker receives per-input metrics; may be nil
	Tracker *performance.Tracker
}

// OptionsFromConfig fills workers and timeout from the extractor config.
func OptionsFromConfig(cfg *config.ExtractorConfig) Options {
	return Options{
		Workers: cfg.Workers,
		Timeout: cfg.InputTimeout,
	}
}

// Outcome is the result of one input.
type Outcome struct {
	Path     string
	Result   *extractor.Result
	Cached   bool
	Err      error
	Duration time.Duration
}

// Runner extracts inputs with a shared Extractor.
type Runner struct {
	cfg  *config.ExtractorConfig
	ex   *extractor.Extractor
	opts Options
}

func New(cfg *config.ExtractorConfig, ex *extractor.Extractor, opts Options) *Runner {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.OnError == nil {
		opts.OnError = func(path string, err error) {
			slog.Error("Input failed", "path", path, "error", err)
		}
	}
	return &Runner{cfg: cfg, ex: ex, opts: opts}
}

// Run processes all paths with at most Workers in flight and returns
// outcomes in input order. It blocks until every input is done.
func (r *Runner) Run(ctx context.Context, paths []string) []Outcome {
	start := time.Now()
	out := make([]Outcome, len(paths))
	if len(paths) == 0 {
		return out
	}

	sem := make(chan struct{}, r.opts.Workers)
	var wg sync.WaitGroup

	for i, p := range paths {
		wg.Add(1)
		go func(i int, p string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				out[i] = Outcome{Path: p, Err: ctx.Err()}
				r.opts.OnError(p, ctx.Err())
				return
			}
			defer func() { <-sem }()

			if r.opts.LogStart {
				slog.Info("Starting input", "path", p)
			}
			out[i] = r.ExtractFile(ctx, p)
		}(i, p)
	}
	wg.Wait()

	if r.opts.Tracker != nil {
		r.opts.Tracker.RecordRun(time.Since(start))
	}
	return out
}

// ExtractFile processes one file, consulting the cache first.
func (r *Runner) ExtractFile(ctx context.Context, path string) Outcome {
	src, err := textsource.ForPath(path, r.cfg)
	if err != nil {
		return r.fail(path, "", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return r.fail(path, src.Name(), fmt.Errorf("failed to read %s: %w", path, err))
	}
	return r.process(ctx, path, src.Name(), data, func(ctx context.Context) (*textsource.Document, error) {
		return src.Extract(ctx, path)
	})
}

// ExtractUpload processes an uploaded body. PDFs are spooled to a
// temporary file for the configured PDF backend; anything else is text.
func (r *Runner) ExtractUpload(ctx context.Context, name, contentType string, data []byte) Outcome {
	if name == "" {
		name = "upload"
	}
	if !isPDF(contentType, data) {
		return r.process(ctx, name, "text", data, func(context.Context) (*textsource.Document, error) {
			text, err := textsource.DecodeText(data)
			if err != nil {
				return nil, fmt.Errorf("failed to decode upload: %w", err)
			}
			return textsource.FromText(name, "text", text), nil
		})
	}

	src, err := textsource.New(r.cfg.PDFBackend, r.cfg)
	if err != nil {
		return r.fail(name, "", err)
	}
	return r.process(ctx, name, src.Name(), data, func(ctx context.Context) (*textsource.Document, error) {
		tmp, err := os.CreateTemp("", "slip-*.pdf")
		if err != nil {
			return nil, fmt.Errorf("failed to spool upload: %w", err)
		}
		defer os.Remove(tmp.Name())

		if _, err := tmp.Write(data); err != nil {
			tmp.Close()
			return nil, fmt.Errorf("failed to spool upload: %w", err)
		}
		if err := tmp.Close(); err != nil {
			return nil, fmt.Errorf("failed to spool upload: %w", err)
		}

		doc, err := src.Extract(ctx, tmp.Name())
		if err != nil {
			return nil, err
		}
		doc.Path = name
		return doc, nil
	})
}

func (r *Runner) process(ctx context.Context, path, backend string, data []byte, load func(context.Context) (*textsource.Document, error)) Outcome {
	start := time.Now()
	key := CacheKey(r.ex.Fingerprint(), backend, data)

	if res, ok := r.cached(ctx, key); ok {
		relabel(res, path)
		r.record(path, backend, res, 0, 0, true, nil)
		return Outcome{Path: path, Result: res, Cached: true, Duration: time.Since(start)}
	}

	ictx, cancel := inputContext(ctx, r.opts.Timeout)
	defer cancel()

	doc, err := load(ictx)
	if err != nil {
		return r.fail(path, backend, fmt.Errorf("text extraction (%s): %w", backend, err))
	}
	textTime := time.Since(start)

	res, err := r.ex.Extract(ictx, doc)
	if err != nil {
		return r.fail(path, backend, err)
	}
	extractTime := time.Since(start) - textTime

	r.store(ctx, key, res)
	r.record(path, backend, res, textTime, extractTime, false, nil)

	slog.Info("Input extracted",
		"path", path,
		"backend", backend,
		"matches", res.Summary.TotalMatches,
		"markets", res.Summary.TotalMarkets,
		"dropped", res.Summary.LinesDropped,
		"duration", time.Since(start))
	return Outcome{Path: path, Result: res, Duration: time.Since(start)}
}

func (r *Runner) cached(ctx context.Context, key string) (*extractor.Result, bool) {
	if r.opts.Cache == nil {
		return nil, false
	}
	payload, ok, err := r.opts.Cache.Get(ctx, key)
	if err != nil {
		slog.Warn("Result cache read failed", "key", key, "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var res extractor.Result
	if err := json.Unmarshal(payload, &res); err != nil {
		slog.Warn("Discarding unreadable cache entry", "key", key, "error", err)
		return nil, false
	}
	return &res, true
}

func (r *Runner) store(ctx context.Context, key string, res *extractor.Result) {
	if r.opts.Cache == nil {
		return
	}
	payload, err := json.Marshal(res)
	if err != nil {
		slog.Warn("Failed to encode result for cache", "key", key, "error", err)
		return
	}
	if err := r.opts.Cache.Set(ctx, key, payload); err != nil {
		slog.Warn("Result cache write failed", "key", key, "error", err)
	}
}

func (r *Runner) fail(path, backend string, err error) Outcome {
	r.opts.OnError(path, err)
	r.record(path, backend, nil, 0, 0, false, err)
	return Outcome{Path: path, Err: err}
}

func (r *Runner) record(path, backend string, res *extractor.Result, textTime, extractTime time.Duration, cached bool, err error) {
	if r.opts.Tracker == nil {
		return
	}
	it := InputTimingFor(path, backend, res)
	it.TextTime = textTime
	it.ExtractTime = extractTime
	it.Cached = cached
	it.Success = err == nil
	if err != nil {
		it.Error = err.Error()
	}
	r.opts.Tracker.RecordInput(it)
}

// InputTimingFor copies the counters of a result into a tracker entry.
func InputTimingFor(path, backend string, res *extractor.Result) performance.InputTiming {
	it := performance.InputTiming{Path: path, Backend: backend}
	if res != nil {
		it.Pages = res.Summary.Pages
		it.Lines = res.Summary.LinesTotal
		it.Matches = res.Summary.TotalMatches
		it.Markets = res.Summary.TotalMarkets
		it.Dropped = res.Summary.LinesDropped
	}
	return it
}

// CacheKey identifies an input by extractor fingerprint, backend and content.
func CacheKey(fingerprint, backend string, data []byte) string {
	return fingerprint + ":" + backend + ":" + strconv.FormatUint(xxhash.Sum64(data), 16)
}

// relabel points a cached result at the path it was requested under and
// gives it the identity of the current run.
func relabel(res *extractor.Result, path string) {
	res.Summary.RunID = uuid.NewString()
	res.Summary.GeneratedAt = time.Now().UTC()
	res.Summary.Sources = []string{path}
	for i := range res.Matches {
		res.Matches[i].Source = path
	}
	for i := range res.Diagnostics {
		res.Diagnostics[i].Source = path
	}
}

// inputContext creates a context for one input with optional timeout
func inputContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return ctx, func() {} // No-op cancel function
}

func isPDF(contentType string, data []byte) bool {
	if strings.Contains(strings.ToLower(contentType), "pdf") {
		return true
	}
	return len(data) >= 5 && string(data[:5]) == "%PDF-"
}

// Results returns the successful results in input order.
func Results(outcomes []Outcome) []*extractor.Result {
	out := make([]*extractor.Result, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Err == nil && o.Result != nil {
			out = append(out, o.Result)
		}
	}
	return out
}

// Failed counts failed outcomes.
func Failed(outcomes []Outcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Err != nil {
			n++
		}
	}
	return n
}

var inputExts = map[string]bool{".pdf": true, ".txt": true, ".text": true}

// CollectInputs expands directories into the slip files they contain
// (.pdf, .txt), sorted; plain file arguments are kept as given.
func CollectInputs(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("input %s: %w", arg, err)
		}
		if !info.IsDir() {
			out = append(out, arg)
			continue
		}

		var found []string
		err = filepath.WalkDir(arg, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && inputExts[strings.ToLower(filepath.Ext(p))] {
				found = append(found, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", arg, err)
		}
		sort.Strings(found)
		out = append(out, found...)
	}
	return out, nil
}
