package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/tippmixmentor/tippmix/internal/extractor"
	"github.com/tippmixmentor/tippmix/internal/pkg/cache"
	pkgconfig "github.com/tippmixmentor/tippmix/internal/pkg/config"
	"github.com/tippmixmentor/tippmix/internal/pkg/export"
	"github.com/tippmixmentor/tippmix/internal/pkg/logging"
	"github.com/tippmixmentor/tippmix/internal/pkg/performance"
	"github.com/tippmixmentor/tippmix/internal/pkg/runner"
)

type options struct {
	configPath  string
	out         string
	format      string
	source      string
	workers     int
	diagnostics bool
	quiet       bool
}

func main() {
	if err := run(); err != nil {
		slog.Error("Extractor failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	opts := parseFlags()
	if flag.NArg() == 0 {
		flag.Usage()
		return fmt.Errorf("no input files")
	}

	appConfig, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.source != "" {
		appConfig.Extractor.Source = opts.source
	}
	if opts.workers > 0 {
		appConfig.Extractor.Workers = opts.workers
	}

	logger, closer, err := logging.SetupLogger(&appConfig.Logging, "extractor")
	if err != nil {
		slog.Warn("Failed to setup logging, continuing with default logger", "error", err)
		logger = slog.Default()
	} else {
		defer closer.Close()
	}

	aliases, err := loadAliases(appConfig.Extractor.AliasesFile)
	if err != nil {
		return err
	}

	inputs, err := runner.CollectInputs(flag.Args())
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return fmt.Errorf("no .pdf or .txt inputs found in %v", flag.Args())
	}
	slog.Info("Extracting", "inputs", len(inputs), "source", appConfig.Extractor.Source, "workers", appConfig.Extractor.Workers)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	resultCache := cache.New(&appConfig.Cache)
	if resultCache != nil {
		defer resultCache.Close()
	}

	ex := extractor.New(&appConfig.Extractor, aliases, logger)
	runOpts := runner.OptionsFromConfig(&appConfig.Extractor)
	runOpts.Cache = resultCache
	runOpts.Tracker = performance.GetTracker()
	runOpts.LogStart = len(inputs) > 1

	outcomes := runner.New(&appConfig.Extractor, ex, runOpts).Run(ctx, inputs)
	failed := runner.Failed(outcomes)

	results := runner.Results(outcomes)
	if len(results) == 0 {
		return fmt.Errorf("all %d inputs failed", failed)
	}
	merged := ex.Merge(results...)
	if !opts.diagnostics {
		merged.Diagnostics = nil
	}

	if err := write(opts, merged); err != nil {
		return err
	}

	if !opts.quiet {
		export.NewExporter().PrintSummary(os.Stderr, merged.Summary)
		performance.GetTracker().PrintSummary()
	}
	if failed > 0 {
		slog.Warn("Some inputs failed", "failed", failed, "total", len(inputs))
	}
	return nil
}

func parseFlags() options {
	var opts options

	defaultConfig := os.Getenv("CONFIG_PATH")

	flag.StringVar(&opts.configPath, "config", defaultConfig, "Path to config file (can be set via CONFIG_PATH env var). Empty = built-in defaults")
	flag.StringVar(&opts.out, "out", "", "Output file (.json or .csv). Empty = stdout")
	flag.StringVar(&opts.format, "format", "json", "Stdout format: json or csv")
	flag.StringVar(&opts.source, "source", "", "Override extractor.source: auto, pdf, pdftotext, text")
	flag.IntVar(&opts.workers, "workers", 0, "Override extractor.workers")
	flag.BoolVar(&opts.diagnostics, "diagnostics", false, "Include dropped-line diagnostics in stdout JSON")
	flag.BoolVar(&opts.quiet, "quiet", false, "Do not print the run summary to stderr")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <slip.pdf|slip.txt|dir>...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	return opts
}

func loadConfig(path string) (*pkgconfig.Config, error) {
	if path == "" {
		return pkgconfig.Default(), nil
	}
	cfg, err := pkgconfig.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func loadAliases(path string) (*extractor.Aliases, error) {
	if path == "" {
		return extractor.NewAliases(), nil
	}
	a, err := extractor.LoadAliases(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load aliases: %w", err)
	}
	return a, nil
}

func write(opts options, res *extractor.Result) error {
	exp := export.NewExporter()
	if opts.out != "" {
		if err := exp.WriteFile(opts.out, res.Summary, res.Matches); err != nil {
			return err
		}
		slog.Info("Results written", "path", opts.out, "matches", len(res.Matches))
		return nil
	}
	return writeStdout(os.Stdout, opts.format, res)
}

func writeStdout(w io.Writer, format string, res *extractor.Result) error {
	exp := export.NewExporter()
	switch strings.ToLower(format) {
	case "csv":
		return exp.WriteCSV(w, res.Matches)
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	default:
		return fmt.Errorf("unknown format %q (json or csv)", format)
	}
}
