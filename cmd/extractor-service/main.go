package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tippmixmentor/tippmix/internal/extractor"
	"github.com/tippmixmentor/tippmix/internal/pkg/cache"
	pkgconfig "github.com/tippmixmentor/tippmix/internal/pkg/config"
	"github.com/tippmixmentor/tippmix/internal/pkg/health"
	"github.com/tippmixmentor/tippmix/internal/pkg/logging"
	"github.com/tippmixmentor/tippmix/internal/pkg/performance"
	"github.com/tippmixmentor/tippmix/internal/pkg/runner"
)

const (
	defaultConfigPath = "configs/production.yaml"
	serviceName       = "extractor-service"
)

type options struct {
	configPath string
	runFor     time.Duration
}

func main() {
	if err := run(); err != nil {
		slog.Error("Extractor service failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	opts := parseFlags()
	slog.Info("Loading config", "path", opts.configPath)

	appConfig, err := pkgconfig.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, closer, err := logging.SetupLogger(&appConfig.Logging, serviceName)
	if err != nil {
		slog.Warn("Failed to setup logging, continuing with default logger", "error", err)
		logger = slog.Default()
	} else {
		defer closer.Close()
		slog.Info("Logging initialized", "service", serviceName)
	}

	aliases := extractor.NewAliases()
	if appConfig.Extractor.AliasesFile != "" {
		aliases, err = extractor.LoadAliases(appConfig.Extractor.AliasesFile)
		if err != nil {
			return fmt.Errorf("failed to load aliases: %w", err)
		}
	}

	ctx, cancel := createContext(opts.runFor)
	defer cancel()
	setupSignalHandler(ctx, cancel)

	resultCache := cache.New(&appConfig.Cache)
	if resultCache != nil {
		defer resultCache.Close()
	}

	ex := extractor.New(&appConfig.Extractor, aliases, logger)
	runOpts := runner.OptionsFromConfig(&appConfig.Extractor)
	runOpts.Cache = resultCache
	runOpts.Tracker = performance.GetTracker()
	r := runner.New(&appConfig.Extractor, ex, runOpts)

	health.RegisterExtractor(func(ctx context.Context, name, contentType string, data []byte) (*extractor.Result, error) {
		out := r.ExtractUpload(ctx, name, contentType, data)
		if out.Err != nil {
			return nil, out.Err
		}
		return out.Result, nil
	})

	healthAddr, err := health.AddrFor(appConfig.Health.Port)
	if err != nil {
		return fmt.Errorf("health.port must be specified in config: %w", err)
	}
	if err := health.Run(ctx, healthAddr, serviceName, appConfig.Health.ReadHeaderTimeout, appConfig.Health.MaxUploadBytes); err != nil {
		return err
	}

	if flag.NArg() > 0 {
		go extractInitial(ctx, r, ex, flag.Args())
	}

	<-ctx.Done()
	performance.GetTracker().PrintSummary()
	slog.Info("Extractor service stopped gracefully")
	return nil
}

// extractInitial processes the command line inputs once and publishes the
// merged result.
func extractInitial(ctx context.Context, r *runner.Runner, ex *extractor.Extractor, args []string) {
	inputs, err := runner.CollectInputs(args)
	if err != nil {
		slog.Error("Failed to collect inputs", "error", err)
		return
	}

	outcomes := r.Run(ctx, inputs)
	results := runner.Results(outcomes)
	if len(results) == 0 {
		slog.Warn("Initial extraction produced no results", "inputs", len(inputs))
		return
	}
	merged := ex.Merge(results...)
	health.SetResult(merged)
	slog.Info("Initial extraction done",
		"inputs", len(inputs),
		"failed", runner.Failed(outcomes),
		"matches", merged.Summary.TotalMatches,
		"markets", merged.Summary.TotalMarkets)
}

func parseFlags() options {
	var opts options

	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = defaultConfigPath
	}

	flag.StringVar(&opts.configPath, "config", defaultConfig, "Path to config file (can be set via CONFIG_PATH env var)")
	flag.DurationVar(&opts.runFor, "run-for", 0, "Auto-stop after duration (e.g. 10s, 1m). 0 = run until SIGINT/SIGTERM")
	flag.Parse()
	return opts
}

func createContext(runFor time.Duration) (context.Context, context.CancelFunc) {
	if runFor > 0 {
		return context.WithTimeout(context.Background(), runFor)
	}
	return context.WithCancel(context.Background())
}

func setupSignalHandler(ctx context.Context, cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("Received shutdown signal, stopping service...", "signal", sig.String())
			cancel()
		case <-ctx.Done():
			signal.Stop(sigChan)
		}
	}()
}
