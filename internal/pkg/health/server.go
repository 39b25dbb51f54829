package health

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/tippmixmentor/tippmix/internal/pkg/health/handlers"
)

func init() {
	// Set the store functions for handlers
	handlers.SetGetMatchesFunc(GetMatches)
	handlers.SetGetSummaryFunc(GetSummary)
	handlers.SetStoreResultFunc(SetResult)
}

// NewRouter builds the HTTP routes of the extractor service.
func NewRouter(service string, maxUploadBytes int64) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	// Health endpoints
	r.Get("/ping", handlers.HandlePing)
	r.Get("/health", handlers.HandleHealth(service))

	// Metrics endpoint
	r.Get("/metrics", handlers.HandleMetrics)

	// Results of the last run
	r.Get("/matches", handlers.HandleMatches)
	r.Get("/summary", handlers.HandleSummary)

	// On-demand extraction of an uploaded slip
	r.Post("/extract", handlers.HandleExtract(maxUploadBytes))

	return r
}

// Run starts the server in the background and shuts it down when ctx ends.
func Run(ctx context.Context, addr string, service string, readHeaderTimeout time.Duration, maxUploadBytes int64) error {
	if readHeaderTimeout <= 0 {
		return fmt.Errorf("read_header_timeout must be specified in config")
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(service, maxUploadBytes),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	go func() {
		slog.Info("Health server listening", "service", service, "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Health server error", "service", service, "error", err)
		}
	}()
	return nil
}

func AddrFor(port int) (string, error) {
	if port <= 0 {
		return "", fmt.Errorf("port must be greater than 0, got %d", port)
	}
	return fmt.Sprintf(":%d", port), nil
}
