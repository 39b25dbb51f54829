package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/tippmixmentor/tippmix/internal/extractor"
)

// ExtractFunc extracts one uploaded document
type ExtractFunc func(ctx context.Context, name, contentType string, data []byte) (*extractor.Result, error)

// StoreResultFunc stores a finished result for /matches and /summary
type StoreResultFunc func(res *extractor.Result)

var (
	extractFunc     ExtractFunc
	storeResultFunc StoreResultFunc
)

// SetExtractFunc sets the function serving POST /extract
func SetExtractFunc(fn ExtractFunc) {
	extractFunc = fn
}

// SetStoreResultFunc sets the function storing extraction results
func SetStoreResultFunc(fn StoreResultFunc) {
	storeResultFunc = fn
}

// HandleExtract handles POST /extract. The body is the slip itself, either
// application/pdf or plain text; ?name= labels the source in the summary.
func HandleExtract(maxUploadBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if extractFunc == nil {
			respondError(w, http.StatusServiceUnavailable, "extraction is not configured")
			return
		}

		body := http.MaxBytesReader(w, r.Body, maxUploadBytes)
		data, err := io.ReadAll(body)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				respondError(w, http.StatusRequestEntityTooLarge, "upload exceeds size limit")
				return
			}
			respondError(w, http.StatusBadRequest, "failed to read body")
			return
		}
		if len(data) == 0 {
			respondError(w, http.StatusBadRequest, "empty body")
			return
		}

		name := r.URL.Query().Get("name")
		start := time.Now()
		res, err := extractFunc(r.Context(), name, r.Header.Get("Content-Type"), data)
		if err != nil {
			slog.Warn("Upload extraction failed", "name", name, "error", err)
			respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		if storeResultFunc != nil {
			storeResultFunc(res)
		}
		w.Header().Set("X-Query-Duration", time.Since(start).String())
		respondJSON(w, http.StatusOK, res)
	}
}
