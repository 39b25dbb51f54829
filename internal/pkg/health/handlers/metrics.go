package handlers

import (
	"net/http"
	"strconv"

	"github.com/tippmixmentor/tippmix/internal/pkg/performance"
)

const defaultRecentInputs = 20

// HandleMetrics handles /metrics endpoint. ?recent=N limits the per-input list.
func HandleMetrics(w http.ResponseWriter, r *http.Request) {
	recent := defaultRecentInputs
	if v := r.URL.Query().Get("recent"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "recent must be a non-negative integer")
			return
		}
		recent = n
	}

	respondJSON(w, http.StatusOK, performance.GetTracker().Snapshot(recent))
}
