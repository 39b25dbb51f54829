package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tippmixmentor/tippmix/internal/extractor"
	"github.com/tippmixmentor/tippmix/internal/pkg/models"
)

func sampleResult() *extractor.Result {
	return &extractor.Result{
		Summary: models.Summary{
			RunID:        "run-1",
			TotalMatches: 2,
			TotalMarkets: 2,
			Leagues: map[string]models.LeagueStats{
				"NB I":           {Matches: 1, Markets: 1},
				"Premier League": {Matches: 1, Markets: 1},
			},
		},
		Matches: []models.Match{
			{Date: "2025-10-18", Time: "18:00", League: "NB I", Team1: "Ferencváros", Team2: "Újpest",
				Markets: []models.Market{{Name: "Main market"}}, MarketCount: 1},
			{Date: "2025-10-18", Time: "16:00", League: "Premier League", Team1: "Arsenal", Team2: "Chelsea",
				Markets: []models.Market{{Name: "Main market"}}, MarketCount: 1},
		},
	}
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestPingAndHealth(t *testing.T) {
	ClearResults()
	h := NewRouter("extractor-service", 1<<20)

	rec := get(t, h, "/ping")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong\n", rec.Body.String())

	rec = get(t, h, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "extractor-service", body["service"])
	assert.NotContains(t, body, "last_run_id")
}

func TestSummaryBeforeAndAfterRun(t *testing.T) {
	ClearResults()
	h := NewRouter("svc", 1<<20)

	assert.Equal(t, http.StatusNotFound, get(t, h, "/summary").Code)

	SetResult(sampleResult())
	defer ClearResults()

	rec := get(t, h, "/summary")
	require.Equal(t, http.StatusOK, rec.Code)
	var s models.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	assert.Equal(t, "run-1", s.RunID)
	assert.Equal(t, 2, s.TotalMatches)
}

func TestMatchesFilters(t *testing.T) {
	SetResult(sampleResult())
	defer ClearResults()
	h := NewRouter("svc", 1<<20)

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"all", "/matches", 2},
		{"league folded", "/matches?league=nb%20i", 1},
		{"team accent insensitive", "/matches?team=ujpest", 1},
		{"team substring", "/matches?team=ars", 1},
		{"no hit", "/matches?league=Serie%20A", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, h, tt.query)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, strconv.Itoa(tt.want), rec.Header().Get("X-Matches-Count"))

			var body struct {
				Matches []models.Match `json:"matches"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Len(t, body.Matches, tt.want)
			assert.NotNil(t, body.Matches)
		})
	}
}

func TestExtractStoresResult(t *testing.T) {
	ClearResults()
	defer ClearResults()

	var gotType string
	RegisterExtractor(func(ctx context.Context, name, contentType string, data []byte) (*extractor.Result, error) {
		gotType = contentType
		res := sampleResult()
		res.Summary.RunID = "upload-" + name
		return res, nil
	})
	defer RegisterExtractor(nil)

	h := NewRouter("svc", 1<<20)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/extract?name=slip.txt", strings.NewReader("Szo 18:00 A - B 1,50 3,20 4,00"))
	req.Header.Set("Content-Type", "text/plain")
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain", gotType)

	s, ok := GetSummary()
	require.True(t, ok)
	assert.Equal(t, "upload-slip.txt", s.RunID)
}

func TestExtractErrors(t *testing.T) {
	ClearResults()
	defer ClearResults()
	RegisterExtractor(func(ctx context.Context, name, contentType string, data []byte) (*extractor.Result, error) {
		return nil, errors.New("malformed PDF")
	})
	defer RegisterExtractor(nil)

	h := NewRouter("svc", 16)

	post := func(body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/extract", strings.NewReader(body)))
		return rec
	}

	assert.Equal(t, http.StatusBadRequest, post("").Code)
	assert.Equal(t, http.StatusRequestEntityTooLarge, post(strings.Repeat("x", 64)).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, post("%PDF-1.4").Code)

	_, ok := GetSummary()
	assert.False(t, ok)
}

func TestExtractNotConfigured(t *testing.T) {
	RegisterExtractor(nil)
	h := NewRouter("svc", 1<<20)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/extract", strings.NewReader("x")))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetrics(t *testing.T) {
	h := NewRouter("svc", 1<<20)
	assert.Equal(t, http.StatusOK, get(t, h, "/metrics").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, h, "/metrics?recent=-1").Code)
}

func TestAddrFor(t *testing.T) {
	addr, err := AddrFor(8080)
	require.NoError(t, err)
	assert.Equal(t, ":8080", addr)

	_, err = AddrFor(0)
	assert.Error(t, err)
}

func TestRunRequiresReadHeaderTimeout(t *testing.T) {
	err := Run(context.Background(), ":0", "svc", 0, 1<<20)
	assert.Error(t, err)
}
