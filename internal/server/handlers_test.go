package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmap/internal/common/config"
	commonerrors "jobmap/internal/common/errors"
	"jobmap/internal/common/logger"
	"jobmap/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

type fakeSearcher struct {
	jobs     []models.NormalizedJob
	err      error
	criteria models.SearchCriteria
}

func (f *fakeSearcher) Search(_ context.Context, criteria models.SearchCriteria) ([]models.NormalizedJob, error) {
	f.criteria = criteria
	return f.jobs, f.err
}

func newTestServer(t *testing.T, searcher Searcher) http.Handler {
	t.Helper()
	return New(config.ServerConfig{Port: 0}, "test", searcher, logger.NewTestLogger(t)).Handler()
}

func postJobs(handler http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/jobs", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

const polygonRequest = `{
  "keyword": "vendeur",
  "filters": {"contrat": "CDI"},
  "polygon": {
    "type": "Polygon",
    "coordinates": [[[2.0, 48.0], [3.0, 48.0], [3.0, 49.0], [2.0, 48.0]]]
  }
}`

// ==========================
// Search Endpoint Tests
// ==========================

func TestSearchEndpoint_Success(t *testing.T) {
	searcher := &fakeSearcher{jobs: []models.NormalizedJob{
		{ID: "job1", Title: "Vendeur"},
	}}
	handler := newTestServer(t, searcher)

	rec := postJobs(handler, polygonRequest)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Jobs []models.NormalizedJob `json:"jobs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Jobs, 1)
	assert.Equal(t, "job1", resp.Jobs[0].ID)

	assert.Equal(t, "vendeur", searcher.criteria.Keyword)
	assert.Equal(t, "CDI", searcher.criteria.ContractType)
	assert.True(t, searcher.criteria.HasArea())
}

func TestSearchEndpoint_EmptyResultIsAnArrayNotNull(t *testing.T) {
	handler := newTestServer(t, &fakeSearcher{jobs: nil})

	rec := postJobs(handler, `{"keyword": "introuvable"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"jobs": []}`, rec.Body.String())
}

func TestSearchEndpoint_IsochroneRing(t *testing.T) {
	searcher := &fakeSearcher{}
	handler := newTestServer(t, searcher)

	rec := postJobs(handler, `{
	  "keyword": "vendeur",
	  "isochrone": [[2.0, 48.0], [3.0, 48.0], [3.0, 49.0]]
	}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, searcher.criteria.HasArea())
}

func TestSearchEndpoint_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `{{{`},
		{"keyword wrong type", `{"keyword": 42}`},
		{"unknown field", `{"keywrd": "typo"}`},
		{"unsupported geometry type", `{"polygon": {"type": "Point", "coordinates": [2.0, 48.0]}}`},
		{"malformed polygon", `{"polygon": {"type": "Polygon"}}`},
		{"degenerate isochrone", `{"isochrone": [[2.0, 48.0], [3.0, 48.0]]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTestServer(t, &fakeSearcher{})

			rec := postJobs(handler, tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var resp map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp["error"])
			assert.Equal(t, []interface{}{}, resp["jobs"])
		})
	}
}

func TestSearchEndpoint_InternalErrorIsSanitized(t *testing.T) {
	handler := newTestServer(t, &fakeSearcher{
		err: errors.New("pq: connection refused on 10.0.0.5"),
	})

	rec := postJobs(handler, `{"keyword": "vendeur"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
	assert.Contains(t, rec.Body.String(), "Unexpected internal error")
}

func TestSearchEndpoint_AuthFailureMapsToBadGateway(t *testing.T) {
	handler := newTestServer(t, &fakeSearcher{
		err: commonerrors.NewAuthenticationFailedError(400, "invalid_client"),
	})

	rec := postJobs(handler, `{"keyword": "vendeur"}`)
	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.NotContains(t, rec.Body.String(), "invalid_client")
}

// ==========================
// Infrastructure Endpoint Tests
// ==========================

func TestHealthEndpoint(t *testing.T) {
	handler := newTestServer(t, &fakeSearcher{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestCORSPreflight(t *testing.T) {
	handler := newTestServer(t, &fakeSearcher{})

	req := httptest.NewRequest(http.MethodOptions, "/api/jobs", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDHeader(t *testing.T) {
	handler := newTestServer(t, &fakeSearcher{})

	rec := postJobs(handler, `{"keyword": "vendeur"}`)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodPost, "/api/jobs", strings.NewReader(`{}`))
	req.Header.Set("X-Request-ID", "given-id")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "given-id", rec.Header().Get("X-Request-ID"))
}
