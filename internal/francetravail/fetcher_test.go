package francetravail

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmap/internal/common/config"
	commonerrors "jobmap/internal/common/errors"
	"jobmap/internal/common/logger"
)

// ==========================
// Test Helper Functions
// ==========================

func fetcherConfig(searchURL string, pageSize int) config.FranceTravailConfig {
	return config.FranceTravailConfig{
		SearchURL:     searchURL,
		UserAgent:     "JobMapBot/1.0",
		PageSize:      pageSize,
		SearchTimeout: 2000,
	}
}

func makeOffers(prefix string, n int) []Offer {
	offers := make([]Offer, n)
	for i := range offers {
		offers[i] = Offer{ID: fmt.Sprintf("%s-%d", prefix, i)}
	}
	return offers
}

func writeResults(t *testing.T, w http.ResponseWriter, status int, offers []Offer) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(map[string]interface{}{"resultats": offers}))
}

func newTestFetcher(cfg config.FranceTravailConfig) *Fetcher {
	return NewFetcherWithDelay(cfg, NoDelay{}, logger.NewNoOpLogger())
}

// ==========================
// Pagination Tests
// ==========================

func TestFetcher_SinglePage(t *testing.T) {
	var requests []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.URL.Query().Get("range"))

		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "JobMapBot/1.0", r.Header.Get("User-Agent"))
		assert.Equal(t, "75", r.URL.Query().Get("departement"))
		assert.Equal(t, "boulanger", r.URL.Query().Get("motsCles"))
		assert.Equal(t, "CDI", r.URL.Query().Get("typeContrat"))

		writeResults(t, w, http.StatusOK, makeOffers("a", 3))
	}))
	defer srv.Close()

	f := newTestFetcher(fetcherConfig(srv.URL, 10))
	offers, err := f.FetchOffers(context.Background(), "75", "boulanger", "CDI", "tok", 250)
	require.NoError(t, err)
	assert.Len(t, offers, 3)
	assert.Equal(t, []string{"0-9"}, requests)
}

func TestFetcher_WalksRangeCursor(t *testing.T) {
	var requests []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rng := r.URL.Query().Get("range")
		requests = append(requests, rng)

		switch rng {
		case "0-9":
			writeResults(t, w, http.StatusPartialContent, makeOffers("a", 10))
		case "10-19":
			writeResults(t, w, http.StatusPartialContent, makeOffers("b", 10))
		default:
			writeResults(t, w, http.StatusOK, makeOffers("c", 4))
		}
	}))
	defer srv.Close()

	f := newTestFetcher(fetcherConfig(srv.URL, 10))
	offers, err := f.FetchOffers(context.Background(), "75", "", "", "tok", 250)
	require.NoError(t, err)
	assert.Len(t, offers, 24)
	assert.Equal(t, []string{"0-9", "10-19", "20-29"}, requests)
}

func TestFetcher_StopsAtCap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeResults(t, w, http.StatusPartialContent, makeOffers(r.URL.Query().Get("range"), 10))
	}))
	defer srv.Close()

	f := newTestFetcher(fetcherConfig(srv.URL, 10))
	offers, err := f.FetchOffers(context.Background(), "75", "", "", "tok", 25)
	require.NoError(t, err)
	assert.Len(t, offers, 25)
}

func TestFetcher_NoContentEndsPagination(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			writeResults(t, w, http.StatusPartialContent, makeOffers("a", 10))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	f := newTestFetcher(fetcherConfig(srv.URL, 10))
	offers, err := f.FetchOffers(context.Background(), "75", "", "", "tok", 250)
	require.NoError(t, err)
	assert.Len(t, offers, 10)
	assert.Equal(t, 2, calls)
}

func TestFetcher_EmptyDepartmentOmitsFilter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("departement"))
		writeResults(t, w, http.StatusOK, makeOffers("a", 1))
	}))
	defer srv.Close()

	f := newTestFetcher(fetcherConfig(srv.URL, 10))
	offers, err := f.FetchOffers(context.Background(), "", "", "", "tok", 250)
	require.NoError(t, err)
	assert.Len(t, offers, 1)
}

// ==========================
// Degradation Tests
// ==========================

func TestFetcher_MidPaginationFailureKeepsPartialResults(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			writeResults(t, w, http.StatusPartialContent, makeOffers("a", 10))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := newTestFetcher(fetcherConfig(srv.URL, 10))
	offers, err := f.FetchOffers(context.Background(), "75", "", "", "tok", 250)
	require.Error(t, err)
	assert.Len(t, offers, 10)

	stdErr := commonerrors.Normalize(err)
	assert.Equal(t, commonerrors.ErrCodeUpstreamDegraded, stdErr.Code)
	assert.Equal(t, "75", stdErr.Metadata["department"])
	assert.Equal(t, 500, stdErr.Metadata["status"])
}

func TestFetcher_FirstPageFailureReturnsNoOffers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	f := newTestFetcher(fetcherConfig(srv.URL, 10))
	offers, err := f.FetchOffers(context.Background(), "75", "", "", "tok", 250)
	require.Error(t, err)
	assert.Empty(t, offers)
	assert.Equal(t, commonerrors.ErrCodeUpstreamDegraded, commonerrors.Normalize(err).Code)
}
