// internal/francetravail/fetcher.go
package francetravail

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"jobmap/internal/common/config"
	commonerrors "jobmap/internal/common/errors"
	"jobmap/internal/common/logger"
	"jobmap/internal/common/metrics"
)

// DelayPolicy controls the pause between successive page requests so
// tests can run with zero delay.
type DelayPolicy interface {
	Wait(ctx context.Context) error
}

// FixedDelay pauses a constant duration between pages.
type FixedDelay struct {
	Delay time.Duration
}

func (d FixedDelay) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d.Delay):
		return nil
	}
}

// NoDelay skips the inter-page pause entirely.
type NoDelay struct{}

func (NoDelay) Wait(context.Context) error { return nil }

// Fetcher performs range-cursor pagination against the offer search
// endpoint for one department/keyword/contract combination at a time.
// Fetchers share no mutable cursor state and are safe for concurrent
// use across departments.
type Fetcher struct {
	searchURL  string
	userAgent  string
	pageSize   int
	httpClient *http.Client
	delay      DelayPolicy
	logger     logger.Logger
}

// NewFetcher creates a fetcher from configuration with the standard
// fixed inter-page delay.
func NewFetcher(cfg config.FranceTravailConfig, log logger.Logger) *Fetcher {
	return NewFetcherWithDelay(cfg, FixedDelay{Delay: config.GetDuration(cfg.PageDelay)}, log)
}

// NewFetcherWithDelay creates a fetcher with an explicit delay policy.
func NewFetcherWithDelay(cfg config.FranceTravailConfig, delay DelayPolicy, log logger.Logger) *Fetcher {
	return &Fetcher{
		searchURL:  cfg.SearchURL,
		userAgent:  cfg.UserAgent,
		pageSize:   cfg.PageSize,
		httpClient: &http.Client{Timeout: config.GetDuration(cfg.SearchTimeout)},
		delay:      delay,
		logger:     log.WithFields(map[string]interface{}{"component": "offer_fetcher"}),
	}
}

// FetchOffers retrieves listings page by page. Pagination stops when a
// page comes back empty, short, or the department cap is reached. Any
// non-success upstream status aborts the loop and returns whatever was
// accumulated together with an UPSTREAM_DEGRADED error; callers contain
// it rather than failing the request. An empty department code means an
// unrestricted nationwide fetch.
func (f *Fetcher) FetchOffers(ctx context.Context, department, keyword, contractType, token string, maxOffers int) ([]Offer, error) {
	var offers []Offer
	rangeStart := 0
	page := 0

	for {
		if page > 0 {
			if err := f.delay.Wait(ctx); err != nil {
				return offers, err
			}
		}

		batch, status, err := f.fetchPage(ctx, department, keyword, contractType, token, rangeStart)
		if err != nil {
			f.logger.Warn("page fetch failed, returning partial results", map[string]interface{}{
				"department": department,
				"rangeStart": rangeStart,
				"rangeEnd":   rangeStart + f.pageSize - 1,
				"status":     status,
				"error":      err.Error(),
			})
			metrics.FetchFailures.WithLabelValues(departmentLabel(department), strconv.Itoa(status)).Inc()
			return offers, commonerrors.NewUpstreamDegradedError(department, page, status)
		}

		metrics.FetchPages.WithLabelValues(departmentLabel(department)).Inc()
		page++

		if len(batch) == 0 {
			break
		}

		offers = append(offers, batch...)
		if len(offers) >= maxOffers {
			offers = offers[:maxOffers]
			break
		}
		if len(batch) < f.pageSize {
			break
		}

		rangeStart += f.pageSize
	}

	return offers, nil
}

func (f *Fetcher) fetchPage(ctx context.Context, department, keyword, contractType, token string, rangeStart int) ([]Offer, int, error) {
	params := url.Values{}
	params.Set("range", fmt.Sprintf("%d-%d", rangeStart, rangeStart+f.pageSize-1))
	if keyword != "" {
		params.Set("motsCles", keyword)
	}
	if contractType != "" {
		params.Set("typeContrat", contractType)
	}
	if department != "" {
		params.Set("departement", department)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.searchURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	// The search endpoint answers 200 for a full window, 206 for a
	// partial one and 204 when the window is past the end of the set.
	switch resp.StatusCode {
	case http.StatusNoContent:
		return nil, resp.StatusCode, nil
	case http.StatusOK, http.StatusPartialContent:
	default:
		return nil, resp.StatusCode, fmt.Errorf("search returned status %d", resp.StatusCode)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("decode search response: %w", err)
	}

	return payload.Resultats, resp.StatusCode, nil
}

func departmentLabel(department string) string {
	if department == "" {
		return "all"
	}
	return department
}
