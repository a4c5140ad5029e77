// internal/normalize/logo.go
package normalize

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"jobmap/internal/common/config"
	"jobmap/internal/common/logger"
)

// LogoResolver maps a canonical company slug to a logo URL. Implementations
// return "" when no logo is available.
type LogoResolver interface {
	Resolve(slug string) string
}

type noLogos struct{}

func (noLogos) Resolve(string) string { return "" }

// ClearbitResolver probes the Clearbit logo service with a HEAD request per
// company slug. Results are cached for the lifetime of the resolver so a
// brand appearing in many offers is only probed once.
type ClearbitResolver struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger

	mu    sync.Mutex
	known map[string]string
}

func NewClearbitResolver(cfg config.LogoConfig, log logger.Logger) *ClearbitResolver {
	return &ClearbitResolver{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Millisecond,
		},
		logger: log,
		known:  make(map[string]string),
	}
}

// Resolve returns the logo URL for slug, or "" when the probe fails or the
// service has no logo for that domain. Probe errors are swallowed: a missing
// logo never fails a search.
func (r *ClearbitResolver) Resolve(slug string) string {
	if slug == "" {
		return ""
	}

	r.mu.Lock()
	if url, ok := r.known[slug]; ok {
		r.mu.Unlock()
		return url
	}
	r.mu.Unlock()

	url := r.probe(slug)

	r.mu.Lock()
	r.known[slug] = url
	r.mu.Unlock()
	return url
}

func (r *ClearbitResolver) probe(slug string) string {
	candidate := fmt.Sprintf("%s/%s.com?size=150", r.baseURL, slug)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodHead, candidate, nil)
	if err != nil {
		return ""
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.logger.Debug("Logo probe failed", map[string]interface{}{
			"slug":  slug,
			"error": err.Error(),
		})
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}
	return candidate
}
