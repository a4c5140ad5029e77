// internal/pipeline/pipeline.go
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/paulmach/orb"

	"jobmap/internal/cache"
	"jobmap/internal/common/config"
	"jobmap/internal/common/logger"
	"jobmap/internal/common/metrics"
	"jobmap/internal/francetravail"
	"jobmap/internal/geo"
	"jobmap/internal/models"
	"jobmap/internal/normalize"
)

// OfferFetcher retrieves raw offers for one department search.
type OfferFetcher interface {
	FetchOffers(ctx context.Context, department, keyword, contractType, token string, maxOffers int) ([]francetravail.Offer, error)
}

// Pipeline runs a full search: department resolution, concurrent upstream
// fetch, dedupe, geometric refinement and normalization.
type Pipeline struct {
	index      *geo.Index
	tokens     francetravail.TokenProvider
	fetcher    OfferFetcher
	normalizer *normalize.Normalizer
	results    *cache.ResultCache

	perDepartmentCap int
	globalCap        int
	logger           logger.Logger
}

func New(
	index *geo.Index,
	tokens francetravail.TokenProvider,
	fetcher OfferFetcher,
	normalizer *normalize.Normalizer,
	results *cache.ResultCache,
	cfg config.FranceTravailConfig,
	log logger.Logger,
) *Pipeline {
	return &Pipeline{
		index:            index,
		tokens:           tokens,
		fetcher:          fetcher,
		normalizer:       normalizer,
		results:          results,
		perDepartmentCap: cfg.PerDepartmentCap,
		globalCap:        cfg.GlobalCap,
		logger:           log,
	}
}

type departmentResult struct {
	offers []francetravail.Offer
	err    error
}

// Search executes the criteria end to end and returns normalized jobs.
// Upstream page failures degrade the result set instead of failing it;
// authentication failures and invalid geometry fail the whole search.
func (p *Pipeline) Search(ctx context.Context, criteria models.SearchCriteria) ([]models.NormalizedJob, error) {
	start := time.Now()

	cacheKey := cache.Key(criteria)
	if jobs, ok := p.results.Get(ctx, cacheKey); ok {
		p.logger.Info("Search served from cache", map[string]interface{}{
			"jobs": len(jobs),
		})
		metrics.SearchRequests.WithLabelValues("cache_hit").Inc()
		return jobs, nil
	}

	departments := []string{""}
	if criteria.HasArea() {
		resolved, err := p.index.ResolveDepartments(criteria.Area)
		if err != nil {
			metrics.SearchRequests.WithLabelValues("invalid").Inc()
			return nil, err
		}
		if len(resolved) == 0 {
			p.logger.Info("Search area overlaps no department", nil)
			metrics.SearchRequests.WithLabelValues("empty_area").Inc()
			return []models.NormalizedJob{}, nil
		}
		departments = resolved
	}

	token, err := p.tokens.GetToken(ctx)
	if err != nil {
		metrics.SearchRequests.WithLabelValues("auth_failed").Inc()
		return nil, err
	}

	offers, degraded := p.fetchAll(ctx, departments, criteria, token)

	offers = dedupeOffers(offers)
	if len(offers) > p.globalCap {
		offers = offers[:p.globalCap]
	}
	offers = filterLocated(offers, criteria)

	jobs := p.normalizer.Normalize(offers)

	if degraded == 0 {
		p.results.Set(ctx, cacheKey, jobs)
	}

	outcome := "ok"
	if degraded > 0 {
		outcome = "degraded"
	}
	metrics.SearchRequests.WithLabelValues(outcome).Inc()
	metrics.SearchDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	metrics.JobsReturned.Observe(float64(len(jobs)))

	p.logger.Info("Search completed", map[string]interface{}{
		"departments":          len(departments),
		"jobs":                 len(jobs),
		"degraded_departments": degraded,
		"duration_ms":          time.Since(start).Milliseconds(),
	})
	return jobs, nil
}

// fetchAll queries every department concurrently. Results are collected into
// a slice indexed by department position so the merge order is deterministic
// regardless of goroutine scheduling.
func (p *Pipeline) fetchAll(ctx context.Context, departments []string, criteria models.SearchCriteria, token string) ([]francetravail.Offer, int) {
	results := make([]departmentResult, len(departments))

	var wg sync.WaitGroup
	for i, department := range departments {
		wg.Add(1)
		go func(i int, department string) {
			defer wg.Done()
			offers, err := p.fetcher.FetchOffers(ctx, department, criteria.Keyword, criteria.ContractType, token, p.perDepartmentCap)
			results[i] = departmentResult{offers: offers, err: err}
		}(i, department)
	}
	wg.Wait()

	degraded := 0
	var merged []francetravail.Offer
	for i, res := range results {
		if res.err != nil {
			degraded++
			p.logger.Warn("Department fetch degraded", map[string]interface{}{
				"department": departments[i],
				"kept":       len(res.offers),
				"error":      res.err.Error(),
			})
		}
		merged = append(merged, res.offers...)
	}
	return merged, degraded
}

// dedupeOffers keeps the first occurrence of each offer identity.
func dedupeOffers(offers []francetravail.Offer) []francetravail.Offer {
	seen := make(map[string]struct{}, len(offers))
	out := offers[:0:0]
	for _, offer := range offers {
		key := offer.DedupeKey()
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, offer)
	}
	return out
}

// filterLocated drops offers without usable coordinates and, when the search
// carries an area, offers whose location falls outside it. Department overlap
// is only a coarse pre-filter; this is the exact refinement. A zero in either
// coordinate counts as missing.
func filterLocated(offers []francetravail.Offer, criteria models.SearchCriteria) []francetravail.Offer {
	out := offers[:0:0]
	for _, offer := range offers {
		lat := offer.LieuTravail.Latitude
		lng := offer.LieuTravail.Longitude
		if lat == 0 || lng == 0 {
			continue
		}
		if criteria.HasArea() && !geo.ContainsPoint(criteria.Area, orb.Point{lng, lat}) {
			continue
		}
		out = append(out, offer)
	}
	return out
}
