// internal/cache/cache.go
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"jobmap/internal/common/database"
	"jobmap/internal/common/logger"
	"jobmap/internal/common/metrics"
	"jobmap/internal/models"
)

// ResultCache stores normalized search results in Redis keyed by a hash of
// the search criteria. A nil *ResultCache is valid and disables caching.
type ResultCache struct {
	redis  *database.RedisClient
	ttl    time.Duration
	logger logger.Logger
}

func New(redis *database.RedisClient, ttl time.Duration, log logger.Logger) *ResultCache {
	return &ResultCache{
		redis:  redis,
		ttl:    ttl,
		logger: log,
	}
}

// Key derives a stable cache key from the search criteria. The polygon is
// folded in via its WKT-like string form so distinct areas never collide.
func Key(criteria models.SearchCriteria) string {
	var sb strings.Builder
	sb.WriteString(strings.ToLower(strings.TrimSpace(criteria.Keyword)))
	sb.WriteString("|")
	sb.WriteString(strings.ToLower(strings.TrimSpace(criteria.ContractType)))
	sb.WriteString("|")
	if criteria.HasArea() {
		for _, polygon := range criteria.Area {
			for _, ring := range polygon {
				for _, pt := range ring {
					fmt.Fprintf(&sb, "%.6f,%.6f;", pt[0], pt[1])
				}
			}
		}
	}
	sum := sha256.Sum256([]byte(sb.String()))
	return "jobmap:search:" + hex.EncodeToString(sum[:])
}

// Get returns the cached jobs for key, or (nil, false) on miss. Cache errors
// are logged and treated as misses so Redis outages never fail a search.
func (c *ResultCache) Get(ctx context.Context, key string) ([]models.NormalizedJob, bool) {
	if c == nil || c.redis == nil {
		return nil, false
	}

	raw, err := c.redis.Get(ctx, key)
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("Cache read failed", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
		metrics.CacheHits.WithLabelValues("miss").Inc()
		return nil, false
	}

	var jobs []models.NormalizedJob
	if err := json.Unmarshal([]byte(raw), &jobs); err != nil {
		c.logger.Warn("Cache entry corrupt, discarding", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		metrics.CacheHits.WithLabelValues("miss").Inc()
		return nil, false
	}

	metrics.CacheHits.WithLabelValues("hit").Inc()
	return jobs, true
}

// Set stores jobs under key with the configured TTL. Failures are logged and
// otherwise ignored.
func (c *ResultCache) Set(ctx context.Context, key string, jobs []models.NormalizedJob) {
	if c == nil || c.redis == nil {
		return
	}

	payload, err := json.Marshal(jobs)
	if err != nil {
		c.logger.Warn("Cache encode failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return
	}
	if err := c.redis.Set(ctx, key, payload, c.ttl); err != nil {
		c.logger.Warn("Cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}
