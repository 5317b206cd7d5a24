package exercises

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/liftlog/internal/telemetry/metrics"
	"github.com/2beens/liftlog/internal/telemetry/tracing"
)

const (
	megabyte = 1024 * 1024
	// exercises are immutable, cached entries live until evicted
	catalogCacheExpire = 0
)

type catalogRepo interface {
	GetMany(ctx context.Context, ids []string) ([]Exercise, error)
}

// Catalog resolves exercise ids, keeping the already seen exercises in an in-process cache.
type Catalog struct {
	repo    catalogRepo
	cache   *freecache.Cache
	metrics *metrics.Manager
}

func NewCatalog(repo catalogRepo, cacheSizeMB int, metricsManager *metrics.Manager) *Catalog {
	if cacheSizeMB <= 0 {
		cacheSizeMB = 1
	}
	return &Catalog{
		repo:    repo,
		cache:   freecache.NewCache(cacheSizeMB * megabyte),
		metrics: metricsManager,
	}
}

// Lookup returns the exercises for the given ids, keyed by id. Ids that do not
// resolve are absent from the result.
func (c *Catalog) Lookup(ctx context.Context, ids []string) (_ map[string]Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "exercises.catalog.lookup")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	found := make(map[string]Exercise, len(ids))
	var missing []string
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		if e, ok := c.fromCache(id); ok {
			found[id] = e
			continue
		}
		missing = append(missing, id)
	}

	c.countLookup("hit", len(found))
	c.countLookup("miss", len(missing))
	span.SetAttributes(attribute.Int("cache.hits", len(found)))
	span.SetAttributes(attribute.Int("cache.misses", len(missing)))

	if len(missing) == 0 {
		return found, nil
	}

	fetched, err := c.repo.GetMany(ctx, missing)
	if err != nil {
		return nil, fmt.Errorf("get exercises: %w", err)
	}
	for _, e := range fetched {
		found[e.ID] = e
		c.store(e)
	}

	return found, nil
}

func (c *Catalog) fromCache(id string) (Exercise, bool) {
	cached, err := c.cache.Get(cacheKey(id))
	if err != nil {
		return Exercise{}, false
	}

	var e Exercise
	if err := json.Unmarshal(cached, &e); err != nil {
		log.Errorf("exercise catalog: unmarshal cached exercise %s: %s", id, err)
		c.cache.Del(cacheKey(id))
		return Exercise{}, false
	}
	return e, true
}

func (c *Catalog) store(e Exercise) {
	eBytes, err := json.Marshal(e)
	if err != nil {
		log.Errorf("exercise catalog: marshal exercise %s: %s", e.ID, err)
		return
	}
	if err := c.cache.Set(cacheKey(e.ID), eBytes, catalogCacheExpire); err != nil {
		log.Debugf("exercise catalog: cache exercise %s: %s", e.ID, err)
	}
}

func (c *Catalog) countLookup(result string, n int) {
	if c.metrics == nil || n == 0 {
		return
	}
	c.metrics.CounterExerciseCacheLookup.WithLabelValues(result).Add(float64(n))
}

func cacheKey(id string) []byte {
	return []byte("exercise::" + id)
}
