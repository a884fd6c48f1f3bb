package maptiler

import (
	"context"
	"strings"
	"sync"

	"github.com/mirror-factory/event-sync-service/internal/domain"
	"github.com/mirror-factory/event-sync-service/internal/observability"
)

// CachedGeocoder memoizes geocode results for the lifetime of one pipeline
// run, keyed by the normalized query. Both resolved and not-found outcomes
// are cached so a venue that missed once is not re-queried; errors are not,
// so a transient failure can succeed later in the run.
//
// The map is mutex-guarded: the enrichment phase of the discovery adapter
// geocodes from concurrent batch workers.
type CachedGeocoder struct {
	inner   domain.Geocoder
	metrics *observability.Metrics

	mu      sync.Mutex
	entries map[string]domain.GeocodingResult
}

// NewCachedGeocoder creates a per-run cache decorator around a geocoder.
func NewCachedGeocoder(inner domain.Geocoder, metrics *observability.Metrics) *CachedGeocoder {
	return &CachedGeocoder{
		inner:   inner,
		metrics: metrics,
		entries: make(map[string]domain.GeocodingResult),
	}
}

func (c *CachedGeocoder) Geocode(ctx context.Context, query string) (domain.GeocodingResult, error) {
	key := strings.ToLower(strings.TrimSpace(query))

	c.mu.Lock()
	if result, ok := c.entries[key]; ok {
		c.mu.Unlock()
		c.metrics.GeocodeCache.WithLabelValues("hit").Inc()
		return result, nil
	}
	c.mu.Unlock()

	c.metrics.GeocodeCache.WithLabelValues("miss").Inc()

	result, err := c.inner.Geocode(ctx, query)
	if err != nil {
		return result, err
	}

	c.mu.Lock()
	c.entries[key] = result
	c.mu.Unlock()
	return result, nil
}
