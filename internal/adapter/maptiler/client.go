// Package maptiler implements domain.Geocoder using the MapTiler Geocoding
// API, constrained to street-level Central Florida results.
package maptiler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/mirror-factory/event-sync-service/internal/domain"
	"github.com/mirror-factory/event-sync-service/internal/fetch"
	"github.com/mirror-factory/event-sync-service/internal/observability"
)

// Requests are biased toward downtown Orlando so ambiguous street names
// resolve inside the metro area.
const (
	proximityLng = -81.379
	proximityLat = 28.538
)

// minInterval spaces geocoding calls; MapTiler's free tier tolerates ~10 rps
// but the pipeline has no need to go that fast.
const minInterval = 100 * time.Millisecond

// Client implements domain.Geocoder using the MapTiler Geocoding API.
type Client struct {
	key     string
	baseURL string
	http    *fetch.Client
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewClient creates a MapTiler geocoding client with its own rate limiter.
func NewClient(key string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		key:     key,
		baseURL: "https://api.maptiler.com/geocoding",
		http:    fetch.New("maptiler", minInterval, timeout),
		metrics: metrics,
		logger:  logger,
	}
}

// Geocode resolves a free-text query to coordinates. A result is accepted
// only when it is inside the metro bounding box and looks street-level: the
// place name starts with a house number, or the provider's relevance score
// is at least 0.8. Anything vaguer returns Found=false rather than an error.
func (c *Client) Geocode(ctx context.Context, query string) (domain.GeocodingResult, error) {
	params := url.Values{
		"key":       {c.key},
		"proximity": {fmt.Sprintf("%g,%g", proximityLng, proximityLat)},
		"country":   {"us"},
		"limit":     {"1"},
		"types":     {"address"},
	}
	u := fmt.Sprintf("%s/%s.json?%s", c.baseURL, url.PathEscape(query), params.Encode())

	body, err := c.http.Get(ctx, u, nil)
	if err != nil {
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return domain.GeocodingResult{}, fmt.Errorf("geocode %q: %w", query, err)
	}

	var resp response
	if err := json.Unmarshal(body, &resp); err != nil {
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
		return domain.GeocodingResult{}, fmt.Errorf("decode geocode response: %w", err)
	}

	if len(resp.Features) == 0 {
		c.metrics.GeocodeRequests.WithLabelValues("unresolved").Inc()
		return domain.GeocodingResult{}, nil
	}

	f := resp.Features[0]
	if len(f.Center) != 2 {
		c.metrics.GeocodeRequests.WithLabelValues("unresolved").Inc()
		return domain.GeocodingResult{}, nil
	}
	lng, lat := f.Center[0], f.Center[1]

	if lat < domain.BoundsLatMin || lat > domain.BoundsLatMax ||
		lng < domain.BoundsLngMin || lng > domain.BoundsLngMax {
		c.logger.Debug("geocode result outside metro bounds", "query", query, "lat", lat, "lng", lng)
		c.metrics.GeocodeRequests.WithLabelValues("unresolved").Inc()
		return domain.GeocodingResult{}, nil
	}

	if !startsWithDigit(f.PlaceName) && f.Relevance < 0.8 {
		c.logger.Debug("geocode result too vague", "query", query, "place", f.PlaceName, "relevance", f.Relevance)
		c.metrics.GeocodeRequests.WithLabelValues("unresolved").Inc()
		return domain.GeocodingResult{}, nil
	}

	c.metrics.GeocodeRequests.WithLabelValues("resolved").Inc()
	return domain.GeocodingResult{Lat: lat, Lng: lng, Found: true}, nil
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}

// MapTiler API response types.

type response struct {
	Features []feature `json:"features"`
}

type feature struct {
	Center    []float64 `json:"center"` // [lng, lat]
	PlaceName string    `json:"place_name"`
	Relevance float64   `json:"relevance"`
}
