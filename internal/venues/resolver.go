package venues

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mirror-factory/event-sync-service/internal/domain"
)

// Resolver performs tiered venue resolution: canonical alias table, fuzzy
// substring match, then (for ResolveWithGeocode) a geocoding fallback.
// It deliberately never substitutes a city-center default — "no match" is a
// legitimate outcome and callers that want a fallback must choose one
// themselves.
type Resolver struct {
	table    *Table
	geocoder domain.Geocoder
	logger   *slog.Logger
}

// NewResolver creates a resolver. Pass a nil geocoder to disable the
// geocoding fallback tier (canonical lookup still works).
func NewResolver(table *Table, geocoder domain.Geocoder, logger *slog.Logger) *Resolver {
	return &Resolver{table: table, geocoder: geocoder, logger: logger}
}

// normalizeQuery lowercases, strips a leading "the", and trims.
func normalizeQuery(venueName string) string {
	s := strings.ToLower(venueName)
	s = strings.TrimPrefix(s, "the ")
	return strings.TrimSpace(s)
}

// Lookup resolves a venue name against the canonical table only.
// Tries, in order: exact alias match; query contains an alias key; alias key
// contains the query (only for queries of at least 4 characters, to avoid
// single-word false positives). First match wins.
func (r *Resolver) Lookup(venueName string) (Match, bool) {
	normalized := normalizeQuery(venueName)
	if normalized == "" {
		return Match{}, false
	}

	if m, ok := r.table.index[normalized]; ok {
		return m, true
	}

	for _, a := range r.table.aliases {
		if strings.Contains(normalized, a.key) {
			return a.match, true
		}
	}

	if len(normalized) >= 4 {
		for _, a := range r.table.aliases {
			if strings.Contains(a.key, normalized) {
				return a.match, true
			}
		}
	}

	return Match{}, false
}

// ResolveWithGeocode resolves a venue with the full tier stack: canonical
// table, then geocoding the street address (when present), then geocoding
// the venue name itself. Geocode failures degrade to "not found" — network
// trouble during fallback never aborts an adapter.
func (r *Resolver) ResolveWithGeocode(ctx context.Context, venueName, address, city string) (Match, bool) {
	if m, ok := r.Lookup(venueName); ok {
		return m, true
	}

	if r.geocoder == nil {
		return Match{}, false
	}

	if address != "" {
		if result, ok := r.geocode(ctx, address, city); ok {
			return Match{Lat: result.Lat, Lng: result.Lng, Address: address}, true
		}
	}

	if result, ok := r.geocode(ctx, venueName, city); ok {
		return Match{Lat: result.Lat, Lng: result.Lng}, true
	}

	return Match{}, false
}

func (r *Resolver) geocode(ctx context.Context, place, city string) (domain.GeocodingResult, bool) {
	query := place + ", FL"
	if city != "" {
		query = place + ", " + city + ", FL"
	}

	result, err := r.geocoder.Geocode(ctx, query)
	if err != nil {
		r.logger.Debug("geocode failed", "query", query, "error", err)
		return domain.GeocodingResult{}, false
	}
	return result, result.Found
}
