package domain

import (
	"math"
	"regexp"
	"strings"
)

// Central Florida bounding box. Covers the 50-mile search radius used by the
// API adapters; excludes Tampa, Jacksonville, Miami and non-FL locations.
const (
	BoundsLatMin = 27.90
	BoundsLatMax = 29.35
	BoundsLngMin = -82.10
	BoundsLngMax = -80.50
)

// Downtown Orlando fallback sentinel. Adapters that cannot resolve a venue
// emit exactly this pair; the coordinate validator rejects it so defaulted
// records never reach the snapshot.
const (
	FallbackLat = 28.5383
	FallbackLng = -81.3792
)

// RejectReason classifies why a record was dropped during validation.
type RejectReason string

const (
	RejectMissingCoords    RejectReason = "missing or zero coordinates"
	RejectDowntownFallback RejectReason = "downtown fallback coordinates"
	RejectOutOfBounds      RejectReason = "outside metro bounds"
	RejectSchemaInvalid    RejectReason = "schema invalid"
)

var (
	urlRe     = regexp.MustCompile(`^https?://.+`)
	isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
)

// ValidateSchema checks required fields and format constraints, collecting
// every applicable failure rather than stopping at the first. An empty slice
// means the record is valid.
func ValidateSchema(e Event) []string {
	var reasons []string

	if e.ID == "" {
		reasons = append(reasons, "missing id")
	}
	if strings.TrimSpace(e.Title) == "" {
		reasons = append(reasons, "missing title")
	}
	if strings.TrimSpace(e.Venue) == "" {
		reasons = append(reasons, "missing venue")
	}
	if e.StartDate == "" {
		reasons = append(reasons, "missing startDate")
	}
	if len(e.Coordinates) != 2 {
		reasons = append(reasons, "missing or invalid coordinates")
	}
	if e.Source.Type == "" {
		reasons = append(reasons, "missing source type")
	}
	if e.URL != "" && !urlRe.MatchString(e.URL) {
		reasons = append(reasons, "invalid URL format: "+e.URL)
	}
	if e.StartDate != "" && !isoDateRe.MatchString(e.StartDate) {
		reasons = append(reasons, "invalid startDate format: "+e.StartDate)
	}

	return reasons
}

// ValidateCoordinates checks that a lat/lng pair is present, is not the
// downtown fallback sentinel, and falls inside the metro bounding box.
// Returns the rejection reason and false when the pair is invalid.
func ValidateCoordinates(lat, lng float64) (RejectReason, bool) {
	if lat == 0 || lng == 0 || math.IsNaN(lat) || math.IsNaN(lng) {
		return RejectMissingCoords, false
	}
	if lat == FallbackLat && lng == FallbackLng {
		return RejectDowntownFallback, false
	}
	if lat < BoundsLatMin || lat > BoundsLatMax || lng < BoundsLngMin || lng > BoundsLngMax {
		return RejectOutOfBounds, false
	}
	return "", true
}
