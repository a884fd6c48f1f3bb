package domain

import "context"

// GeocodingResult is a coordinate pair returned by a geocoding provider.
// Found distinguishes "resolved" from "no viable street-level match", which
// is a legitimate outcome rather than an error.
type GeocodingResult struct {
	Lat   float64
	Lng   float64
	Found bool
}

// Geocoder converts a free-text address or venue query to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (GeocodingResult, error)
}
