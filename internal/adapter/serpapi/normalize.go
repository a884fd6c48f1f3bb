package serpapi

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/mirror-factory/event-sync-service/internal/domain"
)

var (
	cityRe    = regexp.MustCompile(`(?i)orlando|kissimmee|winter park|sanford|daytona|cocoa|celebration|maitland|altamonte|oviedo|clermont|apopka`)
	weekdayRe = regexp.MustCompile(`(?i)(?:mon|tue|wed|thu|fri|sat|sun),?\s+([a-z]+)\s+(\d+)`)
	slugRe    = regexp.MustCompile(`[^a-z0-9]+`)
	digitsRe  = regexp.MustCompile(`[^0-9]`)
)

// normalize builds a canonical record from one Google Events result. Results
// carry no coordinates, so the venue resolver decides placement; an
// unresolvable venue drops the record rather than pinning it downtown.
func (a *Adapter) normalize(ctx context.Context, raw serpEvent) (domain.Event, bool) {
	venueName := raw.Venue.Name
	if venueName == "" && len(raw.Address) > 0 {
		venueName = raw.Address[0]
	}
	if venueName == "" {
		venueName = "Unknown Venue"
	}

	address := strings.Join(firstN(raw.Address, 2), ", ")
	city := "Orlando"
	for _, part := range raw.Address {
		if cityRe.MatchString(part) {
			city = part
			break
		}
	}

	match, ok := a.resolver.ResolveWithGeocode(ctx, venueName, address, city)
	if !ok {
		a.logger.Debug("serpapi venue unresolved, dropping event", "title", raw.Title, "venue", venueName)
		return domain.Event{}, false
	}

	now := domain.NowISO()
	categoryText := strings.Join([]string{raw.Title, raw.Description, raw.Venue.Name}, " ")

	return domain.Event{
		ID:          eventID(raw),
		Title:       raw.Title,
		Description: raw.Description,
		Category:    domain.InferCategory(categoryText),
		Tags:        []string{},
		Coordinates: []float64{match.Lng, match.Lat},
		Venue:       venueName,
		Address:     address,
		City:        city,
		Region:      "Central Florida",
		StartDate:   parseDate(raw),
		Timezone:    "America/New_York",
		URL:         raw.Link,
		ImageURL:    raw.Thumbnail,
		Source:      domain.Source{Type: domain.SourceSerpAPI, FetchedAt: now},
		CreatedAt:   now,
		UpdatedAt:   now,
		Status:      domain.StatusActive,
	}, true
}

// parseDate handles the loose shapes Google Events publishes: "Feb 12",
// "Sat, Feb 15", "today"/"tomorrow" phrases, or nothing at all. Dates with no
// year get one assigned on the assumption listings are forward-looking.
func parseDate(raw serpEvent) string {
	if raw.Date.StartDate != "" {
		for _, layout := range []string{"2006-01-02", "Jan 2, 2006", "January 2, 2006"} {
			if t, err := time.Parse(layout, raw.Date.StartDate); err == nil {
				return t.UTC().Format(time.RFC3339)
			}
		}
		for _, layout := range []string{"Jan 2", "January 2"} {
			if t, err := time.Parse(layout, raw.Date.StartDate); err == nil {
				return domain.ResolveAmbiguousYear(t.Month(), t.Day(), 0, 0).Format(time.RFC3339)
			}
		}
	}

	if raw.Date.When != "" {
		when := strings.ToLower(raw.Date.When)
		now := domain.Clock().Now().UTC()
		if strings.Contains(when, "today") {
			return now.Format(time.RFC3339)
		}
		if strings.Contains(when, "tomorrow") {
			return now.Add(24 * time.Hour).Format(time.RFC3339)
		}
		if m := weekdayRe.FindStringSubmatch(when); m != nil {
			month := strings.ToUpper(m[1][:1]) + m[1][1:]
			for _, layout := range []string{"Jan 2", "January 2"} {
				if t, err := time.Parse(layout, month+" "+m[2]); err == nil {
					return domain.ResolveAmbiguousYear(t.Month(), t.Day(), 0, 0).Format(time.RFC3339)
				}
			}
		}
	}

	return domain.NowISO()
}

// eventID derives a stable slug ID from the title and raw date so the same
// listing hashes identically across runs.
func eventID(raw serpEvent) string {
	slug := slugRe.ReplaceAllString(strings.ToLower(raw.Title), "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > 40 {
		slug = slug[:40]
	}

	dateSlug := digitsRe.ReplaceAllString(raw.Date.StartDate, "")
	if len(dateSlug) > 8 {
		dateSlug = dateSlug[:8]
	}
	if dateSlug == "" {
		dateSlug = "undated"
	}
	return "serp-" + slug + "-" + dateSlug
}

func firstN(parts []string, n int) []string {
	if len(parts) > n {
		return parts[:n]
	}
	return parts
}
