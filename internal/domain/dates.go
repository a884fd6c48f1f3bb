package domain

import (
	"strings"
	"time"
)

// looseLayouts are the date shapes the scraped sites publish. Tried in order.
var looseLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"January 2, 2006 3:04 PM",
	"January 2, 2006",
	"Jan 2, 2006 3:04 PM",
	"Jan 2, 2006",
	"01/02/2006 3:04 PM",
	"01/02/2006",
}

// easternOffsetHours returns the UTC offset for Eastern time in the given
// month. A fixed-offset heuristic (EDT March–November, EST otherwise) is
// deliberate: the scraped sites never publish an offset, and DST boundary
// days are not worth a tzdata dependency for listing data.
func easternOffsetHours(m time.Month) int {
	if m >= time.March && m <= time.November {
		return 4
	}
	return 5
}

// ParseLooseEasternDate parses a scraped date string, treating any naive
// local time as US Eastern and converting to UTC. Returns "" when the text
// is unparseable; the caller skips the record.
func ParseLooseEasternDate(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	for _, layout := range looseLayouts {
		t, err := time.Parse(layout, text)
		if err != nil {
			continue
		}
		if layout == time.RFC3339 {
			return t.UTC().Format(time.RFC3339)
		}
		utc := time.Date(t.Year(), t.Month(), t.Day(),
			t.Hour()+easternOffsetHours(t.Month()), t.Minute(), 0, 0, time.UTC)
		return utc.Format(time.RFC3339)
	}

	return ""
}

// ResolveAmbiguousYear assigns a year to a month/day with no year attached.
// Listings are forward-looking, so a date more than a week in the past is
// assumed to mean next year (a "Feb 12" card scraped in December).
func ResolveAmbiguousYear(month time.Month, day, hour, minute int) time.Time {
	now := clock.Now().UTC()
	candidate := time.Date(now.Year(), month, day, hour, minute, 0, 0, time.UTC)
	if candidate.Before(now.Add(-7 * 24 * time.Hour)) {
		candidate = candidate.AddDate(1, 0, 0)
	}
	return candidate
}
