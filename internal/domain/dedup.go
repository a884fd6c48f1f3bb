package domain

import (
	"regexp"
	"sort"
	"strings"
)

var (
	// leadingYearRe strips a leading calendar-year token: "2026 NOAPS" → "NOAPS".
	leadingYearRe = regexp.MustCompile(`^\d{4}\s+`)

	// packageSuffixRes match ticket-package suffixes Ticketmaster appends to
	// the same base event, so "Daytona 500 Suite Admission" and
	// "Daytona 500 Boardwalk Club" collapse into one dedup key.
	packageSuffixRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:suite|lounge|club|vip|box|balcony|terrace|skybox|loge|mezzanine|platinum|gold|silver|bronze|premium|presale|general)\s*(?:admission|adm|access|seating|seats|ticket|tickets|pass|passes|entry|worker|row|section)?\s*$`),
		regexp.MustCompile(`(?i)\b(?:presidents?\s*row|boardwalk\s*club|daytona\s*500\s*club|rolex\s*lounge)\s*(?:adm|admission|access)?\s*$`),
		regexp.MustCompile(`(?i)\b(?:harl?ey\s*j.?s?\s*suite)\s*$`),
	}

	// matchupRe captures "<A> vs <B>" titles, tolerating "vs", "vs." and "versus".
	matchupRe = regexp.MustCompile(`(?i)^(.+?)\s+(?:vs\.?|versus)\s+(.+)$`)

	nonAlnumRe   = regexp.MustCompile(`[^a-z0-9\s]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// NormalizeForDedup canonicalizes a title or venue string for key comparison.
// Lowercases, strips a leading year token and ticket-package suffixes, orders
// "vs" matchup sides lexically, then removes punctuation and collapses
// whitespace. Idempotent: NormalizeForDedup(NormalizeForDedup(s)) == NormalizeForDedup(s).
func NormalizeForDedup(s string) string {
	s = strings.ToLower(s)
	s = leadingYearRe.ReplaceAllString(s, "")

	for _, re := range packageSuffixRes {
		s = re.ReplaceAllString(s, "")
	}

	if m := matchupRe.FindStringSubmatch(s); m != nil {
		teams := []string{strings.TrimSpace(m[1]), strings.TrimSpace(m[2])}
		sort.Strings(teams)
		s = teams[0] + " vs " + teams[1]
	}

	s = nonAlnumRe.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// DedupKey builds the identity key for a logical event:
// normalized title | normalized venue | YYYY-MM-DD.
func DedupKey(e Event) string {
	date := e.StartDate
	if len(date) > 10 {
		date = date[:10]
	}
	return NormalizeForDedup(e.Title) + "|" + NormalizeForDedup(e.Venue) + "|" + date
}

// Deduplicate collapses the merged adapter output to at most one record per
// logical event, keeping the highest-priority source for each key. The input
// is sorted by source priority (stable, so within a source the adapter's
// order holds) before the walk, which makes the priority tie-break the sole
// merge rule. Returns the survivors and the number of duplicates dropped.
func Deduplicate(events []Event) ([]Event, int) {
	sorted := make([]Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Source.Priority() < sorted[j].Source.Priority()
	})

	seenKeys := make(map[string]struct{}, len(sorted))
	seenIDs := make(map[string]struct{}, len(sorted))
	kept := make([]Event, 0, len(sorted))

	for _, e := range sorted {
		// Literal re-submission of the same record.
		if _, ok := seenIDs[e.ID]; ok {
			continue
		}

		key := DedupKey(e)
		if _, ok := seenKeys[key]; ok {
			continue
		}

		seenKeys[key] = struct{}{}
		seenIDs[e.ID] = struct{}{}
		kept = append(kept, e)
	}

	return kept, len(events) - len(kept)
}
