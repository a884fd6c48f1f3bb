package scrape

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mirror-factory/event-sync-service/internal/domain"
	"github.com/mirror-factory/event-sync-service/internal/observability"
	"github.com/mirror-factory/event-sync-service/internal/venues"
)

// detailCap bounds how many tkx detail pages one run will fetch.
const detailCap = 50

// TKX scrapes tkx.events, a local ticketing platform. Listing cards carry
// only a date and venue line; descriptions and better images come from a
// bounded second pass over the event detail pages.
type TKX struct {
	*Adapter
}

// NewTKX creates the tkx.events scraper.
func NewTKX(timeout time.Duration, resolver *venues.Resolver, metrics *observability.Metrics, logger *slog.Logger) *TKX {
	return &TKX{Adapter: newAdapter(
		"tkx.events", "tkx",
		"https://www.tkx.events", "/",
		1, 1500*time.Millisecond, timeout,
		resolver, metrics, logger, parseTKX,
	)}
}

// Fetch scrapes the listing and then enriches up to detailCap events from
// their detail pages. Detail failures are skipped; the listing data stands.
func (t *TKX) Fetch(ctx context.Context) ([]domain.Event, error) {
	events, err := t.Adapter.Fetch(ctx)
	if err != nil || len(events) == 0 {
		return events, err
	}

	limit := len(events)
	if limit > detailCap {
		limit = detailCap
	}
	for i := 0; i < limit; i++ {
		if events[i].URL == "" {
			continue
		}
		body, err := t.http.Get(ctx, events[i].URL, nil)
		if err != nil {
			t.logger.Debug("tkx detail fetch failed", "url", events[i].URL, "error", err)
			continue
		}
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
		if err != nil {
			continue
		}

		desc, ok := doc.Find(`meta[name="description"]`).Attr("content")
		if !ok || desc == "" {
			desc, _ = doc.Find(`meta[property="og:description"]`).Attr("content")
		}
		if desc != "" {
			events[i].Description = strings.TrimSpace(desc)
		}

		if events[i].ImageURL == "" {
			if ogImage, ok := doc.Find(`meta[property="og:image"]`).Attr("content"); ok {
				events[i].ImageURL = ogImage
			}
		}
	}

	return events, nil
}

func parseTKX(doc *goquery.Document, baseURL string) []Record {
	var records []Record
	seen := make(map[string]bool)

	doc.Find(`a[href^="/events/"]`).Each(func(_ int, card *goquery.Selection) {
		href, _ := card.Attr("href")
		if href == "" || seen[href] {
			return
		}
		seen[href] = true

		title := strings.TrimSpace(card.Find("h2, h3").First().Text())
		if title == "" {
			return
		}

		// Cards stack two lines: "Thu • Feb 12 • 9:00 pm" then "Venue • City".
		var paragraphs []string
		card.Find("p").Each(func(_ int, p *goquery.Selection) {
			if text := strings.TrimSpace(p.Text()); text != "" {
				paragraphs = append(paragraphs, text)
			}
		})

		var dateLine, venueLine string
		if len(paragraphs) > 0 {
			dateLine = paragraphs[0]
		}
		if len(paragraphs) > 1 {
			venueLine = paragraphs[1]
		}

		startDate := parseTKXDate(dateLine)
		if startDate == "" {
			return
		}
		venue, city := parseTKXVenue(venueLine)

		imageURL, _ := card.Find("img").First().Attr("src")

		records = append(records, Record{
			Title:     title,
			StartDate: startDate,
			Venue:     venue,
			City:      city,
			URL:       baseURL + href,
			ImageURL:  imageURL,
		})
	})

	return records
}

var (
	tkxDayCommaRe = regexp.MustCompile(`^(\w{3}),\s*`)
	tkxDateRe     = regexp.MustCompile(`^(\w+)\s+(\d+)$`)
	tkxTimeRe     = regexp.MustCompile(`(?i)(\d+):(\d+)\s*(am|pm)`)
)

// parseTKXDate parses the bullet-separated card date, "Thu • Feb 12 • 9:00 pm"
// or "Thu, Feb 12". The year is inferred (cards never carry one) and the time
// is treated as Eastern.
func parseTKXDate(text string) string {
	if text == "" {
		return ""
	}

	normalized := tkxDayCommaRe.ReplaceAllString(text, "$1 • ")
	parts := strings.Split(normalized, "•")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) < 2 {
		return ""
	}

	m := tkxDateRe.FindStringSubmatch(parts[1])
	if m == nil {
		return ""
	}
	monthTime, err := time.Parse("Jan", m[1])
	if err != nil {
		return ""
	}
	day, _ := strconv.Atoi(m[2])

	hour, minute := 0, 0
	if len(parts) >= 3 {
		if tm := tkxTimeRe.FindStringSubmatch(parts[2]); tm != nil {
			hour, _ = strconv.Atoi(tm[1])
			minute, _ = strconv.Atoi(tm[2])
			pm := strings.EqualFold(tm[3], "pm")
			if pm && hour != 12 {
				hour += 12
			}
			if !pm && hour == 12 {
				hour = 0
			}
		}
	}

	t := domain.ResolveAmbiguousYear(monthTime.Month(), day, hour, minute)
	return domain.ParseLooseEasternDate(t.Format("2006-01-02 15:04"))
}

// parseTKXVenue splits "The Corner • Orlando" into venue and city.
func parseTKXVenue(text string) (venue, city string) {
	if text == "" {
		return "Orlando Venue", "Orlando"
	}
	parts := strings.SplitN(text, "•", 2)
	if len(parts) == 2 {
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}
	return strings.TrimSpace(text), "Orlando"
}
