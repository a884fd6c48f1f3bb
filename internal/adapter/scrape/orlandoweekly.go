package scrape

import (
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mirror-factory/event-sync-service/internal/observability"
	"github.com/mirror-factory/event-sync-service/internal/venues"
)

// NewOrlandoWeekly scrapes the Orlando Weekly community events calendar.
func NewOrlandoWeekly(timeout time.Duration, resolver *venues.Resolver, metrics *observability.Metrics, logger *slog.Logger) *Adapter {
	return newAdapter(
		"community.orlandoweekly.com", "ow",
		"https://community.orlandoweekly.com", "/events",
		10, 1000*time.Millisecond, timeout,
		resolver, metrics, logger, parseOrlandoWeekly,
	)
}

func parseOrlandoWeekly(doc *goquery.Document, baseURL string) []Record {
	var records []Record

	doc.Find(`[class*="event"], .event-card, .listing, article`).Each(func(_ int, card *goquery.Selection) {
		title := strings.TrimSpace(card.Find(`h2, h3, [class*="title"]`).First().Text())
		if title == "" {
			return
		}

		startDate := cardDate(card)
		if startDate == "" {
			return
		}

		venue := strings.TrimSpace(card.Find(`[class*="venue"], [class*="location"]`).First().Text())
		if venue == "" {
			venue = "Orlando"
		}

		link, _ := card.Find("a").First().Attr("href")
		imageURL, _ := card.Find("img").First().Attr("src")

		records = append(records, Record{
			Title:        title,
			Description:  strings.TrimSpace(card.Find(`[class*="desc"], p`).First().Text()),
			StartDate:    startDate,
			Venue:        venue,
			URL:          resolveURL(baseURL, link),
			ImageURL:     resolveURL(baseURL, imageURL),
			CategoryText: strings.TrimSpace(card.Find(`[class*="category"], [class*="tag"]`).First().Text()),
		})
	})

	return records
}
