package scrape

import (
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mirror-factory/event-sync-service/internal/observability"
	"github.com/mirror-factory/event-sync-service/internal/venues"
)

// NewCityOfOrlando scrapes the City of Orlando municipal events calendar.
func NewCityOfOrlando(timeout time.Duration, resolver *venues.Resolver, metrics *observability.Metrics, logger *slog.Logger) *Adapter {
	return newAdapter(
		"orlando.gov", "co",
		"https://www.orlando.gov", "/Events",
		5, 1000*time.Millisecond, timeout,
		resolver, metrics, logger, parseCityOfOrlando,
	)
}

func parseCityOfOrlando(doc *goquery.Document, baseURL string) []Record {
	var records []Record

	doc.Find(`[class*="event"], .listing-item, .views-row, article, .event-item`).Each(func(_ int, item *goquery.Selection) {
		title := strings.TrimSpace(item.Find(`h2, h3, h4, [class*="title"]`).First().Text())
		if title == "" {
			return
		}

		startDate := cardDate(item)
		if startDate == "" {
			return
		}

		venue := strings.TrimSpace(item.Find(`[class*="venue"], [class*="location"]`).First().Text())
		if venue == "" {
			venue = "City of Orlando"
		}

		link, _ := item.Find("a").First().Attr("href")
		imageURL, _ := item.Find("img").First().Attr("src")

		records = append(records, Record{
			Title:       title,
			Description: strings.TrimSpace(item.Find(`[class*="desc"], [class*="summary"], p`).First().Text()),
			StartDate:   startDate,
			Venue:       venue,
			City:        "Orlando",
			URL:         resolveURL(baseURL, link),
			ImageURL:    resolveURL(baseURL, imageURL),
		})
	})

	return records
}
