package scrape

import (
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mirror-factory/event-sync-service/internal/observability"
	"github.com/mirror-factory/event-sync-service/internal/venues"
)

// NewVisitOrlando scrapes the Visit Orlando tourism events listing. The
// 2-second spacing honors the site's robots.txt crawl-delay.
func NewVisitOrlando(timeout time.Duration, resolver *venues.Resolver, metrics *observability.Metrics, logger *slog.Logger) *Adapter {
	return newAdapter(
		"visitorlando.com", "vo",
		"https://www.visitorlando.com", "/events",
		10, 2000*time.Millisecond, timeout,
		resolver, metrics, logger, parseVisitOrlando,
	)
}

func parseVisitOrlando(doc *goquery.Document, baseURL string) []Record {
	var records []Record

	doc.Find(`[class*="event-card"], [class*="listing-card"], .card, article, [data-event]`).Each(func(_ int, card *goquery.Selection) {
		title := strings.TrimSpace(card.Find(`h2, h3, h4, [class*="title"]`).First().Text())
		if len(title) < 3 {
			return
		}

		startDate := cardDate(card)
		if startDate == "" {
			return
		}

		venue := strings.TrimSpace(card.Find(`[class*="venue"], [class*="location"], [class*="where"]`).First().Text())
		if venue == "" {
			venue = "Orlando"
		}

		// Lazy-loaded images park the real URL in data-src.
		img := card.Find("img").First()
		imageURL, ok := img.Attr("data-src")
		if !ok {
			imageURL, _ = img.Attr("src")
		}
		link, _ := card.Find("a").First().Attr("href")

		records = append(records, Record{
			Title:        title,
			Description:  strings.TrimSpace(card.Find(`[class*="desc"], [class*="summary"], p`).First().Text()),
			StartDate:    startDate,
			Venue:        venue,
			URL:          resolveURL(baseURL, link),
			ImageURL:     resolveURL(baseURL, imageURL),
			CategoryText: strings.TrimSpace(card.Find(`[class*="category"], [class*="tag"], [class*="type"]`).First().Text()),
		})
	})

	return records
}
