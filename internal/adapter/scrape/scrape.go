// Package scrape ingests events from listing sites that publish
// server-rendered HTML. Each site supplies a card parser; the shared plumbing
// handles pagination, rate limiting, venue lookup, and normalization.
package scrape

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mirror-factory/event-sync-service/internal/domain"
	"github.com/mirror-factory/event-sync-service/internal/fetch"
	"github.com/mirror-factory/event-sync-service/internal/observability"
	"github.com/mirror-factory/event-sync-service/internal/venues"
)

// Record is one event pulled off a listing card before normalization.
type Record struct {
	Title        string
	Description  string
	StartDate    string
	EndDate      string
	Venue        string
	Address      string
	City         string
	URL          string
	ImageURL     string
	CategoryText string
}

// parseFunc extracts records from one listing page. baseURL is available for
// resolving relative links.
type parseFunc func(doc *goquery.Document, baseURL string) []Record

// Adapter scrapes one site's event listing. The three card sites share this
// type directly; tkx.events wraps it to add detail-page enrichment.
type Adapter struct {
	site     string
	prefix   string
	baseURL  string
	path     string
	maxPages int
	http     *fetch.Client
	resolver *venues.Resolver
	metrics  *observability.Metrics
	logger   *slog.Logger
	parse    parseFunc
}

// Name returns the scraped site's hostname, used in logs, metrics, and the
// source.site field.
func (a *Adapter) Name() string { return a.site }

// Fetch walks the listing pages in order. An empty page past the first ends
// pagination, as does a failed request; records collected from earlier pages
// are kept either way.
func (a *Adapter) Fetch(ctx context.Context) ([]domain.Event, error) {
	var events []domain.Event

	for page := 1; page <= a.maxPages; page++ {
		url := a.baseURL + a.path
		if page > 1 {
			url = fmt.Sprintf("%s%s?page=%d", a.baseURL, a.path, page)
		}

		a.logger.Debug("scraping page", "site", a.site, "page", page)
		body, err := a.http.Get(ctx, url, nil)
		if err != nil {
			a.logger.Warn("scrape page failed, stopping pagination",
				"site", a.site, "page", page, "error", err)
			break
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
		if err != nil {
			a.logger.Warn("scrape parse failed, stopping pagination",
				"site", a.site, "page", page, "error", err)
			break
		}

		records := a.parse(doc, a.baseURL)
		if len(records) == 0 && page > 1 {
			break
		}
		for _, rec := range records {
			events = append(events, a.build(rec))
		}
	}

	a.metrics.EventsFetched.WithLabelValues(a.Name()).Add(float64(len(events)))
	return events, nil
}

// build normalizes a scraped record. Venue placement comes from the canonical
// table only; a miss keeps the downtown centroid and leaves the final call to
// the coordinate validator.
func (a *Adapter) build(rec Record) domain.Event {
	now := domain.NowISO()

	lat, lng := domain.FallbackLat, domain.FallbackLng
	address := rec.Address
	if m, ok := a.resolver.Lookup(rec.Venue); ok {
		lat, lng = m.Lat, m.Lng
		if address == "" {
			address = m.Address
		}
	}

	city := rec.City
	if city == "" {
		city = "Orlando"
	}

	categoryText := strings.Join([]string{rec.Title, rec.CategoryText, rec.Description}, " ")

	return domain.Event{
		ID:          scrapedID(a.prefix, rec.Title, rec.StartDate),
		Title:       rec.Title,
		Description: rec.Description,
		Category:    domain.InferCategory(categoryText),
		Tags:        []string{},
		Coordinates: []float64{lng, lat},
		Venue:       rec.Venue,
		Address:     address,
		City:        city,
		Region:      "Central Florida",
		StartDate:   rec.StartDate,
		EndDate:     rec.EndDate,
		Timezone:    "America/New_York",
		URL:         rec.URL,
		ImageURL:    rec.ImageURL,
		Source:      domain.Source{Type: domain.SourceScraper, Site: a.site, FetchedAt: now},
		CreatedAt:   now,
		UpdatedAt:   now,
		Status:      domain.StatusActive,
	}
}

// scrapedID derives a deterministic ID from the title and start date, so the
// same card hashes identically across runs.
func scrapedID(prefix, title, startDate string) string {
	sum := sha256.Sum256([]byte(title + "|" + startDate))
	return prefix + "-" + hex.EncodeToString(sum[:])[:8]
}

// resolveURL absolutizes a scraped href against the site base.
func resolveURL(baseURL, href string) string {
	if href == "" || strings.HasPrefix(href, "http") {
		return href
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return baseURL + href
}

// cardDate reads a card's start date, preferring a machine-readable
// time[datetime] attribute over the display text. Returns "" when neither
// parses; the caller skips the card.
func cardDate(card *goquery.Selection) string {
	if datetime, ok := card.Find("time").Attr("datetime"); ok && datetime != "" {
		if parsed := domain.ParseLooseEasternDate(datetime); parsed != "" {
			return parsed
		}
	}
	dateText := strings.TrimSpace(card.Find(`[class*="date"], time, [datetime]`).First().Text())
	return domain.ParseLooseEasternDate(dateText)
}

func newAdapter(site, prefix, baseURL, path string, maxPages int, minInterval, timeout time.Duration,
	resolver *venues.Resolver, metrics *observability.Metrics, logger *slog.Logger, parse parseFunc) *Adapter {
	return &Adapter{
		site:     site,
		prefix:   prefix,
		baseURL:  baseURL,
		path:     path,
		maxPages: maxPages,
		http:     fetch.New(site, minInterval, timeout),
		resolver: resolver,
		metrics:  metrics,
		logger:   logger,
		parse:    parse,
	}
}
