// Package ticketmaster ingests events from the Ticketmaster Discovery API.
package ticketmaster

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/mirror-factory/event-sync-service/internal/domain"
	"github.com/mirror-factory/event-sync-service/internal/fetch"
	"github.com/mirror-factory/event-sync-service/internal/observability"
)

const (
	// Discovery caps deep paging at 1000 results; 5 pages of 200 is the
	// whole reachable window.
	maxPages    = 5
	pageSize    = 200
	minInterval = 500 * time.Millisecond

	searchRadiusMiles = "50"
	windowDays        = 90
)

// Adapter fetches Orlando-area events from the Ticketmaster Discovery API.
type Adapter struct {
	key     string
	baseURL string
	http    *fetch.Client
	metrics *observability.Metrics
	logger  *slog.Logger
}

// New creates a Ticketmaster adapter. An empty key produces an adapter whose
// Fetch returns no events; the pipeline logs the skip.
func New(key string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Adapter {
	return &Adapter{
		key:     key,
		baseURL: "https://app.ticketmaster.com/discovery/v2/events.json",
		http:    fetch.New("ticketmaster", minInterval, timeout),
		metrics: metrics,
		logger:  logger,
	}
}

// Name returns the source identifier used in logs, metrics, and reports.
func (a *Adapter) Name() string { return string(domain.SourceTicketmaster) }

// Fetch walks the Discovery API pages for the next 90 days around downtown
// Orlando. A failed page request ends pagination; events collected from
// earlier pages are still returned alongside the error.
func (a *Adapter) Fetch(ctx context.Context) ([]domain.Event, error) {
	if a.key == "" {
		a.logger.Warn("ticketmaster key not configured, skipping source")
		return nil, nil
	}

	now := domain.Clock().Now().UTC()
	var events []domain.Event

	for page := 0; page < maxPages; page++ {
		params := url.Values{
			"apikey":        {a.key},
			"latlong":       {fmt.Sprintf("%g,%g", domain.FallbackLat, domain.FallbackLng)},
			"radius":        {searchRadiusMiles},
			"unit":          {"miles"},
			"size":          {strconv.Itoa(pageSize)},
			"page":          {strconv.Itoa(page)},
			"sort":          {"date,asc"},
			"startDateTime": {now.Format(time.RFC3339)},
			"endDateTime":   {now.Add(windowDays * 24 * time.Hour).Format(time.RFC3339)},
		}

		a.logger.Debug("fetching ticketmaster page", "page", page)
		body, err := a.http.Get(ctx, a.baseURL+"?"+params.Encode(), nil)
		if err != nil {
			return events, fmt.Errorf("page %d: %w", page, err)
		}

		var resp tmResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return events, fmt.Errorf("decode page %d: %w", page, err)
		}

		if len(resp.Embedded.Events) == 0 {
			break
		}
		for _, tm := range resp.Embedded.Events {
			events = append(events, normalize(tm))
		}

		if page+1 >= resp.Page.TotalPages {
			break
		}
	}

	a.metrics.EventsFetched.WithLabelValues(a.Name()).Add(float64(len(events)))
	return events, nil
}

// Discovery API response types, reduced to the fields the normalizer reads.

type tmResponse struct {
	Embedded struct {
		Events []tmEvent `json:"events"`
	} `json:"_embedded"`
	Page struct {
		TotalPages int `json:"totalPages"`
	} `json:"page"`
}

type tmEvent struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Dates struct {
		Start struct {
			DateTime  string `json:"dateTime"`
			LocalDate string `json:"localDate"`
			LocalTime string `json:"localTime"`
		} `json:"start"`
		End struct {
			DateTime string `json:"dateTime"`
		} `json:"end"`
		Timezone string `json:"timezone"`
	} `json:"dates"`
	Info        string `json:"info"`
	PleaseNote  string `json:"pleaseNote"`
	PriceRanges []struct {
		Min      float64 `json:"min"`
		Max      float64 `json:"max"`
		Currency string  `json:"currency"`
	} `json:"priceRanges"`
	Images []struct {
		URL   string `json:"url"`
		Width int    `json:"width"`
		Ratio string `json:"ratio"`
	} `json:"images"`
	Classifications []struct {
		Segment  struct{ Name string } `json:"segment"`
		Genre    struct{ Name string } `json:"genre"`
		SubGenre struct{ Name string } `json:"subGenre"`
	} `json:"classifications"`
	Embedded struct {
		Venues []tmVenue `json:"venues"`
	} `json:"_embedded"`
}

type tmVenue struct {
	Name    string `json:"name"`
	Address struct {
		Line1 string `json:"line1"`
	} `json:"address"`
	City struct {
		Name string `json:"name"`
	} `json:"city"`
	State struct {
		StateCode string `json:"stateCode"`
	} `json:"state"`
	Location struct {
		Longitude string `json:"longitude"`
		Latitude  string `json:"latitude"`
	} `json:"location"`
	Timezone string `json:"timezone"`
}
