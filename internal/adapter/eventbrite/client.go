// Package eventbrite ingests events from the Eventbrite API in two phases:
// keyword discovery against the destination search endpoint, then per-event
// detail enrichment in bounded concurrent batches.
package eventbrite

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/mirror-factory/event-sync-service/internal/domain"
	"github.com/mirror-factory/event-sync-service/internal/fetch"
	"github.com/mirror-factory/event-sync-service/internal/observability"
)

const (
	minInterval = 200 * time.Millisecond
	maxPages    = 5
	pageSize    = 50
)

// searchQueries is the fixed discovery keyword set. Each query paginates
// independently; results are merged and deduplicated by provider ID.
var searchQueries = []string{
	"events",
	"live music",
	"festival",
	"food and drink",
	"art",
	"nightlife",
}

// Adapter fetches Orlando-area events from the Eventbrite API.
type Adapter struct {
	token   string
	baseURL string
	http    *fetch.Client
	metrics *observability.Metrics
	logger  *slog.Logger
}

// New creates an Eventbrite adapter. An empty token produces an adapter whose
// Fetch returns no events.
func New(token string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Adapter {
	return &Adapter{
		token:   token,
		baseURL: "https://www.eventbriteapi.com/v3",
		http:    fetch.New("eventbrite", minInterval, timeout),
		metrics: metrics,
		logger:  logger,
	}
}

// Name returns the source identifier used in logs, metrics, and reports.
func (a *Adapter) Name() string { return string(domain.SourceEventbrite) }

// Fetch runs discovery followed by enrichment. Discovery failures on one
// query do not stop the others; enrichment failures on one event degrade that
// record to a fallback venue instead of dropping it.
func (a *Adapter) Fetch(ctx context.Context) ([]domain.Event, error) {
	if a.token == "" {
		a.logger.Warn("eventbrite token not configured, skipping source")
		return nil, nil
	}

	listings := a.discover(ctx)
	a.logger.Info("eventbrite discovery complete", "listings", len(listings))

	events := a.enrich(ctx, listings)
	a.metrics.EventsFetched.WithLabelValues(a.Name()).Add(float64(len(events)))
	return events, nil
}

// discover runs every search query through the destination search endpoint,
// following continuation tokens up to the page cap. Online-only events are
// skipped and duplicates across queries are collapsed by provider ID.
func (a *Adapter) discover(ctx context.Context) []ebListing {
	seen := make(map[string]bool)
	var listings []ebListing

	for _, query := range searchQueries {
		continuation := ""
		for page := 0; page < maxPages; page++ {
			params := url.Values{
				"q":         {query},
				"latitude":  {fmt.Sprintf("%g", domain.FallbackLat)},
				"longitude": {fmt.Sprintf("%g", domain.FallbackLng)},
				"within":    {"50mi"},
				"dates":     {"current_future"},
				"page_size": {fmt.Sprintf("%d", pageSize)},
			}
			if continuation != "" {
				params.Set("continuation", continuation)
			}

			body, err := a.http.Get(ctx, a.baseURL+"/destination/search/?"+params.Encode(), a.authHeader())
			if err != nil {
				a.logger.Warn("eventbrite discovery page failed", "query", query, "page", page, "error", err)
				break
			}

			var resp searchResponse
			if err := json.Unmarshal(body, &resp); err != nil {
				a.logger.Warn("eventbrite discovery decode failed", "query", query, "error", err)
				break
			}

			if len(resp.Events) == 0 {
				break
			}
			for _, l := range resp.Events {
				if l.IsOnline || l.ID == "" || seen[l.ID] {
					continue
				}
				seen[l.ID] = true
				listings = append(listings, l)
			}

			if !resp.Pagination.HasMoreItems || resp.Pagination.Continuation == "" {
				break
			}
			continuation = resp.Pagination.Continuation
		}
	}

	return listings
}

func (a *Adapter) authHeader() http.Header {
	return http.Header{"Authorization": {"Bearer " + a.token}}
}

// Eventbrite API response types, reduced to the fields read here.

type searchResponse struct {
	Events     []ebListing `json:"events"`
	Pagination struct {
		HasMoreItems bool   `json:"has_more_items"`
		Continuation string `json:"continuation"`
	} `json:"pagination"`
}

type ebListing struct {
	ID   string `json:"id"`
	Name struct {
		Text string `json:"text"`
	} `json:"name"`
	Summary string `json:"summary"`
	Start   struct {
		UTC      string `json:"utc"`
		Timezone string `json:"timezone"`
	} `json:"start"`
	End struct {
		UTC string `json:"utc"`
	} `json:"end"`
	URL  string `json:"url"`
	Logo struct {
		URL string `json:"url"`
	} `json:"logo"`
	CategoryID string `json:"category_id"`
	IsOnline   bool   `json:"is_online_event"`
}

type ebDetail struct {
	IsFree bool `json:"is_free"`
	Venue  struct {
		Name    string `json:"name"`
		Address struct {
			Address1  string `json:"address_1"`
			City      string `json:"city"`
			Region    string `json:"region"`
			Latitude  string `json:"latitude"`
			Longitude string `json:"longitude"`
		} `json:"address"`
	} `json:"venue"`
}
