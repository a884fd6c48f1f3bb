// Package serpapi ingests events from the SerpApi Google Events engine by
// fanning a fixed keyword list out over the metro area and aggregating the
// results. Google Events results carry no coordinates, so every record goes
// through venue resolution; records that cannot be placed are dropped.
package serpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/mirror-factory/event-sync-service/internal/domain"
	"github.com/mirror-factory/event-sync-service/internal/fetch"
	"github.com/mirror-factory/event-sync-service/internal/observability"
	"github.com/mirror-factory/event-sync-service/internal/venues"
)

const minInterval = 1000 * time.Millisecond

// searchQueries covers the metro area by theme and by suburb. Broad queries
// front-load the common results; the suburb queries pick up listings Google
// scopes to the smaller towns.
var searchQueries = []string{
	"events in Orlando FL this week",
	"events in Orlando FL this weekend",
	"things to do in Orlando FL",
	"concerts in Orlando FL",
	"festivals in Orlando FL",
	"food events in Orlando FL",
	"sports events in Orlando FL",
	"family events in Orlando FL",
	"art events in Orlando FL",
	"tech events in Orlando FL",
	"outdoor events in Orlando FL",
	"nightlife in Orlando FL",
	"community events in Orlando FL",
	"Orlando FL events today",
	"events near Kissimmee FL",
	"events near Winter Park FL",
	"events near Lake Eola Orlando",
	"theme park events Orlando",
	"Orlando downtown events",
	"Orlando music events",
	"Orlando comedy shows",
	"free events Orlando FL",
	"events in Sanford FL",
	"events in Celebration FL",
	"events at UCF Orlando",
	"Orlando farmers market",
	"Orlando FL charity events",
	"Orlando FL workshops",
	"Cape Canaveral events",
	"events in Daytona Beach FL",
	"Orlando convention center events",
	"Dr Phillips Center events Orlando",
	"Amway Center events Orlando",
	"Disney Springs events",
	"International Drive Orlando events",
	"events in Maitland FL",
	"events in Altamonte Springs FL",
	"events in Ocoee FL",
	"events in Clermont FL",
	"events in Apopka FL",
	"events in St Cloud FL",
	"events in Longwood FL",
	"events in Casselberry FL",
	"events in Lake Mary FL",
	"events in Oviedo FL",
	"events in DeLand FL",
	"events in Mount Dora FL",
	"events in Tavares FL",
	"events in Leesburg FL",
	"events in Cocoa Beach FL",
}

// Adapter aggregates Google Events results via SerpApi.
type Adapter struct {
	key      string
	baseURL  string
	http     *fetch.Client
	resolver *venues.Resolver
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// New creates a SerpApi adapter. An empty key produces an adapter whose Fetch
// returns no events.
func New(key string, timeout time.Duration, resolver *venues.Resolver, metrics *observability.Metrics, logger *slog.Logger) *Adapter {
	return &Adapter{
		key:      key,
		baseURL:  "https://serpapi.com/search.json",
		http:     fetch.New("serpapi", minInterval, timeout),
		resolver: resolver,
		metrics:  metrics,
		logger:   logger,
	}
}

// Name returns the source identifier used in logs, metrics, and reports.
func (a *Adapter) Name() string { return string(domain.SourceSerpAPI) }

// Fetch runs every search query, deduplicating by normalized title across the
// whole run. A failed query is logged and skipped; the rest still run.
func (a *Adapter) Fetch(ctx context.Context) ([]domain.Event, error) {
	if a.key == "" {
		a.logger.Warn("serpapi key not configured, skipping source")
		return nil, nil
	}

	seenTitles := make(map[string]bool)
	var events []domain.Event
	dropped := 0

	for _, query := range searchQueries {
		params := url.Values{
			"engine":  {"google_events"},
			"q":       {query},
			"api_key": {a.key},
			"hl":      {"en"},
			"gl":      {"us"},
		}

		body, err := a.http.Get(ctx, a.baseURL+"?"+params.Encode(), nil)
		if err != nil {
			a.logger.Warn("serpapi query failed", "query", query, "error", err)
			continue
		}

		var resp searchResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			a.logger.Warn("serpapi decode failed", "query", query, "error", err)
			continue
		}
		if resp.Error != "" {
			a.logger.Warn("serpapi returned error", "query", query, "error", resp.Error)
			continue
		}

		for _, raw := range resp.EventsResults {
			if raw.Title == "" {
				continue
			}
			normalizedTitle := strings.ToLower(strings.TrimSpace(raw.Title))
			if seenTitles[normalizedTitle] {
				continue
			}
			seenTitles[normalizedTitle] = true

			event, ok := a.normalize(ctx, raw)
			if !ok {
				dropped++
				continue
			}
			events = append(events, event)
		}
	}

	if dropped > 0 {
		a.logger.Info("serpapi events dropped for unresolved venues", "dropped", dropped)
	}
	a.metrics.EventsFetched.WithLabelValues(a.Name()).Add(float64(len(events)))
	return events, nil
}

// SerpApi response types, reduced to the fields read here.

type searchResponse struct {
	EventsResults []serpEvent `json:"events_results"`
	Error         string      `json:"error"`
}

type serpEvent struct {
	Title string `json:"title"`
	Date  struct {
		StartDate string `json:"start_date"`
		When      string `json:"when"`
	} `json:"date"`
	Address     []string `json:"address"`
	Link        string   `json:"link"`
	Description string   `json:"description"`
	Venue       struct {
		Name string `json:"name"`
	} `json:"venue"`
	Thumbnail string `json:"thumbnail"`
}
