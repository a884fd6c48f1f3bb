package eventbrite

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mirror-factory/event-sync-service/internal/domain"
	"github.com/mirror-factory/event-sync-service/internal/fetch"
	"github.com/mirror-factory/event-sync-service/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAdapter(baseURL string) *Adapter {
	return &Adapter{
		token:   "test-token",
		baseURL: baseURL,
		http:    fetch.New("eventbrite", time.Millisecond, 5*time.Second),
		metrics: observability.NewMetricsForTesting(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func listing(id, name string) map[string]any {
	return map[string]any{
		"id":   id,
		"name": map[string]any{"text": name},
		"start": map[string]any{
			"utc":      "2026-03-01T23:00:00Z",
			"timezone": "America/New_York",
		},
		"url":         "https://www.eventbrite.com/e/" + id,
		"category_id": "103",
	}
}

// fakeAPI serves both discovery and detail endpoints. Every query returns the
// same listing set, which exercises cross-query deduplication.
func fakeAPI(t *testing.T, listings []map[string]any, detailStatus int) (*httptest.Server, *int32) {
	t.Helper()
	var detailCalls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		if strings.HasPrefix(r.URL.Path, "/destination/search/") {
			require.NoError(t, json.NewEncoder(w).Encode(map[string]any{
				"events":     listings,
				"pagination": map[string]any{"has_more_items": false},
			}))
			return
		}

		atomic.AddInt32(&detailCalls, 1)
		if detailStatus != http.StatusOK {
			w.WriteHeader(detailStatus)
			return
		}
		require.NoError(t, json.NewEncoder(w).Encode(map[string]any{
			"is_free": true,
			"venue": map[string]any{
				"name": "The Social",
				"address": map[string]any{
					"address_1": "54 N Orange Ave",
					"city":      "Orlando",
					"region":    "FL",
					"latitude":  "28.5421",
					"longitude": "-81.3790",
				},
			},
		}))
	}))
	t.Cleanup(srv.Close)
	return srv, &detailCalls
}

func TestAdapter_Fetch_TwoPhase(t *testing.T) {
	srv, detailCalls := fakeAPI(t, []map[string]any{listing("11", "Indie Night")}, http.StatusOK)

	events, err := testAdapter(srv.URL).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)

	e := events[0]
	assert.Equal(t, "eb-11", e.ID)
	assert.Equal(t, "Indie Night", e.Title)
	assert.Equal(t, domain.CategoryMusic, e.Category)
	assert.Equal(t, "The Social", e.Venue)
	assert.Equal(t, "54 N Orange Ave", e.Address)
	assert.Equal(t, []float64{-81.3790, 28.5421}, e.Coordinates)
	require.NotNil(t, e.Price)
	assert.True(t, e.Price.IsFree)
	assert.Equal(t, domain.SourceEventbrite, e.Source.Type)

	// One detail call per unique listing, despite six discovery queries.
	assert.Equal(t, int32(1), atomic.LoadInt32(detailCalls))
}

func TestAdapter_Fetch_DetailFailureFallsBack(t *testing.T) {
	srv, _ := fakeAPI(t, []map[string]any{listing("22", "Mystery Gig")}, http.StatusInternalServerError)

	events, err := testAdapter(srv.URL).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)

	e := events[0]
	assert.Equal(t, "Unknown Venue", e.Venue)
	assert.Equal(t, []float64{domain.FallbackLng, domain.FallbackLat}, e.Coordinates)
	assert.Nil(t, e.Price)
}

func TestAdapter_Fetch_SkipsOnlineEvents(t *testing.T) {
	online := listing("33", "Webinar")
	online["is_online_event"] = true
	srv, detailCalls := fakeAPI(t, []map[string]any{online}, http.StatusOK)

	events, err := testAdapter(srv.URL).Fetch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Equal(t, int32(0), atomic.LoadInt32(detailCalls))
}

func TestAdapter_Fetch_MissingTokenSkips(t *testing.T) {
	a := testAdapter("http://unused.invalid")
	a.token = ""

	events, err := a.Fetch(context.Background())
	require.NoError(t, err)
	assert.Nil(t, events)
}

func TestDiscover_FollowsContinuation(t *testing.T) {
	var pages []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cont := r.URL.Query().Get("continuation")
		pages = append(pages, cont)

		resp := map[string]any{
			"events":     []map[string]any{listing(fmt.Sprintf("p%d", len(pages)), "Event")},
			"pagination": map[string]any{"has_more_items": cont == "", "continuation": "tok-1"},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	a := testAdapter(srv.URL)
	a.logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	// Restrict to one query for a deterministic request trace.
	orig := searchQueries
	searchQueries = []string{"events"}
	defer func() { searchQueries = orig }()

	listings := a.discover(context.Background())
	assert.Equal(t, []string{"", "tok-1"}, pages)
	assert.Len(t, listings, 2)
}

func TestDiscover_QueryFailureIsolated(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Query().Get("q") == "live music" {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		require.NoError(t, json.NewEncoder(w).Encode(map[string]any{
			"events":     []map[string]any{listing("q-"+r.URL.Query().Get("q"), "Event")},
			"pagination": map[string]any{"has_more_items": false},
		}))
	}))
	defer srv.Close()

	orig := searchQueries
	searchQueries = []string{"events", "live music", "festival"}
	defer func() { searchQueries = orig }()

	listings := testAdapter(srv.URL).discover(context.Background())

	// The failing query contributes nothing; the other two still land.
	assert.Len(t, listings, 2)
	assert.Equal(t, 3, requests)
}

func TestEnrich_BatchesOfTen(t *testing.T) {
	var inFlight, peak int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		w.Write([]byte(`{"is_free":false,"venue":{"name":"V","address":{"latitude":"28.54","longitude":"-81.38"}}}`))
	}))
	defer srv.Close()

	a := testAdapter(srv.URL)
	listings := make([]ebListing, 25)
	for i := range listings {
		listings[i].ID = fmt.Sprintf("%02d", i)
		listings[i].Name.Text = "Event"
	}

	events := a.enrich(context.Background(), listings)
	require.Len(t, events, 25)
	for i, e := range events {
		assert.Equal(t, "eb-"+listings[i].ID, e.ID)
	}
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(batchSize))
}

func TestNormalize_CentroidCoordinatesNotResolved(t *testing.T) {
	detail := &ebDetail{}
	detail.Venue.Name = "Somewhere"
	detail.Venue.Address.Latitude = "28.5383"
	detail.Venue.Address.Longitude = "-81.3792"

	l := ebListing{ID: "44"}
	l.Name.Text = "Event"

	e := normalize(l, detail)
	assert.Equal(t, []float64{domain.FallbackLng, domain.FallbackLat}, e.Coordinates)
}
