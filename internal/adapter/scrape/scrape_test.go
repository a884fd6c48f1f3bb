package scrape

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mirror-factory/event-sync-service/internal/domain"
	"github.com/mirror-factory/event-sync-service/internal/fetch"
	"github.com/mirror-factory/event-sync-service/internal/observability"
	"github.com/mirror-factory/event-sync-service/internal/venues"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const venueTableYAML = `
wills-pub:
  name: Will's Pub
  lat: 28.5546
  lng: -81.3669
  address: 1042 N Mills Ave
the-corner:
  name: The Corner
  lat: 28.5418
  lng: -81.3785
`

func testResolver(t *testing.T) *venues.Resolver {
	t.Helper()
	table, err := venues.ParseTable([]byte(venueTableYAML))
	require.NoError(t, err)
	return venues.NewResolver(table, nil, discardLogger())
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func listingAdapter(t *testing.T, baseURL string, maxPages int) *Adapter {
	t.Helper()
	return newAdapter(
		"community.orlandoweekly.com", "ow", baseURL, "/events",
		maxPages, time.Millisecond, 5*time.Second,
		testResolver(t), observability.NewMetricsForTesting(), discardLogger(),
		parseOrlandoWeekly,
	)
}

const listingPage = `<html><body>
<article>
  <h3>Indie Rock Night</h3>
  <time datetime="2026-03-20T20:00:00">Fri, Mar 20</time>
  <div class="venue">Will's Pub</div>
  <p>Three local bands, one stage.</p>
  <a href="/events/indie-rock-night">Details</a>
  <img src="/images/indie.jpg">
</article>
<article>
  <h3>Untitled Card</h3>
</article>
</body></html>`

func TestAdapter_Fetch_ParsesCards(t *testing.T) {
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)))
	defer domain.SetClock(nil)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") != "" {
			w.Write([]byte(`<html><body></body></html>`))
			return
		}
		w.Write([]byte(listingPage))
	}))
	defer srv.Close()

	events, err := listingAdapter(t, srv.URL, 10).Fetch(context.Background())
	require.NoError(t, err)

	// The dateless second card is skipped.
	require.Len(t, events, 1)
	e := events[0]
	assert.Equal(t, "Indie Rock Night", e.Title)
	assert.Equal(t, scrapedID("ow", "Indie Rock Night", e.StartDate), e.ID)
	assert.Equal(t, "2026-03-21T00:00:00Z", e.StartDate) // 8pm ET is midnight UTC
	assert.Equal(t, "Will's Pub", e.Venue)
	assert.Equal(t, []float64{-81.3669, 28.5546}, e.Coordinates)
	assert.Equal(t, "1042 N Mills Ave", e.Address)
	assert.Equal(t, domain.CategoryMusic, e.Category)
	assert.Equal(t, srv.URL+"/events/indie-rock-night", e.URL)
	assert.Equal(t, domain.SourceScraper, e.Source.Type)
	assert.Equal(t, "community.orlandoweekly.com", e.Source.Site)
}

func TestAdapter_Fetch_StopsOnEmptyPage(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Query().Get("page") == "" {
			w.Write([]byte(listingPage))
			return
		}
		w.Write([]byte(`<html><body></body></html>`))
	}))
	defer srv.Close()

	_, err := listingAdapter(t, srv.URL, 10).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, requests)
}

func TestAdapter_Fetch_PageFailureKeepsEarlierPages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") != "" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(listingPage))
	}))
	defer srv.Close()

	events, err := listingAdapter(t, srv.URL, 10).Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestBuild_UnknownVenueKeepsCentroid(t *testing.T) {
	a := listingAdapter(t, "http://unused.invalid", 1)

	e := a.build(Record{Title: "Pop-up Market", StartDate: "2026-05-01T14:00:00Z", Venue: "Brand New Spot"})
	assert.Equal(t, []float64{domain.FallbackLng, domain.FallbackLat}, e.Coordinates)
	assert.Equal(t, domain.CategoryMarket, e.Category)
}

func TestScrapedID(t *testing.T) {
	id1 := scrapedID("ow", "Indie Rock Night", "2026-03-21T00:00:00Z")
	id2 := scrapedID("ow", "Indie Rock Night", "2026-03-21T00:00:00Z")
	id3 := scrapedID("ow", "Indie Rock Night", "2026-03-22T00:00:00Z")

	assert.Equal(t, id1, id2)
	assert.NotEqual(t, id1, id3)
	assert.Regexp(t, `^ow-[0-9a-f]{8}$`, id1)
}

const tkxListing = `<html><body>
<a href="/events/corner-show">
  <h2>Corner Show</h2>
  <p>Thu • Feb 12 • 9:00 pm</p>
  <p>The Corner • Orlando</p>
</a>
<a href="/events/corner-show">
  <h2>Corner Show</h2>
  <p>Thu • Feb 12 • 9:00 pm</p>
  <p>The Corner • Orlando</p>
</a>
<a href="/events/no-date"><h2>Dateless</h2></a>
</body></html>`

const tkxDetail = `<html><head>
<meta property="og:description" content="An intimate night at The Corner.">
<meta property="og:image" content="https://cdn.tkx.events/corner.jpg">
</head><body></body></html>`

func TestTKX_Fetch_ListingAndDetail(t *testing.T) {
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)))
	defer domain.SetClock(nil)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/events/corner-show" {
			w.Write([]byte(tkxDetail))
			return
		}
		w.Write([]byte(tkxListing))
	}))
	defer srv.Close()

	tkx := NewTKX(5*time.Second, testResolver(t), observability.NewMetricsForTesting(), discardLogger())
	tkx.baseURL = srv.URL
	tkx.http = fetch.New("tkx.events", time.Millisecond, 5*time.Second)

	events, err := tkx.Fetch(context.Background())
	require.NoError(t, err)

	// Duplicate href collapsed, dateless card skipped.
	require.Len(t, events, 1)
	e := events[0]
	assert.Equal(t, "Corner Show", e.Title)
	// 9pm ET on Feb 12 is 2am UTC next day (EST offset).
	assert.Equal(t, "2026-02-13T02:00:00Z", e.StartDate)
	assert.Equal(t, "The Corner", e.Venue)
	assert.Equal(t, []float64{-81.3785, 28.5418}, e.Coordinates)
	assert.Equal(t, "An intimate night at The Corner.", e.Description)
	assert.Equal(t, "https://cdn.tkx.events/corner.jpg", e.ImageURL)
	assert.Equal(t, "tkx.events", e.Source.Site)
}

func TestParseTKXDate(t *testing.T) {
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2026, 12, 20, 12, 0, 0, 0, time.UTC)))
	defer domain.SetClock(nil)

	tests := []struct {
		name, in, want string
	}{
		{"bullet with time", "Thu • Feb 12 • 9:00 pm", "2027-02-13T02:00:00Z"},
		{"comma variant", "Thu, Feb 12 • 9:00 pm", "2027-02-13T02:00:00Z"},
		{"no time", "Thu • Feb 12", "2027-02-12T05:00:00Z"},
		{"noon", "Sat • Jun 6 • 12:00 pm", "2027-06-06T16:00:00Z"},
		{"midnight", "Sat • Jun 6 • 12:00 am", "2027-06-06T04:00:00Z"},
		{"recent date keeps year", "Fri • Dec 18 • 8:00 pm", "2026-12-19T01:00:00Z"},
		{"unknown month", "Thu • Brumaire 12", ""},
		{"no bullet", "February 12", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseTKXDate(tt.in))
		})
	}
}

func TestParseTKXVenue(t *testing.T) {
	venue, city := parseTKXVenue("The Corner • Orlando")
	assert.Equal(t, "The Corner", venue)
	assert.Equal(t, "Orlando", city)

	venue, city = parseTKXVenue("Standalone Hall")
	assert.Equal(t, "Standalone Hall", venue)
	assert.Equal(t, "Orlando", city)

	venue, city = parseTKXVenue("")
	assert.Equal(t, "Orlando Venue", venue)
	assert.Equal(t, "Orlando", city)
}

func TestResolveURL(t *testing.T) {
	base := "https://www.example.com"
	tests := []struct{ in, want string }{
		{"https://cdn.example.com/a.jpg", "https://cdn.example.com/a.jpg"},
		{"/events/1", base + "/events/1"},
		{"events/1", base + "/events/1"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, resolveURL(base, tt.in), fmt.Sprintf("in=%q", tt.in))
	}
}
