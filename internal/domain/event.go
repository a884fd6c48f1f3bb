package domain

import "time"

// Category is one of the closed set of event categories. Categories drive
// downstream filtering and map coloring, so the set is fixed here rather
// than open-ended.
type Category string

const (
	CategoryMusic     Category = "music"
	CategoryArts      Category = "arts"
	CategorySports    Category = "sports"
	CategoryFood      Category = "food"
	CategoryTech      Category = "tech"
	CategoryCommunity Category = "community"
	CategoryFamily    Category = "family"
	CategoryNightlife Category = "nightlife"
	CategoryOutdoor   Category = "outdoor"
	CategoryEducation Category = "education"
	CategoryFestival  Category = "festival"
	CategoryMarket    Category = "market"
	CategoryOther     Category = "other"
)

// Categories lists every valid category value.
var Categories = []Category{
	CategoryMusic, CategoryArts, CategorySports, CategoryFood, CategoryTech,
	CategoryCommunity, CategoryFamily, CategoryNightlife, CategoryOutdoor,
	CategoryEducation, CategoryFestival, CategoryMarket, CategoryOther,
}

// SourceType identifies which provider a record was ingested from.
type SourceType string

const (
	SourceManual       SourceType = "manual"
	SourceTicketmaster SourceType = "ticketmaster"
	SourceEventbrite   SourceType = "eventbrite"
	SourceSerpAPI      SourceType = "serpapi"
	SourceScraper      SourceType = "scraper"
	SourceOverpass     SourceType = "overpass"
	SourcePredictHQ    SourceType = "predicthq"
)

// Source records how an event was ingested. Type discriminates which of the
// optional fields carry meaning: Site for scrapers, AddedBy for manual seeds,
// FetchedAt for everything automated.
type Source struct {
	Type      SourceType `json:"type"`
	Site      string     `json:"site,omitempty"`
	AddedBy   string     `json:"addedBy,omitempty"`
	FetchedAt string     `json:"fetchedAt,omitempty"`
}

// Priority ranks source types for deduplication; lower wins. Ticketed APIs
// carry venue-verified coordinates and are most authoritative; scraped sites
// rank below the structured APIs. Unknown types sink to the bottom.
func (s Source) Priority() int {
	switch s.Type {
	case SourceManual:
		return 0
	case SourceTicketmaster:
		return 1
	case SourceEventbrite:
		return 2
	case SourceSerpAPI:
		return 3
	case SourceScraper:
		return 4
	case SourceOverpass:
		return 5
	case SourcePredictHQ:
		return 6
	default:
		return 99
	}
}

// Status is an event's lifecycle state.
type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
	StatusPostponed Status = "postponed"
	StatusPast      Status = "past"
)

// Price holds ticket pricing information.
type Price struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency"`
	IsFree   bool    `json:"isFree"`
}

// Recurrence describes a repeating schedule.
type Recurrence struct {
	Frequency string `json:"frequency"` // daily, weekly, monthly, yearly
	Interval  int    `json:"interval,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

// Event is the canonical record shape every adapter normalizes into and the
// unit persisted to the snapshot file.
//
// Coordinates is [longitude, latitude] to match the snapshot's GeoJSON-style
// ordering. It is a slice rather than a fixed array so the schema validator
// can reject malformed input instead of silently zero-filling it.
type Event struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`

	Category    Category `json:"category"`
	Subcategory string   `json:"subcategory,omitempty"`
	Tags        []string `json:"tags"`

	Coordinates []float64 `json:"coordinates"`
	Venue       string    `json:"venue"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	Region      string    `json:"region"`

	StartDate string      `json:"startDate"`
	EndDate   string      `json:"endDate,omitempty"`
	AllDay    bool        `json:"allDay,omitempty"`
	Recurring *Recurrence `json:"recurring,omitempty"`
	Timezone  string      `json:"timezone"`

	Price    *Price `json:"price,omitempty"`
	URL      string `json:"url,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`

	Source   Source `json:"source"`
	SourceID string `json:"sourceId,omitempty"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
	ExpiresAt string `json:"expiresAt,omitempty"`
	Status    Status `json:"status"`
	Featured  bool   `json:"featured,omitempty"`
}

// Registry is the top-level shape of the persisted snapshot file. The keys
// are a stability contract with the read-only query layer.
type Registry struct {
	Version    string   `json:"version"`
	LastSynced string   `json:"lastSynced"`
	Metadata   Metadata `json:"metadata"`
	Events     []Event  `json:"events"`
}

// Metadata holds aggregate statistics over the persisted events.
type Metadata struct {
	TotalEvents  int              `json:"totalEvents"`
	ActiveEvents int              `json:"activeEvents"`
	Categories   map[Category]int `json:"categories"`
	Regions      []string         `json:"regions"`
}

// NowISO formats the injected clock's current time as an ISO 8601 UTC instant.
// All lifecycle timestamps (createdAt, updatedAt, fetchedAt) go through this
// so tests can freeze them.
func NowISO() string {
	return clock.Now().UTC().Format(time.RFC3339)
}
