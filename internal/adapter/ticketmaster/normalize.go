package ticketmaster

import (
	"sort"
	"strconv"
	"strings"

	"github.com/mirror-factory/event-sync-service/internal/domain"
)

// normalize converts a Discovery API event into the canonical record. Events
// whose venue carries no coordinates fall back to the downtown centroid and
// rely on the coordinate validator to reject them.
func normalize(tm tmEvent) domain.Event {
	lat, lng := domain.FallbackLat, domain.FallbackLng
	var venue tmVenue
	if len(tm.Embedded.Venues) > 0 {
		venue = tm.Embedded.Venues[0]
		if v, err := strconv.ParseFloat(venue.Location.Latitude, 64); err == nil && venue.Location.Latitude != "" {
			lat = v
		}
		if v, err := strconv.ParseFloat(venue.Location.Longitude, 64); err == nil && venue.Location.Longitude != "" {
			lng = v
		}
	}

	now := domain.NowISO()

	startDate := tm.Dates.Start.DateTime
	if startDate == "" && tm.Dates.Start.LocalDate != "" {
		localTime := tm.Dates.Start.LocalTime
		if localTime == "" {
			localTime = "00:00:00"
		}
		startDate = tm.Dates.Start.LocalDate + "T" + localTime
	}
	if startDate == "" {
		startDate = now
	}

	var category domain.Category = domain.CategoryOther
	var tags []string
	if len(tm.Classifications) > 0 {
		cl := tm.Classifications[0]
		category = domain.MapTicketmasterCategory(cl.Segment.Name, cl.Genre.Name)
		if cl.Genre.Name != "" {
			tags = append(tags, strings.ToLower(cl.Genre.Name))
		}
		if cl.SubGenre.Name != "" {
			tags = append(tags, strings.ToLower(cl.SubGenre.Name))
		}
	}

	var price *domain.Price
	if len(tm.PriceRanges) > 0 {
		pr := tm.PriceRanges[0]
		currency := pr.Currency
		if currency == "" {
			currency = "USD"
		}
		price = &domain.Price{
			Min:      pr.Min,
			Max:      pr.Max,
			Currency: currency,
			IsFree:   pr.Min == 0 && pr.Max == 0,
		}
	}

	description := tm.Info
	if description == "" {
		description = tm.PleaseNote
	}

	venueName := venue.Name
	if venueName == "" {
		venueName = "Unknown Venue"
	}
	city := venue.City.Name
	if city == "" {
		city = "Orlando"
	}
	timezone := venue.Timezone
	if timezone == "" {
		timezone = tm.Dates.Timezone
	}
	if timezone == "" {
		timezone = "America/New_York"
	}

	return domain.Event{
		ID:          "tm-" + tm.ID,
		Title:       tm.Name,
		Description: description,
		Category:    category,
		Tags:        tags,
		Coordinates: []float64{lng, lat},
		Venue:       venueName,
		Address:     venue.Address.Line1,
		City:        city,
		Region:      inferRegion(venue.City.Name, venue.State.StateCode),
		StartDate:   startDate,
		EndDate:     tm.Dates.End.DateTime,
		Timezone:    timezone,
		Price:       price,
		URL:         eventURL(tm.ID),
		ImageURL:    pickBestImage(tm),
		Source:      domain.Source{Type: domain.SourceTicketmaster, FetchedAt: now},
		SourceID:    tm.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
		Status:      domain.StatusActive,
	}
}

// eventURL builds the canonical event page URL. Every Discovery API ID,
// including resale/Universe IDs, resolves through this path.
func eventURL(id string) string {
	return "https://www.ticketmaster.com/event/" + id
}

// pickBestImage prefers 16:9 images and takes the widest of the pool.
func pickBestImage(tm tmEvent) string {
	if len(tm.Images) == 0 {
		return ""
	}
	pool := tm.Images[:0:0]
	for _, img := range tm.Images {
		if img.Ratio == "16_9" {
			pool = append(pool, img)
		}
	}
	if len(pool) == 0 {
		pool = append(pool, tm.Images...)
	}
	sort.SliceStable(pool, func(i, j int) bool { return pool[i].Width > pool[j].Width })
	return pool[0].URL
}

// inferRegion maps the venue's city to a display region.
func inferRegion(city, stateCode string) string {
	if city == "" {
		return "Central Florida"
	}
	switch strings.ToLower(city) {
	case "orlando":
		return "Downtown Orlando"
	case "winter park":
		return "Winter Park"
	case "kissimmee":
		return "Kissimmee"
	case "sanford":
		return "Sanford"
	case "tampa", "st. petersburg":
		return "Tampa Bay"
	}
	if stateCode == "FL" {
		return "Central Florida"
	}
	return city
}
