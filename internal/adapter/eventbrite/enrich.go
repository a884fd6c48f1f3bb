package eventbrite

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"

	"github.com/mirror-factory/event-sync-service/internal/domain"
)

// batchSize is the enrichment fan-out width. Batches are issued together and
// joined before the next batch starts, which keeps the request pattern the
// provider has been observed to tolerate.
const batchSize = 10

// enrich fetches venue and price detail for every discovered listing in
// concurrent batches. A failed detail fetch still emits the record, with the
// fallback venue label and centroid coordinates.
func (a *Adapter) enrich(ctx context.Context, listings []ebListing) []domain.Event {
	events := make([]domain.Event, len(listings))

	for start := 0; start < len(listings); start += batchSize {
		end := start + batchSize
		if end > len(listings) {
			end = len(listings)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				detail, err := a.fetchDetail(ctx, listings[i].ID)
				if err != nil {
					a.logger.Warn("eventbrite detail fetch failed, using fallback venue",
						"id", listings[i].ID, "error", err)
					detail = nil
				}
				events[i] = normalize(listings[i], detail)
			}(i)
		}
		wg.Wait()
	}

	return events
}

func (a *Adapter) fetchDetail(ctx context.Context, id string) (*ebDetail, error) {
	body, err := a.http.Get(ctx, a.baseURL+"/events/"+id+"/?expand=venue", a.authHeader())
	if err != nil {
		return nil, err
	}
	var detail ebDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// normalize builds the canonical record from a discovery listing plus its
// optional detail. Coordinates count as resolved only when they parse and
// differ from the downtown centroid; anything else keeps the centroid and is
// left to the coordinate validator.
func normalize(l ebListing, detail *ebDetail) domain.Event {
	now := domain.NowISO()

	lat, lng := domain.FallbackLat, domain.FallbackLng
	venueName := "Unknown Venue"
	address := ""
	city := "Orlando"
	region := "Central Florida"
	var price *domain.Price

	if detail != nil {
		if detail.Venue.Name != "" {
			venueName = detail.Venue.Name
		}
		address = detail.Venue.Address.Address1
		if detail.Venue.Address.City != "" {
			city = detail.Venue.Address.City
		}
		if detail.Venue.Address.Region != "" {
			region = detail.Venue.Address.Region
		}
		if plat, err := strconv.ParseFloat(detail.Venue.Address.Latitude, 64); err == nil {
			if plng, err := strconv.ParseFloat(detail.Venue.Address.Longitude, 64); err == nil {
				if plat != domain.FallbackLat || plng != domain.FallbackLng {
					lat, lng = plat, plng
				}
			}
		}
		if detail.IsFree {
			price = &domain.Price{Min: 0, Max: 0, Currency: "USD", IsFree: true}
		}
	}

	title := l.Name.Text
	if title == "" {
		title = "Untitled Event"
	}
	startDate := l.Start.UTC
	if startDate == "" {
		startDate = now
	}
	timezone := l.Start.Timezone
	if timezone == "" {
		timezone = "America/New_York"
	}
	categoryID := l.CategoryID
	if categoryID == "" {
		categoryID = "199"
	}

	return domain.Event{
		ID:          "eb-" + l.ID,
		Title:       title,
		Description: l.Summary,
		Category:    domain.MapEventbriteCategory(categoryID),
		Tags:        []string{},
		Coordinates: []float64{lng, lat},
		Venue:       venueName,
		Address:     address,
		City:        city,
		Region:      region,
		StartDate:   startDate,
		EndDate:     l.End.UTC,
		Timezone:    timezone,
		Price:       price,
		URL:         l.URL,
		ImageURL:    l.Logo.URL,
		Source:      domain.Source{Type: domain.SourceEventbrite, FetchedAt: now},
		SourceID:    l.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
		Status:      domain.StatusActive,
	}
}
