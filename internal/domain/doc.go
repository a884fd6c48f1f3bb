// Package domain models Central Florida event listings aggregated from seven
// independent providers.
//
// # Data Sources
//
// Records arrive from the Ticketmaster Discovery API, the Eventbrite API, the
// SerpApi Google Events API, and four HTML-scraped community sites (Orlando
// Weekly, orlando.gov, visitorlando.com, tkx.events). Each adapter normalizes
// its provider's shape into [Event]; everything downstream of the adapters
// operates on that one shape.
//
// # Coordinate Conventions
//
// Coordinates are stored as [longitude, latitude], GeoJSON order. MapTiler
// returns "center" in this order already; Ticketmaster returns lat/long as
// separate string fields.
//
// The downtown Orlando centroid (-81.3792, 28.5383) doubles as the "unresolved
// venue" fallback some adapters emit for UX reasons. The coordinate validator
// rejects exactly that pair so defaulted records never reach the snapshot.
// Known collision: the canonical venue table pins Dr. Phillips Center to the
// same pair, so a correctly resolved Dr. Phillips event is rejected as a
// fallback. Preserved deliberately; see DESIGN.md.
//
// Valid coordinates must fall inside the Central Florida bounding box
// (lat 27.90–29.35, lng -82.10–-80.50), which covers the 50-mile search radius
// used by the API adapters: Orlando, Daytona Beach, Lakeland, Sanford,
// Kissimmee, Winter Park, and Cocoa, but not Tampa, Jacksonville, or Miami.
//
// # Deduplication Conventions
//
// A logical event is keyed by normalized title | normalized venue | UTC date.
// Normalization lowercases, strips a leading 4-digit year token, strips
// ticket-package suffixes Ticketmaster appends to the same base event
// ("VIP Admission", "Suite", "Boardwalk Club", ...), sorts the two sides of
// "<A> vs <B>" matchup titles so home/away listings collapse, and finally
// removes all non-alphanumeric characters. Sources are ranked so that when
// two records collide on a key the more authoritative provider wins; no
// field-level merging occurs.
//
// # Time Conventions
//
// StartDate/EndDate are ISO 8601 UTC instants. Scraped sites publish local
// Eastern times with no offset; those are shifted by the EDT/EST offset for
// the event's month before storage. The IANA timezone name is retained for
// display only.
//
// # ID Generation
//
// API-backed records use a source-prefixed provider ID ("tm-<id>", "eb-<id>").
// Scraped records use a source prefix plus the first 8 hex chars of
// SHA-256(title|startDate), so re-scraping the same listing produces the same
// ID across runs.
package domain
