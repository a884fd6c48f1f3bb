// Package venues resolves venue names to coordinates: canonical alias table
// first, then fuzzy substring matching, then a geocoding fallback.
package venues

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Venue is one entry in the canonical venue table.
type Venue struct {
	Name    string  `yaml:"name"`
	Lat     float64 `yaml:"lat"`
	Lng     float64 `yaml:"lng"`
	Address string  `yaml:"address"`
}

// Match is the coordinate result of a venue lookup.
type Match struct {
	Lat     float64
	Lng     float64
	Address string
}

type aliasEntry struct {
	key   string
	match Match
}

// Table is the loaded canonical venue table, indexed by normalized full name
// and by dash-free slug. Alias order is deterministic (file order, name
// before slug) so overlapping keys always resolve the same way.
type Table struct {
	venues  map[string]Venue
	aliases []aliasEntry
	index   map[string]Match
}

// LoadTable reads the canonical venue YAML file (slug → venue) and builds
// the alias index. The table is read-only reference data for the whole run.
func LoadTable(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read venue table: %w", err)
	}
	return ParseTable(raw)
}

// ParseTable builds a table from raw YAML. Exposed for callers that carry the
// table inline (tests, seed tooling) rather than on disk.
func ParseTable(raw []byte) (*Table, error) {
	var venues map[string]Venue
	if err := yaml.Unmarshal(raw, &venues); err != nil {
		return nil, fmt.Errorf("parse venue table: %w", err)
	}

	t := &Table{
		venues: venues,
		index:  make(map[string]Match, len(venues)*2),
	}

	// Sorted slugs give a stable alias order; yaml maps do not preserve
	// document order.
	slugs := make([]string, 0, len(venues))
	for slug := range venues {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)

	for _, slug := range slugs {
		v := venues[slug]
		m := Match{Lat: v.Lat, Lng: v.Lng, Address: v.Address}

		t.addAlias(strings.ToLower(v.Name), m)
		t.addAlias(strings.ReplaceAll(slug, "-", " "), m)
	}

	return t, nil
}

func (t *Table) addAlias(key string, m Match) {
	if key == "" {
		return
	}
	if _, ok := t.index[key]; ok {
		return
	}
	t.index[key] = m
	t.aliases = append(t.aliases, aliasEntry{key: key, match: m})
}

// All returns the venue entries keyed by slug.
func (t *Table) All() map[string]Venue {
	return t.venues
}
