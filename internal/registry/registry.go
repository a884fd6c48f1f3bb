// Package registry reads and writes the versioned events snapshot file.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/mirror-factory/event-sync-service/internal/domain"
)

// Version is the snapshot schema version. The key set under this version is
// a stability contract with the read-only query layer.
const Version = "1.0.0"

// ReadSnapshot loads and parses the prior snapshot as a sanity check before a
// run. A missing file is fine (first run); an unreadable or unparseable one
// is not, because it means the output path is wrong or the last run left
// garbage behind.
func ReadSnapshot(path string) (*domain.Registry, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var reg domain.Registry
	if err := json.Unmarshal(raw, &reg); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", path, err)
	}
	return &reg, nil
}

// WriteSnapshot atomically replaces the snapshot with the given events and
// freshly computed metadata. The write goes to a temp file in the same
// directory and is renamed into place, so readers never observe a partial
// file.
func WriteSnapshot(path string, events []domain.Event) (*domain.Registry, error) {
	reg := &domain.Registry{
		Version:    Version,
		LastSynced: domain.NowISO(),
		Metadata:   buildMetadata(events),
		Events:     events,
	}

	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".events-*.json")
	if err != nil {
		return nil, fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return nil, fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return nil, fmt.Errorf("close temp snapshot: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return nil, fmt.Errorf("replace snapshot: %w", err)
	}

	return reg, nil
}

func buildMetadata(events []domain.Event) domain.Metadata {
	active := 0
	categories := make(map[domain.Category]int)
	regionSet := make(map[string]bool)

	for _, e := range events {
		if e.Status == domain.StatusActive {
			active++
		}
		categories[e.Category]++
		if e.Region != "" {
			regionSet[e.Region] = true
		}
	}

	regions := make([]string, 0, len(regionSet))
	for r := range regionSet {
		regions = append(regions, r)
	}
	sort.Strings(regions)

	return domain.Metadata{
		TotalEvents:  len(events),
		ActiveEvents: active,
		Categories:   categories,
		Regions:      regions,
	}
}
