package registry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/mirror-factory/event-sync-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEvents() []domain.Event {
	return []domain.Event{
		{
			ID: "tm-1", Title: "Concert", Category: domain.CategoryMusic,
			Region: "Downtown Orlando", Status: domain.StatusActive,
			Coordinates: []float64{-81.38, 28.54},
		},
		{
			ID: "ow-2", Title: "Market", Category: domain.CategoryMarket,
			Region: "Winter Park", Status: domain.StatusActive,
			Coordinates: []float64{-81.34, 28.60},
		},
		{
			ID: "eb-3", Title: "Old Show", Category: domain.CategoryMusic,
			Region: "Downtown Orlando", Status: domain.StatusPast,
			Coordinates: []float64{-81.38, 28.54},
		},
	}
}

func TestWriteSnapshot_RoundTrip(t *testing.T) {
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)))
	defer domain.SetClock(nil)

	path := filepath.Join(t.TempDir(), "data", "events.json")

	written, err := WriteSnapshot(path, sampleEvents())
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", written.Version)
	assert.Equal(t, "2026-02-01T12:00:00Z", written.LastSynced)

	read, err := ReadSnapshot(path)
	require.NoError(t, err)
	require.NotNil(t, read)
	if diff := cmp.Diff(written, read); diff != "" {
		t.Errorf("snapshot round trip mismatch (-written +read):\n%s", diff)
	}
}

func TestWriteSnapshot_Metadata(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")

	reg, err := WriteSnapshot(path, sampleEvents())
	require.NoError(t, err)

	assert.Equal(t, 3, reg.Metadata.TotalEvents)
	assert.Equal(t, 2, reg.Metadata.ActiveEvents)
	assert.Equal(t, 2, reg.Metadata.Categories[domain.CategoryMusic])
	assert.Equal(t, 1, reg.Metadata.Categories[domain.CategoryMarket])
	assert.Equal(t, []string{"Downtown Orlando", "Winter Park"}, reg.Metadata.Regions)
}

func TestWriteSnapshot_FileShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")

	_, err := WriteSnapshot(path, sampleEvents())
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.True(t, len(raw) > 0 && raw[len(raw)-1] == '\n', "snapshot should end with a newline")
	assert.Contains(t, string(raw), "\n  \"version\": \"1.0.0\",")

	var top map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &top))
	for _, key := range []string{"version", "lastSynced", "metadata", "events"} {
		assert.Contains(t, top, key)
	}
}

func TestWriteSnapshot_ReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	require.NoError(t, os.WriteFile(path, []byte("old garbage"), 0o644))

	_, err := WriteSnapshot(path, sampleEvents())
	require.NoError(t, err)

	read, err := ReadSnapshot(path)
	require.NoError(t, err)
	assert.Len(t, read.Events, 3)

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestReadSnapshot(t *testing.T) {
	t.Run("missing file is not an error", func(t *testing.T) {
		reg, err := ReadSnapshot(filepath.Join(t.TempDir(), "nope.json"))
		require.NoError(t, err)
		assert.Nil(t, reg)
	})

	t.Run("corrupt file is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "events.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

		_, err := ReadSnapshot(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse snapshot")
	})
}
