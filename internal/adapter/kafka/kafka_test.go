package kafka

import (
	"testing"

	"github.com/mirror-factory/event-sync-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeToMessage(t *testing.T) {
	event := domain.Event{
		ID:    "tm-G5vYZ9",
		Title: "Orlando Magic vs. Miami Heat",
		Source: domain.Source{
			Type:      domain.SourceTicketmaster,
			FetchedAt: "2026-02-01T12:00:00Z",
		},
	}

	msg, err := serializeToMessage(event)
	require.NoError(t, err)

	assert.Equal(t, []byte("tm-G5vYZ9"), msg.Key)
	assert.Contains(t, string(msg.Value), `"title":"Orlando Magic vs. Miami Heat"`)
	assert.Len(t, msg.Headers, 2)
	assert.Equal(t, "source_type", msg.Headers[0].Key)
	assert.Equal(t, []byte("ticketmaster"), msg.Headers[0].Value)
	assert.Equal(t, "fetched_at", msg.Headers[1].Key)
	assert.Equal(t, []byte("2026-02-01T12:00:00Z"), msg.Headers[1].Value)
}
