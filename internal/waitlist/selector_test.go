package waitlist

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func entriesWithCreationTimes(times ...time.Time) []Entry {
	out := make([]Entry, 0, len(times))
	for _, t := range times {
		out = append(out, Entry{
			ID:        NewEntryID(t),
			EventID:   uuid.New(),
			Name:      "user",
			Email:     "user@example.com",
			Status:    StatusWaiting,
			CreatedAt: t,
		})
	}
	return out
}

func TestSelectForNotification(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	entries := entriesWithCreationTimes(
		base,
		base.Add(time.Minute),
		base.Add(2*time.Minute),
	)

	t.Run("fewer tickets than waiting", func(t *testing.T) {
		selected := SelectForNotification(entries, 2)
		assert.Len(t, selected, 2)
		assert.Equal(t, entries[0].ID, selected[0].ID)
		assert.Equal(t, entries[1].ID, selected[1].ID)
	})

	t.Run("more tickets than waiting", func(t *testing.T) {
		selected := SelectForNotification(entries, 10)
		assert.Len(t, selected, 3)
	})

	t.Run("exactly as many tickets as waiting", func(t *testing.T) {
		selected := SelectForNotification(entries, 3)
		assert.Len(t, selected, 3)
	})

	t.Run("zero capacity", func(t *testing.T) {
		assert.Nil(t, SelectForNotification(entries, 0))
	})

	t.Run("negative capacity", func(t *testing.T) {
		assert.Nil(t, SelectForNotification(entries, -1))
	})

	t.Run("no entries", func(t *testing.T) {
		assert.Nil(t, SelectForNotification(nil, 5))
	})
}

func TestSelectForNotificationFavoursEarliest(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// Entries arrive pre-sorted by creation time regardless of insert order;
	// the earliest two must win a 2-ticket selection.
	entries := entriesWithCreationTimes(
		base.Add(-time.Hour),
		base,
		base.Add(time.Hour),
		base.Add(2*time.Hour),
	)

	selected := SelectForNotification(entries, 2)
	assert.Len(t, selected, 2)
	assert.True(t, selected[0].CreatedAt.Before(selected[1].CreatedAt))
	assert.Equal(t, entries[0].ID, selected[0].ID)
	assert.Equal(t, entries[1].ID, selected[1].ID)
}
