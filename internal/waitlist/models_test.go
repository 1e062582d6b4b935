package waitlist

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCanTransitionTo(t *testing.T) {
	cases := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusWaiting, StatusNotified, true},
		{StatusNotified, StatusRegistered, true},
		{StatusWaiting, StatusRegistered, false},
		{StatusNotified, StatusWaiting, false},
		{StatusRegistered, StatusWaiting, false},
		{StatusRegistered, StatusNotified, false},
		{StatusWaiting, StatusWaiting, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestEntryPromoteToNotified(t *testing.T) {
	now := time.Now().UTC()

	entry := &Entry{Status: StatusWaiting}
	require.NoError(t, entry.PromoteToNotified(now))
	assert.Equal(t, StatusNotified, entry.Status)
	require.NotNil(t, entry.NotifiedAt)
	assert.Equal(t, now, *entry.NotifiedAt)

	// Promoting again is illegal and must carry the typed error.
	err := entry.PromoteToNotified(now)
	var te *TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, StatusNotified, te.From)
	assert.Equal(t, StatusNotified, te.To)
}

func TestEntryConfirmRegistered(t *testing.T) {
	entry := &Entry{Status: StatusNotified}
	require.NoError(t, entry.ConfirmRegistered())
	assert.Equal(t, StatusRegistered, entry.Status)

	waiting := &Entry{Status: StatusWaiting}
	err := waiting.ConfirmRegistered()
	var te *TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, StatusWaiting, te.From)
	assert.Equal(t, StatusRegistered, te.To)
	assert.Contains(t, te.Error(), "WAITING -> REGISTERED")
}

func TestNewEntryID(t *testing.T) {
	now := time.Now().UTC()

	id := NewEntryID(now)
	assert.True(t, strings.HasPrefix(id, "W-"), "id %q lacks W- prefix", id)
	assert.Len(t, id, len("W-")+6+8)

	// Same millisecond, distinct random suffixes.
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		seen[NewEntryID(now)] = true
	}
	assert.Len(t, seen, 100)
}
