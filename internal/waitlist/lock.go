package waitlist

import (
	"sync"

	"github.com/google/uuid"
)

// eventLocks serialises notification runs per event. Counting availability,
// selecting entries and promoting them must not interleave for the same
// event, otherwise two concurrent runs can both observe an entry as WAITING
// and notify it twice.
type eventLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newEventLocks() *eventLocks {
	return &eventLocks{locks: make(map[uuid.UUID]*sync.Mutex)}
}

// lock acquires the mutex for the given event and returns its unlock func
func (l *eventLocks) lock(eventID uuid.UUID) func() {
	l.mu.Lock()
	m, ok := l.locks[eventID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[eventID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
