package waitlist

// SelectForNotification picks which waiting entries get notified for the given
// number of available tickets. Entries must already be ordered by creation
// time ascending; the result is the first min(capacity, len(entries)) of them,
// so notifications always favour whoever joined first.
func SelectForNotification(entries []Entry, capacity int) []Entry {
	if capacity <= 0 || len(entries) == 0 {
		return nil
	}
	if capacity >= len(entries) {
		return entries
	}
	return entries[:capacity]
}
