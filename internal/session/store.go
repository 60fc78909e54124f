package session

import (
	"context"
	"time"
)

// Store defines how conversational sessions are held and reclaimed.
//
// The store guards table-level structural mutation (insert, eviction)
// only. Two simultaneous turns on the same session id may interleave
// their reads and writes of the returned Session's fields; that race is
// accepted rather than serialized per session, since a session belongs
// to a single human who rarely double-submits.
type Store interface {
	// Resolve returns the session for id, creating a fresh one with a
	// new id when id is empty or unknown. It always refreshes
	// LastUpdated, which is what keeps an active session alive.
	Resolve(ctx context.Context, id string) (*Session, bool)

	Delete(ctx context.Context, id string)

	// SweepExpired evicts every session idle longer than the store's
	// threshold, returning how many were removed.
	SweepExpired(ctx context.Context, now time.Time) int
}
