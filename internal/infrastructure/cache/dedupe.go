package cache

import (
	"context"
	"time"
)

// DedupeStore records that a keyed action has been performed so repeated
// attempts inside the TTL window can be suppressed. The reminder sweep uses
// it to avoid re-notifying the same follow-up or overdue task after a
// restart.
type DedupeStore interface {
	// MarkDone records the key with a TTL and reports whether it was newly
	// recorded. A false result means the key was already present.
	MarkDone(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsDone reports whether the key is present and unexpired.
	IsDone(ctx context.Context, key string) (bool, error)

	Close() error
}
