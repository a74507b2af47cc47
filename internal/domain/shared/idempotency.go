package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers operation keys so duplicate submissions of
// the same mutation are rejected within the TTL window.
type IdempotencyStore interface {
	// MarkProcessed records the key. Returns true if the key was newly
	// recorded, false if it was already present.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// IsProcessed reports whether the key has already been recorded.
	IsProcessed(ctx context.Context, key string) (bool, error)
	Close() error
}
