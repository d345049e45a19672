package shared

import (
	"context"
	"time"
)

// DefaultIdempotencyTTL is how long a checkout key blocks a replay
const DefaultIdempotencyTTL = 24 * time.Hour

// IdempotencyStore remembers client-supplied keys so a retried request is
// not applied twice
type IdempotencyStore interface {
	// MarkProcessed claims key for ttl. It reports false when the key is
	// already held.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)
	IsProcessed(ctx context.Context, key string) (bool, error)
	// Forget releases key so a failed request can be retried with it
	Forget(ctx context.Context, key string) error
	Close() error
}
