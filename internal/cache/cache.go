package cache

import (
	"context"
	"time"
)

// Store is the result cache shared across concurrent requests. Values for a
// given key are equivalent by construction (identical inputs fingerprint to
// identical keys), so last-writer-wins on a collision is acceptable and no
// multi-key discipline exists. Entries past their TTL behave as absent.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Close() error
}
