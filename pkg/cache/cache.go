package cache

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Store keeps string values for a bounded time. A miss is ("", false, nil).
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Ping(ctx context.Context) error
}

// Key derives a stable cache key from a form payload. url.Values.Encode sorts
// by key, so field order never changes the result.
func Key(payload url.Values) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(payload.Encode()))
}
