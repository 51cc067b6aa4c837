package ratelimit

import (
	"context"
	"time"
)

// Store keeps sliding-window counters for the PolicyLimiter. Keys are built by
// the limiter as "<client>:<scope>:<window ms>" for scope limits and
// "<client>:route:<path>:<window ms>" for endpoint limits.
type Store interface {
	// Record counts one request under key and returns how many requests key has
	// seen within window, including this one. Requests older than window no
	// longer count.
	Record(ctx context.Context, key string, window time.Duration) (count int64, err error)
}
