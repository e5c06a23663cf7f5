package store

import (
	"context"
	"fmt"
	"time"
)

const (
	// lockTTL caps how long a crashed process can wedge a lock.
	lockTTL = 10 * time.Second

	lockRetryInterval = 100 * time.Millisecond
)

// WithLock runs fn while holding the named distributed lock. The lock
// is acquired with SetNX and polled at a fixed interval; it is always
// released on the way out, and the TTL bounds the damage if the
// process dies mid-section.
func WithLock(ctx context.Context, kv KV, key string, fn func() error) error {
	for {
		ok, err := kv.SetNX(ctx, key, []byte("1"), lockTTL)
		if err != nil {
			return fmt.Errorf("acquire lock %s: %w", key, err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("acquire lock %s: %w", key, ctx.Err())
		case <-time.After(lockRetryInterval):
		}
	}

	defer func() {
		_ = kv.Del(context.WithoutCancel(ctx), key)
	}()

	return fn()
}
