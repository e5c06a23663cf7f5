// Package store holds the shared runtime state: sessions, channels,
// matches and per-user packet queues, all living in a key-value store
// so that multiple server processes see the same world.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound is returned for absent keys and hash fields.
var ErrNotFound = errors.New("store: not found")

// ErrNoMessage is returned by Subscription.Receive when no message
// arrived within the timeout.
var ErrNoMessage = errors.New("store: no message")

// KV is the storage contract the stores run on. The production
// implementation is redis; tests use the in-memory one.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	Append(ctx context.Context, key string, value []byte) error

	HGet(ctx context.Context, key, field string) ([]byte, error)
	HSet(ctx context.Context, key, field string, value []byte) error
	HDel(ctx context.Context, key string, fields ...string) error
	HGetAll(ctx context.Context, key string) (map[string][]byte, error)

	LPush(ctx context.Context, key string, values ...string) error
	LRem(ctx context.Context, key string, count int64, value string) error
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)

	Publish(ctx context.Context, channel string, payload string) error
	Subscribe(ctx context.Context, channels ...string) (Subscription, error)
}

// Subscription is a pub/sub receiver.
type Subscription interface {
	// Receive waits up to timeout for one message. ErrNoMessage means
	// the timeout passed quietly.
	Receive(ctx context.Context, timeout time.Duration) (channel, payload string, err error)
	Close() error
}

// Key layout. Everything the server owns lives under the herbert
// prefix so other services can share the database.
const (
	keyPrefix = "herbert:"

	keySessionsByID    = keyPrefix + "sessions:id"
	keySessionsByName  = keyPrefix + "sessions:name"
	keySessionsByToken = keyPrefix + "sessions:token"
	keySessionList     = keyPrefix + "session_list"
	keyChannels        = keyPrefix + "channels:name"
	keyMatchesByID     = keyPrefix + "matches:id"
	keyMatchesByName   = keyPrefix + "matches:name"
)

func queueKey(userID int32) string {
	return fmt.Sprintf("%squeues:%d", keyPrefix, userID)
}

// lockKey builds a lock name under locks: from its parts.
func lockKey(parts ...string) string {
	return keyPrefix + "locks:" + strings.Join(parts, ":")
}
