// Package crypto verifies client credentials against stored bcrypt
// hashes.
package crypto

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// Verifier checks md5-password logins against bcrypt hashes. A bcrypt
// round costs tens of milliseconds, so verified pairs are cached and
// the expensive path is bounded by a semaphore sized to the CPU count.
type Verifier struct {
	sem *semaphore.Weighted

	mu    sync.RWMutex
	cache map[string][]byte // bcrypt hash -> verified plain password
}

func NewVerifier() *Verifier {
	return &Verifier{
		sem:   semaphore.NewWeighted(int64(runtime.GOMAXPROCS(0))),
		cache: make(map[string][]byte),
	}
}

// Verify reports whether plain matches the bcrypt hash. Cache hits are
// compared in constant time; misses run bcrypt under the semaphore.
func (v *Verifier) Verify(ctx context.Context, plain []byte, hash string) (bool, error) {
	v.mu.RLock()
	cached, ok := v.cache[hash]
	v.mu.RUnlock()
	if ok {
		return subtle.ConstantTimeCompare(cached, plain) == 1, nil
	}

	if err := v.sem.Acquire(ctx, 1); err != nil {
		return false, fmt.Errorf("waiting for verifier slot: %w", err)
	}
	defer v.sem.Release(1)

	err := bcrypt.CompareHashAndPassword([]byte(hash), plain)
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("comparing password hash: %w", err)
	}

	v.mu.Lock()
	v.cache[hash] = append([]byte(nil), plain...)
	v.mu.Unlock()
	return true, nil
}
