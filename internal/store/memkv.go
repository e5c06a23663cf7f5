package store

import (
	"context"
	"sync"
	"time"
)

// MemKV is an in-memory KV used by tests and local development. It
// honors the same semantics as the redis implementation, including
// SetNX TTLs and pub/sub fan-out.
type MemKV struct {
	mu      sync.Mutex
	strings map[string][]byte
	expiry  map[string]time.Time
	hashes  map[string]map[string][]byte
	lists   map[string][]string
	subs    map[string][]*memSubscription
}

func NewMemKV() *MemKV {
	return &MemKV{
		strings: make(map[string][]byte),
		expiry:  make(map[string]time.Time),
		hashes:  make(map[string]map[string][]byte),
		lists:   make(map[string][]string),
		subs:    make(map[string][]*memSubscription),
	}
}

// expired reports and reaps a stale SetNX key. Caller holds mu.
func (m *MemKV) expired(key string) bool {
	deadline, ok := m.expiry[key]
	if !ok || time.Now().Before(deadline) {
		return false
	}
	delete(m.strings, key)
	delete(m.expiry, key)
	return true
}

func (m *MemKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.expired(key)
	data, ok := m.strings[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (m *MemKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.strings[key] = append([]byte(nil), value...)
	delete(m.expiry, key)
	return nil
}

func (m *MemKV) SetNX(_ context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.expired(key)
	if _, ok := m.strings[key]; ok {
		return false, nil
	}
	m.strings[key] = append([]byte(nil), value...)
	if ttl > 0 {
		m.expiry[key] = time.Now().Add(ttl)
	}
	return true, nil
}

func (m *MemKV) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range keys {
		delete(m.strings, key)
		delete(m.expiry, key)
		delete(m.hashes, key)
		delete(m.lists, key)
	}
	return nil
}

func (m *MemKV) Append(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.expired(key)
	m.strings[key] = append(m.strings[key], value...)
	return nil
}

func (m *MemKV) HGet(_ context.Context, key, field string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.hashes[key][field]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (m *MemKV) HSet(_ context.Context, key, field string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	h, ok := m.hashes[key]
	if !ok {
		h = make(map[string][]byte)
		m.hashes[key] = h
	}
	h[field] = append([]byte(nil), value...)
	return nil
}

func (m *MemKV) HDel(_ context.Context, key string, fields ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, field := range fields {
		delete(m.hashes[key], field)
	}
	return nil
}

func (m *MemKV) HGetAll(_ context.Context, key string) (map[string][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string][]byte, len(m.hashes[key]))
	for field, value := range m.hashes[key] {
		out[field] = append([]byte(nil), value...)
	}
	return out, nil
}

func (m *MemKV) LPush(_ context.Context, key string, values ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, v := range values {
		m.lists[key] = append([]string{v}, m.lists[key]...)
	}
	return nil
}

func (m *MemKV) LRem(_ context.Context, key string, count int64, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// count=0 removes every occurrence, which is all the stores use.
	kept := m.lists[key][:0]
	removed := int64(0)
	for _, v := range m.lists[key] {
		if v == value && (count == 0 || removed < count) {
			removed++
			continue
		}
		kept = append(kept, v)
	}
	m.lists[key] = kept
	return nil
}

func (m *MemKV) LRange(_ context.Context, key string, start, stop int64) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := m.lists[key]
	n := int64(len(list))
	if start < 0 {
		start += n
	}
	if stop < 0 {
		stop += n
	}
	if start < 0 {
		start = 0
	}
	if stop >= n {
		stop = n - 1
	}
	if start > stop || n == 0 {
		return nil, nil
	}
	return append([]string(nil), list[start:stop+1]...), nil
}

func (m *MemKV) Publish(_ context.Context, channel string, payload string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, sub := range m.subs[channel] {
		select {
		case sub.ch <- memMessage{channel: channel, payload: payload}:
		default:
			// Slow subscriber, message dropped like redis would.
		}
	}
	return nil
}

func (m *MemKV) Subscribe(_ context.Context, channels ...string) (Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sub := &memSubscription{
		kv:       m,
		channels: channels,
		ch:       make(chan memMessage, 64),
	}
	for _, channel := range channels {
		m.subs[channel] = append(m.subs[channel], sub)
	}
	return sub, nil
}

type memMessage struct {
	channel string
	payload string
}

type memSubscription struct {
	kv       *MemKV
	channels []string
	ch       chan memMessage
}

func (s *memSubscription) Receive(ctx context.Context, timeout time.Duration) (string, string, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case msg := <-s.ch:
		return msg.channel, msg.payload, nil
	case <-timer.C:
		return "", "", ErrNoMessage
	case <-ctx.Done():
		return "", "", ctx.Err()
	}
}

func (s *memSubscription) Close() error {
	s.kv.mu.Lock()
	defer s.kv.mu.Unlock()

	for _, channel := range s.channels {
		subs := s.kv.subs[channel][:0]
		for _, sub := range s.kv.subs[channel] {
			if sub != s {
				subs = append(subs, sub)
			}
		}
		s.kv.subs[channel] = subs
	}
	return nil
}
