package store

import (
	"context"
	"path"
	"sync"
	"time"
)

// Compile-time interface check
var _ Store = (*MemoryStore)(nil)

type memoryEntry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

// MemoryStore is the in-process Store used when the durable backend is
// unavailable or in tests. Selected explicitly by the caller.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	lists   map[string][]string
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		lists:   make(map[string][]string),
	}
}

// Get returns the value at key, or ErrNotFound for absent or expired keys.
func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	if !ok || s.expired(entry) {
		delete(s.entries, key)
		return "", ErrNotFound
	}
	return entry.value, nil
}

// SetWithExpiry stores value at key with a TTL.
func (s *MemoryStore) SetWithExpiry(_ context.Context, key string, ttl time.Duration, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	s.entries[key] = entry
	return nil
}

// Delete removes keys and lists, returning how many existed.
func (s *MemoryStore) Delete(_ context.Context, keys ...string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, key := range keys {
		if _, ok := s.entries[key]; ok {
			delete(s.entries, key)
			n++
			continue
		}
		if _, ok := s.lists[key]; ok {
			delete(s.lists, key)
			n++
		}
	}
	return n, nil
}

// ListKeys returns the live keys matching a glob pattern.
func (s *MemoryStore) ListKeys(_ context.Context, pattern string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var keys []string
	for key, entry := range s.entries {
		if s.expired(entry) {
			continue
		}
		if ok, _ := path.Match(pattern, key); ok {
			keys = append(keys, key)
		}
	}
	for key := range s.lists {
		if ok, _ := path.Match(pattern, key); ok {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// AppendToList pushes value onto the tail of the list at key.
func (s *MemoryStore) AppendToList(_ context.Context, key, value string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists[key] = append(s.lists[key], value)
	return int64(len(s.lists[key])), nil
}

// RangeList returns list elements between start and stop inclusive, with
// Redis-style negative indices counting from the tail.
func (s *MemoryStore) RangeList(_ context.Context, key string, start, stop int64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.lists[key]
	from, to, ok := normalizeRange(start, stop, int64(len(list)))
	if !ok {
		return nil, nil
	}
	out := make([]string, to-from+1)
	copy(out, list[from:to+1])
	return out, nil
}

// TrimList keeps only the list elements between start and stop inclusive.
func (s *MemoryStore) TrimList(_ context.Context, key string, start, stop int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.lists[key]
	from, to, ok := normalizeRange(start, stop, int64(len(list)))
	if !ok {
		delete(s.lists, key)
		return nil
	}
	s.lists[key] = append([]string(nil), list[from:to+1]...)
	return nil
}

// SetExpiry resets the TTL on an existing key; absent keys are a no-op.
func (s *MemoryStore) SetExpiry(_ context.Context, key string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	if !ok || s.expired(entry) {
		return nil
	}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	} else {
		entry.expiresAt = time.Time{}
	}
	s.entries[key] = entry
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) expired(entry memoryEntry) bool {
	return !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt)
}

// normalizeRange resolves Redis-style inclusive indices against a list of
// length n; ok is false when the window is empty.
func normalizeRange(start, stop, n int64) (from, to int64, ok bool) {
	if n == 0 {
		return 0, 0, false
	}
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
	if start > stop || start >= n || stop < 0 {
		return 0, 0, false
	}
	return start, stop, true
}
