// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package cache

import (
	"sync"
	"time"
)

// Entry is a cached semantic scoring result. Scores and Reasons are aligned
// to the candidate order used when deriving the key.
type Entry struct {
	Scores  []float64
	Reasons []string
}

type record struct {
	value     Entry
	expiresAt time.Time
}

// Store is a TTL-keyed in-process cache of semantic scoring results.
//
// Entries past their TTL are treated as absent and removed opportunistically
// on the next Get; there is no background sweep. Concurrent writers to the
// same key need no coordination beyond the atomic replace Put performs:
// last writer wins and stale overwrites are acceptable.
type Store struct {
	mu      sync.RWMutex
	records map[string]record
	clock   func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock substitutes the time source. Used by tests to control expiry
// without sleeping. Default is time.Now.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewStore creates an empty cache store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		records: make(map[string]record),
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the entry for key if present and unexpired.
// An expired entry is removed and reported as absent.
func (s *Store) Get(key string) (Entry, bool) {
	s.mu.RLock()
	rec, ok := s.records[key]
	s.mu.RUnlock()
	if !ok {
		return Entry{}, false
	}

	if s.clock().After(rec.expiresAt) {
		s.mu.Lock()
		// Re-check under the write lock; a concurrent Put may have
		// refreshed the key.
		if cur, ok := s.records[key]; ok && s.clock().After(cur.expiresAt) {
			delete(s.records, key)
		}
		s.mu.Unlock()
		return Entry{}, false
	}

	return rec.value, true
}

// Put stores value under key with the given TTL, replacing any prior entry.
func (s *Store) Put(key string, value Entry, ttl time.Duration) {
	expiresAt := s.clock().Add(ttl)
	s.mu.Lock()
	s.records[key] = record{value: value, expiresAt: expiresAt}
	s.mu.Unlock()
}

// Len returns the number of entries currently held, including any expired
// entries that have not yet been evicted by a read.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
