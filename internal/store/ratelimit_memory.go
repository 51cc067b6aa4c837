package store

import (
	"context"
	"sync"
	"time"
)

// compactEvery is how many recorded requests pass between sweeps of idle keys.
const compactEvery = 1024

type window struct {
	size       time.Duration
	timestamps []time.Time
}

// RateLimitMemoryStore keeps sliding-window request timestamps per key in memory.
// It only suits a single server instance; use RateLimitRedisStore otherwise.
// Keys whose window holds no request are dropped periodically, so clients that
// stop sending requests do not keep memory alive.
type RateLimitMemoryStore struct {
	mu       sync.Mutex
	requests map[string]*window
	recorded int
	now      func() time.Time
}

// NewRateLimitMemoryStore creates a new in-memory rate limit store.
func NewRateLimitMemoryStore() *RateLimitMemoryStore {
	return &RateLimitMemoryStore{
		requests: make(map[string]*window),
		now:      time.Now,
	}
}

// WithClock replaces the time source.
func (s *RateLimitMemoryStore) WithClock(now func() time.Time) *RateLimitMemoryStore {
	s.now = now

	return s
}

// Record appends a request to key and returns how many fall inside size.
func (s *RateLimitMemoryStore) Record(_ context.Context, key string, size time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	s.recorded++
	if s.recorded%compactEvery == 0 {
		s.compactLocked(now)
	}

	w, ok := s.requests[key]
	if !ok {
		w = &window{}
		s.requests[key] = w
	}

	w.size = size
	w.timestamps = append(prune(w.timestamps, now.Add(-size)), now)

	return int64(len(w.timestamps)), nil
}

func (s *RateLimitMemoryStore) compactLocked(now time.Time) {
	for key, w := range s.requests {
		if w.timestamps = prune(w.timestamps, now.Add(-w.size)); len(w.timestamps) == 0 {
			delete(s.requests, key)
		}
	}
}

func prune(timestamps []time.Time, cutoff time.Time) []time.Time {
	valid := make([]time.Time, 0, len(timestamps)+1)

	for _, ts := range timestamps {
		if ts.After(cutoff) {
			valid = append(valid, ts)
		}
	}

	return valid
}
