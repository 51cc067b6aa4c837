package store

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/serroba/brand-audit/internal/report"
)

// MemoryStore is an in-memory implementation of report.Repository.
type MemoryStore struct {
	mu      sync.RWMutex
	reports map[report.ShortID]report.SharedReport
}

// NewMemoryStore creates a new in-memory report store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		reports: make(map[report.ShortID]report.SharedReport),
	}
}

func (m *MemoryStore) Insert(_ context.Context, r *report.SharedReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.reports[r.ShortID]; ok {
		return report.ErrDuplicateID
	}

	m.reports[r.ShortID] = clone(r)

	return nil
}

func (m *MemoryStore) Exists(_ context.Context, id report.ShortID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.reports[id]

	return ok, nil
}

func (m *MemoryStore) Get(_ context.Context, id report.ShortID) (*report.SharedReport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.reports[id]
	if !ok {
		return nil, report.ErrNotFound
	}

	c := clone(&r)

	return &c, nil
}

func (m *MemoryStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var deleted int64

	for id, r := range m.reports {
		if r.ExpiresAt.Before(now) {
			delete(m.reports, id)
			deleted++
		}
	}

	return deleted, nil
}

func (m *MemoryStore) Stats(_ context.Context, now time.Time) (report.Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := report.Stats{Total: int64(len(m.reports))}

	for _, r := range m.reports {
		if !r.ExpiresAt.Before(now) {
			stats.Active++
		}
	}

	stats.Expired = stats.Total - stats.Active

	return stats, nil
}

// Ping always succeeds for the in-memory store.
func (m *MemoryStore) Ping(_ context.Context) error {
	return nil
}

// clone copies the payload slices so callers cannot mutate stored rows.
func clone(r *report.SharedReport) report.SharedReport {
	c := *r
	c.AuditResult = bytes.Clone(r.AuditResult)
	c.LighthouseData = bytes.Clone(r.LighthouseData)

	return c
}

var (
	_ report.Repository = (*MemoryStore)(nil)
	_ report.Pinger     = (*MemoryStore)(nil)
)
