package store

import (
	"context"
	"errors"
	"time"

	"github.com/serroba/brand-audit/internal/metrics"
	"github.com/serroba/brand-audit/internal/report"
)

// InstrumentedRepository records latency and unexpected errors of every store call.
type InstrumentedRepository struct {
	store   report.Repository
	metrics *metrics.Metrics
}

// NewInstrumentedRepository wraps store with Prometheus instrumentation.
func NewInstrumentedRepository(store report.Repository, m *metrics.Metrics) *InstrumentedRepository {
	return &InstrumentedRepository{store: store, metrics: m}
}

func (i *InstrumentedRepository) Insert(ctx context.Context, r *report.SharedReport) error {
	defer i.observe("insert", time.Now())

	err := i.store.Insert(ctx, r)
	i.countError("insert", err)

	return err
}

func (i *InstrumentedRepository) Exists(ctx context.Context, id report.ShortID) (bool, error) {
	defer i.observe("exists", time.Now())

	ok, err := i.store.Exists(ctx, id)
	i.countError("exists", err)

	return ok, err
}

func (i *InstrumentedRepository) Get(ctx context.Context, id report.ShortID) (*report.SharedReport, error) {
	defer i.observe("get", time.Now())

	r, err := i.store.Get(ctx, id)
	i.countError("get", err)

	return r, err
}

func (i *InstrumentedRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	defer i.observe("delete_expired", time.Now())

	n, err := i.store.DeleteExpired(ctx, now)
	i.countError("delete_expired", err)

	return n, err
}

func (i *InstrumentedRepository) Stats(ctx context.Context, now time.Time) (report.Stats, error) {
	defer i.observe("stats", time.Now())

	s, err := i.store.Stats(ctx, now)
	i.countError("stats", err)

	return s, err
}

func (i *InstrumentedRepository) Ping(ctx context.Context) error {
	if p, ok := i.store.(report.Pinger); ok {
		return p.Ping(ctx)
	}

	return nil
}

func (i *InstrumentedRepository) observe(op string, start time.Time) {
	i.metrics.StoreDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// countError ignores the domain outcomes repositories are expected to return.
func (i *InstrumentedRepository) countError(op string, err error) {
	if err == nil || errors.Is(err, report.ErrNotFound) || errors.Is(err, report.ErrDuplicateID) {
		return
	}

	i.metrics.StoreErrors.WithLabelValues(op).Inc()
}

var (
	_ report.Repository = (*InstrumentedRepository)(nil)
	_ report.Pinger     = (*InstrumentedRepository)(nil)
)
