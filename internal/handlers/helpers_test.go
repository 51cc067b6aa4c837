package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/brand-audit/internal/analytics"
	"github.com/serroba/brand-audit/internal/handlers"
	"github.com/serroba/brand-audit/internal/messaging"
	"github.com/serroba/brand-audit/internal/report"
	"github.com/serroba/brand-audit/internal/store"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testBaseURL = "http://localhost:8888"

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

type recordedEvents struct {
	mu       sync.Mutex
	shared   []*analytics.ReportSharedEvent
	resolved []*analytics.ReportResolvedEvent
	swept    []*analytics.ReportsSweptEvent
}

func record[T any](mu *sync.Mutex, dst *[]*T) messaging.Publish[T] {
	return func(_ context.Context, event *T) error {
		mu.Lock()
		defer mu.Unlock()

		*dst = append(*dst, event)

		return nil
	}
}

func (r *recordedEvents) events() handlers.Events {
	return handlers.Events{
		Shared:   record(&r.mu, &r.shared),
		Resolved: record(&r.mu, &r.resolved),
		Swept:    record(&r.mu, &r.swept),
	}
}

func failingEvents(err error) handlers.Events {
	return handlers.Events{
		Shared:   func(context.Context, *analytics.ReportSharedEvent) error { return err },
		Resolved: func(context.Context, *analytics.ReportResolvedEvent) error { return err },
		Swept:    func(context.Context, *analytics.ReportsSweptEvent) error { return err },
	}
}

func newTestService(t *testing.T, repo report.Repository, clock *fakeClock) *report.Service {
	t.Helper()

	cfg := report.DefaultConfig()
	gen, err := report.NewIDGenerator(cfg.Alphabet, cfg.IDLength)
	require.NoError(t, err)

	return report.NewService(repo, gen, cfg, zap.NewNop(), report.WithClock(clock.Now))
}

func newTestHandler(t *testing.T, clock *fakeClock, secret string, events handlers.Events) *handlers.ReportHandler {
	t.Helper()

	return handlers.NewReportHandler(
		newTestService(t, store.NewMemoryStore(), clock),
		nil,
		testBaseURL,
		secret,
		events,
		zap.NewNop(),
	)
}

func shareRequest(website, audit string) *handlers.ShareReportRequest {
	req := &handlers.ShareReportRequest{}
	req.Body.Website = website
	req.Body.AuditResult = json.RawMessage(audit)
	req.Body.LighthouseData = json.RawMessage(`{"performance":0.91}`)

	return req
}

func statusOf(t *testing.T, err error) int {
	t.Helper()

	var se huma.StatusError

	require.True(t, errors.As(err, &se), "expected a huma status error, got %v", err)

	return se.GetStatus()
}
