package store

import (
	"context"

	"github.com/serroba/brand-audit/internal/analytics"
	"go.uber.org/zap"
)

// Noop is an analytics.Store that only logs the events it receives.
type Noop struct {
	logger *zap.Logger
}

// NewNoop creates a new no-op analytics store.
func NewNoop(logger *zap.Logger) *Noop {
	return &Noop{logger: logger}
}

func (n *Noop) SaveReportShared(_ context.Context, event *analytics.ReportSharedEvent) error {
	n.logger.Info("report shared event received",
		zap.String("eventId", event.EventID),
		zap.String("shortId", event.ShortID),
		zap.String("website", event.Website),
		zap.Time("expiresAt", event.ExpiresAt),
	)

	return nil
}

func (n *Noop) SaveReportResolved(_ context.Context, event *analytics.ReportResolvedEvent) error {
	n.logger.Info("report resolved event received",
		zap.String("eventId", event.EventID),
		zap.String("shortId", event.ShortID),
		zap.String("outcome", event.Outcome),
		zap.String("referrer", event.Referrer),
	)

	return nil
}

func (n *Noop) SaveReportsSwept(_ context.Context, event *analytics.ReportsSweptEvent) error {
	n.logger.Info("reports swept event received",
		zap.String("eventId", event.EventID),
		zap.Int64("deleted", event.Deleted),
		zap.Time("sweptAt", event.SweptAt),
	)

	return nil
}
