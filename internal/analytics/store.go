package analytics

import "context"

// Store persists report events.
type Store interface {
	SaveReportShared(ctx context.Context, event *ReportSharedEvent) error
	SaveReportResolved(ctx context.Context, event *ReportResolvedEvent) error
	SaveReportsSwept(ctx context.Context, event *ReportsSweptEvent) error
}
