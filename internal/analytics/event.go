package analytics

import "time"

// Topics the report events are published on.
const (
	TopicReportShared   = "reports.shared"
	TopicReportResolved = "reports.resolved"
	TopicReportsSwept   = "reports.swept"
)

// ReportSharedEvent is emitted when a share link was issued.
// Audit payloads are never part of an event.
type ReportSharedEvent struct {
	EventID   string    `json:"eventId"`
	ShortID   string    `json:"shortId"`
	Website   string    `json:"website"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
	ClientIP  string    `json:"clientIp"`
	UserAgent string    `json:"userAgent"`
}

// ReportResolvedEvent is emitted for every resolution attempt, whatever its outcome.
type ReportResolvedEvent struct {
	EventID    string    `json:"eventId"`
	ShortID    string    `json:"shortId"`
	Outcome    string    `json:"outcome"`
	ResolvedAt time.Time `json:"resolvedAt"`
	ClientIP   string    `json:"clientIp"`
	UserAgent  string    `json:"userAgent"`
	Referrer   string    `json:"referrer,omitempty"`
}

// ReportsSweptEvent is emitted after the expiration sweeper ran.
type ReportsSweptEvent struct {
	EventID string    `json:"eventId"`
	Deleted int64     `json:"deleted"`
	SweptAt time.Time `json:"sweptAt"`
}
