package report

import (
	"encoding/json"
	"time"
)

// ShortID identifies one shared report in share URLs.
type ShortID string

// SharedReport is a stored brand audit reachable through its short ID.
// AuditResult and LighthouseData are opaque JSON and never interpreted here.
type SharedReport struct {
	ShortID        ShortID
	AuditResult    json.RawMessage
	LighthouseData json.RawMessage // nil when the audit ran without Lighthouse
	Website        string
	CreatedAt      time.Time
	ExpiresAt      time.Time
}

// ExpiredAt reports whether the report is past its expiration at the given instant.
func (r *SharedReport) ExpiredAt(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

// Stats summarises the rows held by a Repository.
type Stats struct {
	Total   int64 `json:"total"`
	Active  int64 `json:"active"`
	Expired int64 `json:"expired"`
}
