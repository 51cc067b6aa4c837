package handlers

import (
	"encoding/json"
	"time"
)

// ShareReportRequest is the request body for issuing a share link.
// Fields are optional in the schema so missing ones surface as 400 from the handler.
type ShareReportRequest struct {
	Body struct {
		AuditResult    json.RawMessage `doc:"The audit result to share, stored as submitted" json:"auditResult,omitempty"`
		LighthouseData json.RawMessage `doc:"Optional Lighthouse category scores"            json:"lighthouseData,omitempty"`
		Website        string          `doc:"The audited website"                            example:"https://example.com" json:"website,omitempty"`
	}
}

// ShareReportResponse is returned once a share link was created.
type ShareReportResponse struct {
	Body struct {
		Success bool   `json:"success"`
		URL     string `doc:"The shareable report URL" example:"https://audit.example.com/report/aB3xY9" json:"url"`
		ShortID string `doc:"The report short ID"      example:"aB3xY9"                                  json:"shortId,omitempty"`
	}
}

// ResolveReportRequest is the request body for resolving a share token.
type ResolveReportRequest struct {
	Body struct {
		Token string `doc:"The short ID or magic link token" example:"aB3xY9" json:"token,omitempty"`
	}
}

// GetReportRequest resolves a report by path.
type GetReportRequest struct {
	ID string `doc:"The report short ID or magic link token" example:"aB3xY9" path:"id"`
}

// ReportPayload is a resolved report.
type ReportPayload struct {
	AuditResult    json.RawMessage `json:"auditResult"`
	LighthouseData json.RawMessage `json:"lighthouseData"`
	Website        string          `json:"website"`
	CreatedAt      time.Time       `json:"created_at"`
	ExpiresAt      time.Time       `json:"expires_at"`
}

// ResolveReportResponse carries a resolved report.
type ResolveReportResponse struct {
	Body struct {
		Success bool          `json:"success"`
		Payload ReportPayload `json:"payload"`
	}
}

// StatsBody mirrors report.Stats in responses.
type StatsBody struct {
	Total   int64 `json:"total"`
	Active  int64 `json:"active"`
	Expired int64 `json:"expired"`
}

// SweepRequest triggers the expiration sweeper.
type SweepRequest struct {
	Authorization string `doc:"Bearer token, required when a cleanup secret is configured" header:"Authorization"`
}

// SweepResponse reports how many reports were deleted.
type SweepResponse struct {
	Body struct {
		Success bool      `json:"success"`
		Message string    `json:"message"`
		Deleted int64     `json:"deleted"`
		Stats   StatsBody `json:"stats"`
	}
}

// StatsResponse reports row counts for monitoring.
type StatsResponse struct {
	Body struct {
		Success bool      `json:"success"`
		Stats   StatsBody `json:"stats"`
	}
}

// MagicLinkRequest is the request body for creating a magic link.
type MagicLinkRequest struct {
	Body struct {
		AuditResult    json.RawMessage `doc:"The audit result to embed"           json:"auditResult,omitempty"`
		LighthouseData json.RawMessage `doc:"Optional Lighthouse category scores" json:"lighthouseData,omitempty"`
		Website        string          `doc:"The audited website"                 json:"website,omitempty"`
	}
}

// MagicLinkResponse carries the signed link.
type MagicLinkResponse struct {
	Body struct {
		Success bool   `json:"success"`
		URL     string `doc:"The magic link URL" json:"url"`
	}
}

// VerifyMagicLinkRequest is the request body for verifying a magic link token.
type VerifyMagicLinkRequest struct {
	Body struct {
		Token string `doc:"The signed magic link token" json:"token,omitempty"`
	}
}
