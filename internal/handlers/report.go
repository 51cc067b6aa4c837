package handlers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/serroba/brand-audit/internal/analytics"
	"github.com/serroba/brand-audit/internal/magiclink"
	"github.com/serroba/brand-audit/internal/messaging"
	"github.com/serroba/brand-audit/internal/metrics"
	"github.com/serroba/brand-audit/internal/report"
	"go.uber.org/zap"
)

// Events bundles the publish funcs the report handlers emit on.
type Events struct {
	Shared   messaging.Publish[analytics.ReportSharedEvent]
	Resolved messaging.Publish[analytics.ReportResolvedEvent]
	Swept    messaging.Publish[analytics.ReportsSweptEvent]
}

// DiscardEvents returns Events that publish nothing.
func DiscardEvents() Events {
	return Events{
		Shared:   messaging.Discard[analytics.ReportSharedEvent](),
		Resolved: messaging.Discard[analytics.ReportResolvedEvent](),
		Swept:    messaging.Discard[analytics.ReportsSweptEvent](),
	}
}

// ReportHandler serves the share, resolve and cleanup endpoints.
type ReportHandler struct {
	service       *report.Service
	links         *magiclink.Signer
	baseURL       string
	cleanupSecret string
	events        Events
	logger        *zap.Logger
}

// NewReportHandler creates a ReportHandler. An empty cleanupSecret leaves POST /cleanup open.
// When links is set, resolving also accepts magic link tokens.
func NewReportHandler(
	service *report.Service,
	links *magiclink.Signer,
	baseURL, cleanupSecret string,
	events Events,
	logger *zap.Logger,
) *ReportHandler {
	return &ReportHandler{
		service:       service,
		links:         links,
		baseURL:       baseURL,
		cleanupSecret: cleanupSecret,
		events:        events,
		logger:        logger,
	}
}

// Share issues a new share link for the submitted audit.
func (h *ReportHandler) Share(ctx context.Context, req *ShareReportRequest) (*ShareReportResponse, error) {
	issued, err := h.service.Issue(ctx, report.IssueRequest{
		AuditResult:    req.Body.AuditResult,
		LighthouseData: req.Body.LighthouseData,
		Website:        req.Body.Website,
	})
	if err != nil {
		if errors.Is(err, report.ErrValidation) {
			return nil, huma.Error400BadRequest("Missing required fields: auditResult, website")
		}

		h.logger.Error("failed to issue share link", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to generate share link")
	}

	meta := RequestMetaFromContext(ctx)

	h.publish("shared", func() error {
		return h.events.Shared(ctx, &analytics.ReportSharedEvent{
			EventID:   uuid.NewString(),
			ShortID:   string(issued.ShortID),
			Website:   issued.Website,
			CreatedAt: issued.CreatedAt,
			ExpiresAt: issued.ExpiresAt,
			ClientIP:  meta.ClientIP,
			UserAgent: meta.UserAgent,
		})
	})

	resp := &ShareReportResponse{}
	resp.Body.Success = true
	resp.Body.URL = report.ShareURL(h.origin(meta), issued.ShortID)
	resp.Body.ShortID = string(issued.ShortID)

	return resp, nil
}

// Resolve returns the report a token points to.
func (h *ReportHandler) Resolve(ctx context.Context, req *ResolveReportRequest) (*ResolveReportResponse, error) {
	return h.resolve(ctx, req.Body.Token)
}

// GetReport is Resolve addressed by path, used by the share URL itself.
func (h *ReportHandler) GetReport(ctx context.Context, req *GetReportRequest) (*ResolveReportResponse, error) {
	return h.resolve(ctx, req.ID)
}

func (h *ReportHandler) resolve(ctx context.Context, token string) (*ResolveReportResponse, error) {
	if h.links != nil && looksSigned(token) && !h.service.ValidID(report.ShortID(token)) {
		return verifyMagicLink(h.links, token, h.logger)
	}

	found, err := h.service.Resolve(ctx, report.ShortID(token))

	outcome := resolutionOutcome(err)
	if !errors.Is(err, report.ErrValidation) {
		meta := RequestMetaFromContext(ctx)

		h.publish("resolved", func() error {
			return h.events.Resolved(ctx, &analytics.ReportResolvedEvent{
				EventID:    uuid.NewString(),
				ShortID:    token,
				Outcome:    outcome,
				ResolvedAt: time.Now(),
				ClientIP:   meta.ClientIP,
				UserAgent:  meta.UserAgent,
				Referrer:   meta.Referrer,
			})
		})
	}

	if err != nil {
		return nil, h.resolveError(err)
	}

	resp := &ResolveReportResponse{}
	resp.Body.Success = true
	resp.Body.Payload = ReportPayload{
		AuditResult:    found.AuditResult,
		LighthouseData: found.LighthouseData,
		Website:        found.Website,
		CreatedAt:      found.CreatedAt,
		ExpiresAt:      found.ExpiresAt,
	}

	return resp, nil
}

func (h *ReportHandler) resolveError(err error) error {
	switch {
	case errors.Is(err, report.ErrValidation):
		return huma.Error400BadRequest("Token is required")
	case errors.Is(err, report.ErrNotFound):
		return huma.Error404NotFound("Invalid link")
	case errors.Is(err, report.ErrExpired):
		return huma.Error410Gone("This link has expired")
	default:
		h.logger.Error("failed to resolve report", zap.Error(err))

		return huma.Error500InternalServerError("failed to load report")
	}
}

func (h *ReportHandler) origin(meta RequestMeta) string {
	if meta.Origin != "" {
		return meta.Origin
	}

	return h.baseURL
}

func (h *ReportHandler) publish(kind string, fn func() error) {
	if err := fn(); err != nil {
		h.logger.Warn("failed to publish report event", zap.String("event", kind), zap.Error(err))
	}
}

func resolutionOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, report.ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, report.ErrExpired):
		return metrics.OutcomeExpired
	default:
		return metrics.OutcomeError
	}
}

// looksSigned reports whether token has the header.claims.signature shape of a
// magic link rather than the shape of a short ID.
func looksSigned(token string) bool {
	return strings.Count(token, ".") == 2
}
