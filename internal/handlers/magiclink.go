package handlers

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/brand-audit/internal/magiclink"
	"github.com/serroba/brand-audit/internal/report"
	"go.uber.org/zap"
)

// MagicLinkHandler issues and verifies stateless report links.
type MagicLinkHandler struct {
	signer  *magiclink.Signer
	baseURL string
	logger  *zap.Logger
}

// NewMagicLinkHandler creates a MagicLinkHandler.
func NewMagicLinkHandler(signer *magiclink.Signer, baseURL string, logger *zap.Logger) *MagicLinkHandler {
	return &MagicLinkHandler{signer: signer, baseURL: baseURL, logger: logger}
}

// Create signs the submitted audit into a link.
func (h *MagicLinkHandler) Create(ctx context.Context, req *MagicLinkRequest) (*MagicLinkResponse, error) {
	if err := report.ValidatePayload(req.Body.AuditResult, req.Body.Website); err != nil {
		return nil, huma.Error400BadRequest("Missing required fields: auditResult, website")
	}

	token, err := h.signer.Sign(magiclink.Payload{
		AuditResult:    req.Body.AuditResult,
		LighthouseData: req.Body.LighthouseData,
		Website:        req.Body.Website,
	})
	if err != nil {
		h.logger.Error("failed to sign magic link", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to generate magic link")
	}

	origin := RequestMetaFromContext(ctx).Origin
	if origin == "" {
		origin = h.baseURL
	}

	resp := &MagicLinkResponse{}
	resp.Body.Success = true
	resp.Body.URL = strings.TrimRight(origin, "/") + "/report/" + url.PathEscape(token)

	return resp, nil
}

// Verify checks a magic link and returns the report it carries.
func (h *MagicLinkHandler) Verify(_ context.Context, req *VerifyMagicLinkRequest) (*ResolveReportResponse, error) {
	if req.Body.Token == "" {
		return nil, huma.Error400BadRequest("Token is required")
	}

	return verifyMagicLink(h.signer, req.Body.Token, h.logger)
}

func verifyMagicLink(signer *magiclink.Signer, raw string, logger *zap.Logger) (*ResolveReportResponse, error) {
	token, err := signer.Verify(raw)
	if err != nil {
		if errors.Is(err, magiclink.ErrExpired) {
			return nil, huma.Error410Gone("This link has expired")
		}

		logger.Debug("rejected magic link", zap.Error(err))

		return nil, huma.Error401Unauthorized("Invalid link")
	}

	resp := &ResolveReportResponse{}
	resp.Body.Success = true
	resp.Body.Payload = ReportPayload{
		AuditResult:    token.AuditResult,
		LighthouseData: token.LighthouseData,
		Website:        token.Website,
		CreatedAt:      token.IssuedAt,
		ExpiresAt:      token.ExpiresAt,
	}

	return resp, nil
}
