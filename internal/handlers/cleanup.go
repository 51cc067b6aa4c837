package handlers

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/serroba/brand-audit/internal/analytics"
	"github.com/serroba/brand-audit/internal/report"
	"go.uber.org/zap"
)

// Sweep deletes expired reports and returns the remaining counts.
func (h *ReportHandler) Sweep(ctx context.Context, req *SweepRequest) (*SweepResponse, error) {
	if !h.authorized(req.Authorization) {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	deleted, err := h.service.Sweep(ctx)
	if err != nil {
		h.logger.Error("sweep failed", zap.Int64("deleted", deleted), zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to clean up expired reports")
	}

	h.publish("swept", func() error {
		return h.events.Swept(ctx, &analytics.ReportsSweptEvent{
			EventID: uuid.NewString(),
			Deleted: deleted,
			SweptAt: time.Now(),
		})
	})

	stats, err := h.service.Stats(ctx)
	if err != nil {
		h.logger.Error("stats after sweep failed", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to load report stats")
	}

	resp := &SweepResponse{}
	resp.Body.Success = true
	resp.Body.Message = fmt.Sprintf("Cleaned up %d expired reports", deleted)
	resp.Body.Deleted = deleted
	resp.Body.Stats = statsBody(stats)

	return resp, nil
}

// Stats returns row counts without modifying anything.
func (h *ReportHandler) Stats(ctx context.Context, _ *struct{}) (*StatsResponse, error) {
	stats, err := h.service.Stats(ctx)
	if err != nil {
		h.logger.Error("stats failed", zap.Error(err))

		return nil, huma.Error500InternalServerError("failed to load report stats")
	}

	resp := &StatsResponse{}
	resp.Body.Success = true
	resp.Body.Stats = statsBody(stats)

	return resp, nil
}

func (h *ReportHandler) authorized(header string) bool {
	if h.cleanupSecret == "" {
		return true
	}

	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(token), []byte(h.cleanupSecret)) == 1
}

func statsBody(s report.Stats) StatsBody {
	return StatsBody{Total: s.Total, Active: s.Active, Expired: s.Expired}
}
