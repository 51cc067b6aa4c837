package handlers

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/brand-audit/internal/ratelimit"
)

// RegisterRoutes registers the report sharing routes with per-endpoint rate limit configuration.
func RegisterRoutes(api huma.API, reports *ReportHandler) {
	// Issuing writes a row per call, so it gets the strictest limits.
	huma.Register(api, huma.Operation{
		OperationID:   "share-report",
		Method:        http.MethodPost,
		Path:          "/share",
		Summary:       "Create share link",
		Description:   "Stores the audit under a new short ID and returns its share URL.",
		Tags:          []string{"Reports"},
		DefaultStatus: http.StatusOK,
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 10},
					{Window: time.Hour, Max: 100},
					{Window: 24 * time.Hour, Max: 500},
				},
			},
		},
	}, reports.Share)

	huma.Register(api, huma.Operation{
		OperationID:   "resolve-report",
		Method:        http.MethodPost,
		Path:          "/resolve",
		Summary:       "Resolve share token",
		Description:   "Returns the report for a short ID. Unknown IDs yield 404, expired ones 410.",
		Tags:          []string{"Reports"},
		DefaultStatus: http.StatusOK,
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Scope: ratelimit.ScopeRead},
		},
	}, reports.Resolve)

	huma.Register(api, huma.Operation{
		OperationID: "get-report",
		Method:      http.MethodGet,
		Path:        "/report/{id}",
		Summary:     "Get shared report",
		Tags:        []string{"Reports"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 1000},
				},
			},
		},
	}, reports.GetReport)

	huma.Register(api, huma.Operation{
		OperationID:   "sweep-reports",
		Method:        http.MethodPost,
		Path:          "/cleanup",
		Summary:       "Delete expired reports",
		Tags:          []string{"Maintenance"},
		DefaultStatus: http.StatusOK,
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Scope: ratelimit.ScopeAdmin},
		},
	}, reports.Sweep)

	huma.Register(api, huma.Operation{
		OperationID: "report-stats",
		Method:      http.MethodGet,
		Path:        "/cleanup",
		Summary:     "Report counts",
		Tags:        []string{"Maintenance"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Scope: ratelimit.ScopeAdmin},
		},
	}, reports.Stats)
}

// RegisterMagicLinkRoutes registers the stateless magic link routes.
func RegisterMagicLinkRoutes(api huma.API, links *MagicLinkHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-magic-link",
		Method:        http.MethodPost,
		Path:          "/magic-link",
		Summary:       "Create magic link",
		Description:   "Signs the audit into a self-contained link that needs no storage.",
		Tags:          []string{"Magic links"},
		DefaultStatus: http.StatusOK,
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Scope: ratelimit.ScopeWrite},
		},
	}, links.Create)

	huma.Register(api, huma.Operation{
		OperationID:   "verify-magic-link",
		Method:        http.MethodPost,
		Path:          "/magic-link/verify",
		Summary:       "Verify magic link",
		Tags:          []string{"Magic links"},
		DefaultStatus: http.StatusOK,
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Scope: ratelimit.ScopeRead},
		},
	}, links.Verify)
}
