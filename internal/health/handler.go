package health

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/redis/go-redis/v9"
	"github.com/serroba/brand-audit/internal/ratelimit"
)

// Dependency states reported per check.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// Checker defines the interface for checking service health.
type Checker interface {
	Ping(ctx context.Context) error
}

// RedisChecker adapts redis.Client to Checker interface.
type RedisChecker struct {
	client *redis.Client
}

// NewRedisChecker creates a new Redis health checker.
func NewRedisChecker(client *redis.Client) *RedisChecker {
	return &RedisChecker{client: client}
}

// Ping checks Redis connectivity.
func (r *RedisChecker) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Handler reports the state of every registered dependency.
type Handler struct {
	checks  map[string]Checker
	timeout time.Duration
}

// NewHandler creates a health handler. Each check gets at most timeout to answer.
func NewHandler(checks map[string]Checker, timeout time.Duration) *Handler {
	return &Handler{checks: checks, timeout: timeout}
}

// Response is the response for health check endpoint.
type Response struct {
	Body struct {
		Status string            `example:"ok" json:"status"`
		Checks map[string]string `json:"checks"`
	}
}

// Check pings each dependency. Any failure turns the overall status to degraded.
func (h *Handler) Check(ctx context.Context, _ *struct{}) (*Response, error) {
	resp := &Response{}
	resp.Body.Status = "ok"
	resp.Body.Checks = make(map[string]string, len(h.checks))

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		if err := h.ping(ctx, h.checks[name]); err != nil {
			resp.Body.Checks[name] = StatusUnhealthy
			resp.Body.Status = "degraded"

			continue
		}

		resp.Body.Checks[name] = StatusHealthy
	}

	return resp, nil
}

func (h *Handler) ping(ctx context.Context, c Checker) error {
	if h.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	return c.Ping(ctx)
}

// RegisterRoutes registers health check routes. Health is never rate limited.
func RegisterRoutes(api huma.API, h *Handler) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Tags:        []string{"Health"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Disabled: true},
		},
	}, h.Check)
}
