package middleware

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/brand-audit/internal/handlers"
)

// RequestMeta is a middleware that stores client IP, user-agent, referrer and
// origin in the request context for the report handlers.
func RequestMeta(_ huma.API) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		meta := handlers.RequestMeta{
			ClientIP:  clientIP(ctx),
			UserAgent: ctx.Header("User-Agent"),
			Referrer:  ctx.Header("Referer"),
			Origin:    ctx.Header("Origin"),
		}

		next(huma.WithContext(ctx, handlers.ContextWithRequestMeta(ctx.Context(), meta)))
	}
}
