package container

import (
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/do"
	"github.com/serroba/brand-audit/internal/handlers"
	"github.com/serroba/brand-audit/internal/health"
	"github.com/serroba/brand-audit/internal/magiclink"
	"github.com/serroba/brand-audit/internal/middleware"
	"github.com/serroba/brand-audit/internal/ratelimit"
	"github.com/serroba/brand-audit/internal/report"
	"go.uber.org/zap"
)

// HTTPPackage provides the chi router and the huma API with every route registered.
// Invoking huma.API is what registers the routes.
func HTTPPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*chi.Mux, error) {
		reg := do.MustInvoke[*prometheus.Registry](i)

		router := chi.NewMux()
		router.Use(chimw.RequestID, chimw.Recoverer)
		router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

		return router, nil
	})

	do.Provide(i, func(i *do.Injector) (*handlers.ReportHandler, error) {
		opts := do.MustInvoke[*Options](i)

		return handlers.NewReportHandler(
			do.MustInvoke[*report.Service](i),
			do.MustInvoke[*magiclink.Signer](i),
			opts.PublicURL(),
			opts.CleanupSecret,
			do.MustInvoke[handlers.Events](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	do.Provide(i, func(i *do.Injector) (*handlers.MagicLinkHandler, error) {
		return handlers.NewMagicLinkHandler(
			do.MustInvoke[*magiclink.Signer](i),
			do.MustInvoke[*Options](i).PublicURL(),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	do.Provide(i, func(i *do.Injector) (*health.Handler, error) {
		checks := map[string]health.Checker{}

		if p, ok := do.MustInvoke[report.Repository](i).(report.Pinger); ok {
			checks["store"] = p
		}

		if rdb := do.MustInvoke[*Redis](i); rdb.Enabled() {
			checks["redis"] = health.NewRedisChecker(rdb.Client)
		}

		return health.NewHandler(checks, 2*time.Second), nil
	})

	do.Provide(i, func(i *do.Injector) (huma.API, error) {
		logger := do.MustInvoke[*zap.Logger](i)
		router := do.MustInvoke[*chi.Mux](i)

		handlers.UseEnvelopeErrors()

		api := humachi.New(router, huma.DefaultConfig("Brand Audit Reports", "1.0.0"))
		api.UseMiddleware(
			middleware.RequestMeta(api),
			middleware.PolicyRateLimiter(
				api,
				do.MustInvoke[*ratelimit.PolicyLimiter](i),
				ratelimit.NewOperationScopeResolver(),
				logger,
			),
		)

		handlers.RegisterRoutes(api, do.MustInvoke[*handlers.ReportHandler](i))
		handlers.RegisterMagicLinkRoutes(api, do.MustInvoke[*handlers.MagicLinkHandler](i))
		health.RegisterRoutes(api, do.MustInvoke[*health.Handler](i))

		return api, nil
	})
}

// ServerPackages registers everything the HTTP server needs.
func ServerPackages(i *do.Injector, opts *Options) {
	do.ProvideValue(i, opts)
	LoggerPackage(i)
	RedisPackage(i)
	PostgresPackage(i)
	MetricsPackage(i)
	RepositoryPackage(i)
	RateLimitPackage(i)
	PublisherGroupPackage(i)
	MagicLinkPackage(i)
	HTTPPackage(i)
}
