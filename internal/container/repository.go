package container

import (
	"context"
	"fmt"

	"github.com/samber/do"
	"github.com/serroba/brand-audit/internal/metrics"
	"github.com/serroba/brand-audit/internal/report"
	"github.com/serroba/brand-audit/internal/store"
	"go.uber.org/zap"
)

// Backend is the configured report store before any decorator is applied.
type Backend struct {
	report.Repository
	close func() error
}

// Shutdown releases resources owned by the backend itself.
func (b *Backend) Shutdown() error {
	if b.close == nil {
		return nil
	}

	return b.close()
}

// RepositoryPackage provides the store backend, the decorated report.Repository
// and the *report.Service built on it.
func RepositoryPackage(i *do.Injector) {
	do.Provide(i, newBackend)

	do.Provide(i, func(i *do.Injector) (report.Repository, error) {
		opts := do.MustInvoke[*Options](i)
		backend := do.MustInvoke[*Backend](i)

		var repo report.Repository = backend.Repository

		if rdb := do.MustInvoke[*Redis](i); rdb.Enabled() {
			ttl, err := opts.CacheTTLDuration()
			if err != nil {
				return nil, err
			}

			repo = store.NewRedisCacheRepository(repo, rdb.Client, ttl)
		}

		return store.NewInstrumentedRepository(repo, do.MustInvoke[*metrics.Metrics](i)), nil
	})

	do.Provide(i, func(i *do.Injector) (*report.Service, error) {
		opts := do.MustInvoke[*Options](i)

		cfg, err := opts.ReportConfig()
		if err != nil {
			return nil, err
		}

		if err := cfg.Validate(); err != nil {
			return nil, err
		}

		generate, err := report.NewIDGenerator(cfg.Alphabet, cfg.IDLength)
		if err != nil {
			return nil, err
		}

		return report.NewService(
			do.MustInvoke[report.Repository](i),
			generate,
			cfg,
			do.MustInvoke[*zap.Logger](i),
			report.WithMetrics(do.MustInvoke[*metrics.Metrics](i)),
		), nil
	})
}

func newBackend(i *do.Injector) (*Backend, error) {
	opts := do.MustInvoke[*Options](i)
	logger := do.MustInvoke[*zap.Logger](i)

	switch opts.Backend {
	case BackendMemory:
		logger.Warn("using the in-memory report store, reports are lost on restart")

		return &Backend{Repository: store.NewMemoryStore()}, nil
	case BackendPostgres:
		pg, err := do.Invoke[*Postgres](i)
		if err != nil {
			return nil, err
		}

		s := store.NewPostgresStore(pg.Pool)
		if err := s.Migrate(context.Background()); err != nil {
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}

		return &Backend{Repository: s}, nil
	case BackendSQLite:
		s, err := store.OpenSQLite(context.Background(), opts.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", opts.SQLitePath, err)
		}

		return &Backend{Repository: s, close: s.Shutdown}, nil
	default:
		return nil, fmt.Errorf("unknown backend %q", opts.Backend)
	}
}
