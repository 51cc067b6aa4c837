package container

import (
	"github.com/samber/do"
	"github.com/serroba/brand-audit/internal/ratelimit"
	"github.com/serroba/brand-audit/internal/store"
)

// RateLimitPackage provides the policy limiter with its counter store.
func RateLimitPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (ratelimit.Store, error) {
		opts := do.MustInvoke[*Options](i)

		if opts.RateLimitStore == "redis" {
			return store.NewRateLimitRedisStore(do.MustInvoke[*Redis](i).Client), nil
		}

		return store.NewRateLimitMemoryStore(), nil
	})

	do.Provide(i, func(i *do.Injector) (*ratelimit.PolicyLimiter, error) {
		return ratelimit.NewPolicyLimiter(do.MustInvoke[ratelimit.Store](i), ratelimit.DefaultPolicy()), nil
	})
}
