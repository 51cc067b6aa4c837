package container

import (
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
)

// Redis holds the shared Redis client. Client is nil when no address is configured.
type Redis struct {
	Client *redis.Client
}

// Enabled reports whether a Redis address was configured.
func (r *Redis) Enabled() bool {
	return r.Client != nil
}

// Shutdown closes the client.
func (r *Redis) Shutdown() error {
	if r.Client == nil {
		return nil
	}

	return r.Client.Close()
}

// RedisPackage provides *Redis.
func RedisPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*Redis, error) {
		opts := do.MustInvoke[*Options](i)
		if opts.RedisAddr == "" {
			return &Redis{}, nil
		}

		return &Redis{Client: redis.NewClient(&redis.Options{Addr: opts.RedisAddr})}, nil
	})
}
