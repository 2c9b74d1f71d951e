package container

import (
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
)

// Redis owns the shared Redis client.
type Redis struct {
	*redis.Client
}

// Shutdown closes the client's connection pool.
func (r *Redis) Shutdown() error {
	return r.Close()
}

// RedisPackage provides *Redis. The client dials lazily, so an unreachable
// Redis surfaces as per-call errors instead of a startup failure.
func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*Redis, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		logger.Info("using redis", zap.String("addr", opts.RedisAddr))

		return &Redis{Client: redis.NewClient(&redis.Options{
			Addr: opts.RedisAddr,
		})}, nil
	})
}
