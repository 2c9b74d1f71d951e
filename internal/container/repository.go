package container

import (
	"context"
	"fmt"

	"github.com/samber/do"
	"github.com/serroba/url-shortener-go/internal/shortener"
	"github.com/serroba/url-shortener-go/internal/store"
	"go.uber.org/zap"
)

// RepositoryPackage provides the durable store, the cache and the ID
// allocator selected by Options.
func RepositoryPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (shortener.Repository, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		logger.Info("using durable store", zap.String("store", opts.Store))

		switch opts.Store {
		case BackendPostgres:
			pg, err := do.Invoke[*Postgres](i)
			if err != nil {
				return nil, err
			}

			return store.NewPostgresStore(pg.Pool), nil
		case BackendSQLite:
			sqlite, err := store.NewSQLiteStore(context.Background(), opts.SQLitePath)
			if err != nil {
				return nil, err
			}

			return sqlite, nil
		case BackendMemory:
			return store.NewMemoryStore(), nil
		default:
			return nil, fmt.Errorf("unknown store %q", opts.Store)
		}
	})

	do.Provide(injector, func(_ *do.Injector) (*store.MemoryCache, error) {
		return store.NewMemoryCache(), nil
	})

	do.Provide(injector, func(i *do.Injector) (shortener.Cache, error) {
		opts := do.MustInvoke[*Options](i)

		if opts.Cache == BackendMemory {
			return do.MustInvoke[*store.MemoryCache](i), nil
		}

		client, err := do.Invoke[*Redis](i)
		if err != nil {
			return nil, err
		}

		return store.NewRedisCache(client.Client, opts.KeyPrefix), nil
	})

	do.Provide(injector, func(i *do.Injector) (shortener.Allocator, error) {
		opts := do.MustInvoke[*Options](i)

		if opts.Cache == BackendMemory {
			return do.MustInvoke[*store.MemoryCache](i), nil
		}

		client, err := do.Invoke[*Redis](i)
		if err != nil {
			return nil, err
		}

		return store.NewRedisCounter(client.Client, opts.CounterKey), nil
	})
}

// ServicePackage provides *shortener.Service.
func ServicePackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*shortener.Service, error) {
		opts := do.MustInvoke[*Options](i)

		allocator, err := do.Invoke[shortener.Allocator](i)
		if err != nil {
			return nil, err
		}

		repo, err := do.Invoke[shortener.Repository](i)
		if err != nil {
			return nil, err
		}

		cache, err := do.Invoke[shortener.Cache](i)
		if err != nil {
			return nil, err
		}

		return shortener.NewService(allocator, repo, cache,
			shortener.WithBaseURL(opts.PublicBaseURL()),
			shortener.WithCacheTTL(opts.CacheTTL()),
			shortener.WithCacheTimeout(opts.CacheTimeout()),
			shortener.WithLogger(do.MustInvoke[*zap.Logger](i).Named("shortener")),
		), nil
	})
}
