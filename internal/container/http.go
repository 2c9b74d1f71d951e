package container

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/do"
	"github.com/serroba/url-shortener-go/internal/analytics"
	"github.com/serroba/url-shortener-go/internal/handlers"
	"github.com/serroba/url-shortener-go/internal/health"
	"github.com/serroba/url-shortener-go/internal/messaging"
	"github.com/serroba/url-shortener-go/internal/middleware"
	"github.com/serroba/url-shortener-go/internal/shortener"
	"go.uber.org/zap"
)

// HTTPPackage provides the router and the huma API with every route registered.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*chi.Mux, error) {
		router := chi.NewMux()
		router.Handle("/metrics", promhttp.Handler())

		return router, nil
	})

	do.Provide(injector, func(i *do.Injector) (*health.Handler, error) {
		opts := do.MustInvoke[*Options](i)
		checkers := map[string]health.Checker{}

		if opts.UsesRedis() {
			client, err := do.Invoke[*Redis](i)
			if err != nil {
				return nil, err
			}

			checkers["redis"] = health.NewRedisChecker(client.Client)
		}

		if opts.Store == BackendPostgres {
			pg, err := do.Invoke[*Postgres](i)
			if err != nil {
				return nil, err
			}

			checkers["postgres"] = health.NewPostgresChecker(pg.Pool)
		}

		return health.NewHandler(checkers), nil
	})

	do.Provide(injector, func(i *do.Injector) (*handlers.URLHandler, error) {
		opts := do.MustInvoke[*Options](i)

		service, err := do.Invoke[*shortener.Service](i)
		if err != nil {
			return nil, err
		}

		publishCreated, err := do.Invoke[messaging.Publish[analytics.URLCreatedEvent]](i)
		if err != nil {
			return nil, err
		}

		publishAccessed, err := do.Invoke[messaging.Publish[analytics.URLAccessedEvent]](i)
		if err != nil {
			return nil, err
		}

		return handlers.NewURLHandler(
			service,
			publishCreated,
			publishAccessed,
			opts.DoubleCountRedirects,
			do.MustInvoke[*zap.Logger](i).Named("http"),
		), nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		router := do.MustInvoke[*chi.Mux](i)
		logger := do.MustInvoke[*zap.Logger](i)

		urlHandler, err := do.Invoke[*handlers.URLHandler](i)
		if err != nil {
			return nil, err
		}

		healthHandler, err := do.Invoke[*health.Handler](i)
		if err != nil {
			return nil, err
		}

		api := humachi.New(router, huma.DefaultConfig("URL Shortener", "1.0.0"))
		api.UseMiddleware(middleware.AccessLog(logger.Named("access")), middleware.RequestMeta(api))

		health.RegisterRoutes(api, healthHandler)
		handlers.RegisterRoutes(api, urlHandler)

		return api, nil
	})
}
