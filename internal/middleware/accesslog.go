package middleware

import (
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/url-shortener-go/internal/metrics"
	"go.uber.org/zap"
)

// AccessLog logs one line per request and records its latency.
func AccessLog(logger *zap.Logger) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		start := time.Now()

		next(ctx)

		elapsed := time.Since(start)
		status := ctx.Status()

		path := ctx.URL().Path
		if op := ctx.Operation(); op != nil {
			path = op.Path
		}

		metrics.RequestLatency.
			WithLabelValues(ctx.Method(), path, strconv.Itoa(status)).
			Observe(elapsed.Seconds())

		fields := []zap.Field{
			zap.String("method", ctx.Method()),
			zap.String("path", ctx.URL().Path),
			zap.Int("status", status),
			zap.Duration("duration", elapsed),
			zap.String("clientIp", clientIP(ctx)),
		}

		if status >= 500 {
			logger.Error("request failed", fields...)

			return
		}

		logger.Info("request", fields...)
	}
}
