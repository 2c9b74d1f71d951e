package messaging_test

import (
	"errors"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/serroba/url-shortener-go/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger(t *testing.T) {
	t.Run("forwards fields and errors", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		logger := messaging.NewZapLogger(zap.New(core))

		logger.Error("publish failed", errors.New("boom"), watermill.LogFields{"topic": "url.created"})

		require.Equal(t, 1, logs.Len())

		entry := logs.All()[0]
		assert.Equal(t, zapcore.ErrorLevel, entry.Level)
		assert.Equal(t, "publish failed", entry.Message)
		assert.Equal(t, "url.created", entry.ContextMap()["topic"])
		assert.Equal(t, "boom", entry.ContextMap()["error"])
	})

	t.Run("trace maps to debug", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		logger := messaging.NewZapLogger(zap.New(core))

		logger.Trace("tick", nil)

		require.Equal(t, 1, logs.Len())
		assert.Equal(t, zapcore.DebugLevel, logs.All()[0].Level)
	})

	t.Run("with keeps fields on child logger", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		logger := messaging.NewZapLogger(zap.New(core)).With(watermill.LogFields{"consumer_group": "analytics"})

		logger.Info("subscribed", watermill.LogFields{"topic": "url.accessed"})
		logger.Debug("filtered out", nil)

		require.Equal(t, 1, logs.Len())

		fields := logs.All()[0].ContextMap()
		assert.Equal(t, "analytics", fields["consumer_group"])
		assert.Equal(t, "url.accessed", fields["topic"])
	})
}
