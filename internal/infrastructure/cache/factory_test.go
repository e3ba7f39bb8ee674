package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/invoicing/backend/internal/domain/shared"
	"github.com/invoicing/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func failingConnect(context.Context, RedisConfig) (shared.IdempotencyStore, error) {
	return nil, errors.New("connection refused")
}

func TestIdempotencyStoreFactory_CreateStore(t *testing.T) {
	ctx := context.Background()

	t.Run("redis disabled uses memory", func(t *testing.T) {
		f := NewIdempotencyStoreFactory(config.RedisConfig{Enabled: false})
		store, err := f.CreateStore(ctx)
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &InMemoryIdempotencyStore{}, store)
	})

	t.Run("passes redis settings through", func(t *testing.T) {
		var got RedisConfig
		f := NewIdempotencyStoreFactory(config.RedisConfig{
			Enabled: true, Host: "cache", Port: 6380, DB: 2, IdempotencyPrefix: "inv:",
		})
		f.connect = func(_ context.Context, cfg RedisConfig) (shared.IdempotencyStore, error) {
			got = cfg
			return NewInMemoryIdempotencyStore(), nil
		}

		store, err := f.CreateStore(ctx)
		require.NoError(t, err)
		defer store.Close()
		assert.Equal(t, RedisConfig{Addr: "cache:6380", DB: 2, KeyPrefix: "inv:"}, got)
	})

	t.Run("falls back with a warning", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		f := NewIdempotencyStoreFactory(config.RedisConfig{Enabled: true, Host: "cache", Port: 6379},
			WithLogger(zap.New(core)))
		f.connect = failingConnect

		store, err := f.CreateStore(ctx)
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &InMemoryIdempotencyStore{}, store)
		assert.Equal(t, 1, logs.Len())
	})

	t.Run("fallback disabled", func(t *testing.T) {
		f := NewIdempotencyStoreFactory(config.RedisConfig{Enabled: true}, WithInMemoryFallback(false))
		f.connect = failingConnect

		_, err := f.CreateStore(ctx)
		assert.Error(t, err)
	})
}
