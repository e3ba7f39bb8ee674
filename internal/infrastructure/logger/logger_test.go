package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	t.Run("console logger for the command line", func(t *testing.T) {
		log, err := New(CLIConfig("debug", "stderr"))
		require.NoError(t, err)
		assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("json logger at info", func(t *testing.T) {
		log, err := New(&Config{Level: "info", Format: "json"})
		require.NoError(t, err)
		assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
		assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
	})

	t.Run("file output", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.log")
		log, err := New(&Config{Level: "info", Format: "json", Output: path})
		require.NoError(t, err)
		log.Info("written to file")
		_ = log.Sync()

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "written to file")
	})

	t.Run("unwritable file fails", func(t *testing.T) {
		_, err := New(&Config{Output: filepath.Join(t.TempDir(), "missing", "app.log")})
		assert.Error(t, err)
	})

	t.Run("extra cores receive entries", func(t *testing.T) {
		core, recorded := observer.New(zapcore.InfoLevel)
		log, err := New(&Config{Level: "error", Format: "json", Output: "stderr"}, core)
		require.NoError(t, err)
		log.Info("bridged")
		assert.Equal(t, 1, recorded.FilterMessage("bridged").Len())
	})
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		" Fatal ": zapcore.FatalLevel,
		"error":   zapcore.ErrorLevel,
		"bogus":   zapcore.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestContextHelpers(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	base := zap.New(core)

	t.Run("missing logger is a no-op", func(t *testing.T) {
		assert.NotNil(t, FromContext(context.Background()))
		assert.Empty(t, GetRequestID(context.Background()))
		assert.Empty(t, GetTraceID(context.Background()))
	})

	t.Run("request id and subject are attached", func(t *testing.T) {
		ctx, _ := WithRequestID(context.Background(), base, "req-1")
		ctx = WithSubject(ctx, "billing-bot")
		assert.Equal(t, "req-1", GetRequestID(ctx))
		assert.Equal(t, "billing-bot", GetSubject(ctx))

		L(ctx).Info("hello", zap.String("k", "v"))
		entries := recorded.FilterMessage("hello").All()
		require.Len(t, entries, 1)
		fields := entries[0].ContextMap()
		assert.Equal(t, "req-1", fields["request_id"])
		assert.Equal(t, "billing-bot", fields["subject"])
		assert.Equal(t, "v", fields["k"])
	})

	t.Run("With adds fields", func(t *testing.T) {
		ctx := WithContext(context.Background(), base)
		L(ctx).With(zap.String("invoice_number", "INV-1000-24-0001")).Warn("child")
		entries := recorded.FilterMessage("child").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "INV-1000-24-0001", entries[0].ContextMap()["invoice_number"])
	})
}
