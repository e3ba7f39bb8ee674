package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

var errLockTimeout = errors.New("canceling statement due to lock timeout")

func traceSQL(l *GormLogger, ctx context.Context, begin time.Time, err error) {
	l.Trace(ctx, begin, func() (string, int64) {
		return `SELECT * FROM "counters" WHERE id = 'INVOICE_2024' FOR UPDATE`, 1
	}, err)
}

func TestGormLogger_LogMode(t *testing.T) {
	core, _ := observer.New(zapcore.InfoLevel)
	gormLog := NewGormLogger(zap.New(core), gormlogger.Info, WithSlowThreshold(time.Second))

	newLogger, ok := gormLog.LogMode(gormlogger.Warn).(*GormLogger)
	require.True(t, ok)
	assert.Equal(t, gormlogger.Info, gormLog.logLevel)
	assert.Equal(t, gormlogger.Warn, newLogger.logLevel)
	assert.Equal(t, time.Second, newLogger.slowThreshold)
}

func TestGormLogger_Trace(t *testing.T) {
	t.Run("errors are logged with request id", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		gormLog := NewGormLogger(zap.New(core), gormlogger.Warn)
		ctx, _ := WithRequestID(context.Background(), zap.NewNop(), "req-9")

		traceSQL(gormLog, ctx, time.Now(), errors.New("boom"))

		entries := recorded.FilterMessage("SQL Error").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "req-9", entries[0].ContextMap()["request_id"])
	})

	t.Run("record not found is ignored", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		gormLog := NewGormLogger(zap.New(core), gormlogger.Info)
		traceSQL(gormLog, context.Background(), time.Now(), gormlogger.ErrRecordNotFound)
		assert.Zero(t, recorded.Len())
	})

	t.Run("expected errors are warnings", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		gormLog := NewGormLogger(zap.New(core), gormlogger.Warn, WithExpectedErrors(func(err error) bool {
			return errors.Is(err, errLockTimeout)
		}))
		traceSQL(gormLog, context.Background(), time.Now(), errLockTimeout)

		entries := recorded.All()
		require.Len(t, entries, 1)
		assert.Equal(t, "SQL Contention", entries[0].Message)
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	})

	t.Run("slow query warning", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		gormLog := NewGormLogger(zap.New(core), gormlogger.Warn, WithSlowThreshold(10*time.Millisecond))
		traceSQL(gormLog, context.Background(), time.Now().Add(-time.Second), nil)

		entries := recorded.All()
		require.Len(t, entries, 1)
		assert.Contains(t, entries[0].Message, "SLOW SQL")
	})

	t.Run("queries at info level are debug entries", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		gormLog := NewGormLogger(zap.New(core), gormlogger.Info)
		traceSQL(gormLog, context.Background(), time.Now(), nil)
		assert.Equal(t, 1, recorded.FilterMessage("SQL Query").Len())
	})

	t.Run("silent logs nothing", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		gormLog := NewGormLogger(zap.New(core), gormlogger.Silent)
		traceSQL(gormLog, context.Background(), time.Now(), errors.New("boom"))
		assert.Zero(t, recorded.Len())
	})
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("warn"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel(""))
}
