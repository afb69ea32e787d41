package logging

import (
	"bytes"
	"context"
	"encoding/json"
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

func TestResolveLevel(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		buildType string
		want      zapcore.Level
	}{
		{name: "debug build", buildType: "debug", want: zapcore.DebugLevel},
		{name: "release build", buildType: "release", want: zapcore.InfoLevel},
		{name: "unknown build defaults to debug", buildType: "", want: zapcore.DebugLevel},
		{name: "explicit level wins", level: "warn", buildType: "debug", want: zapcore.WarnLevel},
		{name: "level is case insensitive", level: "ERROR", buildType: "release", want: zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveLevel(tt.level, tt.buildType)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ResolveLevel("loud", "")
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	t.Run("release build writes json at info", func(t *testing.T) {
		var buf bytes.Buffer
		log, err := New(Options{BuildType: BuildRelease, Output: &buf})
		require.NoError(t, err)

		log.Debug("hidden")
		log.Info("order polled", zap.Int("orders", 2))
		require.NoError(t, log.Sync())

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "order polled", entry["msg"])
		assert.Equal(t, "info", entry["level"])
		assert.EqualValues(t, 2, entry["orders"])
		assert.NotContains(t, buf.String(), "hidden")
	})

	t.Run("debug build logs debug", func(t *testing.T) {
		var buf bytes.Buffer
		log, err := New(Options{BuildType: BuildDebug, Output: &buf})
		require.NoError(t, err)

		log.Debug("visible")
		assert.Contains(t, buf.String(), "visible")
		assert.Contains(t, buf.String(), "DEBUG")
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := New(Options{Format: "xml"})
		assert.Error(t, err)
	})
}

func TestGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Info, GormLogLevel(zapcore.DebugLevel))
	assert.Equal(t, gormlogger.Warn, GormLogLevel(zapcore.InfoLevel))
	assert.Equal(t, gormlogger.Warn, GormLogLevel(zapcore.WarnLevel))
	assert.Equal(t, gormlogger.Error, GormLogLevel(zapcore.ErrorLevel))
}

func TestTaskLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	tl := NewTaskLogger(zap.New(core))

	tl.Info("task processed", "queue", "poll_orders", "attempts", 1)
	tl.Error("task failed", "queue", "poll_orders")

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, "task processed", entries[0].Message)
	assert.Equal(t, "poll_orders", entries[0].ContextMap()["queue"])
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
}

func TestGormLogger(t *testing.T) {
	ctx := context.Background()
	sql := func() (string, int64) { return "SELECT * FROM settings", 3 }

	t.Run("failed query logs at error", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		l := NewGormLogger(zap.New(core), gormlogger.Warn)

		l.Trace(ctx, time.Now(), sql, errors.New("no such table"))

		entries := logs.AllUntimed()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
		assert.Equal(t, "query failed", entries[0].Message)
		assert.Equal(t, "gorm", entries[0].LoggerName)
		assert.Equal(t, "SELECT * FROM settings", entries[0].ContextMap()["sql"])
		assert.EqualValues(t, 3, entries[0].ContextMap()["rows"])
	})

	t.Run("record not found is not an error", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		l := NewGormLogger(zap.New(core), gormlogger.Warn)

		l.Trace(ctx, time.Now(), sql, gormlogger.ErrRecordNotFound)
		assert.Zero(t, logs.Len())
	})

	t.Run("slow query logs at warn", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		l := NewGormLogger(zap.New(core), gormlogger.Warn)

		l.Trace(ctx, time.Now().Add(-time.Second), sql, nil)

		entries := logs.AllUntimed()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
		assert.Equal(t, "slow query", entries[0].Message)
	})

	t.Run("statements traced at debug only in info mode", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		l := NewGormLogger(zap.New(core), gormlogger.Warn)

		l.Trace(ctx, time.Now(), sql, nil)
		assert.Zero(t, logs.Len())

		l.LogMode(gormlogger.Info).Trace(ctx, time.Now(), sql, nil)
		entries := logs.AllUntimed()
		require.Len(t, entries, 1)
		assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
		assert.Equal(t, "query", entries[0].Message)
	})

	t.Run("silent drops everything", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		l := NewGormLogger(zap.New(core), gormlogger.Silent)

		l.Trace(ctx, time.Now(), sql, errors.New("boom"))
		l.Error(ctx, "failed to %s", "connect")
		assert.Zero(t, logs.Len())
	})

	t.Run("printf style messages", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		l := NewGormLogger(zap.New(core), gormlogger.Info)

		l.Info(ctx, "opened %s", "wooauto.db")
		l.Warn(ctx, "retrying %d", 2)
		l.Error(ctx, "failed to %s", "connect")

		entries := logs.AllUntimed()
		require.Len(t, entries, 3)
		assert.Equal(t, "opened wooauto.db", entries[0].Message)
		assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
		assert.Equal(t, "failed to connect", entries[2].Message)
	})
}
