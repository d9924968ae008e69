package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/MrSnakeDoc/keeplater/internal/logger"
)

func observedGormLogger(slow time.Duration) (*gormLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return newGormLogger(logger.FromZap(zap.New(core)), slow), logs
}

func sqlFn(sql string) func() (string, int64) {
	return func() (string, int64) { return sql, 1 }
}

func TestGormLoggerTrace(t *testing.T) {
	ctx := context.Background()

	t.Run("error is logged", func(t *testing.T) {
		l, logs := observedGormLogger(time.Second)
		l.Trace(ctx, time.Now(), sqlFn("SELECT 1"), errors.New("boom"))

		entries := logs.All()
		if assert.Len(t, entries, 1) {
			assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
			assert.Equal(t, "db query failed", entries[0].Message)
			assert.Equal(t, "SELECT 1", entries[0].ContextMap()["sql"])
		}
	})

	t.Run("record not found is ignored", func(t *testing.T) {
		l, logs := observedGormLogger(time.Second)
		l.Trace(ctx, time.Now(), sqlFn("SELECT 1"), gorm.ErrRecordNotFound)
		assert.Zero(t, logs.Len())
	})

	t.Run("slow query warns", func(t *testing.T) {
		l, logs := observedGormLogger(10 * time.Millisecond)
		l.Trace(ctx, time.Now().Add(-time.Second), sqlFn("SELECT * FROM entries"), nil)

		entries := logs.All()
		if assert.Len(t, entries, 1) {
			assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
			assert.Equal(t, "slow db query", entries[0].Message)
		}
	})

	t.Run("fast query is quiet at warn level", func(t *testing.T) {
		l, logs := observedGormLogger(time.Second)
		l.Trace(ctx, time.Now(), sqlFn("SELECT 1"), nil)
		assert.Zero(t, logs.Len())
	})

	t.Run("info level logs every query at debug", func(t *testing.T) {
		l, logs := observedGormLogger(time.Second)
		l.LogMode(gormlogger.Info).Trace(ctx, time.Now(), sqlFn("SELECT 1"), nil)

		entries := logs.All()
		if assert.Len(t, entries, 1) {
			assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
		}
	})

	t.Run("silent logs nothing", func(t *testing.T) {
		l, logs := observedGormLogger(time.Nanosecond)
		l.LogMode(gormlogger.Silent).Trace(ctx, time.Now().Add(-time.Second), sqlFn("SELECT 1"), errors.New("boom"))
		assert.Zero(t, logs.Len())
	})
}

func TestGormLoggerLogModeDoesNotMutate(t *testing.T) {
	l, _ := observedGormLogger(time.Second)
	_ = l.LogMode(gormlogger.Silent)
	assert.Equal(t, gormlogger.Warn, l.level)
}

func TestGormLoggerMessages(t *testing.T) {
	ctx := context.Background()
	l, logs := observedGormLogger(time.Second)

	l.Info(ctx, "hidden %d", 1)
	l.Warn(ctx, "careful %s", "now")
	l.Error(ctx, "broken %v", true)

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, "careful now", entries[0].Message)
		assert.Equal(t, "broken true", entries[1].Message)
	}
}
