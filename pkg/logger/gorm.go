package logger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm/logger"
)

// QueryLogger adapts the package logger to gorm's logger.Interface so
// SQL statements land in the same structured stream as everything else.
type QueryLogger struct {
	Level         logger.LogLevel
	SlowThreshold time.Duration
}

func NewQueryLogger(level logger.LogLevel, slowThreshold time.Duration) *QueryLogger {
	return &QueryLogger{Level: level, SlowThreshold: slowThreshold}
}

func (l *QueryLogger) LogMode(level logger.LogLevel) logger.Interface {
	clone := *l
	clone.Level = level
	return &clone
}

func (l *QueryLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.Level >= logger.Info {
		Log.Info(fmt.Sprintf(msg, args...))
	}
}

func (l *QueryLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.Level >= logger.Warn {
		Log.Warn(fmt.Sprintf(msg, args...))
	}
}

func (l *QueryLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.Level >= logger.Error {
		Log.Error(fmt.Sprintf(msg, args...))
	}
}

func (l *QueryLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.Level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	attrs := []any{
		slog.String("sql", sql),
		slog.Int64("rows", rows),
		slog.Duration("elapsed", elapsed),
	}

	switch {
	case err != nil && l.Level >= logger.Error:
		Log.Error("query failed", append(attrs, slog.String("error", err.Error()))...)
	case l.SlowThreshold > 0 && elapsed > l.SlowThreshold && l.Level >= logger.Warn:
		Log.Warn("slow query", attrs...)
	case l.Level >= logger.Info:
		Log.Debug("query", attrs...)
	}
}
