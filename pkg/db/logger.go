package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

// ZapGormLogger routes gorm's logging through zap so query logs share the
// application's structured output.
type ZapGormLogger struct {
	zap           *zap.Logger
	slowThreshold time.Duration
	level         logger.LogLevel
	showSQL       bool
}

func NewZapGormLogger(z *zap.Logger, level logger.LogLevel, showSQL bool) *ZapGormLogger {
	return &ZapGormLogger{
		zap:           z,
		level:         level,
		showSQL:       showSQL,
		slowThreshold: 200 * time.Millisecond,
	}
}

func (l *ZapGormLogger) LogMode(level logger.LogLevel) logger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *ZapGormLogger) Info(_ context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Info {
		l.zap.Info(fmt.Sprintf(msg, args...))
	}
}

func (l *ZapGormLogger) Warn(_ context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Warn {
		l.zap.Warn(fmt.Sprintf(msg, args...))
	}
}

func (l *ZapGormLogger) Error(_ context.Context, msg string, args ...interface{}) {
	if l.level >= logger.Error {
		l.zap.Error(fmt.Sprintf(msg, args...))
	}
}

func (l *ZapGormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()

	fields := []zap.Field{
		zap.String("file", utils.FileWithLineNum()),
		zap.String("sql", sql),
		zap.Int64("rows", rows),
		zap.Duration("elapsed", elapsed),
	}

	switch {
	case err != nil && !errors.Is(err, logger.ErrRecordNotFound):
		l.zap.Error("gorm.query", append(fields, zap.Error(err))...)
	case l.slowThreshold > 0 && elapsed > l.slowThreshold:
		l.zap.Warn("gorm.slow_query", append(fields, zap.Duration("threshold", l.slowThreshold))...)
	case l.level == logger.Info && l.showSQL:
		l.zap.Info("gorm.query", fields...)
	}
}
