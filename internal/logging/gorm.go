package logging

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DefaultSlowThreshold is the query duration above which statements are
// logged at warn level.
const DefaultSlowThreshold = 200 * time.Millisecond

// GormLogger sends gorm's SQL traces through zerolog. Statements log at
// debug, slow ones at warn, failures at error. A logger attached to the
// statement context (see zerolog.Logger.WithContext) takes precedence, so
// request-scoped fields follow the query.
type GormLogger struct {
	log  zerolog.Logger
	slow time.Duration
}

// NewGormLogger wraps l for use as gorm.Config.Logger.
func NewGormLogger(l zerolog.Logger) *GormLogger {
	return &GormLogger{log: l, slow: DefaultSlowThreshold}
}

// LogMode maps gorm's levels onto the wrapped logger.
func (g *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	out := *g
	switch level {
	case gormlogger.Silent:
		out.log = g.log.Level(zerolog.Disabled)
	case gormlogger.Error:
		out.log = g.log.Level(zerolog.ErrorLevel)
	case gormlogger.Warn:
		out.log = g.log.Level(zerolog.WarnLevel)
	case gormlogger.Info:
		out.log = g.log.Level(zerolog.DebugLevel)
	}
	return &out
}

func (g *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	g.from(ctx).Info().Msg(fmt.Sprintf(msg, data...))
}

func (g *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	g.from(ctx).Warn().Msg(fmt.Sprintf(msg, data...))
}

func (g *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	g.from(ctx).Error().Msg(fmt.Sprintf(msg, data...))
}

// Trace logs one executed statement.
func (g *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	l := g.from(ctx)
	if l.GetLevel() == zerolog.Disabled {
		return
	}
	elapsed := time.Since(begin)

	var ev *zerolog.Event
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		ev = l.Error().Err(err)
	case g.slow > 0 && elapsed > g.slow:
		ev = l.Warn().Dur("threshold", g.slow)
	default:
		ev = l.Debug()
	}
	if !ev.Enabled() {
		return
	}
	sql, rows := fc()
	ev.Str("sql", sql).Int64("rows", rows).Dur("elapsed", elapsed).Msg("query")
}

func (g *GormLogger) from(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
			// Respect the mode chosen through LogMode.
			scoped := l.Level(maxLevel(l.GetLevel(), g.log.GetLevel()))
			return &scoped
		}
	}
	return &g.log
}

func maxLevel(a, b zerolog.Level) zerolog.Level {
	if a > b {
		return a
	}
	return b
}
