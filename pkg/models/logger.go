package models

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gorm_logger "gorm.io/gorm/logger"
)

const slowQuery = 200 * time.Millisecond

// gormLogger writes gorm output to zerolog.
//
// Failed queries are logged as errors unless the error callbacks already
// translated them into an error for users.
type gormLogger struct {
	log       zerolog.Logger
	slowQuery time.Duration
}

func newGormLogger(l zerolog.Logger) *gormLogger {
	return &gormLogger{
		log:       l,
		slowQuery: slowQuery,
	}
}

// LogMode is a no-op, the level is controlled by zerolog.
func (l *gormLogger) LogMode(gorm_logger.LogLevel) gorm_logger.Interface {
	return l
}

func (l *gormLogger) Info(_ context.Context, s string, args ...any) {
	l.log.Info().Msgf(s, args...)
}

func (l *gormLogger) Warn(_ context.Context, s string, args ...any) {
	l.log.Warn().Msgf(s, args...)
}

func (l *gormLogger) Error(_ context.Context, s string, args ...any) {
	l.log.Error().Msgf(s, args...)
}

func (l *gormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()

	var event *zerolog.Event
	switch {
	case err != nil && !translated(err):
		event = l.log.Error().Err(err)
	case elapsed > l.slowQuery:
		event = l.log.Warn().Bool("slow", true)
	default:
		event = l.log.Debug()
	}

	event.Str("sql", sql).Int64("rows", rows).Dur("duration", elapsed).Msg("[GORM] query")
}

func translated(err error) bool {
	return errors.Is(err, ErrResourceNotFound) || errors.Is(err, ErrGeneral) || errors.Is(err, gorm.ErrRecordNotFound)
}
