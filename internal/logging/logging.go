// Package logging builds the zerolog logger used by the server and the
// database layer.
package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/zulandar/backlot/internal/config"
)

// New returns a logger writing to w at the configured level. Console format
// is human-readable; json emits one object per line.
func New(cfg config.LogConfig, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	if cfg.Format != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
