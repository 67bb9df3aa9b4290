package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zulandar/backlot/internal/config"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &m), "line %q", line)
		out = append(out, m)
	}
	return out
}

func TestNew_JSONLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(config.LogConfig{Level: "warn", Format: "json"}, &buf)

	l.Info().Msg("hidden")
	l.Warn().Str("studio", "pixel-forge").Msg("shown")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "shown", lines[0]["message"])
	assert.Equal(t, "warn", lines[0]["level"])
	assert.Equal(t, "pixel-forge", lines[0]["studio"])
	assert.Contains(t, lines[0], "time")
}

func TestNew_ConsoleDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := New(config.LogConfig{}, &buf)

	l.Debug().Msg("hidden")
	l.Info().Msg("listening")

	out := buf.String()
	assert.Contains(t, out, "listening")
	assert.NotContains(t, out, "hidden")
	assert.False(t, strings.HasPrefix(strings.TrimSpace(out), "{"), "console output should not be JSON: %s", out)
}

func TestGormLogger_Trace(t *testing.T) {
	var buf bytes.Buffer
	base := zerolog.New(&buf).Level(zerolog.DebugLevel)
	gl := NewGormLogger(base)
	fc := func() (string, int64) { return "SELECT 1", 1 }

	gl.Trace(context.Background(), time.Now(), fc, nil)
	gl.Trace(context.Background(), time.Now(), fc, gorm.ErrRecordNotFound)
	gl.Trace(context.Background(), time.Now(), fc, errors.New("boom"))
	gl.Trace(context.Background(), time.Now().Add(-time.Second), fc, nil)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 4)
	assert.Equal(t, "debug", lines[0]["level"])
	assert.Equal(t, "SELECT 1", lines[0]["sql"])
	assert.Equal(t, "debug", lines[1]["level"], "record not found is not an error")
	assert.Equal(t, "error", lines[2]["level"])
	assert.Equal(t, "boom", lines[2]["error"])
	assert.Equal(t, "warn", lines[3]["level"])
}

func TestGormLogger_SilentMode(t *testing.T) {
	var buf bytes.Buffer
	gl := NewGormLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)).LogMode(gormlogger.Silent)

	gl.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 0 }, errors.New("boom"))
	gl.Error(context.Background(), "failed %d", 1)
	assert.Zero(t, buf.Len())
}

func TestGormLogger_UsesContextLogger(t *testing.T) {
	var base, scoped bytes.Buffer
	gl := NewGormLogger(zerolog.New(&base).Level(zerolog.DebugLevel))

	reqLog := zerolog.New(&scoped).Level(zerolog.DebugLevel).With().Str("request_id", "abc").Logger()
	ctx := reqLog.WithContext(context.Background())

	gl.Trace(ctx, time.Now(), func() (string, int64) { return "SELECT 2", 0 }, nil)

	assert.Zero(t, base.Len())
	lines := decodeLines(t, &scoped)
	require.Len(t, lines, 1)
	assert.Equal(t, "abc", lines[0]["request_id"])
}
