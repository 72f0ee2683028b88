package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/koustreak/colmeta/internal/errs"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(level string) (*Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return New(&Config{Level: level, Format: "json", Output: buf}), buf
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNew(t *testing.T) {
	tests := []struct {
		name   string
		config *Config
	}{
		{name: "default config", config: nil},
		{name: "json without output", config: &Config{Level: "debug", Format: "json"}},
		{name: "console config", config: &Config{Level: "info", Format: "console", Output: io.Discard}},
		{name: "unknown level", config: &Config{Level: "loud", Output: io.Discard}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, New(tt.config))
		})
	}
}

func TestLogger_JSONOutput(t *testing.T) {
	logger, buf := newBufferLogger("info")

	logger.Info("test message")

	entry := decode(t, buf)
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "test message", entry["message"])
	assert.NotEmpty(t, entry["time"])
}

func TestLogger_WithFields(t *testing.T) {
	logger, buf := newBufferLogger("info")

	logger.With().
		Str("table", "orders").
		Strs("system_fields", []string{"globalid"}).
		Int("columns", 5).
		Logger().
		Info("metadata built")

	entry := decode(t, buf)
	assert.Equal(t, "orders", entry["table"])
	assert.Equal(t, []interface{}{"globalid"}, entry["system_fields"])
	assert.Equal(t, float64(5), entry["columns"])
}

func TestLogger_ErrorWith(t *testing.T) {
	logger, buf := newBufferLogger("error")

	err := errs.New(errs.ErrKindParseFailed, `cannot read precision of "VARCHAR"`)
	logger.ErrorWith("inspect failed", err, map[string]interface{}{"table": "orders"})

	entry := decode(t, buf)
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "inspect failed", entry["message"])
	assert.Equal(t, "parse_failed", entry["kind"])
	assert.Equal(t, "orders", entry["table"])
	assert.Contains(t, entry["error"], "VARCHAR")
}

func TestLogger_RequestEvent(t *testing.T) {
	logger, buf := newBufferLogger("info")

	logger.RequestEvent("GET", "/tables/orders", 200, 3*time.Millisecond).Msg("request")

	entry := decode(t, buf)
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/tables/orders", entry["path"])
	assert.Equal(t, float64(200), entry["status"])
}

func TestLogger_Context(t *testing.T) {
	logger, buf := newBufferLogger("info")

	ctx := logger.WithContext(context.Background())
	FromContext(ctx).Info("from context")

	assert.Equal(t, "from context", decode(t, buf)["message"])
	assert.Same(t, L(), FromContext(context.Background()))
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		logFunc  func(*Logger)
		expected bool
	}{
		{"debug level logs debug", "debug", func(l *Logger) { l.Debug("debug message") }, true},
		{"info level skips debug", "info", func(l *Logger) { l.Debugf("debug %d", 1) }, false},
		{"warn level logs warn", "warn", func(l *Logger) { l.Warn("warn message") }, true},
		{"error level logs error", "error", func(l *Logger) { l.Error("error message") }, true},
		{"error level skips info", "error", func(l *Logger) { l.Infof("info %s", "message") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufferLogger(tt.level)

			tt.logFunc(logger)

			if tt.expected {
				assert.NotEmpty(t, buf.String(), "expected log output")
			} else {
				assert.Empty(t, buf.String(), "expected no log output")
			}
		})
	}
}

func TestLogger_LevelsAreIndependent(t *testing.T) {
	quiet, quietBuf := newBufferLogger("error")
	loud, loudBuf := newBufferLogger("debug")

	quiet.Debug("hidden")
	loud.Debug("shown")

	assert.Empty(t, quietBuf.String())
	assert.NotEmpty(t, loudBuf.String())
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, zerolog.WarnLevel, level)

	level, err = ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, level)

	_, err = ParseLevel("verbose")
	assert.True(t, errs.IsInvalidInput(err))
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() { Nop().Error("dropped") })
}

func BenchmarkLogger_Info(b *testing.B) {
	logger := New(&Config{Level: "info", Format: "json", Output: io.Discard})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info("benchmark message")
	}
}
