package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultWriter(t *testing.T) {
	logger := New(Config{Level: slog.LevelInfo, Format: "json"})
	assert.NotNil(t, logger)
	assert.NotNil(t, logger.Logger)
}

func TestNew_CustomWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: "json", Writer: &buf})
	logger.Info("settings loaded")

	assert.Contains(t, buf.String(), "settings loaded")
	assert.Contains(t, buf.String(), "\"level\":\"INFO\"")
}

func TestNew_FormatAutoDetection(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		wantJSON    bool
	}{
		{"production uses json", "production", true},
		{"development uses pretty", "development", false},
		{"staging uses pretty", "staging", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(Config{Level: slog.LevelInfo, Environment: tt.environment, Writer: &buf})
			logger.Info("test")

			if tt.wantJSON {
				assert.Contains(t, buf.String(), `"msg":"test"`)
			} else {
				assert.Contains(t, buf.String(), "INF")
				assert.NotContains(t, buf.String(), `"msg"`)
			}
		})
	}
}

func TestNew_FileWriterReceivesJSON(t *testing.T) {
	var console, file bytes.Buffer
	logger := New(Config{
		Level:      slog.LevelDebug,
		Format:     "pretty",
		Writer:     &console,
		FileWriter: &file,
	})

	logger.Debug("settings write committed", "write_id", "wr-abc")

	assert.Contains(t, console.String(), "write_id=wr-abc")
	assert.Contains(t, file.String(), `"msg":"settings write committed"`)
	assert.Contains(t, file.String(), `"write_id":"wr-abc"`)
}

func TestNew_RedactsPersonalValues(t *testing.T) {
	for _, format := range []string{"json", "pretty"} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(Config{Level: slog.LevelInfo, Format: format, Writer: &buf})

			logger.Info("profile changed",
				"phone", "+91 98765 43210",
				"email", "ramesh@example.com",
				"field", "phone",
			)

			out := buf.String()
			assert.NotContains(t, out, "98765")
			assert.NotContains(t, out, "ramesh@example.com")
			assert.Contains(t, out, redactedValue)
			assert.Contains(t, out, "phone", "field names are not personal data")
		})
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "krishi.log")

	f, err := OpenFile(path)
	require.NoError(t, err)

	logger := New(Config{Level: slog.LevelInfo, Format: "json", Writer: &bytes.Buffer{}, FileWriter: f})
	logger.Info("first")
	require.NoError(t, f.Close())

	f, err = OpenFile(path)
	require.NoError(t, err)
	logger = New(Config{Level: slog.LevelInfo, Format: "json", Writer: &bytes.Buffer{}, FileWriter: f})
	logger.Info("second")
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "first")
	assert.Contains(t, string(data), "second")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DeBuG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo}, // defaults to info
		{"", slog.LevelInfo},        // defaults to info
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.input))
		})
	}
}

func TestPrettyHandler_Enabled(t *testing.T) {
	tests := []struct {
		name         string
		handlerLevel slog.Level
		checkLevel   slog.Level
		wantEnabled  bool
	}{
		{"debug handler allows debug", slog.LevelDebug, slog.LevelDebug, true},
		{"info handler blocks debug", slog.LevelInfo, slog.LevelDebug, false},
		{"info handler allows error", slog.LevelInfo, slog.LevelError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewPrettyHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: tt.handlerLevel})
			assert.Equal(t, tt.wantEnabled, handler.Enabled(context.Background(), tt.checkLevel))
		})
	}
}

func TestPrettyHandler_Handle(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	logger.Info("settings write rolled back", "field", "darkMode", "attempt", 2, "reason", "store down")

	output := buf.String()
	assert.Contains(t, output, "settings write rolled back")
	assert.Contains(t, output, "field=darkMode")
	assert.Contains(t, output, "attempt=2")
	assert.Contains(t, output, `reason="store down"`)
	assert.Contains(t, output, "INF")
}

func TestPrettyHandler_WithAttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	handler := NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})

	assert.Equal(t, handler, handler.WithGroup(""))

	logger := slog.New(handler.WithAttrs([]slog.Attr{slog.String("component", "engine")}).WithGroup("write"))
	logger.Info("committed", "id", "wr-1")

	output := buf.String()
	assert.Contains(t, output, "component=engine")
	assert.Contains(t, output, "write.id=wr-1")
}

func TestPrettyHandler_WithSource(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo, AddSource: true}))
	logger.Info("test message")

	assert.Contains(t, buf.String(), "logger_test.go:")
}

func TestPrettyHandler_NilOptions(t *testing.T) {
	var buf bytes.Buffer
	handler := NewPrettyHandler(&buf, nil)
	require.NotNil(t, handler.opts)

	slog.New(handler).Info("test")
	assert.Contains(t, buf.String(), "test")
}

func TestFormatLevel(t *testing.T) {
	tests := []struct {
		level     slog.Level
		wantStr   string
		wantColor string
	}{
		{slog.LevelDebug, "DBG", colorMagenta},
		{slog.LevelInfo, "INF", colorGreen},
		{slog.LevelWarn, "WRN", colorYellow},
		{slog.LevelError, "ERR", colorRed},
	}

	for _, tt := range tests {
		t.Run(tt.wantStr, func(t *testing.T) {
			str, color := formatLevel(tt.level)
			assert.Equal(t, tt.wantStr, str)
			assert.Equal(t, tt.wantColor, color)
		})
	}
}

func TestFormatValue(t *testing.T) {
	now := time.Now()

	assert.Equal(t, "test", formatValue(slog.StringValue("test")))
	assert.Equal(t, `"two words"`, formatValue(slog.StringValue("two words")))
	assert.Equal(t, now.Format(time.RFC3339), formatValue(slog.TimeValue(now)))
	assert.Equal(t, "1.5s", formatValue(slog.DurationValue(1500*time.Millisecond)))
	assert.Equal(t, "42", formatValue(slog.IntValue(42)))
}

func TestLogger_WithErrorAndField(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: "json", Writer: &buf})

	logger.WithField("write_id", "wr-123").WithError(errors.New("store unavailable")).Error("save failed")

	output := buf.String()
	assert.Contains(t, output, `"write_id":"wr-123"`)
	assert.Contains(t, output, "store unavailable")
	assert.Contains(t, output, "save failed")
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelWarn, Format: "json", Writer: &buf})

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	output := buf.String()
	assert.NotContains(t, output, "debug message")
	assert.NotContains(t, output, "info message")
	assert.Contains(t, output, "warn message")
	assert.Contains(t, output, "error message")
}
