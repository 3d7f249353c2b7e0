package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestPackage_LogFunctions_UseDefaultLogger(t *testing.T) {
	original := Default()
	t.Cleanup(func() { SetDefault(original) })

	var buf bytes.Buffer

	SetDefault(Make(&buf, WithLevel(LevelTrace), WithFormat(FormatJSON), WithPretty(false)))

	tests := []struct {
		name  string
		fn    func(string, ...slog.Attr)
		level string
	}{
		{"Trace", Trace, "TRACE"},
		{"Debug", Debug, "DEBUG"},
		{"Info", Info, "INFO"},
		{"Warn", Warn, "WARN"},
		{"Error", Error, "ERROR"},
		{"TraceContext", ctxFunc(t, TraceContext), "TRACE"},
		{"DebugContext", ctxFunc(t, DebugContext), "DEBUG"},
		{"InfoContext", ctxFunc(t, InfoContext), "INFO"},
		{"WarnContext", ctxFunc(t, WarnContext), "WARN"},
		{"ErrorContext", ctxFunc(t, ErrorContext), "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.fn("package message", slog.String("key", "value"))

			output := buf.String()
			if !strings.Contains(output, `"msg":"package message"`) {
				t.Errorf("message missing: %s", output)
			}

			if !strings.Contains(output, `"level":"`+tt.level+`"`) {
				t.Errorf("level %s missing: %s", tt.level, output)
			}

			if !strings.Contains(output, `"key":"value"`) {
				t.Errorf("attribute missing: %s", output)
			}
		})
	}
}

func TestPackage_Caller(t *testing.T) {
	original := Default()
	t.Cleanup(func() { SetDefault(original) })

	var buf bytes.Buffer

	SetDefault(Make(&buf, WithCaller(true), WithPretty(false)))
	Info("where")

	if !strings.Contains(buf.String(), "pkg_test.go:") {
		t.Errorf("caller not reported as this file: %q", buf.String())
	}
}

func TestConfig_ReplacesDefault(t *testing.T) {
	original := Default()
	t.Cleanup(func() { SetDefault(original) })

	l := Config(WithLevel(LevelError))

	if Default().Level() != LevelError || l.Level() != LevelError {
		t.Errorf("Config did not replace the default logger")
	}
}

func ctxFunc(
	t *testing.T,
	fn func(ctx context.Context, msg string, attrs ...slog.Attr),
) func(string, ...slog.Attr) {
	t.Helper()

	return func(msg string, attrs ...slog.Attr) { fn(t.Context(), msg, attrs...) }
}
