package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"invalid", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Fatalf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestWithContextFields(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&Config{Level: "debug", Format: "text"}, &buf)
	defer Init(&Config{Level: "info", Format: "text"})

	ctx := With(context.Background(), RequestIDKey, "req-1")
	ctx = With(ctx, UserIDKey, "mech-1")
	ctx = With(ctx, RoleKey, "mechanic")

	Info(ctx, "[job][usecase] start work", "job_id", "job-1")

	out := buf.String()
	for _, want := range []string{"request_id=req-1", "user_id=mech-1", "role=mechanic", "job_id=job-1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&Config{Level: "warn", Format: "json"}, &buf)
	defer Init(&Config{Level: "info", Format: "text"})

	ctx := context.Background()
	Debug(ctx, "hidden debug")
	Info(ctx, "hidden info")
	Warn(ctx, "visible warn")
	Error(ctx, "visible error")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("unexpected low-level output: %s", out)
	}
	if !strings.Contains(out, "visible warn") || !strings.Contains(out, "visible error") {
		t.Fatalf("missing output: %s", out)
	}
}
