package drawbot

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestSetLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	defer SetLogger(nil)

	ctx := newTestContext()
	ctx.SetOpenTypeFeatures(map[string]bool{"bogus": true})

	out := buf.String()
	if !strings.Contains(out, "bogus") || !strings.Contains(out, WarningUnknownFeature) {
		t.Errorf("warning not logged, got %q", out)
	}

	// nil restores the silent default.
	SetLogger(nil)
	buf.Reset()
	ctx.SetOpenTypeFeatures(map[string]bool{"fake": true})
	if buf.Len() != 0 {
		t.Errorf("silent logger produced output: %q", buf.String())
	}
}

func TestLoggerNeverNil(t *testing.T) {
	SetLogger(nil)
	if Logger() == nil {
		t.Fatal("Logger() returned nil")
	}
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("default logger should be disabled at every level")
	}
}
