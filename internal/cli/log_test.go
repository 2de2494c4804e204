package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/vegabundle/pkg/observability"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{
			name:    "info at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Info("test") },
			wantLog: true,
		},
		{
			name:    "debug at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Debug("test") },
			wantLog: false,
		},
		{
			name:    "debug at debug level",
			level:   log.DebugLevel,
			logFunc: func(l *log.Logger) { l.Debug("test") },
			wantLog: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			tt.logFunc(logger)

			gotLog := buf.Len() > 0
			if gotLog != tt.wantLog {
				t.Errorf("got log output = %v, want %v", gotLog, tt.wantLog)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))

	time.Sleep(10 * time.Millisecond)
	prog.done("Bundle complete")

	out := buf.String()
	if !strings.Contains(out, "Bundle complete (") {
		t.Errorf("progress output = %q, want message with duration", out)
	}
}

func TestSetLogLevelRegistersHooks(t *testing.T) {
	t.Cleanup(observability.Reset)

	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	c.SetLogLevel(LogInfo)
	if _, ok := observability.Pipeline().(logHooks); ok {
		t.Fatal("log hooks registered at info level")
	}

	c.SetLogLevel(LogDebug)
	if _, ok := observability.Pipeline().(logHooks); !ok {
		t.Fatalf("pipeline hooks = %T, want logHooks", observability.Pipeline())
	}
	if _, ok := observability.Cache().(logHooks); !ok {
		t.Fatalf("cache hooks = %T, want logHooks", observability.Cache())
	}

	ctx := context.Background()
	observability.Pipeline().OnParseComplete(ctx, "sales", "vega-lite", 12, time.Millisecond, nil)
	observability.Pipeline().OnBuildComplete(ctx, "umd", 0, 0, errors.New("boom"))
	observability.Cache().OnCacheHit(ctx, "bundle")

	out := buf.String()
	for _, want := range []string{"parsed", "spec=sales", "operators=12", "build failed", "boom", "cache hit", "kind=bundle"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}
