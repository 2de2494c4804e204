package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/vegabundle/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Wrote dist/charts.js (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// logHooks reports pipeline and cache events at debug level.
type logHooks struct {
	logger *log.Logger
}

// registerLogHooks installs logHooks as the process-wide pipeline and cache
// hooks.
func registerLogHooks(l *log.Logger) {
	h := logHooks{logger: l}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
}

func (h logHooks) OnParseStart(_ context.Context, name string) {
	h.logger.Debug("parse", "spec", name)
}

func (h logHooks) OnParseComplete(_ context.Context, name, dialect string, operators int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("parse failed", "spec", name, "dialect", dialect, "err", err)
		return
	}
	h.logger.Debug("parsed", "spec", name, "dialect", dialect, "operators", operators, "duration", d)
}

func (h logHooks) OnAnalyzeComplete(_ context.Context, specs, modules, transforms int, err error) {
	if err != nil {
		h.logger.Debug("analysis failed", "specs", specs, "err", err)
		return
	}
	h.logger.Debug("analyzed", "specs", specs, "modules", modules, "transforms", transforms)
}

func (h logHooks) OnBuildStart(_ context.Context, format string, sourceBytes int) {
	h.logger.Debug("build", "format", format, "source_bytes", sourceBytes)
}

func (h logHooks) OnBuildComplete(_ context.Context, format string, bundleBytes int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("build failed", "format", format, "err", err)
		return
	}
	h.logger.Debug("built", "format", format, "bytes", bundleBytes, "duration", d)
}

func (h logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "kind", keyType)
}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "kind", keyType)
}

func (h logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "kind", keyType, "bytes", size)
}
