package observability

import (
	"context"
	"time"
)

// TeePipeline returns hooks that forward every event to each of hs in order.
// No-op hooks are dropped.
func TeePipeline(hs ...PipelineHooks) PipelineHooks {
	var t pipelineTee
	for _, h := range hs {
		if h == nil {
			continue
		}
		if _, ok := h.(NoopPipelineHooks); ok {
			continue
		}
		t = append(t, h)
	}
	if len(t) == 1 {
		return t[0]
	}
	return t
}

// TeeCache returns hooks that forward every event to each of hs in order.
// No-op hooks are dropped.
func TeeCache(hs ...CacheHooks) CacheHooks {
	var t cacheTee
	for _, h := range hs {
		if h == nil {
			continue
		}
		if _, ok := h.(NoopCacheHooks); ok {
			continue
		}
		t = append(t, h)
	}
	if len(t) == 1 {
		return t[0]
	}
	return t
}

type pipelineTee []PipelineHooks

func (t pipelineTee) OnParseStart(ctx context.Context, name string) {
	for _, h := range t {
		h.OnParseStart(ctx, name)
	}
}

func (t pipelineTee) OnParseComplete(ctx context.Context, name, dialect string, operators int, d time.Duration, err error) {
	for _, h := range t {
		h.OnParseComplete(ctx, name, dialect, operators, d, err)
	}
}

func (t pipelineTee) OnAnalyzeComplete(ctx context.Context, specs, modules, transforms int, err error) {
	for _, h := range t {
		h.OnAnalyzeComplete(ctx, specs, modules, transforms, err)
	}
}

func (t pipelineTee) OnBuildStart(ctx context.Context, format string, sourceBytes int) {
	for _, h := range t {
		h.OnBuildStart(ctx, format, sourceBytes)
	}
}

func (t pipelineTee) OnBuildComplete(ctx context.Context, format string, bundleBytes int, d time.Duration, err error) {
	for _, h := range t {
		h.OnBuildComplete(ctx, format, bundleBytes, d, err)
	}
}

type cacheTee []CacheHooks

func (t cacheTee) OnCacheHit(ctx context.Context, keyType string) {
	for _, h := range t {
		h.OnCacheHit(ctx, keyType)
	}
}

func (t cacheTee) OnCacheMiss(ctx context.Context, keyType string) {
	for _, h := range t {
		h.OnCacheMiss(ctx, keyType)
	}
}

func (t cacheTee) OnCacheSet(ctx context.Context, keyType string, size int) {
	for _, h := range t {
		h.OnCacheSet(ctx, keyType, size)
	}
}
