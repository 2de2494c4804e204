package observability

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

// recorder appends one line per event it receives.
type recorder struct {
	NoopPipelineHooks
	NoopCacheHooks
	name string
	mu   sync.Mutex
	log  []string
}

func (r *recorder) add(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log = append(r.log, r.name+":"+fmt.Sprintf(format, args...))
}

func (r *recorder) OnParseComplete(_ context.Context, name, dialect string, _ int, _ time.Duration, _ error) {
	r.add("parse %s %s", name, dialect)
}

func (r *recorder) OnBuildComplete(_ context.Context, format string, _ int, _ time.Duration, err error) {
	r.add("build %s %v", format, err)
}

func (r *recorder) OnCacheHit(_ context.Context, keyType string) {
	r.add("hit %s", keyType)
}

func TestRegistryDefaults(t *testing.T) {
	Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Errorf("Pipeline() = %T, want NoopPipelineHooks", Pipeline())
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Errorf("Cache() = %T, want NoopCacheHooks", Cache())
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Errorf("HTTP() = %T, want NoopHTTPHooks", HTTP())
	}

	// Noop hooks accept every event.
	ctx := context.Background()
	Pipeline().OnBuildComplete(ctx, "umd", 4096, time.Second, nil)
	Cache().OnCacheSet(ctx, "bundle", 1024)
	HTTP().OnResponse(ctx, "POST", "/v1/bundle", 200, time.Second)
}

func TestRegistrySetAndReset(t *testing.T) {
	t.Cleanup(Reset)

	r := &recorder{name: "r"}
	SetPipelineHooks(r)
	SetCacheHooks(r)
	SetPipelineHooks(nil) // ignored

	if Pipeline() != PipelineHooks(r) {
		t.Fatalf("Pipeline() = %T, want the recorder", Pipeline())
	}
	Pipeline().OnParseComplete(context.Background(), "sales", "vega-lite", 3, 0, nil)
	Cache().OnCacheHit(context.Background(), "spec")

	want := []string{"r:parse sales vega-lite", "r:hit spec"}
	if fmt.Sprint(r.log) != fmt.Sprint(want) {
		t.Errorf("events = %v, want %v", r.log, want)
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() did not restore NoopPipelineHooks")
	}
}

func TestTee(t *testing.T) {
	a := &recorder{name: "a"}
	b := &recorder{name: "b"}

	if got := TeePipeline(NoopPipelineHooks{}, a, nil); got != PipelineHooks(a) {
		t.Errorf("TeePipeline with one real hook = %T, want it unwrapped", got)
	}

	ctx := context.Background()
	p := TeePipeline(a, NoopPipelineHooks{}, b)
	p.OnBuildComplete(ctx, "es", 10, time.Millisecond, nil)
	c := TeeCache(b, a)
	c.OnCacheHit(ctx, "bundle")

	if want := []string{"a:build es <nil>", "a:hit bundle"}; fmt.Sprint(a.log) != fmt.Sprint(want) {
		t.Errorf("a events = %v, want %v", a.log, want)
	}
	if want := []string{"b:build es <nil>", "b:hit bundle"}; fmt.Sprint(b.log) != fmt.Sprint(want) {
		t.Errorf("b events = %v, want %v", b.log, want)
	}
}

func TestRegistryConcurrentAccess(t *testing.T) {
	t.Cleanup(Reset)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetCacheHooks(&recorder{name: "w"})
		}()
		go func() {
			defer wg.Done()
			Cache().OnCacheMiss(context.Background(), "spec")
		}()
	}
	wg.Wait()
}
