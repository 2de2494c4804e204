package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/vegabundle/pkg/analyze"
	"github.com/matzehuels/vegabundle/pkg/build"
	"github.com/matzehuels/vegabundle/pkg/bundle"
	"github.com/matzehuels/vegabundle/pkg/cache"
	"github.com/matzehuels/vegabundle/pkg/dataflow"
	"github.com/matzehuels/vegabundle/pkg/observability"
	"github.com/matzehuels/vegabundle/pkg/parse"
	"github.com/matzehuels/vegabundle/pkg/transforms"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and its collaborators - it
// doesn't store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Logger  *log.Logger
	Index   *transforms.Index
	Parser  parse.Parser
	Builder build.Builder
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// The parser defaults to node when it can be found and to
// parse.DataflowParser otherwise; the builder defaults to esbuild.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	var parser parse.Parser = parse.DataflowParser{}
	if p, err := parse.NewNodeParser(""); err == nil {
		parser = p
	} else {
		logger.Debug("node not found, accepting dataflow specs only", "err", err)
	}
	return &Runner{
		Cache:   c,
		Keyer:   keyer,
		Logger:  logger,
		Index:   transforms.Default(),
		Parser:  parser,
		Builder: build.Esbuild{},
	}
}

// Execute runs the complete parse → analyze → codegen → build pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result, err := r.Prepare(ctx, opts)
	if err != nil {
		return nil, err
	}

	buildStart := time.Now()
	out, hit, err := r.BuildWithCacheInfo(ctx, result.Source, opts)
	if err != nil {
		return nil, err
	}
	result.Bundle = out
	result.Stats.BuildTime = time.Since(buildStart)
	result.CacheInfo.BuildHit = hit

	opts.Logger.Info("built bundle",
		"format", opts.Format,
		"bytes", len(out),
		"cached", hit,
		"duration", result.Stats.BuildTime)

	return result, nil
}

// Prepare parses and analyzes every spec and generates the index source.
func (r *Runner) Prepare(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	b := bundle.NewWithConfig(bundle.Config{
		Index:   r.Index,
		Parser:  r.Parser,
		Builder: r.Builder,
		Logger:  opts.Logger,
	})
	result := &Result{}

	// Stage 1 and 2: parse and analyze each spec in order.
	parseStart := time.Now()
	for _, in := range opts.Specs {
		spec, hit, err := r.ParseWithCacheInfo(ctx, in.Name, in.Spec, opts.Refresh)
		if err != nil {
			return nil, err
		}
		if hit {
			result.CacheInfo.ParseHits++
		}
		if _, err := b.AddDataflowSpec(in.Name, spec); err != nil {
			observability.Pipeline().OnAnalyzeComplete(ctx, len(opts.Specs), 0, 0, err)
			return nil, err
		}
	}
	result.Stats.ParseTime = time.Since(parseStart)

	result.Specs = b.DataflowSpecs()
	result.Modules = b.Modules()
	result.Stats.SpecCount = result.Specs.Len()
	result.Stats.ModuleCount = result.Modules.Len()
	result.Stats.TransformCount = result.Modules.TransformCount()
	observability.Pipeline().OnAnalyzeComplete(ctx,
		result.Stats.SpecCount, result.Stats.ModuleCount, result.Stats.TransformCount, nil)

	opts.Logger.Info("analyzed specs",
		"specs", result.Stats.SpecCount,
		"modules", result.Stats.ModuleCount,
		"transforms", result.Stats.TransformCount,
		"cached", result.CacheInfo.ParseHits,
		"duration", result.Stats.ParseTime)

	// Stage 3: codegen
	src, err := b.Codegen(bundle.CodegenOptions{ExcludeSpecs: opts.ExcludeSpecs})
	if err != nil {
		return nil, err
	}
	result.Source = src
	result.SourceHash = cache.Hash([]byte(src))

	return result, nil
}

// ParseWithCacheInfo parses one raw spec with caching and returns cache hit
// info. Dataflow input is decoded directly and never cached.
func (r *Runner) ParseWithCacheInfo(ctx context.Context, name string, raw []byte, refresh bool) (*dataflow.Spec, bool, error) {
	pipe := observability.Pipeline()
	pipe.OnParseStart(ctx, name)
	start := time.Now()

	d, err := parse.Detect(raw)
	if err != nil {
		pipe.OnParseComplete(ctx, name, "", 0, time.Since(start), err)
		return nil, false, err
	}
	if d == parse.DialectDataflow {
		spec, err := dataflow.Parse(raw)
		pipe.OnParseComplete(ctx, name, string(d), operatorCount(spec), time.Since(start), err)
		return spec, false, err
	}

	key := r.Keyer.SpecKey(cache.Hash(raw), cache.SpecKeyOpts{Parser: fmt.Sprintf("%T", r.Parser)})

	// Try cache first (unless refresh requested)
	if !refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if spec, err := dataflow.Parse(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "spec")
				pipe.OnParseComplete(ctx, name, string(d), operatorCount(spec), time.Since(start), nil)
				return spec, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "spec")
	}

	spec, _, err := parse.Parse(ctx, r.Parser, raw)
	pipe.OnParseComplete(ctx, name, string(d), operatorCount(spec), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if data, err := spec.MarshalJSON(); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLSpec); err == nil {
			observability.Cache().OnCacheSet(ctx, "spec", len(data))
		}
	}
	return spec, false, nil
}

// BuildWithCacheInfo compiles src with caching and returns cache hit info.
func (r *Runner) BuildWithCacheInfo(ctx context.Context, src string, opts Options) ([]byte, bool, error) {
	if err := opts.Options.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	key := r.Keyer.BundleKey(cache.Hash([]byte(src)), opts.BundleKeyOpts(fmt.Sprintf("%T", r.Builder)))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "bundle")
			return data, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "bundle")
	}

	pipe := observability.Pipeline()
	pipe.OnBuildStart(ctx, opts.Format, len(src))
	start := time.Now()
	out, err := r.Builder.Build(ctx, src, opts.Options)
	pipe.OnBuildComplete(ctx, opts.Format, len(out), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	data := []byte(out)
	if err := r.Cache.Set(ctx, key, data, cache.TTLBundle); err == nil {
		observability.Cache().OnCacheSet(ctx, "bundle", len(data))
	}
	return data, false, nil
}

// Modules is a convenience wrapper that runs Prepare and returns only the
// module map.
func (r *Runner) Modules(ctx context.Context, opts Options) (*analyze.ModuleMap, error) {
	result, err := r.Prepare(ctx, opts)
	if err != nil {
		return nil, err
	}
	return result.Modules, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func operatorCount(spec *dataflow.Spec) int {
	if spec == nil {
		return 0
	}
	return len(spec.Operators)
}
