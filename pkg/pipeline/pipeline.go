// Package pipeline runs the parse → analyze → codegen → build flow shared by
// the CLI and the HTTP service.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Parse: convert each raw spec to a runtime dataflow spec (cached)
//  2. Analyze: record the transform modules each spec uses
//  3. Codegen: emit the module-index source
//  4. Build: compile the source with esbuild (cached)
//
// [Runner.Prepare] runs the first three stages; [Runner.Execute] runs all
// four.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Specs: []bundle.Input{{Name: "sales", Spec: raw}},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.Stdout.Write(result.Bundle)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/vegabundle/pkg/analyze"
	"github.com/matzehuels/vegabundle/pkg/build"
	"github.com/matzehuels/vegabundle/pkg/bundle"
	"github.com/matzehuels/vegabundle/pkg/cache"
	"github.com/matzehuels/vegabundle/pkg/dataflow"
	"github.com/matzehuels/vegabundle/pkg/errors"
)

// MaxSpecs bounds the number of specs in one run.
const MaxSpecs = 256

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Specs are the raw inputs, added in order.
	Specs []bundle.Input `json:"specs"`

	// ExcludeSpecs emits a runtime-only bundle without embedded specs.
	ExcludeSpecs bool `json:"exclude_specs,omitempty"`

	// Refresh bypasses cache reads. Results are still written.
	Refresh bool `json:"refresh,omitempty"`

	build.Options

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Specs are the parsed dataflow specs in input order.
	Specs *dataflow.Collection

	// Modules are the transform modules the specs use.
	Modules *analyze.ModuleMap

	// Source is the generated index source.
	Source string

	// SourceHash is the content hash of Source.
	SourceHash string

	// Bundle is the compiled artifact. Empty after Prepare.
	Bundle []byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	SpecCount      int
	ModuleCount    int
	TransformCount int
	ParseTime      time.Duration
	BuildTime      time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ParseHits int  // Number of specs served from cache
	BuildHit  bool // Whether the bundle came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateSpecs(); err != nil {
		return err
	}
	if err := o.Options.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ValidateSpecs checks the spec list: at least one spec, unique valid names,
// and non-empty bodies.
func (o *Options) ValidateSpecs() error {
	if len(o.Specs) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "at least one spec is required")
	}
	if len(o.Specs) > MaxSpecs {
		return errors.New(errors.ErrCodeInvalidInput, "too many specs (max %d)", MaxSpecs)
	}
	seen := make(map[string]bool, len(o.Specs))
	for _, s := range o.Specs {
		if err := errors.ValidateSpecName(s.Name); err != nil {
			return err
		}
		if seen[s.Name] {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate spec name %q", s.Name).WithSubject(s.Name)
		}
		seen[s.Name] = true
		if len(s.Spec) == 0 {
			return errors.New(errors.ErrCodeInvalidSpec, "spec %q is empty", s.Name).WithSubject(s.Name)
		}
	}
	return nil
}

// BundleKeyOpts returns cache key options for the build stage.
func (o *Options) BundleKeyOpts(builder string) cache.BundleKeyOpts {
	return cache.BundleKeyOpts{
		Name:        o.Name,
		Format:      o.Format,
		Targets:     o.Targets,
		NoTranspile: o.NoTranspile,
		NoMinify:    o.NoMinify,
		ResolveDir:  o.ResolveDir,
		Builder:     builder,
	}
}
