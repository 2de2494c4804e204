package bundle

import (
	"context"
	"encoding/json"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/vegabundle/pkg/analyze"
	"github.com/matzehuels/vegabundle/pkg/build"
	"github.com/matzehuels/vegabundle/pkg/codegen"
	"github.com/matzehuels/vegabundle/pkg/dataflow"
	"github.com/matzehuels/vegabundle/pkg/errors"
	"github.com/matzehuels/vegabundle/pkg/parse"
	"github.com/matzehuels/vegabundle/pkg/transforms"
)

// Config wires a Bundle to its collaborators. Zero fields get defaults.
type Config struct {
	// Index resolves transforms to modules. Defaults to transforms.Default().
	Index *transforms.Index

	// Parser converts Vega and Vega-Lite input. Defaults to a node parser
	// rooted at the current directory, or parse.DataflowParser when node
	// cannot be found.
	Parser parse.Parser

	// Builder compiles the generated source. Defaults to build.Esbuild.
	Builder build.Builder

	// Logger receives debug output. Defaults to a discarding logger.
	Logger *log.Logger
}

// CodegenOptions controls source generation.
type CodegenOptions struct {
	// ExcludeSpecs emits the runtime-only index without factories or
	// embedded specs.
	ExcludeSpecs bool `json:"exclude_specs,omitempty"`
}

// BuildOptions combines generation and compilation options.
type BuildOptions struct {
	CodegenOptions
	build.Options
}

// Bundle accumulates dataflow specs and the modules they require.
type Bundle struct {
	analyzer *analyze.Analyzer
	parser   parse.Parser
	builder  build.Builder
	logger   *log.Logger

	modules *analyze.ModuleMap
	specs   *dataflow.Collection
}

// New returns an empty bundle with default collaborators.
func New() *Bundle {
	return NewWithConfig(Config{})
}

// NewWithConfig returns an empty bundle using cfg.
func NewWithConfig(cfg Config) *Bundle {
	if cfg.Parser == nil {
		if p, err := parse.NewNodeParser(""); err == nil {
			cfg.Parser = p
		} else {
			cfg.Parser = parse.DataflowParser{}
		}
	}
	if cfg.Builder == nil {
		cfg.Builder = build.Esbuild{}
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	return &Bundle{
		analyzer: analyze.New(cfg.Index),
		parser:   cfg.Parser,
		builder:  cfg.Builder,
		logger:   cfg.Logger,
		modules:  analyze.NewModuleMap(),
		specs:    dataflow.NewCollection(),
	}
}

// AddDataflowSpec stores spec under name and records the modules it uses.
// Adding an existing name replaces its spec. Modules recorded for the old
// spec are kept.
//
// If the spec uses an unknown transform the error is returned, but the spec
// stays stored and any modules found before the failure stay recorded.
func (b *Bundle) AddDataflowSpec(name string, spec *dataflow.Spec) (*Bundle, error) {
	if err := errors.ValidateSpecName(name); err != nil {
		return b, err
	}
	b.specs.Set(name, spec)
	if err := b.analyzer.Analyze(spec, b.modules); err != nil {
		return b, err
	}
	b.logger.Debug("added spec", "name", name, "modules", b.modules.Len(), "transforms", b.modules.TransformCount())
	return b, nil
}

// Add parses raw in whichever dialect it is written and adds the result.
func (b *Bundle) Add(ctx context.Context, name string, raw []byte) (*Bundle, error) {
	if err := errors.ValidateSpecName(name); err != nil {
		return b, err
	}
	spec, d, err := parse.Parse(ctx, b.parser, raw)
	if err != nil {
		return b, err
	}
	b.logger.Debug("parsed spec", "name", name, "dialect", d, "operators", len(spec.Operators))
	return b.AddDataflowSpec(name, spec)
}

// AddVegaSpec parses raw as a Vega specification and adds the result.
func (b *Bundle) AddVegaSpec(ctx context.Context, name string, raw []byte) (*Bundle, error) {
	if err := errors.ValidateSpecName(name); err != nil {
		return b, err
	}
	spec, err := b.parser.ParseVega(ctx, raw)
	if err != nil {
		return b, err
	}
	return b.AddDataflowSpec(name, spec)
}

// AddVegaLiteSpec compiles raw as a Vega-Lite specification and adds the
// result.
func (b *Bundle) AddVegaLiteSpec(ctx context.Context, name string, raw []byte) (*Bundle, error) {
	if err := errors.ValidateSpecName(name); err != nil {
		return b, err
	}
	spec, err := b.parser.ParseVegaLite(ctx, raw)
	if err != nil {
		return b, err
	}
	return b.AddDataflowSpec(name, spec)
}

// DataflowSpec returns the spec stored under name.
func (b *Bundle) DataflowSpec(name string) (*dataflow.Spec, bool) {
	return b.specs.Get(name)
}

// DataflowSpecs returns a copy of the stored specs.
func (b *Bundle) DataflowSpecs() *dataflow.Collection {
	return b.specs.Clone()
}

// Modules returns a copy of the recorded module map.
func (b *Bundle) Modules() *analyze.ModuleMap {
	return b.modules.Clone()
}

// Codegen returns the index source for the bundle.
func (b *Bundle) Codegen(opts CodegenOptions) (string, error) {
	var specs *dataflow.Collection
	if !opts.ExcludeSpecs {
		specs = b.specs
	}
	return codegen.Generate(b.modules, specs)
}

// Build generates the index source and compiles it. Builder errors are
// returned unchanged.
func (b *Bundle) Build(ctx context.Context, opts BuildOptions) (string, error) {
	code, err := b.Codegen(opts.CodegenOptions)
	if err != nil {
		return "", err
	}
	b.logger.Debug("building bundle", "format", opts.Format, "bytes", len(code))
	return b.builder.Build(ctx, code, opts.Options)
}

// Input is a raw specification with the name it is added under.
type Input struct {
	Name string          `json:"name"`
	Spec json.RawMessage `json:"spec"`
}

// BuildInputs adds every input to a fresh bundle, in order, and builds it.
func BuildInputs(ctx context.Context, cfg Config, inputs []Input, opts BuildOptions) (string, error) {
	b := NewWithConfig(cfg)
	for _, in := range inputs {
		if _, err := b.Add(ctx, in.Name, in.Spec); err != nil {
			return "", err
		}
	}
	return b.Build(ctx, opts)
}
