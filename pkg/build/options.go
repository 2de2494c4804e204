package build

import (
	"regexp"
	"slices"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/matzehuels/vegabundle/pkg/errors"
)

// Output formats.
const (
	FormatUMD  = "umd"
	FormatIIFE = "iife"
	FormatES   = "es"
)

// Defaults applied by [Options.ValidateAndSetDefaults].
const (
	DefaultName   = "vegaBundle"
	DefaultFormat = FormatUMD
)

// DefaultTargets is the transpilation target when none is given.
var DefaultTargets = []string{"es2018"}

// Formats lists the supported output formats.
var Formats = []string{FormatUMD, FormatIIFE, FormatES}

// Options configures a build.
type Options struct {
	// Name is the global the bundle is exposed as for umd and iife output.
	Name string `json:"name,omitempty"`

	// Format is one of Formats.
	Format string `json:"format,omitempty"`

	// NoTranspile leaves modern syntax untouched.
	NoTranspile bool `json:"no_transpile,omitempty"`

	// Targets are the syntax or engine targets to transpile for.
	Targets []string `json:"targets,omitempty"`

	// NoMinify disables minification.
	NoMinify bool `json:"no_minify,omitempty"`

	// ResolveDir is where bare imports are resolved from. Empty means the
	// current directory.
	ResolveDir string `json:"-"`

	// Plugins are extra esbuild plugins, run before default resolution.
	Plugins []api.Plugin `json:"-"`
}

// ValidateFormat reports an INVALID_FORMAT error for unknown formats.
func ValidateFormat(format string) error {
	if slices.Contains(Formats, format) {
		return nil
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want one of %s)", format, strings.Join(Formats, ", "))
}

// ValidateAndSetDefaults fills in defaults and checks the options.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Name == "" {
		o.Name = DefaultName
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if len(o.Targets) == 0 {
		o.Targets = append([]string(nil), DefaultTargets...)
	}

	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	if o.Format != FormatES {
		if err := errors.ValidateIdentifier(o.Name); err != nil {
			return err
		}
	}
	if !o.NoTranspile {
		if _, _, err := resolveTargets(o.Targets); err != nil {
			return err
		}
	}
	return nil
}

var esTargets = map[string]api.Target{
	"es5":    api.ES5,
	"es2015": api.ES2015,
	"es6":    api.ES2015,
	"es2016": api.ES2016,
	"es2017": api.ES2017,
	"es2018": api.ES2018,
	"es2019": api.ES2019,
	"es2020": api.ES2020,
	"es2021": api.ES2021,
	"es2022": api.ES2022,
	"es2023": api.ES2023,
	"es2024": api.ES2024,
	"esnext": api.ESNext,
}

var engines = map[string]api.EngineName{
	"chrome":  api.EngineChrome,
	"deno":    api.EngineDeno,
	"edge":    api.EngineEdge,
	"firefox": api.EngineFirefox,
	"ios":     api.EngineIOS,
	"node":    api.EngineNode,
	"opera":   api.EngineOpera,
	"safari":  api.EngineSafari,
}

var engineTarget = regexp.MustCompile(`^([a-z]+)(\d+(?:\.\d+)*)$`)

// resolveTargets splits targets into an esbuild syntax target and engine
// list. With only engines the syntax target is ESNext.
func resolveTargets(targets []string) (api.Target, []api.Engine, error) {
	target := api.DefaultTarget
	var out []api.Engine
	for _, raw := range targets {
		t := strings.ToLower(strings.TrimSpace(raw))
		if es, ok := esTargets[t]; ok {
			if target != api.DefaultTarget {
				return 0, nil, errors.New(errors.ErrCodeInvalidInput, "only one ES syntax target is allowed, got %q", raw)
			}
			target = es
			continue
		}
		m := engineTarget.FindStringSubmatch(t)
		if m == nil {
			return 0, nil, errors.New(errors.ErrCodeInvalidInput, "unknown build target %q", raw)
		}
		name, ok := engines[m[1]]
		if !ok {
			return 0, nil, errors.New(errors.ErrCodeInvalidInput, "unknown engine %q in target %q", m[1], raw)
		}
		out = append(out, api.Engine{Name: name, Version: m[2]})
	}
	if target == api.DefaultTarget {
		target = api.ESNext
	}
	return target, out, nil
}
