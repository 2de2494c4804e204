package build

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/matzehuels/vegabundle/pkg/errors"
)

// EntryName is the virtual file name of the generated index.
const EntryName = "bundle-index.js"

// Builder compiles index source into a bundle.
type Builder interface {
	Build(ctx context.Context, code string, opts Options) (string, error)
}

// Esbuild builds bundles in process with the esbuild Go API. It holds no
// state and is safe for concurrent use.
type Esbuild struct{}

// Build bundles code according to opts.
func (Esbuild) Build(ctx context.Context, code string, opts Options) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return "", err
	}
	buildOpts, err := esbuildOptions(code, opts)
	if err != nil {
		return "", err
	}

	bctx, cerr := api.Context(buildOpts)
	if cerr != nil {
		return "", errors.New(errors.ErrCodeBuildFailed, "%s", joinMessages(cerr.Errors))
	}
	defer bctx.Dispose()

	done := make(chan api.BuildResult, 1)
	go func() { done <- bctx.Rebuild() }()

	var result api.BuildResult
	select {
	case result = <-done:
	case <-ctx.Done():
		bctx.Cancel()
		<-done
		return "", ctx.Err()
	}

	if len(result.Errors) > 0 {
		return "", errors.New(errors.ErrCodeBuildFailed, "%s", joinMessages(result.Errors))
	}
	if len(result.OutputFiles) == 0 {
		return "", errors.New(errors.ErrCodeBuildFailed, "esbuild returned no output files")
	}
	return string(result.OutputFiles[0].Contents), nil
}

func esbuildOptions(code string, opts Options) (api.BuildOptions, error) {
	minify := !opts.NoMinify
	bo := api.BuildOptions{
		Stdin: &api.StdinOptions{
			Contents:   code,
			Sourcefile: EntryName,
			Loader:     api.LoaderJS,
		},
		Bundle:            true,
		Write:             false,
		Platform:          api.PlatformBrowser,
		Target:            api.ESNext,
		MinifyWhitespace:  minify,
		MinifyIdentifiers: minify,
		MinifySyntax:      minify,
		Sourcemap:         api.SourceMapNone,
		LogLevel:          api.LogLevelSilent,
		Plugins:           opts.Plugins,
	}
	dir, err := filepath.Abs(opts.ResolveDir)
	if err != nil {
		return bo, errors.Wrap(errors.ErrCodeInvalidInput, err, "resolve dir %q", opts.ResolveDir)
	}
	bo.Stdin.ResolveDir = dir

	if !opts.NoTranspile {
		target, engines, err := resolveTargets(opts.Targets)
		if err != nil {
			return bo, err
		}
		bo.Target = target
		bo.Engines = engines
	}

	switch opts.Format {
	case FormatES:
		bo.Format = api.FormatESModule
	case FormatIIFE:
		bo.Format = api.FormatIIFE
		bo.GlobalName = opts.Name
	default:
		bo.Format = api.FormatCommonJS
		bo.Banner = map[string]string{"js": umdBanner(opts.Name)}
		bo.Footer = map[string]string{"js": umdFooter}
	}
	return bo, nil
}

// umdBanner opens a factory that hands the CommonJS body a private module
// object and exposes its exports under AMD, CommonJS or the named global.
func umdBanner(name string) string {
	return fmt.Sprintf(`(function (root, factory) {
  if (typeof define === "function" && define.amd) define([], factory);
  else if (typeof module === "object" && module.exports) module.exports = factory();
  else root[%s] = factory();
})(typeof globalThis !== "undefined" ? globalThis : typeof self !== "undefined" ? self : this, function () {
var module = { exports: {} }, exports = module.exports;`, strconv.Quote(name))
}

const umdFooter = `return module.exports;
});`

func joinMessages(msgs []api.Message) string {
	lines := make([]string, 0, len(msgs))
	for _, m := range msgs {
		if m.Location != nil {
			lines = append(lines, fmt.Sprintf("%s:%d:%d: %s", m.Location.File, m.Location.Line, m.Location.Column, m.Text))
			continue
		}
		lines = append(lines, m.Text)
	}
	return strings.Join(lines, "\n")
}
