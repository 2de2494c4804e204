package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/vegabundle/pkg/build"
	"github.com/matzehuels/vegabundle/pkg/manifest"
	"github.com/matzehuels/vegabundle/pkg/pipeline"
)

// buildFlags holds the flags shared by bundle and codegen. Flags that are set
// explicitly override the manifest.
type buildFlags struct {
	output      string
	config      string
	noCache     bool
	refresh     bool
	name        string
	format      string
	targets     []string
	noTranspile bool
	noMinify    bool
	noSpecs     bool
	resolveDir  string
}

// register adds the input and output flags to fs.
func (f *buildFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.output, "output", "o", "", "output file (stdout if empty)")
	fs.StringVarP(&f.config, "config", "c", "", "manifest file (default: ./"+manifest.DefaultFile+" if present)")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable caching")
	fs.BoolVar(&f.refresh, "refresh", false, "bypass cache reads")
	fs.BoolVar(&f.noSpecs, "no-specs", false, "omit the specs and emit the runtime only")
}

// registerBuild adds the bundler flags to fs.
func (f *buildFlags) registerBuild(fs *pflag.FlagSet) {
	fs.StringVar(&f.name, "name", build.DefaultName, "global name for umd and iife bundles")
	fs.StringVarP(&f.format, "format", "f", build.DefaultFormat, "output format: "+strings.Join(build.Formats, ", "))
	fs.StringSliceVar(&f.targets, "targets", append([]string(nil), build.DefaultTargets...), "transpile targets (e.g. es2018, chrome58)")
	fs.BoolVar(&f.noTranspile, "no-transpile", false, "keep the source syntax")
	fs.BoolVar(&f.noMinify, "no-minify", false, "emit readable output")
	fs.StringVar(&f.resolveDir, "resolve-dir", "", "directory with the installed vega packages (default: manifest dir or cwd)")
}

// options builds pipeline options from the manifest (when present) and the
// explicitly set flags.
func (f *buildFlags) options(fs *pflag.FlagSet, run *runInputs) pipeline.Options {
	opts := pipeline.Options{Specs: run.specs, Refresh: f.refresh}
	if m := run.manifest; m != nil {
		opts.Options = m.BuildOptions()
		opts.ExcludeSpecs = m.ExcludeSpecs()
	}
	if fs.Changed("no-specs") {
		opts.ExcludeSpecs = f.noSpecs
	}
	if fs.Lookup("name") == nil {
		return opts
	}
	if fs.Changed("name") {
		opts.Name = f.name
	}
	if fs.Changed("format") {
		opts.Format = f.format
	}
	if fs.Changed("targets") {
		opts.Targets = f.targets
	}
	if fs.Changed("no-transpile") {
		opts.NoTranspile = f.noTranspile
	}
	if fs.Changed("no-minify") {
		opts.NoMinify = f.noMinify
	}
	if fs.Changed("resolve-dir") {
		opts.ResolveDir = f.resolveDir
	}
	return opts
}

// outputPath returns the -o flag, falling back to the manifest's output.
func (f *buildFlags) outputPath(run *runInputs) string {
	if f.output != "" || run.manifest == nil {
		return f.output
	}
	return run.manifest.OutputPath()
}

// bundleCommand creates the bundle command.
func (c *CLI) bundleCommand() *cobra.Command {
	var flags buildFlags

	cmd := &cobra.Command{
		Use:   "bundle [spec files...]",
		Short: "Build a minimal Vega bundle from one or more specs",
		Long: `Build a minimal Vega bundle from one or more specs.

Each spec file may be Vega, Vega-Lite or an already parsed dataflow. Files
named on the command line are exported as spec0, spec1, ... in order. Without
files, the specs listed in vegabundle.toml are used under their manifest
names. Use "-" to read a spec from stdin.

The bundle registers only the transforms the specs use. Compiled bundles are
cached locally; --refresh rebuilds and --no-cache skips the cache entirely.

Examples:
  vegabundle bundle -o charts.js bar.vl.json line.vg.json
  vegabundle bundle --format es --no-specs chart.json
  vegabundle bundle -c charts/vegabundle.toml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBundle(cmd.Context(), cmd, args, &flags)
		},
	}

	flags.register(cmd.Flags())
	flags.registerBuild(cmd.Flags())
	registerSpecCompletions(cmd)
	_ = cmd.RegisterFlagCompletionFunc("format", completeValues(build.Formats...))

	return cmd
}

// runBundle loads the specs, runs the pipeline and writes the bundle.
func (c *CLI) runBundle(ctx context.Context, cmd *cobra.Command, args []string, flags *buildFlags) error {
	run, err := readRunInputs(cmd, args, flags.config)
	if err != nil {
		return err
	}
	opts := flags.options(cmd.Flags(), run)
	opts.Logger = c.Logger
	output := flags.outputPath(run)

	runner, err := c.newRunner(flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinner(ctx, fmt.Sprintf("Bundling %s...", plural(len(opts.Specs), "spec")))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Bundle failed")
		return fmt.Errorf("bundle: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err := writeOutput(output, result.Bundle, cmd.OutOrStdout()); err != nil {
		return err
	}

	if output == "" {
		prog.done("Bundle complete")
		return nil
	}
	printSuccess("Bundle complete")
	printFile(output)
	printStats(result.Stats.SpecCount, result.Stats.ModuleCount, len(result.Bundle), result.CacheInfo.BuildHit)
	return nil
}
