package cli

import (
	"bytes"
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/vegabundle/pkg/inspect"
	"github.com/matzehuels/vegabundle/pkg/pipeline"
)

// Inspect output formats.
const (
	inspectText = "text"
	inspectDOT  = "dot"
	inspectSVG  = "svg"
	inspectPNG  = "png"
)

// inspectCommand creates the inspect command, which reports the transform
// modules each spec requires.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		output   string
		config   string
		format   string
		detailed bool
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "inspect [spec files...]",
		Short: "Show which transform modules the specs require",
		Long: `Show which transform modules the specs require.

The text report lists every known module with the number of specs using it,
followed by the modules of each spec. The dot, svg and png formats draw the
spec-to-module graph.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case inspectText, inspectDOT, inspectSVG, inspectPNG:
			default:
				return fmt.Errorf("invalid format: %s (must be 'text', 'dot', 'svg', or 'png')", format)
			}
			run, err := readRunInputs(cmd, args, config)
			if err != nil {
				return err
			}
			data, err := c.runInspect(cmd.Context(), run, format, detailed, noCache)
			if err != nil {
				return err
			}
			return writeOutput(output, data, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVarP(&config, "config", "c", "", "manifest file")
	cmd.Flags().StringVarP(&format, "format", "f", inspectText, "output format: text, dot, svg, png")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "list transforms in graph nodes")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	registerSpecCompletions(cmd)
	_ = cmd.RegisterFlagCompletionFunc("format", completeValues(inspectText, inspectDOT, inspectSVG, inspectPNG))

	return cmd
}

// runInspect analyzes the specs and renders the report in format.
func (c *CLI) runInspect(ctx context.Context, run *runInputs, format string, detailed, noCache bool) ([]byte, error) {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return nil, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	result, err := runner.Prepare(ctx, pipeline.Options{Specs: run.specs, Logger: c.Logger})
	if err != nil {
		return nil, fmt.Errorf("inspect: %w", err)
	}
	report, err := inspect.NewReport(runner.Index, result.Specs)
	if err != nil {
		return nil, fmt.Errorf("inspect: %w", err)
	}

	if format == inspectText {
		var buf bytes.Buffer
		if err := report.WriteText(&buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	dot := inspect.ToDOT(report, inspect.Options{Detailed: detailed})
	switch format {
	case inspectSVG:
		return inspect.RenderSVG(ctx, dot)
	case inspectPNG:
		return inspect.RenderPNG(ctx, dot)
	default:
		return []byte(dot), nil
	}
}
