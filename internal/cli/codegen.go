package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// codegenCommand creates the codegen command, which stops before bundling.
func (c *CLI) codegenCommand() *cobra.Command {
	var flags buildFlags

	cmd := &cobra.Command{
		Use:   "codegen [spec files...]",
		Short: "Print the generated bundle entry source",
		Long: `Print the generated bundle entry source without compiling it.

The output is the ES module that 'bundle' hands to the bundler: imports for
the transform modules the specs use, their registration, and one factory per
spec. It is useful for inspecting a bundle or feeding another bundler.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCodegen(cmd.Context(), cmd, args, &flags)
		},
	}

	flags.register(cmd.Flags())
	registerSpecCompletions(cmd)

	return cmd
}

func (c *CLI) runCodegen(ctx context.Context, cmd *cobra.Command, args []string, flags *buildFlags) error {
	run, err := readRunInputs(cmd, args, flags.config)
	if err != nil {
		return err
	}
	opts := flags.options(cmd.Flags(), run)
	opts.Logger = c.Logger

	runner, err := c.newRunner(flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	result, err := runner.Prepare(ctx, opts)
	if err != nil {
		return fmt.Errorf("codegen: %w", err)
	}

	// The manifest output names the bundle, not the entry source.
	if err := writeOutput(flags.output, []byte(result.Source), cmd.OutOrStdout()); err != nil {
		return err
	}
	if flags.output != "" {
		printSuccess("Source generated")
		printFile(flags.output)
		printStats(result.Stats.SpecCount, result.Stats.ModuleCount, len(result.Source), result.CacheInfo.ParseHits == result.Stats.SpecCount)
		printNewline()
		printNextStep("Bundle", strings.Join(append([]string{appName, "bundle"}, args...), " "))
	}
	return nil
}
