package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/vegabundle/pkg/errors"
	"github.com/matzehuels/vegabundle/pkg/transforms"
)

// transformsCommand creates the transforms command, which prints the package
// index.
func (c *CLI) transformsCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "transforms [module-or-transform]",
		Short: "List the known transform modules",
		Long: `List the known transform modules and the transforms each exports.

With a module name, prints that module's transforms one per line. With a
transform name, prints the module that provides it.`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			var names []string
			for _, m := range transforms.Default().Modules() {
				names = append(names, m.Name)
			}
			return names, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			idx := transforms.Default()
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				return lookupTransform(out, idx, args[0])
			}
			if asJSON {
				return writeIndexJSON(out, idx)
			}
			writeIndexText(out, idx)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the index as JSON")

	return cmd
}

// lookupTransform prints the transforms of module name, or the module that
// exports transform name.
func lookupTransform(w io.Writer, idx *transforms.Index, name string) error {
	if ts := idx.Transforms(name); ts != nil {
		for _, t := range ts {
			fmt.Fprintln(w, t)
		}
		return nil
	}
	if mod, ok := idx.FindPackage(name); ok {
		fmt.Fprintln(w, mod)
		return nil
	}
	return errors.New(errors.ErrCodeInvalidInput, "%q is neither a module nor a transform", name).WithSubject(name)
}

func writeIndexText(w io.Writer, idx *transforms.Index) {
	fmt.Fprintln(w, StyleTitle.Render("Transform modules")+" "+StyleDim.Render("("+transforms.TableVersion+")"))
	for _, m := range idx.Modules() {
		fmt.Fprintln(w, styleKey.Render(m.Name)+" "+StyleValue.Render(strings.Join(m.Transforms, ", ")))
	}
}

func writeIndexJSON(w io.Writer, idx *transforms.Index) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Version string              `json:"version"`
		Modules []transforms.Module `json:"modules"`
	}{transforms.TableVersion, idx.Modules()})
}
