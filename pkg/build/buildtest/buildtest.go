// Package buildtest provides an esbuild plugin that stands in for the vega
// npm packages, so bundles can be built without installing them.
package buildtest

import (
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/matzehuels/vegabundle/pkg/transforms"
)

const namespace = "vega-stub"

// ViewStub is the source served for vega-view.
const ViewStub = `export class View {
  constructor(spec, opt) {
    this.spec = spec;
    this.opt = opt;
  }
}
`

// DataflowStub is the source served for vega-dataflow.
const DataflowStub = "export const transforms = {};\n"

// StubPlugin serves vega-view, vega-dataflow and every module of idx from
// memory. Each transform is exported as an empty function. Imports of
// other packages fall through to esbuild's normal resolution. A nil idx
// selects [transforms.Default].
func StubPlugin(idx *transforms.Index) api.Plugin {
	if idx == nil {
		idx = transforms.Default()
	}
	sources := map[string]string{
		"vega-view":     ViewStub,
		"vega-dataflow": DataflowStub,
	}
	for _, mod := range idx.Modules() {
		var b strings.Builder
		for _, name := range mod.Transforms {
			fmt.Fprintf(&b, "export function %s() {}\n", name)
		}
		sources[mod.Name] = b.String()
	}

	return api.Plugin{
		Name: "vega-stub",
		Setup: func(build api.PluginBuild) {
			build.OnResolve(api.OnResolveOptions{Filter: `^vega-`},
				func(args api.OnResolveArgs) (api.OnResolveResult, error) {
					if _, ok := sources[args.Path]; !ok {
						return api.OnResolveResult{}, nil
					}
					return api.OnResolveResult{Path: args.Path, Namespace: namespace}, nil
				})
			build.OnLoad(api.OnLoadOptions{Filter: `.*`, Namespace: namespace},
				func(args api.OnLoadArgs) (api.OnLoadResult, error) {
					contents := sources[args.Path]
					return api.OnLoadResult{Contents: &contents, Loader: api.LoaderJS}, nil
				})
		},
	}
}
