// Package inspect reports which transform modules a set of specs pulls into
// a bundle, as plain text or as a Graphviz diagram.
package inspect

import (
	"fmt"
	"io"
	"strings"

	"github.com/matzehuels/vegabundle/pkg/analyze"
	"github.com/matzehuels/vegabundle/pkg/dataflow"
	"github.com/matzehuels/vegabundle/pkg/transforms"
)

// SpecUsage is the module map of a single spec.
type SpecUsage struct {
	Name    string
	Modules *analyze.ModuleMap
}

// Report summarizes module usage across a collection.
type Report struct {
	Index *transforms.Index
	Specs []SpecUsage
	Total *analyze.ModuleMap
}

// NewReport analyzes every spec in specs against idx. A nil idx selects
// transforms.Default().
func NewReport(idx *transforms.Index, specs *dataflow.Collection) (*Report, error) {
	a := analyze.New(idx)
	r := &Report{Index: a.Index, Total: analyze.NewModuleMap()}
	for _, name := range specs.Names() {
		spec, _ := specs.Get(name)
		m := analyze.NewModuleMap()
		if err := a.Analyze(spec, m); err != nil {
			return nil, err
		}
		if err := a.Analyze(spec, r.Total); err != nil {
			return nil, err
		}
		r.Specs = append(r.Specs, SpecUsage{Name: name, Modules: m})
	}
	return r, nil
}

// WriteText writes a plain-text summary:
//
//	vega-transforms  2/44  aggregate, collect
//
//	sales: vega-transforms
func (r *Report) WriteText(w io.Writer) error {
	width := 0
	for _, mod := range r.Total.Modules() {
		width = max(width, len(mod))
	}

	var b strings.Builder
	for _, mod := range r.Total.Modules() {
		ops := r.Total.Operators(mod)
		fmt.Fprintf(&b, "%-*s  %d/%d  %s\n", width, mod, len(ops), len(r.Index.Transforms(mod)), strings.Join(ops, ", "))
	}
	if r.Total.Len() == 0 {
		b.WriteString("no extension modules required\n")
	}

	if len(r.Specs) > 0 {
		b.WriteString("\n")
	}
	for _, s := range r.Specs {
		mods := s.Modules.Modules()
		if len(mods) == 0 {
			fmt.Fprintf(&b, "%s: -\n", s.Name)
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", s.Name, strings.Join(mods, ", "))
	}

	_, err := io.WriteString(w, b.String())
	return err
}
