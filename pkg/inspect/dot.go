package inspect

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"
)

// Options configures diagram rendering.
type Options struct {
	// Detailed lists each module's transforms in its node label.
	// When false, only the module name and usage count are shown.
	Detailed bool
}

// ToDOT converts a report to Graphviz DOT: one node per spec, one per module,
// and an edge from each spec to every module it uses.
func ToDOT(r *Report, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	for _, s := range r.Specs {
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=\"#e8f0fe\"];\n", specID(s.Name), s.Name)
	}
	for _, mod := range r.Total.Modules() {
		fmt.Fprintf(&buf, "  %q [label=%q, shape=box3d];\n", mod, moduleLabel(r, mod, opts.Detailed))
	}

	buf.WriteString("\n")
	for _, s := range r.Specs {
		for _, mod := range s.Modules.Modules() {
			fmt.Fprintf(&buf, "  %q -> %q [label=\"%d\"];\n", specID(s.Name), mod, len(s.Modules.Operators(mod)))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func specID(name string) string {
	return "spec:" + name
}

func moduleLabel(r *Report, mod string, detailed bool) string {
	ops := r.Total.Operators(mod)
	label := fmt.Sprintf("%s\n%d/%d", mod, len(ops), len(r.Index.Transforms(mod)))
	if !detailed {
		return label
	}
	return label + "\n" + strings.Join(ops, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with one sized
// in pixels so the diagram scales when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
