package inspect

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/vegabundle/pkg/analyze"
	"github.com/matzehuels/vegabundle/pkg/dataflow"
	"github.com/matzehuels/vegabundle/pkg/transforms"
)

func testReport(t *testing.T) *Report {
	t.Helper()
	idx := transforms.NewIndex([]transforms.Module{
		{Name: "core", Transforms: []string{"collect", "filter", "fold"}},
		{Name: "geo", Transforms: []string{"geoshape", "projection"}},
	})
	specs := dataflow.NewCollection()
	specs.Set("bars", dataflow.NewSpec(dataflow.Op("collect"), dataflow.Op("filter"), dataflow.Op("operator")))
	specs.Set("map", dataflow.NewSpec(dataflow.Op("geoshape"), dataflow.Op("collect")))
	specs.Set("empty", dataflow.NewSpec(dataflow.Op("operator")))

	r, err := NewReport(idx, specs)
	if err != nil {
		t.Fatalf("NewReport: %v", err)
	}
	return r
}

func TestNewReport(t *testing.T) {
	r := testReport(t)
	if len(r.Specs) != 3 {
		t.Fatalf("specs = %d, want 3", len(r.Specs))
	}
	if got := r.Specs[1].Modules.String(); got != "geo: geoshape\ncore: collect\n" {
		t.Errorf("map usage = %q", got)
	}
	if got := r.Total.String(); got != "core: collect, filter\ngeo: geoshape\n" {
		t.Errorf("total = %q", got)
	}
}

func TestNewReportUnrecognized(t *testing.T) {
	specs := dataflow.NewCollection()
	specs.Set("x", dataflow.NewSpec(dataflow.Op("nope")))
	_, err := NewReport(nil, specs)
	if name, ok := analyze.UnrecognizedTransform(err); !ok || name != "nope" {
		t.Errorf("error = %v", err)
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	if err := testReport(t).WriteText(&buf); err != nil {
		t.Fatal(err)
	}
	want := `core  2/3  collect, filter
geo   1/2  geoshape

bars: core
map: geo, core
empty: -
`
	if buf.String() != want {
		t.Errorf("WriteText() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestWriteTextNoModules(t *testing.T) {
	r, err := NewReport(nil, dataflow.NewCollection())
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := r.WriteText(&buf); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "no extension modules required\n" {
		t.Errorf("WriteText() = %q", buf.String())
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testReport(t), Options{})
	for _, want := range []string{
		`"spec:bars" [label="bars"`,
		`"core" [label="core\n2/3", shape=box3d]`,
		`"spec:map" -> "geo" [label="1"]`,
		`"spec:bars" -> "core" [label="2"]`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %s:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, `"spec:empty" ->`) {
		t.Error("spec without modules should have no edges")
	}

	detailed := ToDOT(testReport(t), Options{Detailed: true})
	if !strings.Contains(detailed, `label="core\n2/3\ncollect\nfilter"`) {
		t.Errorf("detailed label missing transforms:\n%s", detailed)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(testReport(t), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output missing <svg> tag")
	}
}

func TestRenderSVGInvalidDOT(t *testing.T) {
	if _, err := RenderSVG(context.Background(), `not valid DOT {{{`); err == nil {
		t.Error("RenderSVG() should return error for invalid DOT")
	}
}

func TestRenderPNG(t *testing.T) {
	png, err := RenderPNG(context.Background(), `digraph G { a -> b; }`)
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("RenderPNG() output is not a PNG")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="116pt" viewBox="0.00 0.00 62.00 116.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 116.00" width="62" height="116"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s", got)
	}
	if string(normalizeViewBox([]byte("<svg>"))) != "<svg>" {
		t.Error("svg without viewBox should be unchanged")
	}
}
