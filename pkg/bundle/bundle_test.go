package bundle

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/matzehuels/vegabundle/pkg/analyze"
	"github.com/matzehuels/vegabundle/pkg/build"
	"github.com/matzehuels/vegabundle/pkg/build/buildtest"
	"github.com/matzehuels/vegabundle/pkg/dataflow"
	"github.com/matzehuels/vegabundle/pkg/errors"
	"github.com/matzehuels/vegabundle/pkg/parse"
)

const chartSpec = `{"operators":[{"id":0,"type":"operator"},{"id":1,"type":"aggregate","params":{"groupby":["a"]}},{"id":2,"type":"geoshape"}]}`

func newTestBundle() *Bundle {
	return NewWithConfig(Config{Parser: parse.DataflowParser{}})
}

func testBuildOptions(t *testing.T) BuildOptions {
	t.Helper()
	return BuildOptions{Options: build.Options{
		ResolveDir: t.TempDir(),
		Plugins:    []api.Plugin{buildtest.StubPlugin(nil)},
	}}
}

func countLines(src, prefix string) int {
	n := 0
	for _, line := range strings.Split(src, "\n") {
		if strings.HasPrefix(line, prefix) {
			n++
		}
	}
	return n
}

func TestBundleEndToEnd(t *testing.T) {
	ctx := context.Background()
	b := newTestBundle()
	if _, err := b.Add(ctx, "chart", []byte(chartSpec)); err != nil {
		t.Fatalf("Add: %v", err)
	}

	src, err := b.Codegen(CodegenOptions{})
	if err != nil {
		t.Fatalf("Codegen: %v", err)
	}
	// View and the registry plus vega-transforms and vega-geo.
	if got := countLines(src, "import {"); got != 4 {
		t.Errorf("import lines = %d, want 4\n%s", got, src)
	}
	if got := countLines(src, "export function "); got != 1 {
		t.Errorf("factories = %d, want 1", got)
	}
	if got := countLines(src, "const spec_"); got != 1 {
		t.Errorf("spec constants = %d, want 1", got)
	}
	if !strings.Contains(src, "const spec_chart = "+chartSpec+";") {
		t.Errorf("spec not embedded verbatim:\n%s", src)
	}

	out, err := b.Build(ctx, testBuildOptions(t))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if strings.TrimSpace(out) == "" {
		t.Error("empty build output")
	}
}

func TestBundleUnrecognizedTransform(t *testing.T) {
	builder := &countingBuilder{}
	b := NewWithConfig(Config{Parser: parse.DataflowParser{}, Builder: builder})

	_, err := b.AddDataflowSpec("typo", dataflow.NewSpec(dataflow.Op("aggregat")))
	name, ok := analyze.UnrecognizedTransform(err)
	if !ok || name != "aggregat" {
		t.Fatalf("error = %v, want unrecognized aggregat", err)
	}
	if builder.calls != 0 {
		t.Error("builder must not run")
	}
	if _, ok := b.DataflowSpec("typo"); !ok {
		t.Error("spec stays stored after a failed analysis")
	}
}

func TestBundleExcludeSpecs(t *testing.T) {
	b := newTestBundle()
	if _, err := b.AddDataflowSpec("chart", dataflow.NewSpec(dataflow.Op("aggregate"))); err != nil {
		t.Fatal(err)
	}
	src, err := b.Codegen(CodegenOptions{ExcludeSpecs: true})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(src, "export function") || strings.Contains(src, "spec_") {
		t.Errorf("runtime-only output embeds specs:\n%s", src)
	}
	if !strings.Contains(src, "import { aggregate } from \"vega-transforms\";") {
		t.Errorf("runtime-only output lost imports:\n%s", src)
	}
}

func TestBundleOverwrite(t *testing.T) {
	b := newTestBundle()
	must := func(_ *Bundle, err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(b.AddDataflowSpec("a", dataflow.NewSpec(dataflow.Op("aggregate"))))
	must(b.AddDataflowSpec("b", dataflow.NewSpec(dataflow.Op("collect"))))
	must(b.AddDataflowSpec("a", dataflow.NewSpec(dataflow.Op("geoshape"))))

	if got := b.DataflowSpecs().Names(); strings.Join(got, ",") != "a,b" {
		t.Errorf("names = %v, want [a b]", got)
	}
	spec, _ := b.DataflowSpec("a")
	if spec.Operators[0].Type != "geoshape" {
		t.Errorf("a = %s, want the replacement", spec.Operators[0].Type)
	}
	// Modules from the replaced spec are kept.
	m := b.Modules()
	if !m.Has("vega-transforms", "aggregate") || !m.Has("vega-geo", "geoshape") {
		t.Errorf("modules = %s", m)
	}
}

func TestBundleInvalidName(t *testing.T) {
	b := newTestBundle()
	for _, name := range []string{"", "my-chart", "1chart", "View", "default"} {
		if _, err := b.AddDataflowSpec(name, dataflow.NewSpec()); !errors.Is(err, errors.ErrCodeInvalidName) {
			t.Errorf("AddDataflowSpec(%q) error = %v, want INVALID_NAME", name, err)
		}
	}
	if b.DataflowSpecs().Len() != 0 {
		t.Error("invalid names must not be stored")
	}
}

func TestBundleAccessorsCopy(t *testing.T) {
	b := newTestBundle()
	if _, err := b.AddDataflowSpec("a", dataflow.NewSpec(dataflow.Op("aggregate"))); err != nil {
		t.Fatal(err)
	}
	b.Modules().Add("vega-geo", "geoshape")
	b.DataflowSpecs().Set("z", dataflow.NewSpec())

	if b.Modules().Len() != 1 || b.DataflowSpecs().Len() != 1 {
		t.Error("accessors must not expose internal state")
	}
}

// stubParser returns canned specs per dialect.
type stubParser struct {
	vega, vegaLite *dataflow.Spec
	err            error
}

func (p stubParser) ParseVega(context.Context, []byte) (*dataflow.Spec, error) {
	return p.vega, p.err
}

func (p stubParser) ParseVegaLite(context.Context, []byte) (*dataflow.Spec, error) {
	return p.vegaLite, p.err
}

func TestBundleParserDialects(t *testing.T) {
	ctx := context.Background()
	p := stubParser{
		vega:     dataflow.NewSpec(dataflow.Op("force")),
		vegaLite: dataflow.NewSpec(dataflow.Op("stack")),
	}
	b := NewWithConfig(Config{Parser: p})

	if _, err := b.AddVegaSpec(ctx, "v", []byte(`{}`)); err != nil {
		t.Fatal(err)
	}
	if _, err := b.AddVegaLiteSpec(ctx, "vl", []byte(`{}`)); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Add(ctx, "auto", []byte(`{"$schema":"https://vega.github.io/schema/vega-lite/v5.json"}`)); err != nil {
		t.Fatal(err)
	}

	m := b.Modules()
	if got := strings.Join(m.Modules(), ","); got != "vega-force,vega-encode" {
		t.Errorf("modules = %s", got)
	}
	if b.DataflowSpecs().Len() != 3 {
		t.Errorf("specs = %d, want 3", b.DataflowSpecs().Len())
	}
}

func TestBundleParserErrorPropagates(t *testing.T) {
	want := errors.New(errors.ErrCodeParseFailed, "bad spec")
	b := NewWithConfig(Config{Parser: stubParser{err: want}})
	if _, err := b.AddVegaSpec(context.Background(), "v", []byte(`{}`)); err != want {
		t.Errorf("error = %v, want %v", err, want)
	}
	if b.DataflowSpecs().Len() != 0 {
		t.Error("nothing should be stored when parsing fails")
	}
}

// countingBuilder records builds and returns the code it was given.
type countingBuilder struct {
	calls int
	err   error
}

func (c *countingBuilder) Build(_ context.Context, code string, _ build.Options) (string, error) {
	c.calls++
	return code, c.err
}

func TestBundleBuilderErrorPropagates(t *testing.T) {
	want := errors.New(errors.ErrCodeBuildFailed, "no resolve")
	b := NewWithConfig(Config{Parser: parse.DataflowParser{}, Builder: &countingBuilder{err: want}})
	if _, err := b.Build(context.Background(), BuildOptions{}); err != want {
		t.Errorf("error = %v, want %v", err, want)
	}
}

func TestBundleConcurrentBuilds(t *testing.T) {
	const n = 6
	opts := testBuildOptions(t)

	var wg sync.WaitGroup
	outs := make([]string, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b := newTestBundle()
			if _, err := b.Add(context.Background(), "chart", []byte(chartSpec)); err != nil {
				errs[i] = err
				return
			}
			outs[i], errs[i] = b.Build(context.Background(), opts)
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("bundle %d: %v", i, errs[i])
		}
		if outs[i] != outs[0] {
			t.Errorf("bundle %d output differs", i)
		}
	}
}

func TestBuildInputs(t *testing.T) {
	inputs := []Input{
		{Name: "first", Spec: []byte(`{"operators":[{"type":"aggregate"}]}`)},
		{Name: "second", Spec: []byte(`{"operators":[{"type":"voronoi"}]}`)},
	}
	builder := &countingBuilder{}
	cfg := Config{Parser: parse.DataflowParser{}, Builder: builder}

	out, err := BuildInputs(context.Background(), cfg, inputs, BuildOptions{})
	if err != nil {
		t.Fatalf("BuildInputs: %v", err)
	}
	if builder.calls != 1 {
		t.Errorf("builds = %d, want 1", builder.calls)
	}
	if strings.Index(out, "export function first") > strings.Index(out, "export function second") {
		t.Errorf("inputs out of order:\n%s", out)
	}

	inputs = append(inputs, Input{Name: "third", Spec: []byte(`{"operators":[{"type":"nope"}]}`)})
	if _, err := BuildInputs(context.Background(), cfg, inputs, BuildOptions{}); !errors.Is(err, errors.ErrCodeUnrecognizedTransform) {
		t.Errorf("error = %v, want UNRECOGNIZED_TRANSFORM", err)
	}
	if builder.calls != 1 {
		t.Error("failed inputs must not reach the builder")
	}
}

func TestBundleNameCollisions(t *testing.T) {
	type step struct {
		name string
		ops  []string
	}
	tests := []struct {
		name    string
		steps   []step
		addErr  bool
		subject string
	}{
		{
			name:    "name of its own transform",
			steps:   []step{{"pie", []string{"pie"}}},
			subject: "pie",
		},
		{
			name:    "transform imported by a later spec",
			steps:   []step{{"filter", []string{"aggregate"}}, {"chart", []string{"filter"}}},
			subject: "filter",
		},
		{
			name:    "registry import",
			steps:   []step{{"transforms", []string{"aggregate"}}},
			addErr:  true,
			subject: "transforms",
		},
		{
			name:    "constant of another spec",
			steps:   []step{{"x", []string{"aggregate"}}, {"spec_x", []string{"collect"}}},
			addErr:  true,
			subject: "spec_x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			builder := &countingBuilder{}
			b := NewWithConfig(Config{Parser: parse.DataflowParser{}, Builder: builder})

			var err error
			for _, s := range tt.steps {
				ops := make([]dataflow.Operator, len(s.ops))
				for i, op := range s.ops {
					ops[i] = dataflow.Op(op)
				}
				if _, err = b.AddDataflowSpec(s.name, dataflow.NewSpec(ops...)); err != nil {
					break
				}
			}
			if tt.addErr != (err != nil) {
				t.Fatalf("add error = %v, want error %v", err, tt.addErr)
			}
			if err == nil {
				_, err = b.Build(context.Background(), BuildOptions{})
			}
			if !errors.Is(err, errors.ErrCodeInvalidName) {
				t.Fatalf("error = %v, want INVALID_NAME", err)
			}
			if got := errors.GetSubject(err); got != tt.subject {
				t.Errorf("subject = %q, want %q", got, tt.subject)
			}
			if builder.calls != 0 {
				t.Error("builder must not run")
			}
		})
	}
}
