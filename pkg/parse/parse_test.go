package parse

import (
	"context"
	"testing"

	"github.com/matzehuels/vegabundle/pkg/dataflow"
	"github.com/matzehuels/vegabundle/pkg/errors"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Dialect
		wantErr bool
	}{
		{name: "vega schema", raw: `{"$schema": "https://vega.github.io/schema/vega/v5.json", "marks": []}`, want: DialectVega},
		{name: "vega-lite schema", raw: `{"$schema": "https://vega.github.io/schema/vega-lite/v5.json", "mark": "bar"}`, want: DialectVegaLite},
		{name: "no schema", raw: `{"marks": []}`, want: DialectVega},
		{name: "dataflow", raw: `{"operators": [{"type": "collect"}]}`, want: DialectDataflow},
		{name: "operators with schema", raw: `{"$schema": "https://vega.github.io/schema/vega/v5.json", "operators": []}`, want: DialectVega},
		{name: "operators not array", raw: `{"operators": 3}`, want: DialectVega},
		{name: "array", raw: `[]`, wantErr: true},
		{name: "string", raw: `"vega"`, wantErr: true},
		{name: "garbage", raw: `{`, wantErr: true},
		{name: "null", raw: `null`, wantErr: true},
		{name: "padded null", raw: " null\n", wantErr: true},
		{name: "number", raw: `42`, wantErr: true},
		{name: "padded object", raw: "\n {\"marks\": []}", want: DialectVega},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Detect([]byte(tt.raw))
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidSpec) {
					t.Errorf("Detect() error = %v, want INVALID_SPEC", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Detect() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Detect() = %q, want %q", got, tt.want)
			}
		})
	}
}

// recordingParser returns a fixed spec and remembers which method ran.
type recordingParser struct {
	called string
	spec   *dataflow.Spec
	err    error
}

func (p *recordingParser) ParseVega(context.Context, []byte) (*dataflow.Spec, error) {
	p.called = "vega"
	return p.spec, p.err
}

func (p *recordingParser) ParseVegaLite(context.Context, []byte) (*dataflow.Spec, error) {
	p.called = "vega-lite"
	return p.spec, p.err
}

func TestParseDispatch(t *testing.T) {
	tests := []struct {
		raw        string
		wantCalled string
		wantD      Dialect
	}{
		{raw: `{"marks": []}`, wantCalled: "vega", wantD: DialectVega},
		{raw: `{"$schema": "vega-lite/v5.json"}`, wantCalled: "vega-lite", wantD: DialectVegaLite},
		{raw: `{"operators": [{"type": "geoshape"}]}`, wantCalled: "", wantD: DialectDataflow},
	}

	for _, tt := range tests {
		t.Run(string(tt.wantD), func(t *testing.T) {
			p := &recordingParser{spec: dataflow.NewSpec(dataflow.Op("collect"))}
			spec, d, err := Parse(context.Background(), p, []byte(tt.raw))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if d != tt.wantD {
				t.Errorf("dialect = %q, want %q", d, tt.wantD)
			}
			if p.called != tt.wantCalled {
				t.Errorf("called = %q, want %q", p.called, tt.wantCalled)
			}
			if spec.Empty() {
				t.Error("spec should not be empty")
			}
		})
	}
}

func TestParsePropagatesParserError(t *testing.T) {
	want := errors.New(errors.ErrCodeParseFailed, "boom")
	p := &recordingParser{err: want}
	_, _, err := Parse(context.Background(), p, []byte(`{"marks": []}`))
	if err != want {
		t.Errorf("Parse() error = %v, want %v", err, want)
	}
}

func TestDataflowParser(t *testing.T) {
	var p DataflowParser
	ctx := context.Background()

	spec, err := p.ParseVega(ctx, []byte(`{"operators": [{"type": "aggregate"}]}`))
	if err != nil {
		t.Fatalf("ParseVega(dataflow): %v", err)
	}
	if len(spec.Operators) != 1 || spec.Operators[0].Type != "aggregate" {
		t.Errorf("operators = %+v", spec.Operators)
	}

	if _, err := p.ParseVega(ctx, []byte(`{"marks": []}`)); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("ParseVega(vega) error = %v, want UNSUPPORTED", err)
	}
	if _, err := p.ParseVegaLite(ctx, []byte(`{"mark": "bar"}`)); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("ParseVegaLite error = %v, want UNSUPPORTED", err)
	}
}
