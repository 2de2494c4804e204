package parse

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"github.com/matzehuels/vegabundle/pkg/dataflow"
	"github.com/matzehuels/vegabundle/pkg/errors"
)

// Dialect identifies the language a raw specification is written in.
type Dialect string

const (
	DialectVega     Dialect = "vega"
	DialectVegaLite Dialect = "vega-lite"
	DialectDataflow Dialect = "dataflow"
)

// Parser converts Vega and Vega-Lite specifications into runtime dataflow
// specs.
type Parser interface {
	ParseVega(ctx context.Context, raw []byte) (*dataflow.Spec, error)
	ParseVegaLite(ctx context.Context, raw []byte) (*dataflow.Spec, error)
}

// header holds the top-level fields dialect detection looks at.
type header struct {
	Schema    string          `json:"$schema"`
	Operators json.RawMessage `json:"operators"`
}

// Detect reports the dialect of raw. A $schema mentioning vega-lite selects
// Vega-Lite; a top-level operators array without a $schema is an already
// parsed dataflow; anything else is treated as Vega.
func Detect(raw []byte) (Dialect, error) {
	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
		return "", errors.New(errors.ErrCodeInvalidSpec, "specification must be a JSON object")
	}
	var h header
	if err := json.Unmarshal(raw, &h); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidSpec, err, "specification must be a JSON object")
	}
	switch {
	case strings.Contains(h.Schema, "vega-lite"):
		return DialectVegaLite, nil
	case h.Schema == "" && isArray(h.Operators):
		return DialectDataflow, nil
	default:
		return DialectVega, nil
	}
}

func isArray(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return strings.HasPrefix(s, "[")
}

// Parse detects the dialect of raw and converts it with p. Dataflow input is
// decoded directly and never reaches p.
func Parse(ctx context.Context, p Parser, raw []byte) (*dataflow.Spec, Dialect, error) {
	d, err := Detect(raw)
	if err != nil {
		return nil, "", err
	}

	var spec *dataflow.Spec
	switch d {
	case DialectDataflow:
		spec, err = dataflow.Parse(raw)
	case DialectVegaLite:
		spec, err = p.ParseVegaLite(ctx, raw)
	default:
		spec, err = p.ParseVega(ctx, raw)
	}
	if err != nil {
		return nil, d, err
	}
	return spec, d, nil
}

// DataflowParser accepts only specs that are already in runtime dataflow
// form. It is the fallback when no JavaScript runtime is available.
type DataflowParser struct{}

// ParseVega decodes raw when it is a dataflow spec.
func (DataflowParser) ParseVega(_ context.Context, raw []byte) (*dataflow.Spec, error) {
	return parseDataflowOnly(raw)
}

// ParseVegaLite always fails; Vega-Lite needs the compiler.
func (DataflowParser) ParseVegaLite(context.Context, []byte) (*dataflow.Spec, error) {
	return nil, errors.New(errors.ErrCodeUnsupported, "compiling Vega-Lite requires node with the vega-lite package")
}

func parseDataflowOnly(raw []byte) (*dataflow.Spec, error) {
	d, err := Detect(raw)
	if err != nil {
		return nil, err
	}
	if d != DialectDataflow {
		return nil, errors.New(errors.ErrCodeUnsupported, "parsing %s specifications requires node with the vega package", d)
	}
	return dataflow.Parse(raw)
}
