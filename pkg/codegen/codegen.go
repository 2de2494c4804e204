package codegen

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/matzehuels/vegabundle/pkg/analyze"
	"github.com/matzehuels/vegabundle/pkg/dataflow"
	"github.com/matzehuels/vegabundle/pkg/errors"
)

// SpecPrefix is prepended to a spec name to form its constant identifier.
const SpecPrefix = "spec_"

// Generate returns the index source for m. A nil specs emits the runtime-only
// index without factories or embedded specs.
func Generate(m *analyze.ModuleMap, specs *dataflow.Collection) (string, error) {
	if m == nil {
		m = analyze.NewModuleMap()
	}

	var b strings.Builder
	b.WriteString("import { View } from \"vega-view\";\n")
	b.WriteString("import { transforms } from \"vega-dataflow\";\n")
	for _, mod := range m.Modules() {
		b.WriteString("import { ")
		b.WriteString(strings.Join(m.Operators(mod), ", "))
		b.WriteString(" } from \"")
		b.WriteString(mod)
		b.WriteString("\";\n")
	}

	b.WriteString("\nObject.assign(transforms, {\n")
	for _, op := range m.All() {
		b.WriteString("  ")
		b.WriteString(op)
		b.WriteString(",\n")
	}
	b.WriteString("});\n")

	b.WriteString("\nexport { View } from \"vega-view\";\n")

	if specs == nil {
		return b.String(), nil
	}

	names := specs.Names()
	if err := checkNames(m, names); err != nil {
		return "", err
	}
	for _, name := range names {
		b.WriteString("\nexport function ")
		b.WriteString(name)
		b.WriteString("(opt) {\n  return new View(")
		b.WriteString(SpecPrefix)
		b.WriteString(name)
		b.WriteString(", opt);\n}\n")
	}
	for _, name := range names {
		spec, _ := specs.Get(name)
		data, err := encode(spec)
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeInternal, err, "encode spec %q", name)
		}
		b.WriteString("\nconst ")
		b.WriteString(SpecPrefix)
		b.WriteString(name)
		b.WriteString(" = ")
		b.Write(data)
		b.WriteString(";\n")
	}
	return b.String(), nil
}

// checkNames rejects spec names that would redeclare a binding of the index.
func checkNames(m *analyze.ModuleMap, names []string) error {
	imported := make(map[string]bool, m.TransformCount())
	for _, op := range m.All() {
		imported[op] = true
	}
	for _, name := range names {
		if err := errors.ValidateSpecName(name); err != nil {
			return err
		}
		if imported[name] {
			return errors.New(errors.ErrCodeInvalidName, "spec name %q collides with an imported transform", name).WithSubject(name)
		}
	}
	return nil
}

// encode renders spec as compact JSON without HTML escaping.
func encode(spec *dataflow.Spec) ([]byte, error) {
	if spec == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(spec); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
