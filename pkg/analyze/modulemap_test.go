package analyze

import (
	"slices"
	"testing"
)

func TestModuleMapAdd(t *testing.T) {
	m := NewModuleMap()
	if !m.Add("vega-geo", "geoshape") {
		t.Error("first Add should report new")
	}
	if m.Add("vega-geo", "geoshape") {
		t.Error("duplicate Add should report not new")
	}
	m.Add("vega-transforms", "collect")
	m.Add("vega-geo", "projection")

	if got := m.Modules(); !slices.Equal(got, []string{"vega-geo", "vega-transforms"}) {
		t.Errorf("Modules() = %v", got)
	}
	if got := m.Operators("vega-geo"); !slices.Equal(got, []string{"geoshape", "projection"}) {
		t.Errorf("Operators(vega-geo) = %v", got)
	}
	if m.Operators("missing") != nil {
		t.Error("Operators of unknown module should be nil")
	}
	if m.Has("missing", "x") {
		t.Error("Has on unknown module should be false")
	}
}

func TestModuleMapClone(t *testing.T) {
	m := NewModuleMap()
	m.Add("a", "x")
	clone := m.Clone()
	clone.Add("a", "y")
	clone.Add("b", "z")

	if m.TransformCount() != 1 || m.Len() != 1 {
		t.Errorf("original changed: %s", m)
	}
	if clone.TransformCount() != 3 || clone.Len() != 2 {
		t.Errorf("clone = %s", clone)
	}
}

func TestModuleMapReturnsCopies(t *testing.T) {
	m := NewModuleMap()
	m.Add("a", "x")
	mods := m.Modules()
	mods[0] = "changed"
	ops := m.Operators("a")
	ops[0] = "changed"

	if m.Modules()[0] != "a" || m.Operators("a")[0] != "x" {
		t.Error("accessors must return copies")
	}
}
