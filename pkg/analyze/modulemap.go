package analyze

import (
	"fmt"
	"strings"
)

// ModuleMap records the transforms used from each module.
//
// Both modules and the operators within a module are kept in first-insertion
// order, which makes code generated from the map reproducible.
type ModuleMap struct {
	modules []string
	ops     map[string]*opSet
}

type opSet struct {
	names []string
	seen  map[string]struct{}
}

// NewModuleMap returns an empty module map.
func NewModuleMap() *ModuleMap {
	return &ModuleMap{ops: make(map[string]*opSet)}
}

// Add records that op is used from module. It reports whether the pair was
// new.
func (m *ModuleMap) Add(module, op string) bool {
	set, ok := m.ops[module]
	if !ok {
		set = &opSet{seen: make(map[string]struct{})}
		m.ops[module] = set
		m.modules = append(m.modules, module)
	}
	if _, dup := set.seen[op]; dup {
		return false
	}
	set.seen[op] = struct{}{}
	set.names = append(set.names, op)
	return true
}

// Has reports whether op is recorded under module.
func (m *ModuleMap) Has(module, op string) bool {
	set, ok := m.ops[module]
	if !ok {
		return false
	}
	_, ok = set.seen[op]
	return ok
}

// Modules returns module names in insertion order.
func (m *ModuleMap) Modules() []string {
	return append([]string(nil), m.modules...)
}

// Operators returns the operators recorded for module in insertion order.
func (m *ModuleMap) Operators(module string) []string {
	set, ok := m.ops[module]
	if !ok {
		return nil
	}
	return append([]string(nil), set.names...)
}

// All returns every recorded operator, in module order and then operator
// order.
func (m *ModuleMap) All() []string {
	var out []string
	for _, mod := range m.modules {
		out = append(out, m.ops[mod].names...)
	}
	return out
}

// Len returns the number of modules.
func (m *ModuleMap) Len() int {
	return len(m.modules)
}

// TransformCount returns the number of recorded (module, operator) pairs.
func (m *ModuleMap) TransformCount() int {
	n := 0
	for _, set := range m.ops {
		n += len(set.names)
	}
	return n
}

// Clone returns a deep copy of m.
func (m *ModuleMap) Clone() *ModuleMap {
	out := NewModuleMap()
	for _, mod := range m.modules {
		for _, op := range m.ops[mod].names {
			out.Add(mod, op)
		}
	}
	return out
}

// String renders the map as "module: op, op" lines.
func (m *ModuleMap) String() string {
	var b strings.Builder
	for _, mod := range m.modules {
		fmt.Fprintf(&b, "%s: %s\n", mod, strings.Join(m.ops[mod].names, ", "))
	}
	return b.String()
}
