package transforms

// Index resolves transform names to the module that exports them.
// An Index is read-only after construction and safe for concurrent use.
type Index struct {
	modules []Module
	owner   map[string]string
}

// NewIndex builds an index over modules. When several modules export the same
// name, the one listed first owns it.
func NewIndex(modules []Module) *Index {
	idx := &Index{
		modules: make([]Module, len(modules)),
		owner:   make(map[string]string),
	}
	for i, m := range modules {
		idx.modules[i] = Module{
			Name:       m.Name,
			Transforms: append([]string(nil), m.Transforms...),
		}
		for _, name := range m.Transforms {
			if _, taken := idx.owner[name]; !taken {
				idx.owner[name] = m.Name
			}
		}
	}
	return idx
}

var defaultIndex = NewIndex(Modules)

// Default returns the index over [Modules].
func Default() *Index {
	return defaultIndex
}

// FindPackage returns the module exporting the named transform.
func (idx *Index) FindPackage(name string) (string, bool) {
	mod, ok := idx.owner[name]
	return mod, ok
}

// Modules returns a copy of the indexed modules in declaration order.
func (idx *Index) Modules() []Module {
	out := make([]Module, len(idx.modules))
	for i, m := range idx.modules {
		out[i] = Module{Name: m.Name, Transforms: append([]string(nil), m.Transforms...)}
	}
	return out
}

// Transforms returns the transforms exported by module, or nil if the module
// is not indexed.
func (idx *Index) Transforms(module string) []string {
	for _, m := range idx.modules {
		if m.Name == module {
			return append([]string(nil), m.Transforms...)
		}
	}
	return nil
}

// Len returns the number of distinct transform names in the index.
func (idx *Index) Len() int {
	return len(idx.owner)
}
