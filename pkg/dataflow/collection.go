package dataflow

import (
	"bytes"
	"encoding/json"
)

// Collection is an insertion-ordered mapping from spec name to spec.
//
// Setting an existing name replaces its spec in place: the name keeps the
// position of its first insertion. The zero value is not usable; call
// [NewCollection].
type Collection struct {
	names []string
	specs map[string]*Spec
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{specs: make(map[string]*Spec)}
}

// Set stores spec under name, overwriting any previous spec with that name.
func (c *Collection) Set(name string, spec *Spec) {
	if _, ok := c.specs[name]; !ok {
		c.names = append(c.names, name)
	}
	c.specs[name] = spec
}

// Get returns the spec stored under name.
func (c *Collection) Get(name string) (*Spec, bool) {
	s, ok := c.specs[name]
	return s, ok
}

// Names returns spec names in insertion order.
func (c *Collection) Names() []string {
	return append([]string(nil), c.names...)
}

// Len returns the number of named specs.
func (c *Collection) Len() int {
	return len(c.names)
}

// Clone returns a shallow copy; specs themselves are shared.
func (c *Collection) Clone() *Collection {
	out := &Collection{
		names: append([]string(nil), c.names...),
		specs: make(map[string]*Spec, len(c.specs)),
	}
	for k, v := range c.specs {
		out.specs[k] = v
	}
	return out
}

// MarshalJSON encodes the collection as a JSON object in insertion order.
func (c *Collection) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range c.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(c.specs[name])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
