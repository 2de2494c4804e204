package dataflow

import (
	"encoding/json"
	"slices"
	"testing"
)

func TestCollectionOrder(t *testing.T) {
	c := NewCollection()
	c.Set("bar", NewSpec(Op("collect")))
	c.Set("arc", NewSpec(Op("pie")))
	c.Set("violin", NewSpec(Op("kde")))

	want := []string{"bar", "arc", "violin"}
	if got := c.Names(); !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
}

func TestCollectionOverwriteKeepsPosition(t *testing.T) {
	c := NewCollection()
	first := NewSpec(Op("collect"))
	second := NewSpec(Op("aggregate"))
	c.Set("a", first)
	c.Set("b", NewSpec())
	c.Set("a", second)

	if got := c.Names(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Names() = %v, want [a b]", got)
	}
	got, ok := c.Get("a")
	if !ok || got != second {
		t.Errorf("Get(a) = %v, want overwritten spec", got)
	}
}

func TestCollectionClone(t *testing.T) {
	c := NewCollection()
	c.Set("a", NewSpec())
	clone := c.Clone()
	clone.Set("b", NewSpec())

	if c.Len() != 1 {
		t.Errorf("original Len() = %d, want 1", c.Len())
	}
	if clone.Len() != 2 {
		t.Errorf("clone Len() = %d, want 2", clone.Len())
	}
}

func TestCollectionMarshal(t *testing.T) {
	c := NewCollection()
	c.Set("z", NewSpec(Op("collect")))
	c.Set("a", NewSpec())

	got, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"z":{"operators":[{"type":"collect"}]},"a":{"operators":[]}}`
	if string(got) != want {
		t.Errorf("Marshal = %s, want %s", got, want)
	}
}
