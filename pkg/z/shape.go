package z

import (
	"iter"
	"maps"
	"slices"
)

// Shape is an ordered field map used by object schemas. Field order is the
// insertion order and is preserved by Clone and All.
type Shape struct {
	keys   []string
	fields map[string]*Schema
}

// NewShape returns an empty shape.
func NewShape() *Shape {
	return &Shape{fields: make(map[string]*Schema)}
}

// Set adds or replaces a field. Replacing keeps the original position.
func (sh *Shape) Set(key string, s *Schema) *Shape {
	if _, ok := sh.fields[key]; !ok {
		sh.keys = append(sh.keys, key)
	}
	sh.fields[key] = s
	return sh
}

// Get returns the field schema for key.
func (sh *Shape) Get(key string) (*Schema, bool) {
	s, ok := sh.fields[key]
	return s, ok
}

// Has reports whether key is a field.
func (sh *Shape) Has(key string) bool {
	_, ok := sh.fields[key]
	return ok
}

// Delete removes a field.
func (sh *Shape) Delete(key string) {
	if _, ok := sh.fields[key]; !ok {
		return
	}
	delete(sh.fields, key)
	sh.keys = slices.DeleteFunc(sh.keys, func(k string) bool { return k == key })
}

// Keys returns the field names in order.
func (sh *Shape) Keys() []string { return slices.Clone(sh.keys) }

// Len returns the number of fields.
func (sh *Shape) Len() int { return len(sh.keys) }

// Clone returns a shallow copy. Field schemas are immutable and shared.
func (sh *Shape) Clone() *Shape {
	return &Shape{keys: slices.Clone(sh.keys), fields: maps.Clone(sh.fields)}
}

// All iterates fields in order.
func (sh *Shape) All() iter.Seq2[string, *Schema] {
	return func(yield func(string, *Schema) bool) {
		for _, k := range sh.keys {
			if !yield(k, sh.fields[k]) {
				return
			}
		}
	}
}
