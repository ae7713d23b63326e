package sqlzod

import (
	"slices"
	"sort"

	"github.com/hlop3z/sqlzod/internal/alerr"
	"github.com/hlop3z/sqlzod/pkg/z"
)

// Refinements overrides derived fields by name. Keys must name fields the
// derived object actually has at that level.
type Refinements map[string]Refinement

// Refinement is one field override. Build values with Replace, Func,
// Extend or Nested.
type Refinement interface {
	refinement()
}

type replaceRefinement struct {
	schema *z.Schema
}

type funcRefinement struct {
	fn func(fields *z.Shape) *z.Schema
}

type extendRefinement struct {
	fn func(prior *z.Schema) *z.Schema
}

type nestedRefinement struct {
	refinements Refinements
}

func (replaceRefinement) refinement() {}
func (funcRefinement) refinement()    {}
func (extendRefinement) refinement()  {}
func (nestedRefinement) refinement()  {}

// Replace uses s as the field validator exactly as given. The mode's
// nullable and optional wrapping is not applied.
func Replace(s *z.Schema) Refinement {
	return replaceRefinement{schema: s}
}

// Func builds the field validator from the unwrapped base validators of
// every field at the same level. Each call gets its own copy of the map,
// taken before any refinement ran. The result is wrapped for the mode.
func Func(fn func(fields *z.Shape) *z.Schema) Refinement {
	return funcRefinement{fn: fn}
}

// Extend builds the field validator from its own unwrapped base validator.
// The result is wrapped for the mode.
func Extend(fn func(prior *z.Schema) *z.Schema) Refinement {
	return extendRefinement{fn: fn}
}

// Nested refines the fields of a nested group or embedded table in a view.
func Nested(r Refinements) Refinement {
	return nestedRefinement{refinements: r}
}

// field is one derived entry of an object level before refinements.
type field struct {
	name string
	// base is the validator with no nullable or optional wrapping.
	base *z.Schema
	// wrap applies the mode's wrapping; nil leaves the value as is.
	wrap func(*z.Schema) *z.Schema
	// walk rebuilds a nested group with refinements; nil for leaves.
	walk func(r Refinements, path []string) (*z.Schema, error)
}

func (fd field) finalize(s *z.Schema) *z.Schema {
	if fd.wrap == nil {
		return s
	}
	return fd.wrap(s)
}

// level is one object being assembled.
type level struct {
	entity string
	path   []string
	fields []field
	// excluded maps names left out of this mode to the reason.
	excluded map[string]string
}

func (l *level) names() []string {
	out := make([]string, len(l.fields))
	for i, fd := range l.fields {
		out[i] = fd.name
	}
	return out
}

// check rejects refinement keys the level does not have and refinement
// values that do not fit their field. It runs before anything is built.
func (l *level) check(r Refinements) error {
	if len(r) == 0 {
		return nil
	}
	byName := make(map[string]field, len(l.fields))
	for _, fd := range l.fields {
		byName[fd.name] = fd
	}

	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		fd, ok := byName[k]
		if !ok {
			err := alerr.NewUnknownRefinementKeyError(l.entity, l.path, k, l.names())
			if reason, skipped := l.excluded[k]; skipped {
				err.WithNote("column " + k + " is " + reason + " and not part of this validator")
			}
			return err
		}
		switch ref := r[k].(type) {
		case nil:
			return alerr.NewInvalidRefinementError(l.entity, l.fieldPath(k), "refinement is nil")
		case replaceRefinement:
			if ref.schema == nil {
				return alerr.NewInvalidRefinementError(l.entity, l.fieldPath(k), "replacement validator is nil")
			}
		case funcRefinement:
			if ref.fn == nil {
				return alerr.NewInvalidRefinementError(l.entity, l.fieldPath(k), "refinement function is nil")
			}
		case extendRefinement:
			if ref.fn == nil {
				return alerr.NewInvalidRefinementError(l.entity, l.fieldPath(k), "refinement function is nil")
			}
		case nestedRefinement:
			if fd.walk == nil {
				return alerr.NewInvalidRefinementError(l.entity, l.fieldPath(k), "nested refinement on a field with no nested fields").
					WithHelp("use Replace, Func or Extend for column fields")
			}
		}
	}
	return nil
}

func (l *level) fieldPath(name string) []string {
	return append(slices.Clone(l.path), name)
}

// pristine returns the unwrapped base validators in field order.
func (l *level) pristine() *z.Shape {
	sh := z.NewShape()
	for _, fd := range l.fields {
		sh.Set(fd.name, fd.base)
	}
	return sh
}

// merge assembles the object, applying r on top of the derived fields.
func (l *level) merge(r Refinements) (*z.Schema, error) {
	if err := l.check(r); err != nil {
		return nil, err
	}

	var snapshot *z.Shape
	out := z.NewShape()
	for _, fd := range l.fields {
		ref, ok := r[fd.name]
		if !ok {
			out.Set(fd.name, fd.finalize(fd.base))
			continue
		}

		switch ref := ref.(type) {
		case replaceRefinement:
			out.Set(fd.name, ref.schema)
		case funcRefinement:
			if snapshot == nil {
				snapshot = l.pristine()
			}
			s := ref.fn(snapshot.Clone())
			if s == nil {
				return nil, l.nilResult(fd.name)
			}
			out.Set(fd.name, fd.finalize(s))
		case extendRefinement:
			s := ref.fn(fd.base)
			if s == nil {
				return nil, l.nilResult(fd.name)
			}
			out.Set(fd.name, fd.finalize(s))
		case nestedRefinement:
			s, err := fd.walk(ref.refinements, l.fieldPath(fd.name))
			if err != nil {
				return nil, err
			}
			out.Set(fd.name, s)
		}
	}
	return z.Object(out), nil
}

func (l *level) nilResult(name string) error {
	return alerr.NewInvalidRefinementError(l.entity, l.fieldPath(name), "refinement function returned nil")
}
