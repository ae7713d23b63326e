// Package z is the validation library targeted by sqlzod.
// A Schema describes one value: its base kind, numeric and length bounds,
// enum membership, patterns, and the nullable/optional/coerce wrappers that
// decide how missing, null and loosely-typed input is treated.
//
// Schemas are immutable. Every builder method returns a modified copy, so a
// derived schema can be handed to user code and refined without affecting
// the original:
//
//	name := z.String().MaxLength(100)
//	optionalName := name.Nullable().Optional()
package z

import (
	"math/big"
	"regexp"
	"slices"
)

// Kind identifies the base shape of a Schema.
type Kind int

const (
	// KindUnknown accepts any value.
	KindUnknown Kind = iota
	KindString
	KindNumber
	KindBigInt
	KindBoolean
	KindDate
	KindEnum
	KindArray
	KindTuple
	KindObject
	KindRecord
	KindUnion
	KindNull
	KindBytes
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBigInt:
		return "bigint"
	case KindBoolean:
		return "boolean"
	case KindDate:
		return "date"
	case KindEnum:
		return "enum"
	case KindArray:
		return "array"
	case KindTuple:
		return "tuple"
	case KindObject:
		return "object"
	case KindRecord:
		return "record"
	case KindUnion:
		return "union"
	case KindNull:
		return "null"
	case KindBytes:
		return "bytes"
	default:
		return "unknown"
	}
}

// Format is a named string format checked in addition to bounds.
type Format string

const (
	FormatNone Format = ""
	FormatUUID Format = "uuid"
)

// Bounds holds every numeric, bigint, length and pattern constraint of a
// Schema. Nil pointers mean "unbounded". Length bounds apply to strings
// (rune count), arrays and byte slices.
type Bounds struct {
	Min          *float64
	Max          *float64
	ExclusiveMin *float64
	ExclusiveMax *float64

	BigMin          *big.Int
	BigMax          *big.Int
	BigExclusiveMin *big.Int
	BigExclusiveMax *big.Int

	MinLen *int
	MaxLen *int
	Len    *int

	Patterns []*regexp.Regexp
}

// Empty reports whether no bound is set.
func (b Bounds) Empty() bool {
	return b.Min == nil && b.Max == nil && b.ExclusiveMin == nil && b.ExclusiveMax == nil &&
		b.BigMin == nil && b.BigMax == nil && b.BigExclusiveMin == nil && b.BigExclusiveMax == nil &&
		b.MinLen == nil && b.MaxLen == nil && b.Len == nil && len(b.Patterns) == 0
}

// RefineFunc reports whether an already type-checked value is acceptable.
type RefineFunc func(v any) bool

// TransformFunc maps a valid value to its output representation.
type TransformFunc func(v any) (any, error)

type refinement struct {
	message string
	fn      RefineFunc
}

// Schema is an immutable validator definition.
type Schema struct {
	kind    Kind
	bounds  Bounds
	integer bool
	format  Format

	values  []string  // enum
	elem    *Schema   // array, record
	items   []*Schema // tuple
	shape   *Shape    // object
	options []*Schema // union

	nullable bool
	optional bool
	coerce   bool

	// ref names a shared recursive definition (e.g. "json").
	ref string

	refines    []refinement
	transforms []TransformFunc
}

func newSchema(k Kind) *Schema {
	return &Schema{kind: k}
}

func (s *Schema) clone() *Schema {
	c := *s
	c.values = slices.Clone(s.values)
	c.items = slices.Clone(s.items)
	c.options = slices.Clone(s.options)
	c.refines = slices.Clone(s.refines)
	c.transforms = slices.Clone(s.transforms)
	c.bounds.Patterns = slices.Clone(s.bounds.Patterns)
	return &c
}

// -----------------------------------------------------------------------------
// Constructors
// -----------------------------------------------------------------------------

// String accepts Go strings.
func String() *Schema { return newSchema(KindString) }

// Number accepts any Go integer or float value and yields a float64.
func Number() *Schema { return newSchema(KindNumber) }

// BigInt accepts *big.Int and Go integer values and yields a *big.Int.
func BigInt() *Schema { return newSchema(KindBigInt) }

// Boolean accepts Go bools.
func Boolean() *Schema { return newSchema(KindBoolean) }

// Date accepts time.Time values.
func Date() *Schema { return newSchema(KindDate) }

// Bytes accepts []byte values.
func Bytes() *Schema { return newSchema(KindBytes) }

// Null accepts only nil.
func Null() *Schema { return newSchema(KindNull) }

// Unknown accepts any value, including nil.
func Unknown() *Schema { return newSchema(KindUnknown) }

// Enum accepts one of the given string literals.
func Enum(values ...string) *Schema {
	s := newSchema(KindEnum)
	s.values = slices.Clone(values)
	return s
}

// Array accepts slices whose elements all satisfy elem.
func Array(elem *Schema) *Schema {
	s := newSchema(KindArray)
	s.elem = elem
	return s
}

// Tuple accepts slices of exactly len(items) elements, each checked
// against the schema at the same position.
func Tuple(items ...*Schema) *Schema {
	s := newSchema(KindTuple)
	s.items = slices.Clone(items)
	return s
}

// Object accepts map[string]any values shaped by shape. Keys not in the
// shape are dropped from the output.
func Object(shape *Shape) *Schema {
	s := newSchema(KindObject)
	if shape == nil {
		shape = NewShape()
	}
	s.shape = shape.Clone()
	return s
}

// Record accepts string-keyed maps whose values all satisfy elem.
func Record(elem *Schema) *Schema {
	s := newSchema(KindRecord)
	s.elem = elem
	return s
}

// Union accepts a value matching any of the options, tried in order.
func Union(options ...*Schema) *Schema {
	s := newSchema(KindUnion)
	s.options = slices.Clone(options)
	return s
}

// -----------------------------------------------------------------------------
// Accessors
// -----------------------------------------------------------------------------

// Kind returns the base kind.
func (s *Schema) Kind() Kind { return s.kind }

// Bounds returns a copy of the schema's constraints.
func (s *Schema) Bounds() Bounds {
	b := s.bounds
	b.Patterns = slices.Clone(s.bounds.Patterns)
	return b
}

// IsInt reports whether a number schema only accepts integral values.
func (s *Schema) IsInt() bool { return s.integer }

// Format returns the string format, if any.
func (s *Schema) Format() Format { return s.format }

// Values returns the enum members.
func (s *Schema) Values() []string { return slices.Clone(s.values) }

// Elem returns the element schema of an array or record.
func (s *Schema) Elem() *Schema { return s.elem }

// Items returns the positional schemas of a tuple.
func (s *Schema) Items() []*Schema { return slices.Clone(s.items) }

// Shape returns a copy of an object's fields, or nil for other kinds.
func (s *Schema) Shape() *Shape {
	if s.shape == nil {
		return nil
	}
	return s.shape.Clone()
}

// Options returns the alternatives of a union.
func (s *Schema) Options() []*Schema { return slices.Clone(s.options) }

// IsNullable reports whether nil is accepted.
func (s *Schema) IsNullable() bool { return s.nullable }

// IsOptional reports whether the key may be absent from an enclosing object.
func (s *Schema) IsOptional() bool { return s.optional }

// IsCoerced reports whether input is converted to the canonical type
// before checks run.
func (s *Schema) IsCoerced() bool { return s.coerce }

// Ref returns the name of the shared definition this schema stands for.
func (s *Schema) Ref() string { return s.ref }

// HasRefinements reports whether user refine or transform steps are attached.
func (s *Schema) HasRefinements() bool {
	return len(s.refines) > 0 || len(s.transforms) > 0
}

// -----------------------------------------------------------------------------
// Wrappers
// -----------------------------------------------------------------------------

// Nullable returns a copy that also accepts nil.
func (s *Schema) Nullable() *Schema {
	c := s.clone()
	c.nullable = true
	return c
}

// Optional returns a copy whose key may be missing from an enclosing object.
func (s *Schema) Optional() *Schema {
	c := s.clone()
	c.optional = true
	return c
}

// Coerce returns a copy that converts loosely-typed input to the canonical
// type of its kind before bounds are checked. It only affects string,
// number, bigint, boolean and date schemas.
func (s *Schema) Coerce() *Schema {
	c := s.clone()
	c.coerce = true
	return c
}

// Unwrap returns a copy with the nullable and optional wrappers removed.
func (s *Schema) Unwrap() *Schema {
	c := s.clone()
	c.nullable = false
	c.optional = false
	return c
}

// WithElem returns a copy of an array or record schema with a different
// element schema and the same bounds.
func (s *Schema) WithElem(elem *Schema) *Schema {
	c := s.clone()
	c.elem = elem
	return c
}

// Refine attaches a custom check. It runs only after all built-in checks
// for the value pass; message is reported when fn returns false.
func (s *Schema) Refine(message string, fn RefineFunc) *Schema {
	c := s.clone()
	c.refines = append(c.refines, refinement{message: message, fn: fn})
	return c
}

// Transform attaches an output mapping applied after every check passes.
func (s *Schema) Transform(fn TransformFunc) *Schema {
	c := s.clone()
	c.transforms = append(c.transforms, fn)
	return c
}
