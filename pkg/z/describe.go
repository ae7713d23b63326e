package z

import (
	"strconv"
	"strings"
)

// String renders the schema as a builder chain, e.g.
// "coerce.number().int().min(0).max(255).nullable()". The output is stable
// for equal schemas and is used for diffs and fingerprints.
func (s *Schema) String() string {
	var sb strings.Builder
	s.describe(&sb)
	return sb.String()
}

func (s *Schema) describe(sb *strings.Builder) {
	if s.ref != "" {
		sb.WriteString(s.ref)
	} else {
		if s.coerce && coercible(s.kind) {
			sb.WriteString("coerce.")
		}
		s.describeBase(sb)
		s.describeChecks(sb)
	}
	if n := len(s.refines); n > 0 {
		sb.WriteString(".refine(")
		sb.WriteString(strconv.Itoa(n))
		sb.WriteString(")")
	}
	if n := len(s.transforms); n > 0 {
		sb.WriteString(".transform(")
		sb.WriteString(strconv.Itoa(n))
		sb.WriteString(")")
	}
	if s.nullable {
		sb.WriteString(".nullable()")
	}
	if s.optional {
		sb.WriteString(".optional()")
	}
}

func coercible(k Kind) bool {
	switch k {
	case KindString, KindNumber, KindBigInt, KindBoolean, KindDate:
		return true
	}
	return false
}

func (s *Schema) describeBase(sb *strings.Builder) {
	switch s.kind {
	case KindEnum:
		sb.WriteString("enum([")
		for i, v := range s.values {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(strconv.Quote(v))
		}
		sb.WriteString("])")
	case KindArray, KindRecord:
		sb.WriteString(s.kind.String())
		sb.WriteString("(")
		s.elem.describe(sb)
		sb.WriteString(")")
	case KindTuple:
		sb.WriteString("tuple([")
		for i, item := range s.items {
			if i > 0 {
				sb.WriteString(", ")
			}
			item.describe(sb)
		}
		sb.WriteString("])")
	case KindUnion:
		sb.WriteString("union([")
		for i, opt := range s.options {
			if i > 0 {
				sb.WriteString(", ")
			}
			opt.describe(sb)
		}
		sb.WriteString("])")
	case KindObject:
		sb.WriteString("object({")
		i := 0
		for key, field := range s.shape.All() {
			if i > 0 {
				sb.WriteString(",")
			}
			sb.WriteString(" ")
			sb.WriteString(key)
			sb.WriteString(": ")
			field.describe(sb)
			i++
		}
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString("})")
	default:
		sb.WriteString(s.kind.String())
		sb.WriteString("()")
	}
}

func (s *Schema) describeChecks(sb *strings.Builder) {
	call := func(name, arg string) {
		sb.WriteString(".")
		sb.WriteString(name)
		sb.WriteString("(")
		sb.WriteString(arg)
		sb.WriteString(")")
	}
	b := s.bounds
	if s.integer {
		call("int", "")
	}
	if s.format == FormatUUID {
		call("uuid", "")
	}
	if b.Min != nil {
		call("min", formatFloat(*b.Min))
	}
	if b.ExclusiveMin != nil {
		call("gt", formatFloat(*b.ExclusiveMin))
	}
	if b.Max != nil {
		call("max", formatFloat(*b.Max))
	}
	if b.ExclusiveMax != nil {
		call("lt", formatFloat(*b.ExclusiveMax))
	}
	if b.BigMin != nil {
		call("min", b.BigMin.String()+"n")
	}
	if b.BigExclusiveMin != nil {
		call("gt", b.BigExclusiveMin.String()+"n")
	}
	if b.BigMax != nil {
		call("max", b.BigMax.String()+"n")
	}
	if b.BigExclusiveMax != nil {
		call("lt", b.BigExclusiveMax.String()+"n")
	}
	if b.Len != nil {
		call("length", strconv.Itoa(*b.Len))
	}
	if b.MinLen != nil {
		call("min", strconv.Itoa(*b.MinLen))
	}
	if b.MaxLen != nil {
		call("max", strconv.Itoa(*b.MaxLen))
	}
	for _, re := range b.Patterns {
		call("regex", "/"+re.String()+"/")
	}
}
