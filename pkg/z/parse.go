package z

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"slices"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Parse validates v and returns the parsed output. Numbers come back as
// float64, bigints as *big.Int, arrays and tuples as []any and objects as
// map[string]any with unknown keys removed. A failed parse returns an
// *Error listing every issue found.
func (s *Schema) Parse(v any) (any, error) {
	p := &parser{}
	out, ok := s.parse(v, p)
	if !ok || len(p.issues) > 0 {
		return nil, &Error{Issues: p.issues}
	}
	return out, nil
}

// Valid reports whether v parses without issues.
func (s *Schema) Valid(v any) bool {
	_, err := s.Parse(v)
	return err == nil
}

type parser struct {
	path   []string
	issues []Issue
}

func (p *parser) fail(code, format string, args ...any) {
	p.issues = append(p.issues, Issue{
		Path:    slices.Clone(p.path),
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	})
}

func (p *parser) push(seg string) { p.path = append(p.path, seg) }
func (p *parser) pop()            { p.path = p.path[:len(p.path)-1] }

func (s *Schema) parse(v any, p *parser) (any, bool) {
	if v == nil {
		if s.nullable || s.kind == KindUnknown || s.kind == KindNull {
			return nil, true
		}
		p.fail(CodeInvalidType, "expected %s, received null", s.kind)
		return nil, false
	}
	if s.coerce {
		v = coerce(s.kind, v)
	}

	before := len(p.issues)
	var out any
	switch s.kind {
	case KindUnknown:
		out = v
	case KindString:
		out = s.parseString(v, p)
	case KindNumber:
		out = s.parseNumber(v, p)
	case KindBigInt:
		out = s.parseBigInt(v, p)
	case KindBoolean:
		b, ok := v.(bool)
		if !ok {
			p.fail(CodeInvalidType, "expected boolean, received %s", typeName(v))
		}
		out = b
	case KindDate:
		out = s.parseDate(v, p)
	case KindEnum:
		out = s.parseEnum(v, p)
	case KindArray:
		out = s.parseArray(v, p)
	case KindTuple:
		out = s.parseTuple(v, p)
	case KindObject:
		out = s.parseObject(v, p)
	case KindRecord:
		out = s.parseRecord(v, p)
	case KindUnion:
		out = s.parseUnion(v, p)
	case KindNull:
		p.fail(CodeInvalidType, "expected null, received %s", typeName(v))
	case KindBytes:
		out = s.parseBytes(v, p)
	}
	if len(p.issues) > before {
		return nil, false
	}

	for _, r := range s.refines {
		if !r.fn(out) {
			p.fail(CodeCustom, "%s", r.message)
			return nil, false
		}
	}
	for _, t := range s.transforms {
		next, err := t(out)
		if err != nil {
			p.fail(CodeCustom, "%s", err.Error())
			return nil, false
		}
		out = next
	}
	return out, true
}

// -----------------------------------------------------------------------------
// Scalars
// -----------------------------------------------------------------------------

func (s *Schema) parseString(v any, p *parser) any {
	str, ok := v.(string)
	if !ok {
		p.fail(CodeInvalidType, "expected string, received %s", typeName(v))
		return nil
	}
	s.checkLength(utf8.RuneCountInString(str), "character", p)
	for _, re := range s.bounds.Patterns {
		if !re.MatchString(str) {
			p.fail(CodeInvalidString, "string must match pattern %s", re.String())
		}
	}
	if s.format == FormatUUID {
		if _, err := uuid.Parse(str); err != nil || len(str) != 36 {
			p.fail(CodeInvalidString, "invalid uuid")
		}
	}
	return str
}

func (s *Schema) parseNumber(v any, p *parser) any {
	f, ok := toFloat(v)
	if !ok {
		p.fail(CodeInvalidType, "expected number, received %s", typeName(v))
		return nil
	}
	if math.IsNaN(f) {
		p.fail(CodeInvalidType, "expected number, received NaN")
		return nil
	}
	if s.integer && (math.IsInf(f, 0) || f != math.Trunc(f)) {
		p.fail(CodeNotInteger, "expected integer, received float")
	}
	b := s.bounds
	if b.Min != nil && f < *b.Min {
		p.fail(CodeTooSmall, "number must be greater than or equal to %s", formatFloat(*b.Min))
	}
	if b.ExclusiveMin != nil && f <= *b.ExclusiveMin {
		p.fail(CodeTooSmall, "number must be greater than %s", formatFloat(*b.ExclusiveMin))
	}
	if b.Max != nil && f > *b.Max {
		p.fail(CodeTooBig, "number must be less than or equal to %s", formatFloat(*b.Max))
	}
	if b.ExclusiveMax != nil && f >= *b.ExclusiveMax {
		p.fail(CodeTooBig, "number must be less than %s", formatFloat(*b.ExclusiveMax))
	}
	return f
}

func (s *Schema) parseBigInt(v any, p *parser) any {
	n, ok := toBig(v)
	if !ok {
		p.fail(CodeInvalidType, "expected bigint, received %s", typeName(v))
		return nil
	}
	b := s.bounds
	if b.BigMin != nil && n.Cmp(b.BigMin) < 0 {
		p.fail(CodeTooSmall, "bigint must be greater than or equal to %s", b.BigMin)
	}
	if b.BigExclusiveMin != nil && n.Cmp(b.BigExclusiveMin) <= 0 {
		p.fail(CodeTooSmall, "bigint must be greater than %s", b.BigExclusiveMin)
	}
	if b.BigMax != nil && n.Cmp(b.BigMax) > 0 {
		p.fail(CodeTooBig, "bigint must be less than or equal to %s", b.BigMax)
	}
	if b.BigExclusiveMax != nil && n.Cmp(b.BigExclusiveMax) >= 0 {
		p.fail(CodeTooBig, "bigint must be less than %s", b.BigExclusiveMax)
	}
	return n
}

func (s *Schema) parseDate(v any, p *parser) any {
	switch t := v.(type) {
	case time.Time:
		return t
	case *time.Time:
		if t != nil {
			return *t
		}
	}
	p.fail(CodeInvalidType, "expected date, received %s", typeName(v))
	return nil
}

func (s *Schema) parseEnum(v any, p *parser) any {
	str, ok := v.(string)
	if !ok {
		p.fail(CodeInvalidType, "expected string, received %s", typeName(v))
		return nil
	}
	if !slices.Contains(s.values, str) {
		p.fail(CodeInvalidEnum, "invalid enum value %q, expected one of %v", str, s.values)
		return nil
	}
	return str
}

func (s *Schema) parseBytes(v any, p *parser) any {
	b, ok := v.([]byte)
	if !ok {
		p.fail(CodeInvalidType, "expected bytes, received %s", typeName(v))
		return nil
	}
	s.checkLength(len(b), "byte", p)
	return b
}

func (s *Schema) checkLength(n int, unit string, p *parser) {
	b := s.bounds
	if b.Len != nil && n != *b.Len {
		p.fail(lengthCode(n, *b.Len), "must contain exactly %d %s(s)", *b.Len, unit)
	}
	if b.MinLen != nil && n < *b.MinLen {
		p.fail(CodeTooSmall, "must contain at least %d %s(s)", *b.MinLen, unit)
	}
	if b.MaxLen != nil && n > *b.MaxLen {
		p.fail(CodeTooBig, "must contain at most %d %s(s)", *b.MaxLen, unit)
	}
}

func lengthCode(got, want int) string {
	if got < want {
		return CodeTooSmall
	}
	return CodeTooBig
}

// -----------------------------------------------------------------------------
// Composites
// -----------------------------------------------------------------------------

func (s *Schema) parseArray(v any, p *parser) any {
	items, ok := toSlice(v)
	if !ok {
		p.fail(CodeInvalidType, "expected array, received %s", typeName(v))
		return nil
	}
	s.checkLength(len(items), "element", p)
	out := make([]any, len(items))
	for i, item := range items {
		p.push(strconv.Itoa(i))
		out[i], _ = s.elem.parse(item, p)
		p.pop()
	}
	return out
}

func (s *Schema) parseTuple(v any, p *parser) any {
	items, ok := toSlice(v)
	if !ok {
		p.fail(CodeInvalidType, "expected tuple, received %s", typeName(v))
		return nil
	}
	if len(items) != len(s.items) {
		p.fail(lengthCode(len(items), len(s.items)), "tuple must contain exactly %d element(s)", len(s.items))
		return nil
	}
	out := make([]any, len(items))
	for i, item := range items {
		p.push(strconv.Itoa(i))
		out[i], _ = s.items[i].parse(item, p)
		p.pop()
	}
	return out
}

func (s *Schema) parseObject(v any, p *parser) any {
	m, ok := toMap(v)
	if !ok {
		p.fail(CodeInvalidType, "expected object, received %s", typeName(v))
		return nil
	}
	out := make(map[string]any, s.shape.Len())
	for key, field := range s.shape.All() {
		p.push(key)
		raw, present := m[key]
		switch {
		case !present && field.optional:
		case !present:
			p.fail(CodeRequired, "required")
		default:
			if parsed, ok := field.parse(raw, p); ok {
				out[key] = parsed
			}
		}
		p.pop()
	}
	return out
}

func (s *Schema) parseRecord(v any, p *parser) any {
	m, ok := toMap(v)
	if !ok {
		p.fail(CodeInvalidType, "expected record, received %s", typeName(v))
		return nil
	}
	out := make(map[string]any, len(m))
	for key, raw := range m {
		p.push(key)
		if parsed, ok := s.elem.parse(raw, p); ok {
			out[key] = parsed
		}
		p.pop()
	}
	return out
}

func (s *Schema) parseUnion(v any, p *parser) any {
	for _, opt := range s.options {
		sub := &parser{path: slices.Clone(p.path)}
		if out, ok := opt.parse(v, sub); ok && len(sub.issues) == 0 {
			return out
		}
	}
	p.fail(CodeInvalidUnion, "value does not match any union member")
	return nil
}

// -----------------------------------------------------------------------------
// Conversions
// -----------------------------------------------------------------------------

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func toBig(v any) (*big.Int, bool) {
	switch n := v.(type) {
	case *big.Int:
		if n == nil {
			return nil, false
		}
		return new(big.Int).Set(n), true
	case big.Int:
		return new(big.Int).Set(&n), true
	case int:
		return big.NewInt(int64(n)), true
	case int8:
		return big.NewInt(int64(n)), true
	case int16:
		return big.NewInt(int64(n)), true
	case int32:
		return big.NewInt(int64(n)), true
	case int64:
		return big.NewInt(n), true
	case uint:
		return new(big.Int).SetUint64(uint64(n)), true
	case uint8:
		return big.NewInt(int64(n)), true
	case uint16:
		return big.NewInt(int64(n)), true
	case uint32:
		return big.NewInt(int64(n)), true
	case uint64:
		return new(big.Int).SetUint64(n), true
	case json.Number:
		return new(big.Int).SetString(n.String(), 10)
	}
	return nil, false
}

func toSlice(v any) ([]any, bool) {
	if items, ok := v.([]any); ok {
		return items, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

func toMap(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	m := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		m[iter.Key().String()] = iter.Value().Interface()
	}
	return m, true
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case *big.Int, big.Int:
		return "bigint"
	case time.Time, *time.Time:
		return "date"
	case []byte:
		return "bytes"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	}
	if _, ok := toFloat(v); ok {
		return "number"
	}
	return fmt.Sprintf("%T", v)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
