package z

import (
	"encoding/json"
	"math/big"
	"regexp"
	"strings"
	"testing"
	"time"
)

// -----------------------------------------------------------------------------
// Builders
// -----------------------------------------------------------------------------

func TestBuildersDoNotMutate(t *testing.T) {
	base := Number().Min(0)
	tightened := base.Max(10).Nullable()

	if base.Bounds().Max != nil {
		t.Error("Max on a copy should not affect the original")
	}
	if base.IsNullable() {
		t.Error("Nullable on a copy should not affect the original")
	}
	if got := *tightened.Bounds().Max; got != 10 {
		t.Errorf("Max = %v, want 10", got)
	}
}

func TestBoundsOnlyTighten(t *testing.T) {
	s := Number().Min(10).Min(0).Max(5).Max(100)
	b := s.Bounds()
	if *b.Min != 10 {
		t.Errorf("Min = %v, want 10", *b.Min)
	}
	if *b.Max != 5 {
		t.Errorf("Max = %v, want 5", *b.Max)
	}

	l := String().MaxLength(20).MaxLength(50).MinLength(3).MinLength(1)
	if *l.Bounds().MaxLen != 20 || *l.Bounds().MinLen != 3 {
		t.Errorf("length bounds = %d..%d, want 3..20", *l.Bounds().MinLen, *l.Bounds().MaxLen)
	}

	bi := BigInt().BigMax(big.NewInt(7)).BigMax(big.NewInt(9))
	if bi.Bounds().BigMax.Int64() != 7 {
		t.Errorf("BigMax = %s, want 7", bi.Bounds().BigMax)
	}
}

func TestUnwrap(t *testing.T) {
	s := String().Nullable().Optional().Unwrap()
	if s.IsNullable() || s.IsOptional() {
		t.Error("Unwrap should remove nullable and optional")
	}
}

func TestShapeOrder(t *testing.T) {
	sh := NewShape().Set("b", String()).Set("a", Number()).Set("b", Boolean())
	keys := sh.Keys()
	if len(keys) != 2 || keys[0] != "b" || keys[1] != "a" {
		t.Fatalf("keys = %v, want [b a]", keys)
	}
	if s, _ := sh.Get("b"); s.Kind() != KindBoolean {
		t.Errorf("replaced field kind = %s, want boolean", s.Kind())
	}

	c := sh.Clone()
	c.Delete("b")
	if !sh.Has("b") {
		t.Error("Delete on clone should not affect the original")
	}
	if c.Len() != 1 {
		t.Errorf("clone Len = %d, want 1", c.Len())
	}
}

// -----------------------------------------------------------------------------
// Parse
// -----------------------------------------------------------------------------

func TestParseScalars(t *testing.T) {
	tests := []struct {
		name   string
		schema *Schema
		input  any
		ok     bool
	}{
		{"string", String(), "x", true},
		{"string rejects number", String(), 1, false},
		{"string max length", String().MaxLength(3), "abcd", false},
		{"string max length counts runes", String().MaxLength(3), "äöü", true},
		{"string exact length", String().Length(2), "ab", true},
		{"string exact length short", String().Length(2), "a", false},
		{"regex", String().Regex(regexp.MustCompile(`^[01]+$`)), "0101", true},
		{"regex mismatch", String().Regex(regexp.MustCompile(`^[01]+$`)), "012", false},
		{"uuid", String().UUID(), "123e4567-e89b-12d3-a456-426614174000", true},
		{"uuid rejects braces", String().UUID(), "{123e4567-e89b-12d3-a456-426614174000}", false},
		{"number int", Number().Int(), 3, true},
		{"number int rejects fraction", Number().Int(), 3.5, false},
		{"number min", Number().Min(0), -1, false},
		{"number gt", Number().Gt(0), 0, false},
		{"number lt", Number().Lt(10), 9.99, true},
		{"number json", Number(), json.Number("12.5"), true},
		{"bigint", BigInt().BigMax(big.NewInt(10)), int64(10), true},
		{"bigint over max", BigInt().BigMax(big.NewInt(10)), big.NewInt(11), false},
		{"bigint rejects float", BigInt(), 1.5, false},
		{"boolean", Boolean(), true, true},
		{"boolean rejects string", Boolean(), "true", false},
		{"date", Date(), time.Now(), true},
		{"date rejects string", Date(), "2024-01-01", false},
		{"enum", Enum("a", "b"), "b", true},
		{"enum rejects other", Enum("a", "b"), "c", false},
		{"bytes", Bytes(), []byte{1, 2}, true},
		{"null rejects value", Null(), 0, false},
		{"unknown accepts nil", Unknown(), nil, true},
		{"non-nullable rejects nil", String(), nil, false},
		{"nullable accepts nil", String().Nullable(), nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.schema.Parse(tt.input)
			if tt.ok && err != nil {
				t.Errorf("Parse(%v) unexpected error: %v", tt.input, err)
			}
			if !tt.ok && err == nil {
				t.Errorf("Parse(%v) expected error", tt.input)
			}
		})
	}
}

func TestParseObject(t *testing.T) {
	s := Object(NewShape().
		Set("id", Number().Int()).
		Set("name", String().Nullable()).
		Set("bio", String().Nullable().Optional()))

	out, err := s.Parse(map[string]any{"id": 1, "name": nil, "extra": true})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	m := out.(map[string]any)
	if _, ok := m["extra"]; ok {
		t.Error("unknown keys should be stripped")
	}
	if _, ok := m["bio"]; ok {
		t.Error("absent optional key should stay absent")
	}
	if m["id"] != float64(1) {
		t.Errorf("id = %#v, want float64(1)", m["id"])
	}

	_, err = s.Parse(map[string]any{"id": 1})
	issues := IssuesOf(err)
	if len(issues) != 1 {
		t.Fatalf("expected 1 issue, got %v", issues)
	}
	if issues[0].Code != CodeRequired || issues[0].PathString() != "name" {
		t.Errorf("issue = %+v, want required at name", issues[0])
	}
}

func TestParseNestedPath(t *testing.T) {
	s := Object(NewShape().Set("tags", Array(String().MaxLength(2))))
	_, err := s.Parse(map[string]any{"tags": []string{"ok", "too long"}})
	issues := IssuesOf(err)
	if len(issues) != 1 {
		t.Fatalf("expected 1 issue, got %v", issues)
	}
	if got := issues[0].PathString(); got != "tags.1" {
		t.Errorf("path = %q, want tags.1", got)
	}
}

func TestParseArrayAndTuple(t *testing.T) {
	arr := Array(Number()).Length(3)
	if !arr.Valid([]float64{1, 2, 3}) {
		t.Error("array of exact length should pass")
	}
	if arr.Valid([]any{1, 2}) {
		t.Error("short array should fail")
	}

	tup := Tuple(Number(), Number())
	if !tup.Valid([]any{1, 2.5}) {
		t.Error("tuple should pass")
	}
	if tup.Valid([]any{1, 2, 3}) {
		t.Error("long tuple should fail")
	}
	if tup.Valid([]any{1, "2"}) {
		t.Error("tuple with wrong member type should fail")
	}
}

func TestParseJSON(t *testing.T) {
	valid := []any{
		"s", 1.5, true, nil,
		[]any{1, "a", []any{false}},
		map[string]any{"a": map[string]any{"b": []any{nil}}},
	}
	for _, v := range valid {
		if !JSON().Valid(v) {
			t.Errorf("JSON should accept %#v", v)
		}
	}
	if JSON().Valid(time.Now()) {
		t.Error("JSON should reject a time value")
	}
	if a, b := JSON(), JSON(); a != b {
		t.Error("JSON should return a shared definition")
	}
}

func TestRefineAndTransform(t *testing.T) {
	s := String().
		Refine("must be lowercase", func(v any) bool { return strings.ToLower(v.(string)) == v }).
		Transform(func(v any) (any, error) { return len(v.(string)), nil })

	out, err := s.Parse("abc")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if out != 3 {
		t.Errorf("out = %v, want 3", out)
	}

	_, err = s.Parse("ABC")
	issues := IssuesOf(err)
	if len(issues) != 1 || issues[0].Message != "must be lowercase" {
		t.Errorf("issues = %v, want refine message", issues)
	}
}

// -----------------------------------------------------------------------------
// Coercion
// -----------------------------------------------------------------------------

func TestCoerce(t *testing.T) {
	tests := []struct {
		name   string
		schema *Schema
		input  any
		want   any
	}{
		{"number from string", Number().Coerce(), "42", float64(42)},
		{"number from empty string", Number().Coerce(), "", float64(0)},
		{"number from bool", Number().Coerce(), true, float64(1)},
		{"string from number", String().Coerce(), 12, "12"},
		{"boolean from string", Boolean().Coerce(), "false", true},
		{"boolean from zero", Boolean().Coerce(), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.schema.Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}

	d, err := Date().Coerce().Parse("2024-03-01")
	if err != nil {
		t.Fatalf("date coercion: %v", err)
	}
	if d.(time.Time).Month() != time.March {
		t.Errorf("coerced date = %v", d)
	}

	n, err := BigInt().Coerce().Parse("18446744073709551615")
	if err != nil {
		t.Fatalf("bigint coercion: %v", err)
	}
	if n.(*big.Int).String() != "18446744073709551615" {
		t.Errorf("coerced bigint = %v", n)
	}

	if Number().Coerce().Valid("abc") {
		t.Error("non-numeric string should fail after coercion")
	}
	if Number().Coerce().Valid(nil) {
		t.Error("nil should not be coerced")
	}
}

// -----------------------------------------------------------------------------
// Rendering
// -----------------------------------------------------------------------------

func TestString(t *testing.T) {
	tests := []struct {
		schema *Schema
		want   string
	}{
		{Number().Int().Min(0).Max(255), "number().int().min(0).max(255)"},
		{String().MaxLength(10).Nullable().Optional(), "string().max(10).nullable().optional()"},
		{Number().Coerce(), "coerce.number()"},
		{Enum("a", "b"), `enum(["a", "b"])`},
		{Array(Number()).Length(3), "array(number()).length(3)"},
		{JSON().Nullable(), "json.nullable()"},
		{BigInt().BigMin(big.NewInt(0)), "bigint().min(0n)"},
		{Object(NewShape().Set("x", Number()).Set("y", Number())), "object({ x: number(), y: number() })"},
		{String().UUID(), "string().uuid()"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.schema.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestJSONSchema(t *testing.T) {
	s := Object(NewShape().
		Set("id", Number().Int().Min(1)).
		Set("meta", JSON().Optional()))
	doc := s.JSONSchema()

	if _, ok := doc["$defs"].(map[string]any)["json"]; !ok {
		t.Fatal("expected json definition in $defs")
	}
	required := doc["required"].([]any)
	if len(required) != 1 || required[0] != "id" {
		t.Errorf("required = %v, want [id]", required)
	}
	id := doc["properties"].(map[string]any)["id"].(map[string]any)
	if id["type"] != "integer" || id["minimum"] != float64(1) {
		t.Errorf("id schema = %v", id)
	}
	if _, err := json.Marshal(doc); err != nil {
		t.Errorf("document should marshal: %v", err)
	}
}
