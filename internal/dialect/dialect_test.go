package dialect

import (
	"slices"
	"testing"

	"github.com/hlop3z/sqlzod/pkg/meta"
)

func TestGet(t *testing.T) {
	tests := []struct {
		name string
		want meta.Dialect
	}{
		{"postgres", meta.Postgres},
		{"postgresql", meta.Postgres},
		{"cockroachdb", meta.Cockroach},
		{"mariadb", meta.MySQL},
		{"singlestore", meta.SingleStore},
		{"sqlite3", meta.SQLite},
		{"sqlserver", meta.MSSQL},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Get(tt.name)
			if d == nil {
				t.Fatalf("Get(%q) returned nil", tt.name)
			}
			if d.Name() != tt.want {
				t.Errorf("Name() = %q, want %q", d.Name(), tt.want)
			}
		})
	}
	if Get("oracle") != nil {
		t.Error("Get(oracle) should return nil")
	}
}

func TestKindsAreClosedAndSorted(t *testing.T) {
	for _, d := range All() {
		t.Run(string(d.Name()), func(t *testing.T) {
			kinds := d.Kinds()
			if !slices.IsSorted(kinds) {
				t.Errorf("kinds not sorted: %v", kinds)
			}
			if !slices.Contains(kinds, KindCustom) {
				t.Error("every dialect should have a custom kind")
			}
			for _, k := range kinds {
				if !d.Known(k) {
					t.Errorf("Known(%q) = false", k)
				}
			}
			if d.Known("definitely_not_a_type") {
				t.Error("unknown kind reported as known")
			}
		})
	}
}

func TestQuoteIdent(t *testing.T) {
	tests := []struct {
		d    Dialect
		want string
	}{
		{Postgres(), `"a""b"`},
		{SQLite(), `"a""b"`},
		{MySQL(), "`a\"b`"},
		{MSSQL(), `[a"b]`},
	}
	for _, tt := range tests {
		if got := tt.d.QuoteIdent(`a"b`); got != tt.want {
			t.Errorf("%s QuoteIdent = %s, want %s", tt.d.Name(), got, tt.want)
		}
	}
}

// -----------------------------------------------------------------------------
// ParseType
// -----------------------------------------------------------------------------

func TestParseType_Scalars(t *testing.T) {
	tests := []struct {
		d        Dialect
		decl     string
		kind     string
		mode     string
		length   int
		unsigned bool
	}{
		{Postgres(), "character varying(255)", "varchar", "", 255, false},
		{Postgres(), "int4", "integer", "", 0, false},
		{Postgres(), "timestamp(3) with time zone", "timestamp", "", 0, false},
		{Postgres(), "double precision", "double", "", 0, false},
		{Postgres(), "bit(8)", "bit", "", 8, false},
		{Cockroach(), "INT", "bigint", "", 0, false},
		{MySQL(), "int(11) unsigned", "int", "", 0, true},
		{MySQL(), "BIGINT UNSIGNED ZEROFILL", "bigint", "", 0, true},
		{MySQL(), "varchar(64)", "varchar", "", 64, false},
		{SQLite(), "BOOLEAN", "integer", meta.ModeBoolean, 0, false},
		{SQLite(), "VARCHAR(20)", "text", "", 20, false},
		{MSSQL(), "nvarchar(max)", "nvarchar", "", 0, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.d.Name())+"/"+tt.decl, func(t *testing.T) {
			col, err := ParseType(tt.d, tt.decl)
			if err != nil {
				t.Fatalf("ParseType: %v", err)
			}
			if col.Kind != tt.kind {
				t.Errorf("Kind = %q, want %q", col.Kind, tt.kind)
			}
			if col.Mode != tt.mode {
				t.Errorf("Mode = %q, want %q", col.Mode, tt.mode)
			}
			if tt.length > 0 && (col.Length == nil || *col.Length != tt.length) {
				t.Errorf("Length = %v, want %d", col.Length, tt.length)
			}
			if tt.length == 0 && col.Length != nil {
				t.Errorf("Length = %d, want none", *col.Length)
			}
			if col.Unsigned != tt.unsigned {
				t.Errorf("Unsigned = %v, want %v", col.Unsigned, tt.unsigned)
			}
		})
	}
}

func TestParseType_Enum(t *testing.T) {
	col, err := ParseType(MySQL(), "enum('Small','it''s', 'a,b')")
	if err != nil {
		t.Fatalf("ParseType: %v", err)
	}
	want := []string{"Small", "it's", "a,b"}
	if !slices.Equal(col.EnumValues, want) {
		t.Errorf("EnumValues = %q, want %q", col.EnumValues, want)
	}
}

func TestParseType_Numeric(t *testing.T) {
	col, err := ParseType(Postgres(), "numeric(10, 2)")
	if err != nil {
		t.Fatalf("ParseType: %v", err)
	}
	if col.Precision == nil || *col.Precision != 10 || col.Scale == nil || *col.Scale != 2 {
		t.Errorf("precision/scale = %v/%v, want 10/2", col.Precision, col.Scale)
	}

	vec, err := ParseType(Postgres(), "vector(3)")
	if err != nil {
		t.Fatalf("ParseType: %v", err)
	}
	if vec.Dimensions == nil || *vec.Dimensions != 3 {
		t.Errorf("Dimensions = %v, want 3", vec.Dimensions)
	}
}

func TestParseType_Arrays(t *testing.T) {
	col, err := ParseType(Postgres(), "varchar(10)[2][]")
	if err != nil {
		t.Fatalf("ParseType: %v", err)
	}
	if col.Kind != KindArray || col.Size == nil || *col.Size != 2 {
		t.Fatalf("outer = %+v, want array of size 2", col)
	}
	inner := col.Element
	if inner.Kind != KindArray || inner.Size != nil {
		t.Fatalf("inner = %+v, want unsized array", inner)
	}
	if inner.Element.Kind != "varchar" || *inner.Element.Length != 10 {
		t.Errorf("element = %+v, want varchar(10)", inner.Element)
	}

	std, err := ParseType(Postgres(), "integer ARRAY")
	if err != nil {
		t.Fatalf("ParseType: %v", err)
	}
	if std.Kind != KindArray || std.Element.Kind != "integer" {
		t.Errorf("integer ARRAY = %+v", std)
	}
}

func TestParseType_Errors(t *testing.T) {
	for _, decl := range []string{"", "varchar(10", "int[x]", "varchar(abc)"} {
		if _, err := ParseType(Postgres(), decl); err == nil {
			t.Errorf("ParseType(%q) expected error", decl)
		}
	}
}

func TestFormatType_RoundTrip(t *testing.T) {
	decls := []string{
		"varchar(10)[2][]",
		"numeric(10, 2)",
		"enum('a', 'b')",
		"int unsigned",
		"vector(3)",
		"text",
	}
	for _, decl := range decls {
		t.Run(decl, func(t *testing.T) {
			d := MySQL()
			if decl == "varchar(10)[2][]" || decl == "vector(3)" || decl == "numeric(10, 2)" || decl == "text" {
				d = Postgres()
			}
			col, err := ParseType(d, decl)
			if err != nil {
				t.Fatalf("ParseType: %v", err)
			}
			if got := FormatType(col); got != decl {
				t.Errorf("FormatType = %q, want %q", got, decl)
			}
		})
	}
}
