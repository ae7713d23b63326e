package fingerprint

import (
	"slices"
	"strings"
	"testing"

	"github.com/hlop3z/sqlzod/pkg/meta"
	"github.com/hlop3z/sqlzod/pkg/sqlzod"
)

func intPtr(n int) *int { return &n }

func usersCatalog() *meta.Catalog {
	return &meta.Catalog{
		Dialect: meta.Postgres,
		Tables: []*meta.Table{
			{
				Name:    "users",
				Dialect: meta.Postgres,
				Columns: []*meta.Column{
					{Name: "id", Kind: "integer", NotNull: true, PrimaryKey: true, AutoIncrement: true},
					{Name: "email", Kind: "varchar", Length: intPtr(120), NotNull: true},
					{Name: "bio", Kind: "text"},
				},
			},
			{
				Name:    "tags",
				Dialect: meta.Postgres,
				Columns: []*meta.Column{
					{Name: "label", Kind: "text", NotNull: true},
				},
			},
		},
		Enums: []*meta.Enum{{Name: "mood", Values: []string{"sad", "ok", "happy"}}},
	}
}

func mustCompute(t *testing.T, cat *meta.Catalog) *CatalogHash {
	t.Helper()
	h, err := Compute(sqlzod.CreateSchemaFactory(sqlzod.Config{}), cat)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	return h
}

// -----------------------------------------------------------------------------
// Compute Tests
// -----------------------------------------------------------------------------

func TestCompute_Empty(t *testing.T) {
	for _, cat := range []*meta.Catalog{nil, {}} {
		h := mustCompute(t, cat)
		if h.Root != emptyHash() {
			t.Errorf("Root = %q, want empty hash", h.Root)
		}
		if len(h.Entities) != 0 {
			t.Errorf("Entities = %d, want 0", len(h.Entities))
		}
	}
}

func TestCompute_Entities(t *testing.T) {
	h := mustCompute(t, usersCatalog())

	if len(h.Entities) != 3 {
		t.Fatalf("Entities = %d, want 3", len(h.Entities))
	}
	users := h.Entities["users"]
	if users == nil {
		t.Fatal("missing users hash")
	}
	if len(users.Modes) != 3 {
		t.Errorf("users modes = %v, want select/insert/update", users.Modes)
	}
	for _, key := range []string{"select.id", "select.email", "update.bio"} {
		if users.Fields[key] == "" {
			t.Errorf("missing field hash %q", key)
		}
	}
	// An autoincrement key is derived for insert too; only the wrapping differs.
	if users.Fields["select.id"] == users.Fields["insert.id"] {
		t.Error("select.id and insert.id should differ")
	}

	mood := h.Entities["mood"]
	if mood == nil || len(mood.Modes) != 1 || len(mood.Fields) != 0 {
		t.Errorf("mood = %+v, want one mode and no fields", mood)
	}
}

func TestCompute_Deterministic(t *testing.T) {
	a := mustCompute(t, usersCatalog())
	b := mustCompute(t, usersCatalog())
	if a.Root != b.Root {
		t.Errorf("roots differ: %s vs %s", a.Root, b.Root)
	}

	reordered := usersCatalog()
	slices.Reverse(reordered.Tables)
	if c := mustCompute(t, reordered); c.Root != a.Root {
		t.Error("table order should not change the root")
	}
}

func TestCompute_ChangesWithValidators(t *testing.T) {
	base := mustCompute(t, usersCatalog())

	tests := []struct {
		name   string
		mutate func(*meta.Catalog)
	}{
		{"length", func(c *meta.Catalog) { c.Tables[0].Columns[1].Length = intPtr(200) }},
		{"nullability", func(c *meta.Catalog) { c.Tables[0].Columns[2].NotNull = true }},
		{"default", func(c *meta.Catalog) { c.Tables[1].Columns[0].HasDefault = true }},
		{"enum value", func(c *meta.Catalog) { c.Enums[0].Values = append(c.Enums[0].Values, "ecstatic") }},
		{"check", func(c *meta.Catalog) { c.Tables[0].Columns[2].Checks = []string{"length(bio) < 50"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat := usersCatalog()
			tt.mutate(cat)
			if got := mustCompute(t, cat); got.Root == base.Root {
				t.Error("root should change")
			}
		})
	}

	t.Run("coerce config", func(t *testing.T) {
		h, err := Compute(sqlzod.CreateSchemaFactory(sqlzod.Config{Coerce: sqlzod.CoerceAll()}), usersCatalog())
		if err != nil {
			t.Fatal(err)
		}
		if h.Root == base.Root {
			t.Error("coercion should change the root")
		}
	})
}

func TestRoot_MatchesCompute(t *testing.T) {
	h := mustCompute(t, usersCatalog())
	root, err := Root(h.Entities)
	if err != nil {
		t.Fatal(err)
	}
	if root != h.Root {
		t.Errorf("Root() = %s, want %s", root, h.Root)
	}
}

// -----------------------------------------------------------------------------
// Compare Tests
// -----------------------------------------------------------------------------

func TestCompare_Match(t *testing.T) {
	a := mustCompute(t, usersCatalog())
	b := mustCompute(t, usersCatalog())
	c := Compare(a, b)
	if !c.Match {
		t.Error("expected match")
	}
	if len(c.Diffs)+len(c.Missing)+len(c.Extra) != 0 {
		t.Errorf("unexpected differences: %+v", c)
	}
}

func TestCompare_Differences(t *testing.T) {
	expected := mustCompute(t, usersCatalog())

	cat := usersCatalog()
	users := cat.Tables[0]
	users.Columns[1].Length = intPtr(60)
	users.Columns = append(users.Columns, &meta.Column{Name: "age", Kind: "integer"})
	cat.Tables = cat.Tables[:1]
	cat.Enums = append(cat.Enums, &meta.Enum{Name: "color", Values: []string{"red"}})
	actual := mustCompute(t, cat)

	c := Compare(expected, actual)
	if c.Match {
		t.Fatal("expected mismatch")
	}
	if !slices.Equal(c.Missing, []string{"tags"}) {
		t.Errorf("Missing = %v, want [tags]", c.Missing)
	}
	if !slices.Equal(c.Extra, []string{"color"}) {
		t.Errorf("Extra = %v, want [color]", c.Extra)
	}
	if got := c.DiffNames(); !slices.Equal(got, []string{"users"}) {
		t.Fatalf("DiffNames() = %v, want [users]", got)
	}

	diff := c.Diffs["users"]
	if !diff.HasDifferences() {
		t.Error("HasDifferences() = false")
	}
	wantModified := []string{"insert.email", "select.email", "update.email"}
	if !slices.Equal(diff.Modified, wantModified) {
		t.Errorf("Modified = %v, want %v", diff.Modified, wantModified)
	}
	wantExtra := []string{"insert.age", "select.age", "update.age"}
	if !slices.Equal(diff.Extra, wantExtra) {
		t.Errorf("Extra = %v, want %v", diff.Extra, wantExtra)
	}
	if !slices.Equal(diff.ModesModified, []string{"insert", "select", "update"}) {
		t.Errorf("ModesModified = %v", diff.ModesModified)
	}
}

// -----------------------------------------------------------------------------
// Message Tests
// -----------------------------------------------------------------------------

func TestFormatComparison(t *testing.T) {
	if got := FormatComparison(nil); !strings.Contains(got, "No fingerprint") {
		t.Errorf("nil comparison = %q", got)
	}

	a := mustCompute(t, usersCatalog())
	if got := FormatComparison(Compare(a, a)); !strings.Contains(got, "match") {
		t.Errorf("match output = %q", got)
	}

	cat := usersCatalog()
	cat.Tables[0].Columns[2].NotNull = true
	got := FormatComparison(Compare(a, mustCompute(t, cat)))
	for _, want := range []string{"drift detected", "users:", "~ select.bio", "sqlzod lock"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestFormatQuickStatus(t *testing.T) {
	hash := strings.Repeat("a", 64)
	if got := FormatQuickStatus(true, hash, hash); got != "OK  aaaaaaaaaaaa" {
		t.Errorf("match = %q", got)
	}
	if got := FormatQuickStatus(false, hash, "bbb"); got != "DRIFT  locked: aaaaaaaaaaaa  current: bbb" {
		t.Errorf("drift = %q", got)
	}
}
