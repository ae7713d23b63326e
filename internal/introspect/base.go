package introspect

import (
	"context"
	"database/sql"
	"slices"
	"strings"

	"github.com/hlop3z/sqlzod/internal/alerr"
	"github.com/hlop3z/sqlzod/internal/checkexpr"
	"github.com/hlop3z/sqlzod/internal/dialect"
	"github.com/hlop3z/sqlzod/pkg/meta"
)

// backend is the per-dialect catalog reader behind every Introspector.
type backend interface {
	listTables(ctx context.Context) ([]string, error)
	listTypes(ctx context.Context) ([]*meta.Enum, []*meta.Domain, error)
	introspectTable(ctx context.Context, tableName string, types *typeSet) (*meta.Table, error)
}

// introspectCommon is the shared implementation of Introspect. Types are
// read first so columns can resolve enum and domain names.
func introspectCommon(ctx context.Context, d meta.Dialect, opts Options, b backend) (*meta.Catalog, error) {
	enums, domains, err := b.listTypes(ctx)
	if err != nil {
		return nil, err
	}
	types := newTypeSet(enums, domains)
	cat := &meta.Catalog{Dialect: d, Enums: enums, Domains: domains}

	tables, err := b.listTables(ctx)
	if err != nil {
		return nil, err
	}
	for _, name := range tables {
		if opts.excluded(name) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t, err := b.introspectTable(ctx, name, types)
		if err != nil {
			return nil, err
		}
		if t != nil {
			cat.Tables = append(cat.Tables, t)
		}
	}
	return cat, nil
}

// introspectTableCommon is the shared implementation of IntrospectTable.
func introspectTableCommon(ctx context.Context, b backend, tableName string) (*meta.Table, error) {
	enums, domains, err := b.listTypes(ctx)
	if err != nil {
		return nil, err
	}
	return b.introspectTable(ctx, tableName, newTypeSet(enums, domains))
}

// rawColumn represents column metadata as a system catalog reports it.
type rawColumn struct {
	Name          string
	DataType      string // declared type, e.g. "character varying(20)[]"
	NotNull       bool
	Default       sql.NullString // raw default expression
	PrimaryKey    bool
	AutoIncrement bool
	Identity      meta.Identity
	Generated     sql.NullString // generation expression
}

// rawCheck is a CHECK constraint with the columns it references, when the
// catalog records them.
type rawCheck struct {
	Name    string
	Expr    string
	Columns []string
}

// typeSet resolves enum and domain type names used by columns.
type typeSet struct {
	enums   map[string]*meta.Enum
	domains map[string]*meta.Domain
}

func newTypeSet(enums []*meta.Enum, domains []*meta.Domain) *typeSet {
	ts := &typeSet{
		enums:   make(map[string]*meta.Enum, len(enums)),
		domains: make(map[string]*meta.Domain, len(domains)),
	}
	for _, e := range enums {
		ts.enums[strings.ToLower(e.QualifiedName())] = e
		ts.enums[strings.ToLower(e.Name)] = e
	}
	for _, dom := range domains {
		ts.domains[strings.ToLower(dom.Name)] = dom
	}
	return ts
}

func lookup[T any](m map[string]T, kind string) (T, bool) {
	if v, ok := m[kind]; ok {
		return v, true
	}
	if i := strings.LastIndexByte(kind, '.'); i >= 0 {
		v, ok := m[kind[i+1:]]
		return v, ok
	}
	var zero T
	return zero, false
}

// column converts catalog metadata into a meta column.
func (ts *typeSet) column(d dialect.Dialect, table string, raw rawColumn) (*meta.Column, error) {
	col, err := dialect.ParseType(d, raw.DataType)
	if err != nil {
		return nil, alerr.Wrap(alerr.ErrIntrospection, err, "cannot parse column type").
			WithTable("", table).
			WithColumn(raw.Name).
			With("type", raw.DataType)
	}

	inner := innermost(col)
	if dom, ok := lookup(ts.domains, inner.Kind); ok {
		base, err := dialect.ParseType(d, dom.BaseType)
		if err != nil {
			return nil, alerr.Wrap(alerr.ErrIntrospection, err, "cannot parse domain base type").
				WithTable("", table).
				WithColumn(raw.Name).
				With("domain", dom.Name)
		}
		*inner = *base
		inner.Domain = dom
		inner = innermost(inner)
	}
	if e, ok := lookup(ts.enums, inner.Kind); ok {
		inner.Kind = dialect.KindEnum
		inner.EnumValues = slices.Clone(e.Values)
	}

	col.Name = raw.Name
	col.SQLType = raw.DataType
	col.NotNull = raw.NotNull || raw.PrimaryKey
	col.PrimaryKey = raw.PrimaryKey
	col.AutoIncrement = raw.AutoIncrement
	col.Identity = raw.Identity
	if raw.Generated.Valid && raw.Generated.String != "" {
		col.GeneratedAlways = true
		col.GeneratedExpr = raw.Generated.String
	} else if raw.Default.Valid {
		col.HasDefault = true
		col.Default = raw.Default.String
	}
	return col, nil
}

// innermost returns the element column at the bottom of an array chain.
func innermost(col *meta.Column) *meta.Column {
	for col.Kind == dialect.KindArray && col.Element != nil {
		col = col.Element
	}
	return col
}

// assignChecks attaches single-column checks to their column and keeps the
// rest at table level.
func assignChecks(t *meta.Table, checks []rawCheck) {
	for _, c := range checks {
		expr := checkexpr.Body(c.Expr)
		if expr == "" {
			continue
		}
		if len(c.Columns) == 1 {
			if col, ok := t.Column(c.Columns[0]); ok {
				col.Checks = append(col.Checks, expr)
				continue
			}
		}
		t.Checks = append(t.Checks, meta.Check{Name: c.Name, Expr: expr})
	}
}

// collectStrings drains a single-column result set.
func collectStrings(rows *sql.Rows, op, table string) ([]string, error) {
	defer rows.Close()
	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, alerr.WrapSQL(err, op, table)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, alerr.WrapSQL(err, op, table)
	}
	return out, nil
}

// tableExistsCommon is the shared implementation of TableExists.
func tableExistsCommon(ctx context.Context, db *sql.DB, query string, args ...any) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx, query, args...).Scan(&exists)
	if err != nil {
		return false, alerr.WrapSQL(err, "check table existence", "")
	}
	return exists, nil
}

// enumAccumulator merges enum labels returned row by row into enums,
// preserving first-seen order.
type enumAccumulator struct {
	schema string
	enums  map[string]*meta.Enum
	order  []string
}

func newEnumAccumulator(schema string) *enumAccumulator {
	return &enumAccumulator{schema: schema, enums: make(map[string]*meta.Enum)}
}

func (a *enumAccumulator) Add(name, value string) {
	e, ok := a.enums[name]
	if !ok {
		e = &meta.Enum{Schema: a.schema, Name: name}
		a.enums[name] = e
		a.order = append(a.order, name)
	}
	e.Values = append(e.Values, value)
}

func (a *enumAccumulator) Values() []*meta.Enum {
	out := make([]*meta.Enum, 0, len(a.order))
	for _, name := range a.order {
		out = append(out, a.enums[name])
	}
	return out
}
