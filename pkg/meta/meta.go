// Package meta describes relational schema entities as sqlzod reads them:
// tables with ordered columns, standalone enums, reusable domains, and views
// whose output is a tree of projection nodes.
//
// Values in this package are plain data. They are produced by the YAML
// loader or the live introspectors and are never mutated by derivation.
package meta

import (
	"fmt"
	"strings"
)

// Dialect names a SQL dialect family.
type Dialect string

const (
	Postgres    Dialect = "postgres"
	Cockroach   Dialect = "cockroach"
	MySQL       Dialect = "mysql"
	SingleStore Dialect = "singlestore"
	SQLite      Dialect = "sqlite"
	MSSQL       Dialect = "mssql"
)

// Dialects lists every supported dialect in a stable order.
func Dialects() []Dialect {
	return []Dialect{Postgres, Cockroach, MySQL, SingleStore, SQLite, MSSQL}
}

// ParseDialect resolves a dialect name or common alias.
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "postgres", "postgresql", "pg":
		return Postgres, nil
	case "cockroach", "cockroachdb", "crdb":
		return Cockroach, nil
	case "mysql", "mariadb":
		return MySQL, nil
	case "singlestore", "memsql":
		return SingleStore, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	case "mssql", "sqlserver":
		return MSSQL, nil
	}
	return "", fmt.Errorf("unsupported dialect %q", name)
}

// Identity describes an identity generator on a column.
type Identity int

const (
	IdentityNone Identity = iota
	// IdentityAlways is GENERATED ALWAYS AS IDENTITY.
	IdentityAlways
	// IdentityByDefault is GENERATED BY DEFAULT AS IDENTITY.
	IdentityByDefault
)

// String returns the YAML spelling of the identity kind.
func (i Identity) String() string {
	switch i {
	case IdentityAlways:
		return "always"
	case IdentityByDefault:
		return "by_default"
	default:
		return ""
	}
}

// Column modes select the representation of kinds that have more than one.
const (
	ModeNumber      = "number"
	ModeBigInt      = "bigint"
	ModeString      = "string"
	ModeTuple       = "tuple"
	ModeXY          = "xy"
	ModeABC         = "abc"
	ModeJSON        = "json"
	ModeBoolean     = "boolean"
	ModeTimestamp   = "timestamp"
	ModeTimestampMs = "timestamp_ms"
	ModeBuffer      = "buffer"
	ModeDate        = "date"
)

// Column is the metadata of one table column.
type Column struct {
	Name string

	// Kind is the canonical dialect-specific type tag, e.g. "varchar",
	// "integer", "enum", "array".
	Kind string

	// SQLType is the declared type as written, kept for display.
	SQLType string

	NotNull    bool
	HasDefault bool
	// Default is the raw default expression when known.
	Default string

	PrimaryKey      bool
	AutoIncrement   bool
	Identity        Identity
	GeneratedAlways bool
	GeneratedExpr   string

	Unsigned bool
	Mode     string

	// Length is the declared length of char/varchar/binary/bit kinds.
	Length    *int
	Precision *int
	Scale     *int
	// Dimensions is the vector dimension count of vector kinds.
	Dimensions *int

	EnumValues []string

	// Element is the element column of an array kind; Size is its declared
	// fixed size for this dimension, if any.
	Element *Column
	Size    *int

	Checks []string
	Domain *Domain
}

// IsGeneratedAlways reports whether the data store always computes the
// value, so callers can never supply it.
func (c *Column) IsGeneratedAlways() bool {
	return c.GeneratedAlways || c.Identity == IdentityAlways
}

// IsNotNull reports whether the column or its domain rejects NULL.
func (c *Column) IsNotNull() bool {
	return c.NotNull || (c.Domain != nil && c.Domain.NotNull)
}

// Defaulted reports whether an insert may omit the column.
func (c *Column) Defaulted() bool {
	if c.HasDefault || c.AutoIncrement || c.Identity != IdentityNone || c.GeneratedAlways {
		return true
	}
	switch c.Kind {
	case "serial", "smallserial", "bigserial":
		return true
	}
	return false
}

// CheckExpressions returns the domain's check expressions followed by the
// column's own.
func (c *Column) CheckExpressions() []string {
	var out []string
	if c.Domain != nil {
		out = append(out, c.Domain.Checks...)
	}
	return append(out, c.Checks...)
}

// Domain is a named reusable column type carrying its own checks.
type Domain struct {
	Name     string
	BaseType string
	NotNull  bool
	Checks   []string
}

// Check is a table-level CHECK constraint.
type Check struct {
	Name string
	Expr string
}

// -----------------------------------------------------------------------------
// Entities
// -----------------------------------------------------------------------------

// EntityKind discriminates the entity types accepted by derivation.
type EntityKind int

const (
	EntityTable EntityKind = iota
	EntityView
	EntityEnum
)

func (k EntityKind) String() string {
	switch k {
	case EntityTable:
		return "table"
	case EntityView:
		return "view"
	case EntityEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// Entity is a Table, View or Enum.
type Entity interface {
	QualifiedName() string
	EntityKind() EntityKind
}

// Table is a base table with columns in declaration order.
type Table struct {
	Schema  string
	Name    string
	Dialect Dialect
	Columns []*Column
	Checks  []Check
}

// QualifiedName returns "schema.name" or just the name.
func (t *Table) QualifiedName() string { return qualify(t.Schema, t.Name) }

func (t *Table) EntityKind() EntityKind { return EntityTable }

// Column returns the named column.
func (t *Table) Column(name string) (*Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Enum is a standalone enum type.
type Enum struct {
	Schema string
	Name   string
	Values []string
}

func (e *Enum) QualifiedName() string { return qualify(e.Schema, e.Name) }

func (e *Enum) EntityKind() EntityKind { return EntityEnum }

// QueryKind records how a view's SQL was produced.
type QueryKind int

const (
	QueryBuilder QueryKind = iota
	QueryRaw
)

func (q QueryKind) String() string {
	if q == QueryRaw {
		return "raw"
	}
	return "builder"
}

// View is a named query whose output fields form a projection tree.
type View struct {
	Schema  string
	Name    string
	Dialect Dialect
	Query   QueryKind
	SQL     string
	Fields  []Field
}

func (v *View) QualifiedName() string { return qualify(v.Schema, v.Name) }

func (v *View) EntityKind() EntityKind { return EntityView }

func qualify(schema, name string) string {
	if schema == "" {
		return name
	}
	return schema + "." + name
}
