// Package dialect holds the per-dialect column type vocabulary.
// Each dialect owns a closed set of canonical kind tags, the aliases that
// resolve to them, and its identifier quoting and placeholder rules.
package dialect

import (
	"slices"

	"github.com/hlop3z/sqlzod/pkg/meta"
)

// Dialect defines the type vocabulary of one SQL dialect.
type Dialect interface {
	// Name returns the dialect identifier.
	Name() meta.Dialect

	// -------------------------------------------------------------------------
	// Kind vocabulary
	// -------------------------------------------------------------------------

	// Kinds returns the closed set of canonical kind tags, sorted.
	Kinds() []string

	// Known reports whether kind is one of Kinds.
	Known(kind string) bool

	// Canonical resolves a lowercased type name (without arguments) to its
	// canonical kind and implied mode. Unrecognized names are returned
	// unchanged with an empty mode.
	Canonical(typeName string) (kind, mode string)

	// -------------------------------------------------------------------------
	// SQL formatting
	// -------------------------------------------------------------------------

	// QuoteIdent quotes an identifier for this dialect.
	QuoteIdent(name string) string
}

// Get returns the dialect implementation for the given name or alias.
// Returns nil if the dialect is not supported.
func Get(name string) Dialect {
	d, err := meta.ParseDialect(name)
	if err != nil {
		return nil
	}
	return For(d)
}

// For returns the implementation of a parsed dialect.
func For(d meta.Dialect) Dialect {
	switch d {
	case meta.Postgres:
		return Postgres()
	case meta.Cockroach:
		return Cockroach()
	case meta.MySQL:
		return MySQL()
	case meta.SingleStore:
		return SingleStore()
	case meta.SQLite:
		return SQLite()
	case meta.MSSQL:
		return MSSQL()
	default:
		return nil
	}
}

// Names returns the list of supported dialect names.
func Names() []string {
	out := make([]string, 0, 6)
	for _, d := range meta.Dialects() {
		out = append(out, string(d))
	}
	return out
}

// All returns every dialect implementation.
func All() []Dialect {
	out := make([]Dialect, 0, 6)
	for _, d := range meta.Dialects() {
		out = append(out, For(d))
	}
	return out
}

// IsArray reports whether a kind tag denotes an array column in any dialect.
func IsArray(kind string) bool {
	return kind == KindArray
}

// KindArray and KindEnum are shared by every dialect that supports them.
const (
	KindArray  = "array"
	KindEnum   = "enum"
	KindCustom = "custom"
)

func sortedKinds(kinds []string) []string {
	out := slices.Clone(kinds)
	slices.Sort(out)
	return slices.Compact(out)
}
