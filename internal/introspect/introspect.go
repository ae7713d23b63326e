// Package introspect reads schema metadata from a live database into a
// meta.Catalog. It queries system catalogs for tables, columns, check
// constraints, enum types and domains, so a catalog read from a database
// derives the same validators as one written by hand in YAML.
//
// Views are not introspected: catalogs do not record which base column
// each view output comes from.
package introspect

import (
	"context"
	"database/sql"
	"path"
	"strings"

	"github.com/hlop3z/sqlzod/internal/alerr"
	"github.com/hlop3z/sqlzod/internal/dialect"
	"github.com/hlop3z/sqlzod/pkg/meta"
)

// Introspector queries database catalogs to discover schema information.
type Introspector interface {
	// Introspect returns every table, enum type and domain visible in the
	// target schema, in name order.
	Introspect(ctx context.Context) (*meta.Catalog, error)

	// IntrospectTable returns a single table, or nil if not found.
	IntrospectTable(ctx context.Context, tableName string) (*meta.Table, error)

	// TableExists checks if a table exists in the database.
	TableExists(ctx context.Context, tableName string) (bool, error)
}

// Options narrows what an introspector reads.
type Options struct {
	// Schema is the Postgres schema or MySQL database to read. Empty means
	// the connection's current one. SQLite ignores it.
	Schema string

	// Exclude lists table name patterns (path.Match syntax) to skip.
	Exclude []string
}

// excluded reports whether a table matches one of the exclude patterns.
func (o Options) excluded(table string) bool {
	for _, pattern := range o.Exclude {
		if ok, _ := path.Match(pattern, table); ok {
			return true
		}
	}
	return internalTables[strings.ToLower(table)]
}

// New creates an Introspector for the given dialect.
func New(db *sql.DB, d meta.Dialect, opts Options) (Introspector, error) {
	switch d {
	case meta.Postgres, meta.Cockroach:
		return &postgresIntrospector{db: db, dialect: dialect.For(d), opts: opts}, nil
	case meta.MySQL, meta.SingleStore:
		return &mysqlIntrospector{db: db, dialect: dialect.For(d), opts: opts}, nil
	case meta.SQLite:
		return &sqliteIntrospector{db: db, dialect: dialect.For(d), opts: opts}, nil
	default:
		return nil, alerr.NewUnknownDialectError(string(d), []string{
			string(meta.Postgres), string(meta.Cockroach), string(meta.MySQL),
			string(meta.SingleStore), string(meta.SQLite),
		}).WithNote("live introspection supports postgres, mysql and sqlite families")
	}
}

// internalTables lists bookkeeping tables of common migration tools.
var internalTables = map[string]bool{
	"schema_migrations":      true,
	"goose_db_version":       true,
	"atlas_schema_revisions": true,
	"alab_migrations":        true,
	"__drizzle_migrations":   true,
}
