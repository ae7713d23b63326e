package introspect

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/hlop3z/sqlzod/internal/alerr"
	"github.com/hlop3z/sqlzod/internal/checkexpr"
	"github.com/hlop3z/sqlzod/internal/dialect"
	"github.com/hlop3z/sqlzod/pkg/meta"
)

// postgresIntrospector reads pg_catalog. It serves CockroachDB too, which
// exposes the same catalog tables.
type postgresIntrospector struct {
	db      *sql.DB
	dialect dialect.Dialect
	opts    Options
}

// schemaFilter reads the target schema from $1; an empty value falls back
// to current_schema().
const schemaFilter = `COALESCE(NULLIF($1, ''), current_schema())`

func (p *postgresIntrospector) Introspect(ctx context.Context) (*meta.Catalog, error) {
	return introspectCommon(ctx, p.dialect.Name(), p.opts, p)
}

func (p *postgresIntrospector) IntrospectTable(ctx context.Context, tableName string) (*meta.Table, error) {
	return introspectTableCommon(ctx, p, tableName)
}

func (p *postgresIntrospector) TableExists(ctx context.Context, tableName string) (bool, error) {
	return tableExistsCommon(ctx, p.db, `
		SELECT EXISTS (
			SELECT 1 FROM pg_tables
			WHERE schemaname = `+schemaFilter+` AND tablename = $2
		)
	`, p.opts.Schema, tableName)
}

func (p *postgresIntrospector) listTables(ctx context.Context) ([]string, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT tablename FROM pg_tables
		WHERE schemaname = `+schemaFilter+`
		ORDER BY tablename
	`, p.opts.Schema)
	if err != nil {
		return nil, alerr.WrapSQL(err, "list tables", "")
	}
	return collectStrings(rows, "scan table name", "")
}

func (p *postgresIntrospector) listTypes(ctx context.Context) ([]*meta.Enum, []*meta.Domain, error) {
	enums, err := p.listEnums(ctx)
	if err != nil {
		return nil, nil, err
	}
	domains, err := p.listDomains(ctx)
	if err != nil {
		return nil, nil, err
	}
	return enums, domains, nil
}

func (p *postgresIntrospector) listEnums(ctx context.Context) ([]*meta.Enum, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT t.typname, e.enumlabel
		FROM pg_type t
		JOIN pg_enum e ON e.enumtypid = t.oid
		JOIN pg_namespace n ON n.oid = t.typnamespace
		WHERE n.nspname = `+schemaFilter+`
		ORDER BY t.typname, e.enumsortorder
	`, p.opts.Schema)
	if err != nil {
		return nil, alerr.WrapSQL(err, "list enum types", "")
	}
	defer rows.Close()

	acc := newEnumAccumulator(p.opts.Schema)
	for rows.Next() {
		var name, label string
		if err := rows.Scan(&name, &label); err != nil {
			return nil, alerr.WrapSQL(err, "scan enum label", "")
		}
		acc.Add(name, label)
	}
	if err := rows.Err(); err != nil {
		return nil, alerr.WrapSQL(err, "list enum types", "")
	}
	return acc.Values(), nil
}

func (p *postgresIntrospector) listDomains(ctx context.Context) ([]*meta.Domain, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT
			t.typname,
			format_type(t.typbasetype, t.typtypmod),
			t.typnotnull,
			ARRAY(
				SELECT pg_get_constraintdef(c.oid)
				FROM pg_constraint c
				WHERE c.contypid = t.oid AND c.contype = 'c'
				ORDER BY c.conname
			)
		FROM pg_type t
		JOIN pg_namespace n ON n.oid = t.typnamespace
		WHERE t.typtype = 'd' AND n.nspname = `+schemaFilter+`
		ORDER BY t.typname
	`, p.opts.Schema)
	if err != nil {
		return nil, alerr.WrapSQL(err, "list domains", "")
	}
	defer rows.Close()

	var domains []*meta.Domain
	for rows.Next() {
		var d meta.Domain
		var checks pq.StringArray
		if err := rows.Scan(&d.Name, &d.BaseType, &d.NotNull, &checks); err != nil {
			return nil, alerr.WrapSQL(err, "scan domain", "")
		}
		for _, c := range checks {
			d.Checks = append(d.Checks, checkexpr.Body(c))
		}
		domains = append(domains, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, alerr.WrapSQL(err, "list domains", "")
	}
	return domains, nil
}

func (p *postgresIntrospector) introspectTable(ctx context.Context, tableName string, types *typeSet) (*meta.Table, error) {
	columns, err := p.introspectColumns(ctx, tableName, types)
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, nil // Table doesn't exist
	}
	t := &meta.Table{Schema: p.opts.Schema, Name: tableName, Dialect: p.dialect.Name(), Columns: columns}

	checks, err := p.introspectChecks(ctx, tableName)
	if err != nil {
		return nil, err
	}
	assignChecks(t, checks)
	return t, nil
}

func (p *postgresIntrospector) introspectColumns(ctx context.Context, tableName string, types *typeSet) ([]*meta.Column, error) {
	// attgenerated is 's' for stored generated columns; pg_attrdef then
	// holds the generation expression instead of a default.
	query := `
		SELECT
			a.attname,
			format_type(a.atttypid, a.atttypmod),
			a.attnotnull,
			pg_get_expr(d.adbin, d.adrelid),
			a.attidentity::text,
			a.attgenerated::text,
			EXISTS (
				SELECT 1 FROM pg_index i
				WHERE i.indrelid = c.oid AND i.indisprimary AND a.attnum = ANY(i.indkey)
			) AS is_primary_key
		FROM pg_attribute a
		JOIN pg_class c ON c.oid = a.attrelid
		JOIN pg_namespace n ON n.oid = c.relnamespace
		LEFT JOIN pg_attrdef d ON d.adrelid = a.attrelid AND d.adnum = a.attnum
		WHERE n.nspname = ` + schemaFilter + `
			AND c.relname = $2
			AND a.attnum > 0
			AND NOT a.attisdropped
		ORDER BY a.attnum
	`

	rows, err := p.db.QueryContext(ctx, query, p.opts.Schema, tableName)
	if err != nil {
		return nil, alerr.WrapSQL(err, "introspect columns", tableName).WithSQL(query)
	}
	defer rows.Close()

	var raws []rawColumn
	for rows.Next() {
		var raw rawColumn
		var expr sql.NullString
		var identity, generated string

		err := rows.Scan(&raw.Name, &raw.DataType, &raw.NotNull, &expr, &identity, &generated, &raw.PrimaryKey)
		if err != nil {
			return nil, alerr.WrapSQL(err, "scan column", tableName)
		}
		raw.Identity = postgresIdentity(identity)
		if generated == "s" {
			raw.Generated = expr
		} else {
			raw.Default = expr
		}
		raws = append(raws, raw)
	}
	if err := rows.Err(); err != nil {
		return nil, alerr.WrapSQL(err, "introspect columns", tableName)
	}

	columns := make([]*meta.Column, 0, len(raws))
	for _, raw := range raws {
		col, err := types.column(p.dialect, tableName, raw)
		if err != nil {
			return nil, err
		}
		columns = append(columns, col)
	}
	return columns, nil
}

func (p *postgresIntrospector) introspectChecks(ctx context.Context, tableName string) ([]rawCheck, error) {
	query := `
		SELECT
			con.conname,
			pg_get_constraintdef(con.oid),
			ARRAY(
				SELECT a.attname
				FROM unnest(con.conkey) AS k(attnum)
				JOIN pg_attribute a ON a.attrelid = con.conrelid AND a.attnum = k.attnum
			)
		FROM pg_constraint con
		JOIN pg_class c ON c.oid = con.conrelid
		JOIN pg_namespace n ON n.oid = c.relnamespace
		WHERE con.contype = 'c'
			AND n.nspname = ` + schemaFilter + `
			AND c.relname = $2
		ORDER BY con.conname
	`

	rows, err := p.db.QueryContext(ctx, query, p.opts.Schema, tableName)
	if err != nil {
		return nil, alerr.WrapSQL(err, "introspect checks", tableName).WithSQL(query)
	}
	defer rows.Close()

	var checks []rawCheck
	for rows.Next() {
		var c rawCheck
		var columns pq.StringArray
		if err := rows.Scan(&c.Name, &c.Expr, &columns); err != nil {
			return nil, alerr.WrapSQL(err, "scan check", tableName)
		}
		c.Columns = columns
		checks = append(checks, c)
	}
	return checks, rows.Err()
}

// postgresIdentity maps pg_attribute.attidentity.
func postgresIdentity(code string) meta.Identity {
	switch code {
	case "a":
		return meta.IdentityAlways
	case "d":
		return meta.IdentityByDefault
	default:
		return meta.IdentityNone
	}
}
