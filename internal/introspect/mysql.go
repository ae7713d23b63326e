package introspect

import (
	"context"
	"database/sql"
	"strings"

	"github.com/hlop3z/sqlzod/internal/alerr"
	"github.com/hlop3z/sqlzod/internal/dialect"
	"github.com/hlop3z/sqlzod/pkg/meta"
)

// mysqlIntrospector reads INFORMATION_SCHEMA. It serves SingleStore too.
// MySQL has no standalone enum or domain types; enum columns carry their
// values in COLUMN_TYPE.
type mysqlIntrospector struct {
	db      *sql.DB
	dialect dialect.Dialect
	opts    Options
}

// databaseFilter reads the target database from the first argument; an
// empty value falls back to DATABASE().
const databaseFilter = `COALESCE(NULLIF(?, ''), DATABASE())`

func (m *mysqlIntrospector) Introspect(ctx context.Context) (*meta.Catalog, error) {
	return introspectCommon(ctx, m.dialect.Name(), m.opts, m)
}

func (m *mysqlIntrospector) IntrospectTable(ctx context.Context, tableName string) (*meta.Table, error) {
	return introspectTableCommon(ctx, m, tableName)
}

func (m *mysqlIntrospector) TableExists(ctx context.Context, tableName string) (bool, error) {
	return tableExistsCommon(ctx, m.db, `
		SELECT COUNT(*) > 0 FROM INFORMATION_SCHEMA.TABLES
		WHERE TABLE_SCHEMA = `+databaseFilter+` AND TABLE_NAME = ?
	`, m.opts.Schema, tableName)
}

func (m *mysqlIntrospector) listTables(ctx context.Context) ([]string, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES
		WHERE TABLE_SCHEMA = `+databaseFilter+` AND TABLE_TYPE = 'BASE TABLE'
		ORDER BY TABLE_NAME
	`, m.opts.Schema)
	if err != nil {
		return nil, alerr.WrapSQL(err, "list tables", "")
	}
	return collectStrings(rows, "scan table name", "")
}

func (m *mysqlIntrospector) listTypes(context.Context) ([]*meta.Enum, []*meta.Domain, error) {
	return nil, nil, nil
}

func (m *mysqlIntrospector) introspectTable(ctx context.Context, tableName string, types *typeSet) (*meta.Table, error) {
	columns, err := m.introspectColumns(ctx, tableName, types)
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return nil, nil
	}
	t := &meta.Table{Schema: m.opts.Schema, Name: tableName, Dialect: m.dialect.Name(), Columns: columns}

	checks, err := m.introspectChecks(ctx, tableName)
	if err != nil {
		return nil, err
	}
	assignChecks(t, checks)
	return t, nil
}

func (m *mysqlIntrospector) introspectColumns(ctx context.Context, tableName string, types *typeSet) ([]*meta.Column, error) {
	query := `
		SELECT COLUMN_NAME, COLUMN_TYPE, IS_NULLABLE, COLUMN_DEFAULT,
		       COLUMN_KEY, EXTRA, COALESCE(GENERATION_EXPRESSION, '')
		FROM INFORMATION_SCHEMA.COLUMNS
		WHERE TABLE_SCHEMA = ` + databaseFilter + ` AND TABLE_NAME = ?
		ORDER BY ORDINAL_POSITION
	`

	rows, err := m.db.QueryContext(ctx, query, m.opts.Schema, tableName)
	if err != nil {
		return nil, alerr.WrapSQL(err, "introspect columns", tableName).WithSQL(query)
	}
	defer rows.Close()

	var raws []rawColumn
	for rows.Next() {
		var name, columnType, nullable, key, extra, generation string
		var dflt sql.NullString
		if err := rows.Scan(&name, &columnType, &nullable, &dflt, &key, &extra, &generation); err != nil {
			return nil, alerr.WrapSQL(err, "scan column", tableName)
		}
		raws = append(raws, mysqlRawColumn(name, columnType, nullable, dflt, key, extra, generation))
	}
	if err := rows.Err(); err != nil {
		return nil, alerr.WrapSQL(err, "introspect columns", tableName)
	}

	columns := make([]*meta.Column, 0, len(raws))
	for _, raw := range raws {
		col, err := types.column(m.dialect, tableName, raw)
		if err != nil {
			return nil, err
		}
		columns = append(columns, col)
	}
	return columns, nil
}

// mysqlRawColumn interprets one INFORMATION_SCHEMA.COLUMNS row.
func mysqlRawColumn(name, columnType, nullable string, dflt sql.NullString, key, extra, generation string) rawColumn {
	raw := rawColumn{
		Name:       name,
		DataType:   columnType,
		NotNull:    strings.EqualFold(nullable, "NO"),
		PrimaryKey: strings.EqualFold(key, "PRI"),
	}
	lower := strings.ToLower(extra)
	switch {
	case strings.Contains(lower, "virtual generated"), strings.Contains(lower, "stored generated"):
		raw.Generated = sql.NullString{String: generation, Valid: generation != ""}
	default:
		raw.Default = dflt
	}
	raw.AutoIncrement = strings.Contains(lower, "auto_increment")
	return raw
}

func (m *mysqlIntrospector) introspectChecks(ctx context.Context, tableName string) ([]rawCheck, error) {
	// CHECK_CONSTRAINTS does not record columns, so every check stays at
	// table level and is matched to columns by name during derivation.
	query := `
		SELECT cc.CONSTRAINT_NAME, cc.CHECK_CLAUSE
		FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS tc
		JOIN INFORMATION_SCHEMA.CHECK_CONSTRAINTS cc
			ON cc.CONSTRAINT_SCHEMA = tc.CONSTRAINT_SCHEMA
			AND cc.CONSTRAINT_NAME = tc.CONSTRAINT_NAME
		WHERE tc.TABLE_SCHEMA = ` + databaseFilter + `
			AND tc.TABLE_NAME = ?
			AND tc.CONSTRAINT_TYPE = 'CHECK'
		ORDER BY cc.CONSTRAINT_NAME
	`

	rows, err := m.db.QueryContext(ctx, query, m.opts.Schema, tableName)
	if err != nil {
		return nil, alerr.WrapSQL(err, "introspect checks", tableName).WithSQL(query)
	}
	defer rows.Close()

	var checks []rawCheck
	for rows.Next() {
		var c rawCheck
		if err := rows.Scan(&c.Name, &c.Expr); err != nil {
			return nil, alerr.WrapSQL(err, "scan check", tableName)
		}
		checks = append(checks, c)
	}
	return checks, rows.Err()
}
