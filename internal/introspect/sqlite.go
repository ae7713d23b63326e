package introspect

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"github.com/hlop3z/sqlzod/internal/alerr"
	"github.com/hlop3z/sqlzod/internal/dialect"
	"github.com/hlop3z/sqlzod/pkg/meta"
)

// sqliteIntrospector reads PRAGMA output plus the stored CREATE TABLE
// text, which is the only place SQLite keeps CHECK constraints and
// generation expressions.
type sqliteIntrospector struct {
	db      *sql.DB
	dialect dialect.Dialect
	opts    Options
}

func (s *sqliteIntrospector) Introspect(ctx context.Context) (*meta.Catalog, error) {
	return introspectCommon(ctx, meta.SQLite, s.opts, s)
}

func (s *sqliteIntrospector) IntrospectTable(ctx context.Context, tableName string) (*meta.Table, error) {
	return introspectTableCommon(ctx, s, tableName)
}

func (s *sqliteIntrospector) TableExists(ctx context.Context, tableName string) (bool, error) {
	return tableExistsCommon(ctx, s.db, `
		SELECT EXISTS (
			SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = ?
		)
	`, tableName)
}

func (s *sqliteIntrospector) listTables(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
	if err != nil {
		return nil, alerr.WrapSQL(err, "list tables", "")
	}
	return collectStrings(rows, "scan table name", "")
}

func (s *sqliteIntrospector) listTypes(context.Context) ([]*meta.Enum, []*meta.Domain, error) {
	return nil, nil, nil
}

func (s *sqliteIntrospector) introspectTable(ctx context.Context, tableName string, types *typeSet) (*meta.Table, error) {
	// Read the DDL before the PRAGMA so only one result set is open at a
	// time; in-memory databases are pinned to a single connection.
	var createSQL sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT sql FROM sqlite_master WHERE type = 'table' AND name = ?`, tableName,
	).Scan(&createSQL)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, alerr.WrapSQL(err, "read table definition", tableName)
	}
	ddl := parseCreateTable(createSQL.String)

	raws, err := s.introspectColumns(ctx, tableName, ddl)
	if err != nil {
		return nil, err
	}
	if len(raws) == 0 {
		return nil, nil
	}

	t := &meta.Table{Name: tableName, Dialect: meta.SQLite}
	for _, raw := range raws {
		col, err := types.column(s.dialect, tableName, raw)
		if err != nil {
			return nil, err
		}
		t.Columns = append(t.Columns, col)
	}

	// An inline "col IN ('a', 'b')" check on a text column is SQLite's
	// enum idiom.
	var checks []rawCheck
	for _, c := range ddl.checks {
		if len(c.Columns) == 1 {
			if col, ok := t.Column(c.Columns[0]); ok && col.Kind == "text" {
				if values := parseEnumValues(c.Expr, col.Name); values != nil {
					col.EnumValues = values
					continue
				}
			}
		}
		checks = append(checks, c)
	}
	assignChecks(t, checks)
	return t, nil
}

func (s *sqliteIntrospector) introspectColumns(ctx context.Context, tableName string, ddl createTable) ([]rawColumn, error) {
	// PRAGMA table_xinfo returns: cid, name, type, notnull, dflt_value, pk, hidden.
	// hidden is 2 or 3 for virtual and stored generated columns.
	query := fmt.Sprintf("PRAGMA table_xinfo(%s)", s.dialect.QuoteIdent(tableName))

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, alerr.WrapSQL(err, "introspect columns", tableName).WithSQL(query)
	}
	defer rows.Close()

	var raws []rawColumn
	pkCount := 0
	for rows.Next() {
		var cid, notNull, pk, hidden int
		var name, dataType string
		var defaultVal sql.NullString

		if err := rows.Scan(&cid, &name, &dataType, &notNull, &defaultVal, &pk, &hidden); err != nil {
			return nil, alerr.WrapSQL(err, "scan column", tableName)
		}
		if hidden == 1 {
			continue
		}

		raw := rawColumn{
			Name:       name,
			DataType:   sqliteDeclaredType(dataType),
			NotNull:    notNull == 1,
			Default:    defaultVal,
			PrimaryKey: pk > 0,
		}
		if hidden == 2 || hidden == 3 {
			expr := ddl.generated[strings.ToLower(name)]
			raw.Generated = sql.NullString{String: expr, Valid: true}
			if expr == "" {
				raw.Generated.String = "generated"
			}
		}
		if ddl.autoincrement[strings.ToLower(name)] {
			raw.AutoIncrement = true
		}
		if pk > 0 {
			pkCount++
		}
		raws = append(raws, raw)
	}
	if err := rows.Err(); err != nil {
		return nil, alerr.WrapSQL(err, "introspect columns", tableName)
	}

	// A lone INTEGER PRIMARY KEY aliases the rowid and is assigned on
	// insert.
	if pkCount == 1 {
		for i := range raws {
			if raws[i].PrimaryKey && strings.EqualFold(raws[i].DataType, "integer") {
				raws[i].AutoIncrement = true
			}
		}
	}
	return raws, nil
}

// sqliteDeclaredType normalizes a PRAGMA type. Columns declared without a
// type have BLOB affinity, and generated columns report a trailing
// GENERATED ALWAYS.
func sqliteDeclaredType(t string) string {
	t = strings.TrimSpace(reGeneratedSuffix.ReplaceAllString(t, ""))
	if t == "" {
		return "blob"
	}
	return t
}

// -----------------------------------------------------------------------------
// CREATE TABLE parsing
// -----------------------------------------------------------------------------

var (
	reGeneratedSuffix = regexp.MustCompile(`(?i)\s+generated\s+always$`)
	reGeneratedAs     = regexp.MustCompile(`(?i)\b(?:generated\s+always\s+)?as\s*\(`)
	reCheckKeyword    = regexp.MustCompile(`(?i)\bcheck\s*\(`)
	reAutoincrement   = regexp.MustCompile(`(?i)\bautoincrement\b`)
	reEnumIn          = regexp.MustCompile(`(?is)^[\x60"\[]?(\w+)[\x60"\]]?\s+in\s*\((.*)\)$`)
)

// createTable is what parseCreateTable extracts from stored DDL.
type createTable struct {
	checks        []rawCheck
	generated     map[string]string // lower column name -> expression
	autoincrement map[string]bool
}

// parseCreateTable reads CHECK clauses, generation expressions and
// AUTOINCREMENT markers from a CREATE TABLE statement. Column-level checks
// record their column.
func parseCreateTable(createSQL string) createTable {
	out := createTable{generated: make(map[string]string), autoincrement: make(map[string]bool)}
	for _, def := range tableDefinitions(createSQL) {
		first, rest := firstToken(def)
		switch strings.ToUpper(first) {
		case "CONSTRAINT":
			name, body := firstToken(rest)
			for _, expr := range parenthesized(body, reCheckKeyword) {
				out.checks = append(out.checks, rawCheck{Name: unquoteIdent(name), Expr: expr})
			}
		case "CHECK":
			for _, expr := range parenthesized(def, reCheckKeyword) {
				out.checks = append(out.checks, rawCheck{Expr: expr})
			}
		case "PRIMARY", "UNIQUE", "FOREIGN":
		default:
			col := unquoteIdent(first)
			for _, expr := range parenthesized(rest, reCheckKeyword) {
				out.checks = append(out.checks, rawCheck{Expr: expr, Columns: []string{col}})
			}
			if exprs := parenthesized(rest, reGeneratedAs); len(exprs) > 0 {
				out.generated[strings.ToLower(col)] = exprs[0]
			}
			if reAutoincrement.MatchString(rest) {
				out.autoincrement[strings.ToLower(col)] = true
			}
		}
	}
	return out
}

// tableDefinitions splits the parenthesized body of a CREATE TABLE
// statement on top-level commas.
func tableDefinitions(createSQL string) []string {
	open := strings.IndexByte(createSQL, '(')
	if open < 0 {
		return nil
	}
	end := matchParen(createSQL, open)
	if end < 0 {
		return nil
	}
	body := createSQL[open+1 : end]

	var defs []string
	depth, start := 0, 0
	for i := 0; i < len(body); i++ {
		switch c := body[i]; c {
		case '\'', '"', '`', '[':
			i = skipQuoted(body, i)
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				defs = append(defs, strings.TrimSpace(body[start:i]))
				start = i + 1
			}
		}
	}
	if last := strings.TrimSpace(body[start:]); last != "" {
		defs = append(defs, last)
	}
	return defs
}

// parenthesized returns the text inside the parentheses that follow each
// match of keyword, where keyword ends with the opening parenthesis.
func parenthesized(s string, keyword *regexp.Regexp) []string {
	var out []string
	for _, loc := range keyword.FindAllStringIndex(s, -1) {
		open := loc[1] - 1
		if end := matchParen(s, open); end > open {
			out = append(out, strings.TrimSpace(s[open+1:end]))
		}
	}
	return out
}

// matchParen returns the index of the parenthesis closing s[open], or -1.
func matchParen(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '\'', '"', '`', '[':
			i = skipQuoted(s, i)
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// skipQuoted returns the index of the quote closing the one at s[i].
// Doubled quotes inside are escapes.
func skipQuoted(s string, i int) int {
	closer := s[i]
	if closer == '[' {
		closer = ']'
	}
	for j := i + 1; j < len(s); j++ {
		if s[j] != closer {
			continue
		}
		if closer != ']' && j+1 < len(s) && s[j+1] == closer {
			j++
			continue
		}
		return j
	}
	return len(s) - 1
}

// firstToken splits off the first identifier, honoring quotes.
func firstToken(s string) (string, string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ""
	}
	switch s[0] {
	case '\'', '"', '`', '[':
		end := skipQuoted(s, 0)
		return s[:end+1], strings.TrimSpace(s[end+1:])
	}
	end := strings.IndexFunc(s, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '('
	})
	if end < 0 {
		return s, ""
	}
	return s[:end], strings.TrimSpace(s[end:])
}

func unquoteIdent(s string) string {
	if len(s) >= 2 {
		switch {
		case s[0] == '"' && s[len(s)-1] == '"',
			s[0] == '`' && s[len(s)-1] == '`',
			s[0] == '\'' && s[len(s)-1] == '\'':
			q := string(s[0])
			return strings.ReplaceAll(s[1:len(s)-1], q+q, q)
		case s[0] == '[' && s[len(s)-1] == ']':
			return s[1 : len(s)-1]
		}
	}
	return s
}

// parseEnumValues extracts the literals of "column IN ('a', 'b')". It
// returns nil unless the whole expression has that shape for column.
func parseEnumValues(expr, column string) []string {
	m := reEnumIn.FindStringSubmatch(strings.TrimSpace(expr))
	if m == nil || !strings.EqualFold(m[1], column) {
		return nil
	}

	var values []string
	list := strings.TrimSpace(m[2])
	for list != "" {
		if list[0] != '\'' {
			return nil
		}
		end := skipQuoted(list, 0)
		if end == 0 || list[end] != '\'' {
			return nil
		}
		values = append(values, strings.ReplaceAll(list[1:end], "''", "'"))
		list = strings.TrimSpace(list[end+1:])
		if list == "" {
			break
		}
		if list[0] != ',' {
			return nil
		}
		list = strings.TrimSpace(list[1:])
	}
	return values
}
