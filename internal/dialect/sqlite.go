package dialect

import "github.com/hlop3z/sqlzod/pkg/meta"

// sqlite implements the Dialect interface for SQLite. Declared types are
// folded onto the five storage classes; richer types become modes.
type sqlite struct {
	vocabulary
}

// SQLite returns the SQLite dialect implementation.
func SQLite() Dialect {
	return &sqlite{newVocabulary(meta.SQLite, sqliteKinds, sqliteAliases)}
}

var sqliteKinds = []string{
	"integer", "real", "text", "blob", "numeric",
	KindCustom,
}

var sqliteAliases = map[string]alias{
	"int":               {kind: "integer"},
	"tinyint":           {kind: "integer"},
	"smallint":          {kind: "integer"},
	"mediumint":         {kind: "integer"},
	"bigint":            {kind: "integer"},
	"int2":              {kind: "integer"},
	"int8":              {kind: "integer"},
	"unsigned big int":  {kind: "integer"},
	"boolean":           {kind: "integer", mode: meta.ModeBoolean},
	"bool":              {kind: "integer", mode: meta.ModeBoolean},
	"double":            {kind: "real"},
	"double precision":  {kind: "real"},
	"float":             {kind: "real"},
	"varchar":           {kind: "text"},
	"character":         {kind: "text"},
	"character varying": {kind: "text"},
	"nchar":             {kind: "text"},
	"nvarchar":          {kind: "text"},
	"char":              {kind: "text"},
	"clob":              {kind: "text"},
	"json":              {kind: "text", mode: meta.ModeJSON},
	"decimal":           {kind: "numeric"},
}

func (d *sqlite) QuoteIdent(name string) string { return quoteIdentDoubleQuote(name) }
