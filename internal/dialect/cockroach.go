package dialect

import "github.com/hlop3z/sqlzod/pkg/meta"

// cockroach implements the Dialect interface for CockroachDB. It speaks the
// Postgres wire protocol but INT and INTEGER are 64-bit.
type cockroach struct {
	vocabulary
}

// Cockroach returns the CockroachDB dialect implementation.
func Cockroach() Dialect {
	return &cockroach{newVocabulary(meta.Cockroach, cockroachKinds, cockroachAliases)}
}

var cockroachKinds = []string{
	"smallint", "int4", "bigint",
	"real", "double", "decimal",
	"bool",
	"string", "varchar", "char",
	"uuid",
	"jsonb",
	"date", "time", "timestamp", "interval",
	"inet",
	"geometry", "vector",
	"bit", "bytes",
	KindEnum, KindArray, KindCustom,
}

var cockroachAliases = map[string]alias{
	"int2":                     {kind: "smallint"},
	"int":                      {kind: "bigint"},
	"integer":                  {kind: "bigint"},
	"int8":                     {kind: "bigint"},
	"int64":                    {kind: "bigint"},
	"float4":                   {kind: "real"},
	"float":                    {kind: "double"},
	"float8":                   {kind: "double"},
	"double precision":         {kind: "double"},
	"numeric":                  {kind: "decimal"},
	"dec":                      {kind: "decimal"},
	"boolean":                  {kind: "bool"},
	"text":                     {kind: "string"},
	"character varying":        {kind: "varchar"},
	"character":                {kind: "char"},
	"json":                     {kind: "jsonb"},
	"timestamptz":              {kind: "timestamp"},
	"timestamp with time zone": {kind: "timestamp"},
	"timetz":                   {kind: "time"},
	"varbit":                   {kind: "bit"},
	"bytea":                    {kind: "bytes"},
	"blob":                     {kind: "bytes"},
}

func (d *cockroach) QuoteIdent(name string) string { return quoteIdentDoubleQuote(name) }
