package dialect

import "github.com/hlop3z/sqlzod/pkg/meta"

// postgres implements the Dialect interface for PostgreSQL.
type postgres struct {
	vocabulary
}

// Postgres returns the PostgreSQL dialect implementation.
func Postgres() Dialect {
	return &postgres{newVocabulary(meta.Postgres, postgresKinds, postgresAliases)}
}

var postgresKinds = []string{
	"smallint", "integer", "bigint",
	"smallserial", "serial", "bigserial",
	"real", "double", "numeric",
	"boolean",
	"text", "varchar", "char", "citext",
	"uuid",
	"json", "jsonb",
	"date", "time", "timestamp", "interval",
	"inet", "cidr", "macaddr", "macaddr8",
	"point", "line", "geometry",
	"vector", "halfvec", "sparsevec", "bit",
	"bytea",
	KindEnum, KindArray, KindCustom,
}

var postgresAliases = map[string]alias{
	"int2":                        {kind: "smallint"},
	"int":                         {kind: "integer"},
	"int4":                        {kind: "integer"},
	"int8":                        {kind: "bigint"},
	"serial2":                     {kind: "smallserial"},
	"serial4":                     {kind: "serial"},
	"serial8":                     {kind: "bigserial"},
	"float4":                      {kind: "real"},
	"float8":                      {kind: "double"},
	"double precision":            {kind: "double"},
	"decimal":                     {kind: "numeric"},
	"bool":                        {kind: "boolean"},
	"character varying":           {kind: "varchar"},
	"character":                   {kind: "char"},
	"bpchar":                      {kind: "char"},
	"timestamptz":                 {kind: "timestamp"},
	"timestamp with time zone":    {kind: "timestamp"},
	"timestamp without time zone": {kind: "timestamp"},
	"timetz":                      {kind: "time"},
	"time with time zone":         {kind: "time"},
	"time without time zone":      {kind: "time"},
	"varbit":                      {kind: "bit"},
	"bit varying":                 {kind: "bit"},
	"user-defined":                {kind: KindCustom},
}

func (d *postgres) QuoteIdent(name string) string { return quoteIdentDoubleQuote(name) }
