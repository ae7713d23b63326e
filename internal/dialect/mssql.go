package dialect

import (
	"strings"

	"github.com/hlop3z/sqlzod/pkg/meta"
)

// mssql implements the Dialect interface for Microsoft SQL Server.
type mssql struct {
	vocabulary
}

// MSSQL returns the SQL Server dialect implementation.
func MSSQL() Dialect {
	return &mssql{newVocabulary(meta.MSSQL, mssqlKinds, mssqlAliases)}
}

var mssqlKinds = []string{
	"tinyint", "smallint", "int", "bigint",
	"float", "real", "decimal",
	"bit",
	"char", "varchar", "nchar", "nvarchar", "text", "ntext",
	"binary", "varbinary",
	"uniqueidentifier",
	"json",
	"date", "datetime", "datetime2", "datetimeoffset", "time",
	KindCustom,
}

var mssqlAliases = map[string]alias{
	"integer":       {kind: "int"},
	"numeric":       {kind: "decimal"},
	"dec":           {kind: "decimal"},
	"smalldatetime": {kind: "datetime"},
	"image":         {kind: "varbinary"},
}

func (d *mssql) QuoteIdent(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}
