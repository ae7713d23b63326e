package dialect

import (
	"strings"

	"github.com/hlop3z/sqlzod/pkg/meta"
)

// mysql implements the Dialect interface for MySQL and MariaDB.
type mysql struct {
	vocabulary
}

// MySQL returns the MySQL dialect implementation.
func MySQL() Dialect {
	return &mysql{newVocabulary(meta.MySQL, mysqlKinds, mysqlAliases)}
}

var mysqlKinds = []string{
	"tinyint", "smallint", "mediumint", "int", "bigint", "serial",
	"float", "double", "real", "decimal",
	"boolean", "year",
	"char", "varchar", "tinytext", "text", "mediumtext", "longtext",
	"binary", "varbinary", "blob",
	"json",
	"date", "datetime", "time", "timestamp",
	"set",
	KindEnum, KindCustom,
}

var mysqlAliases = map[string]alias{
	"integer":           {kind: "int"},
	"bool":              {kind: "boolean"},
	"numeric":           {kind: "decimal"},
	"dec":               {kind: "decimal"},
	"fixed":             {kind: "decimal"},
	"double precision":  {kind: "double"},
	"character":         {kind: "char"},
	"character varying": {kind: "varchar"},
	"tinyblob":          {kind: "blob"},
	"mediumblob":        {kind: "blob"},
	"longblob":          {kind: "blob"},
}

func (d *mysql) QuoteIdent(name string) string { return quoteIdentBacktick(name) }

func quoteIdentBacktick(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
