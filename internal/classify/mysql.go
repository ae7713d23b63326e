package classify

import (
	"github.com/hlop3z/sqlzod/pkg/meta"
	"github.com/hlop3z/sqlzod/pkg/z"
)

func mysqlColumn(col *meta.Column) *z.Schema {
	switch col.Kind {
	case "tinyint":
		return signedRange(col, int8Min, int8Max, int8UnsignedMax, true)
	case "smallint":
		return signedRange(col, int16Min, int16Max, int16UnsignedMax, true)
	case "mediumint":
		return signedRange(col, int24Min, int24Max, int24UnsignedMax, true)
	case "int":
		return signedRange(col, int32Min, int32Max, int32UnsignedMax, true)
	case "bigint":
		return int64Column(col)
	case "serial":
		// BIGINT UNSIGNED AUTO_INCREMENT, surfaced as a JS-safe number.
		return intRange(0, maxSafeInt)
	case "float":
		return signedRange(col, int24Min, int24Max, int24UnsignedMax, false)
	case "double", "real":
		return signedRange(col, int48Min, int48Max, int48UnsignedMax, false)
	case "decimal":
		return decimalColumn(col)
	case "boolean":
		return z.Boolean()
	case "year":
		return intRange(yearMin, yearMax)
	case "char", "binary":
		return exactLength(col)
	case "varchar", "varbinary":
		return mysqlVarchar(col)
	case "tinytext":
		return z.String().MaxLength(int8UnsignedMax)
	case "text":
		return z.String().MaxLength(int16UnsignedMax)
	case "mediumtext":
		return z.String().MaxLength(int24UnsignedMax)
	case "longtext":
		return z.String().MaxLength(int32UnsignedMax)
	case "blob":
		return z.Bytes()
	case "json":
		return z.JSON()
	case "date", "datetime", "timestamp":
		return temporal(col, false)
	case "time", "set":
		return z.String()
	default:
		return z.Unknown()
	}
}

// mysqlVarchar caps undeclared lengths at the 65535-byte row limit.
func mysqlVarchar(col *meta.Column) *z.Schema {
	if col.Length == nil {
		return z.String().MaxLength(int16UnsignedMax)
	}
	return z.String().MaxLength(*col.Length)
}

func singlestoreColumn(col *meta.Column) *z.Schema {
	if col.Kind == "vector" {
		return vectorColumn(col)
	}
	return mysqlColumn(col)
}
