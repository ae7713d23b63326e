package classify

import (
	"github.com/hlop3z/sqlzod/pkg/meta"
	"github.com/hlop3z/sqlzod/pkg/z"
)

func mssqlColumn(col *meta.Column) *z.Schema {
	switch col.Kind {
	case "tinyint":
		// SQL Server tinyint is always unsigned.
		return intRange(0, int8UnsignedMax)
	case "smallint":
		return intRange(int16Min, int16Max)
	case "int":
		return intRange(int32Min, int32Max)
	case "bigint":
		return int64Column(col)
	case "real":
		return floatRange(int24Min, int24Max)
	case "float":
		// float(n) with n <= 24 is stored as real.
		if col.Precision != nil && *col.Precision <= 24 {
			return floatRange(int24Min, int24Max)
		}
		return floatRange(int48Min, int48Max)
	case "decimal":
		return decimalColumn(col)
	case "bit":
		return z.Boolean()
	case "char", "nchar":
		return exactLength(col)
	case "varchar", "nvarchar":
		return maxLength(col)
	case "text", "ntext":
		return z.String()
	case "binary", "varbinary":
		return z.Bytes()
	case "uniqueidentifier":
		return z.String().UUID()
	case "json":
		return z.JSON()
	case "date", "datetime", "datetime2", "datetimeoffset":
		return temporal(col, false)
	case "time":
		return temporal(col, true)
	default:
		return z.Unknown()
	}
}
