package classify

import (
	"github.com/hlop3z/sqlzod/pkg/meta"
	"github.com/hlop3z/sqlzod/pkg/z"
)

func cockroachColumn(col *meta.Column) *z.Schema {
	switch col.Kind {
	case "smallint":
		return intRange(int16Min, int16Max)
	case "int4":
		return intRange(int32Min, int32Max)
	case "bigint":
		return int64Column(col)
	case "real":
		return floatRange(int24Min, int24Max)
	case "double":
		return floatRange(int48Min, int48Max)
	case "decimal":
		return decimalColumn(col)
	case "bool":
		return z.Boolean()
	case "string", "varchar":
		return maxLength(col)
	case "char":
		return exactLength(col)
	case "uuid":
		return z.String().UUID()
	case "jsonb":
		return z.JSON()
	case "date", "time", "interval":
		return temporal(col, true)
	case "timestamp":
		return temporal(col, false)
	case "inet":
		return z.String()
	case "geometry":
		return pointColumn(col)
	case "vector":
		return vectorColumn(col)
	case "bit":
		return bitColumn(col)
	case "bytes":
		return z.Bytes()
	default:
		return z.Unknown()
	}
}
