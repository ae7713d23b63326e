package classify

import (
	"github.com/hlop3z/sqlzod/pkg/meta"
	"github.com/hlop3z/sqlzod/pkg/z"
)

func postgresColumn(col *meta.Column) *z.Schema {
	switch col.Kind {
	case "smallint", "smallserial":
		return intRange(int16Min, int16Max)
	case "integer", "serial":
		return intRange(int32Min, int32Max)
	case "bigint", "bigserial":
		return int64Column(col)
	case "real":
		return floatRange(int24Min, int24Max)
	case "double":
		return floatRange(int48Min, int48Max)
	case "numeric":
		return decimalColumn(col)
	case "boolean":
		return z.Boolean()
	case "text", "citext", "interval", "inet", "cidr", "macaddr", "macaddr8", "sparsevec":
		return z.String()
	case "varchar":
		return maxLength(col)
	case "char":
		return exactLength(col)
	case "uuid":
		return z.String().UUID()
	case "json", "jsonb":
		return z.JSON()
	case "date", "time":
		return temporal(col, true)
	case "timestamp":
		return temporal(col, false)
	case "point", "geometry":
		return pointColumn(col)
	case "line":
		return lineColumn(col)
	case "vector", "halfvec":
		return vectorColumn(col)
	case "bit":
		return bitColumn(col)
	case "bytea":
		return z.Bytes()
	default:
		return z.Unknown()
	}
}
