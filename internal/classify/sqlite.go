package classify

import (
	"github.com/hlop3z/sqlzod/pkg/meta"
	"github.com/hlop3z/sqlzod/pkg/z"
)

// sqliteColumn maps the five storage classes. Richer types are expressed
// through the column mode.
func sqliteColumn(col *meta.Column) *z.Schema {
	switch col.Kind {
	case "integer":
		switch col.Mode {
		case meta.ModeBoolean:
			return z.Boolean()
		case meta.ModeTimestamp, meta.ModeTimestampMs:
			return z.Date()
		default:
			return safeInt(col)
		}
	case "real":
		return floatRange(int48Min, int48Max)
	case "text":
		if col.Mode == meta.ModeJSON {
			return z.JSON()
		}
		return maxLength(col)
	case "blob":
		switch col.Mode {
		case meta.ModeJSON:
			return z.JSON()
		case meta.ModeBigInt:
			return bigint64(col)
		default:
			return z.Bytes()
		}
	case "numeric":
		return decimalColumn(col)
	default:
		return z.Unknown()
	}
}
