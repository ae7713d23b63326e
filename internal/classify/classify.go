// Package classify maps one column's metadata to its base validator: kind,
// numeric range, length limits and pattern, with no nullability applied.
//
// Each dialect has its own dispatch table over its closed kind set.
// Unrecognized kinds fall back to an unknown validator and never fail.
package classify

import (
	"regexp"

	"github.com/hlop3z/sqlzod/internal/dialect"
	"github.com/hlop3z/sqlzod/pkg/meta"
	"github.com/hlop3z/sqlzod/pkg/z"
)

// Classify returns the base validator for col under dialect d.
func Classify(col *meta.Column, d meta.Dialect) *z.Schema {
	if col == nil {
		return z.Unknown()
	}
	if dialect.IsArray(col.Kind) {
		return classifyArray(col, d)
	}
	if len(col.EnumValues) > 0 {
		return z.Enum(col.EnumValues...)
	}
	if col.Kind == dialect.KindEnum {
		return z.String()
	}
	if col.Kind == dialect.KindCustom {
		return z.Unknown()
	}

	switch d {
	case meta.Postgres:
		return postgresColumn(col)
	case meta.Cockroach:
		return cockroachColumn(col)
	case meta.MySQL:
		return mysqlColumn(col)
	case meta.SingleStore:
		return singlestoreColumn(col)
	case meta.SQLite:
		return sqliteColumn(col)
	case meta.MSSQL:
		return mssqlColumn(col)
	default:
		return z.Unknown()
	}
}

func classifyArray(col *meta.Column, d meta.Dialect) *z.Schema {
	if col.Element == nil {
		return z.Array(z.Unknown())
	}
	s := z.Array(Classify(col.Element, d))
	if col.Size != nil {
		s = s.Length(*col.Size)
	}
	return s
}

// -----------------------------------------------------------------------------
// Shared shapes
// -----------------------------------------------------------------------------

func intRange(lo, hi float64) *z.Schema {
	return z.Number().Int().Min(lo).Max(hi)
}

func floatRange(lo, hi float64) *z.Schema {
	return z.Number().Min(lo).Max(hi)
}

// signedRange picks the signed or unsigned range of a width.
func signedRange(col *meta.Column, signedMin, signedMax, unsignedMax float64, integer bool) *z.Schema {
	lo, hi := signedMin, signedMax
	if col.Unsigned {
		lo, hi = 0, unsignedMax
	}
	if integer {
		return intRange(lo, hi)
	}
	return floatRange(lo, hi)
}

func safeInt(col *meta.Column) *z.Schema {
	if col.Unsigned {
		return intRange(0, maxSafeInt)
	}
	return intRange(minSafeInt, maxSafeInt)
}

func safeNumber() *z.Schema {
	return floatRange(minSafeInt, maxSafeInt)
}

func bigint64(col *meta.Column) *z.Schema {
	if col.Unsigned {
		return z.BigInt().BigMin(bigZero).BigMax(int64UnsignedMax)
	}
	return z.BigInt().BigMin(int64Min).BigMax(int64Max)
}

// int64Column handles 64-bit integer kinds, whose representation depends on
// the declared mode.
func int64Column(col *meta.Column) *z.Schema {
	switch col.Mode {
	case meta.ModeNumber:
		return safeInt(col)
	case meta.ModeString:
		return z.String()
	default:
		return bigint64(col)
	}
}

// decimalColumn handles arbitrary-precision kinds, which default to string.
func decimalColumn(col *meta.Column) *z.Schema {
	switch col.Mode {
	case meta.ModeNumber:
		if col.Unsigned {
			return floatRange(0, maxSafeInt)
		}
		return safeNumber()
	case meta.ModeBigInt:
		return bigint64(col)
	default:
		return z.String()
	}
}

func maxLength(col *meta.Column) *z.Schema {
	s := z.String()
	if col.Length != nil {
		s = s.MaxLength(*col.Length)
	}
	return s
}

func exactLength(col *meta.Column) *z.Schema {
	s := z.String()
	if col.Length != nil {
		s = s.Length(*col.Length)
	}
	return s
}

var bitString = regexp.MustCompile(`^[01]+$`)

// bitColumn is a binary vector encoded as a string of 0s and 1s.
func bitColumn(col *meta.Column) *z.Schema {
	s := z.String().Regex(bitString)
	if col.Length != nil {
		s = s.MaxLength(*col.Length)
	}
	return s
}

func vectorColumn(col *meta.Column) *z.Schema {
	s := z.Array(z.Number())
	if col.Dimensions != nil {
		s = s.Length(*col.Dimensions)
	}
	return s
}

// pointColumn is a 2D point as [x, y] or {x, y}.
func pointColumn(col *meta.Column) *z.Schema {
	if col.Mode == meta.ModeXY {
		return z.Object(z.NewShape().Set("x", z.Number()).Set("y", z.Number()))
	}
	return z.Tuple(z.Number(), z.Number())
}

// lineColumn is the line equation Ax + By + C = 0 as [a, b, c] or {a, b, c}.
func lineColumn(col *meta.Column) *z.Schema {
	if col.Mode == meta.ModeABC {
		return z.Object(z.NewShape().Set("a", z.Number()).Set("b", z.Number()).Set("c", z.Number()))
	}
	return z.Tuple(z.Number(), z.Number(), z.Number())
}

// temporal returns a date validator unless the column is in string mode.
func temporal(col *meta.Column, defaultString bool) *z.Schema {
	switch col.Mode {
	case meta.ModeString:
		return z.String()
	case meta.ModeDate:
		return z.Date()
	}
	if defaultString {
		return z.String()
	}
	return z.Date()
}
