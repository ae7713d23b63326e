package z

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"
)

// coerce converts v toward the canonical type of kind. Values that cannot
// be converted are returned unchanged so the regular type check reports
// them.
func coerce(kind Kind, v any) any {
	switch kind {
	case KindString:
		return coerceString(v)
	case KindNumber:
		return coerceNumber(v)
	case KindBigInt:
		return coerceBigInt(v)
	case KindBoolean:
		return coerceBoolean(v)
	case KindDate:
		return coerceDate(v)
	}
	return v
}

func coerceString(v any) any {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	case time.Time:
		return x.Format(time.RFC3339Nano)
	case *big.Int:
		return x.String()
	case fmt.Stringer:
		return x.String()
	}
	if f, ok := toFloat(v); ok {
		return formatFloat(f)
	}
	return fmt.Sprint(v)
}

func coerceNumber(v any) any {
	switch x := v.(type) {
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return float64(0)
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
		return math.NaN()
	case bool:
		if x {
			return float64(1)
		}
		return float64(0)
	case *big.Int:
		f, _ := new(big.Float).SetInt(x).Float64()
		return f
	case time.Time:
		return float64(x.UnixMilli())
	}
	return v
}

func coerceBigInt(v any) any {
	switch x := v.(type) {
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return big.NewInt(0)
		}
		if n, ok := new(big.Int).SetString(s, 0); ok {
			return n
		}
	case bool:
		if x {
			return big.NewInt(1)
		}
		return big.NewInt(0)
	case float64:
		if x == math.Trunc(x) && !math.IsInf(x, 0) {
			n, _ := big.NewFloat(x).Int(nil)
			return n
		}
	case float32:
		return coerceBigInt(float64(x))
	}
	return v
}

func coerceBoolean(v any) any {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		return x != ""
	case *big.Int:
		return x.Sign() != 0
	case []byte, []any, map[string]any:
		return true
	}
	if f, ok := toFloat(v); ok {
		return f != 0 && !math.IsNaN(f)
	}
	return true
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func coerceDate(v any) any {
	switch x := v.(type) {
	case time.Time:
		return x
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t
			}
		}
		return v
	}
	if f, ok := toFloat(v); ok && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return time.UnixMilli(int64(f)).UTC()
	}
	return v
}
