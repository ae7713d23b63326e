package z

import (
	"math/big"
	"regexp"
)

// Bound builders never loosen an existing constraint: applying Min(0) to a
// schema that already has Min(10) keeps 10. This mirrors a validator that
// stacks every check and requires all of them to pass.

// Min sets an inclusive lower bound on a number schema.
func (s *Schema) Min(v float64) *Schema {
	c := s.clone()
	c.bounds.Min = tighterLow(c.bounds.Min, v)
	return c
}

// Max sets an inclusive upper bound on a number schema.
func (s *Schema) Max(v float64) *Schema {
	c := s.clone()
	c.bounds.Max = tighterHigh(c.bounds.Max, v)
	return c
}

// Gt sets an exclusive lower bound on a number schema.
func (s *Schema) Gt(v float64) *Schema {
	c := s.clone()
	c.bounds.ExclusiveMin = tighterLow(c.bounds.ExclusiveMin, v)
	return c
}

// Lt sets an exclusive upper bound on a number schema.
func (s *Schema) Lt(v float64) *Schema {
	c := s.clone()
	c.bounds.ExclusiveMax = tighterHigh(c.bounds.ExclusiveMax, v)
	return c
}

// Int restricts a number schema to integral values.
func (s *Schema) Int() *Schema {
	c := s.clone()
	c.integer = true
	return c
}

// BigMin sets an inclusive lower bound on a bigint schema.
func (s *Schema) BigMin(v *big.Int) *Schema {
	c := s.clone()
	c.bounds.BigMin = tighterBigLow(c.bounds.BigMin, v)
	return c
}

// BigMax sets an inclusive upper bound on a bigint schema.
func (s *Schema) BigMax(v *big.Int) *Schema {
	c := s.clone()
	c.bounds.BigMax = tighterBigHigh(c.bounds.BigMax, v)
	return c
}

// BigGt sets an exclusive lower bound on a bigint schema.
func (s *Schema) BigGt(v *big.Int) *Schema {
	c := s.clone()
	c.bounds.BigExclusiveMin = tighterBigLow(c.bounds.BigExclusiveMin, v)
	return c
}

// BigLt sets an exclusive upper bound on a bigint schema.
func (s *Schema) BigLt(v *big.Int) *Schema {
	c := s.clone()
	c.bounds.BigExclusiveMax = tighterBigHigh(c.bounds.BigExclusiveMax, v)
	return c
}

// MinLength sets the minimum rune count (strings) or element count
// (arrays, bytes).
func (s *Schema) MinLength(n int) *Schema {
	c := s.clone()
	if c.bounds.MinLen == nil || n > *c.bounds.MinLen {
		c.bounds.MinLen = &n
	}
	return c
}

// MaxLength sets the maximum rune or element count.
func (s *Schema) MaxLength(n int) *Schema {
	c := s.clone()
	if c.bounds.MaxLen == nil || n < *c.bounds.MaxLen {
		c.bounds.MaxLen = &n
	}
	return c
}

// Length requires an exact rune or element count.
func (s *Schema) Length(n int) *Schema {
	c := s.clone()
	c.bounds.Len = &n
	return c
}

// Regex adds a pattern. All patterns on a schema must match.
func (s *Schema) Regex(re *regexp.Regexp) *Schema {
	c := s.clone()
	c.bounds.Patterns = append(c.bounds.Patterns, re)
	return c
}

// UUID restricts a string schema to canonical hyphenated UUIDs.
func (s *Schema) UUID() *Schema {
	c := s.clone()
	c.format = FormatUUID
	return c
}

func tighterLow(cur *float64, v float64) *float64 {
	if cur != nil && *cur >= v {
		return cur
	}
	return &v
}

func tighterHigh(cur *float64, v float64) *float64 {
	if cur != nil && *cur <= v {
		return cur
	}
	return &v
}

func tighterBigLow(cur, v *big.Int) *big.Int {
	if cur != nil && cur.Cmp(v) >= 0 {
		return cur
	}
	return new(big.Int).Set(v)
}

func tighterBigHigh(cur, v *big.Int) *big.Int {
	if cur != nil && cur.Cmp(v) <= 0 {
		return cur
	}
	return new(big.Int).Set(v)
}
