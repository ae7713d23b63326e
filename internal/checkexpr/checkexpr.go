// Package checkexpr folds SQL CHECK constraint text into validator bounds.
//
// Matching is textual and narrow. An expression is split on
// top-level AND; every conjunct must match one of the recognized forms or
// the whole expression is ignored:
//
//	length(col) BETWEEN a AND b     string length a..b
//	length(col) > n | >= n | < n | <= n | = n
//	col BETWEEN a AND b             inclusive numeric range
//	col > n | >= n | < n | <= n     numeric bound (> and < stay exclusive)
//	col LIKE 'p' | ILIKE 'p'        anchored case-insensitive pattern
//	col ~ 're' | ~* 're'            case-insensitive regex
//
// Bounds only ever tighten. A bound that does not fit the validator kind
// (a length bound on a number, say) is skipped.
package checkexpr

import (
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/hlop3z/sqlzod/pkg/z"
)

// Translate folds every recognized expression into s. Expressions whose
// conjuncts constrain more than one operand are ignored.
func Translate(s *z.Schema, exprs []string) *z.Schema {
	for _, expr := range exprs {
		cs, ok := Parse(expr)
		if !ok || !singleOperand(cs) {
			continue
		}
		for _, c := range cs {
			s = c.apply(s)
		}
	}
	return s
}

// TranslateFor folds only the conjuncts whose operand is column. It is used
// for table-level checks, which may mention several columns.
func TranslateFor(s *z.Schema, column string, exprs []string) *z.Schema {
	for _, expr := range exprs {
		cs, ok := Parse(expr)
		if !ok {
			continue
		}
		for _, c := range cs {
			if strings.EqualFold(c.Operand, column) {
				s = c.apply(s)
			}
		}
	}
	return s
}

func singleOperand(cs []Constraint) bool {
	for _, c := range cs[1:] {
		if !strings.EqualFold(c.Operand, cs[0].Operand) {
			return false
		}
	}
	return true
}

// Op is the kind of a recognized constraint.
type Op int

const (
	OpLengthBetween Op = iota
	OpLengthCompare
	OpBetween
	OpCompare
	OpPattern
)

// Constraint is one recognized conjunct.
type Constraint struct {
	Op      Op
	Operand string
	// Comparator is one of > >= < <= = for compare ops.
	Comparator string
	// Low and High hold number literals as written.
	Low  string
	High string
	// Pattern is the compiled regex for OpPattern.
	Pattern *regexp.Regexp
}

const (
	ident  = `\(?(?:[\x60"\[]?\w+[\x60"\]]?\.)?[\x60"\[]?(\w+)[\x60"\]]?\)?`
	number = `\(?\s*([-+]?\d+(?:\.\d+)?(?:[eE][-+]?\d+)?)\s*\)?(?:\s*::\s*[\w ]+?)?`
	lenFn  = `(?:length|char_length|character_length|len)\s*\(\s*` + ident + `(?:\s*::\s*\w+)?\s*\)`
	quoted = `'((?:[^']|'')*)'(?:\s*::\s*\w+)?`
)

var (
	reLenBetween = regexp.MustCompile(`(?i)^` + lenFn + `\s+between\s+` + number + `\s+and\s+` + number + `$`)
	reLenCompare = regexp.MustCompile(`(?i)^` + lenFn + `\s*(>=|<=|>|<|=)\s*` + number + `$`)
	reBetween    = regexp.MustCompile(`(?i)^` + ident + `(?:\s*::\s*\w+)?\s+between\s+` + number + `\s+and\s+` + number + `$`)
	reCompare    = regexp.MustCompile(`(?i)^` + ident + `(?:\s*::\s*\w+)?\s*(>=|<=|>|<)\s*` + number + `$`)
	reLike       = regexp.MustCompile(`(?i)^` + ident + `(?:\s*::\s*\w+)?\s+(~~\*?|i?like)\s+` + quoted + `$`)
	reRegex      = regexp.MustCompile(`(?i)^` + ident + `(?:\s*::\s*\w+)?\s*(~\*?)\s*` + quoted + `$`)
	reCheckWrap  = regexp.MustCompile(`(?i)^check\s*`)
	reEndBetween = regexp.MustCompile(`(?i)\bbetween\s+\S+$`)
	reNotValid   = regexp.MustCompile(`(?i)\s+not\s+valid$`)
)

// Parse splits expr into recognized constraints. It reports false when any
// conjunct is not recognized.
func Parse(expr string) ([]Constraint, bool) {
	parts := conjuncts(normalize(expr))
	if len(parts) == 0 {
		return nil, false
	}
	out := make([]Constraint, 0, len(parts))
	for _, part := range parts {
		c, ok := parseOne(normalize(part))
		if !ok {
			return nil, false
		}
		out = append(out, c)
	}
	return out, true
}

func parseOne(s string) (Constraint, bool) {
	if m := reLenBetween.FindStringSubmatch(s); m != nil {
		return Constraint{Op: OpLengthBetween, Operand: m[1], Low: m[2], High: m[3]}, true
	}
	if m := reLenCompare.FindStringSubmatch(s); m != nil {
		return Constraint{Op: OpLengthCompare, Operand: m[1], Comparator: m[2], Low: m[3]}, true
	}
	if m := reBetween.FindStringSubmatch(s); m != nil {
		return Constraint{Op: OpBetween, Operand: m[1], Low: m[2], High: m[3]}, true
	}
	if m := reCompare.FindStringSubmatch(s); m != nil {
		return Constraint{Op: OpCompare, Operand: m[1], Comparator: m[2], Low: m[3]}, true
	}
	if m := reLike.FindStringSubmatch(s); m != nil {
		re, err := likeToRegex(unescapeQuotes(m[3]))
		if err != nil {
			return Constraint{}, false
		}
		return Constraint{Op: OpPattern, Operand: m[1], Pattern: re}, true
	}
	if m := reRegex.FindStringSubmatch(s); m != nil {
		re, err := regexp.Compile(`(?i)` + unescapeQuotes(m[3]))
		if err != nil {
			return Constraint{}, false
		}
		return Constraint{Op: OpPattern, Operand: m[1], Pattern: re}, true
	}
	return Constraint{}, false
}

// -----------------------------------------------------------------------------
// Text handling
// -----------------------------------------------------------------------------

// Body strips a leading CHECK keyword, a trailing NOT VALID marker and
// redundant outer parentheses, as catalogs print constraint definitions.
func Body(expr string) string {
	s := strings.TrimSpace(expr)
	s = strings.TrimSpace(reNotValid.ReplaceAllString(s, ""))
	return normalize(s)
}

// normalize strips a leading CHECK keyword and any parentheses that wrap
// the whole expression.
func normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(reCheckWrap.ReplaceAllString(s, ""))
	for len(s) >= 2 && s[0] == '(' && closingParen(s, 0) == len(s)-1 {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

// closingParen returns the index of the parenthesis matching s[open],
// skipping quoted text, or -1.
func closingParen(s string, open int) int {
	depth := 0
	inQuote := false
	for i := open; i < len(s); i++ {
		switch c := s[i]; {
		case c == '\'':
			inQuote = !inQuote
		case inQuote:
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// conjuncts splits s on top-level AND keywords, re-joining the AND that
// belongs to a BETWEEN.
func conjuncts(s string) []string {
	var raw []string
	depth := 0
	inQuote := false
	start := 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '\'':
			inQuote = !inQuote
		case inQuote:
		case c == '(':
			depth++
		case c == ')':
			depth--
		case depth == 0 && isAndAt(s, i):
			raw = append(raw, strings.TrimSpace(s[start:i]))
			i += 2
			start = i + 1
		}
	}
	raw = append(raw, strings.TrimSpace(s[start:]))

	var out []string
	for i := 0; i < len(raw); i++ {
		part := raw[i]
		if reEndBetween.MatchString(part) && i+1 < len(raw) {
			part += " and " + raw[i+1]
			i++
		}
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// isAndAt reports whether a standalone AND keyword starts at s[i].
func isAndAt(s string, i int) bool {
	if i+3 > len(s) || !strings.EqualFold(s[i:i+3], "and") {
		return false
	}
	before := i == 0 || isSpace(s[i-1]) || s[i-1] == ')'
	after := i+3 == len(s) || isSpace(s[i+3]) || s[i+3] == '('
	return before && after
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func unescapeQuotes(s string) string {
	return strings.ReplaceAll(s, "''", "'")
}

// likeToRegex converts a LIKE pattern to an anchored case-insensitive
// regex. % matches any run, _ any single character, and a backslash makes
// the next character literal.
func likeToRegex(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString("(?i)^")
	escaped := false
	for _, r := range pattern {
		switch {
		case escaped:
			b.WriteString(regexp.QuoteMeta(string(r)))
			escaped = false
		case r == '\\':
			escaped = true
		case r == '%':
			b.WriteString(".*")
		case r == '_':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	if escaped {
		b.WriteString(`\\`)
	}
	b.WriteString("$")
	return regexp.Compile(b.String())
}

// -----------------------------------------------------------------------------
// Application
// -----------------------------------------------------------------------------

func (c Constraint) apply(s *z.Schema) *z.Schema {
	switch c.Op {
	case OpLengthBetween:
		lo, okLo := parseCount(c.Low)
		hi, okHi := parseCount(c.High)
		if s.Kind() != z.KindString || !okLo || !okHi {
			return s
		}
		return s.MinLength(lo).MaxLength(hi)
	case OpLengthCompare:
		n, ok := parseCount(c.Low)
		if s.Kind() != z.KindString || !ok {
			return s
		}
		switch c.Comparator {
		case ">":
			return s.MinLength(n + 1)
		case ">=":
			return s.MinLength(n)
		case "<":
			return s.MaxLength(max(n-1, 0))
		case "<=":
			return s.MaxLength(n)
		case "=":
			return s.MinLength(n).MaxLength(n)
		}
	case OpBetween:
		return applyBound(applyBound(s, ">=", c.Low), "<=", c.High)
	case OpCompare:
		return applyBound(s, c.Comparator, c.Low)
	case OpPattern:
		if s.Kind() == z.KindString {
			return s.Regex(c.Pattern)
		}
	}
	return s
}

func applyBound(s *z.Schema, cmp, literal string) *z.Schema {
	switch s.Kind() {
	case z.KindNumber:
		f, err := strconv.ParseFloat(literal, 64)
		if err != nil || math.IsInf(f, 0) {
			return s
		}
		switch cmp {
		case ">":
			return s.Gt(f)
		case ">=":
			return s.Min(f)
		case "<":
			return s.Lt(f)
		case "<=":
			return s.Max(f)
		}
	case z.KindBigInt:
		n, ok := new(big.Int).SetString(strings.TrimPrefix(literal, "+"), 10)
		if !ok {
			return s
		}
		switch cmp {
		case ">":
			return s.BigGt(n)
		case ">=":
			return s.BigMin(n)
		case "<":
			return s.BigLt(n)
		case "<=":
			return s.BigMax(n)
		}
	}
	return s
}

func parseCount(literal string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimPrefix(literal, "+"))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
