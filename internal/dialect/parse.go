package dialect

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hlop3z/sqlzod/pkg/meta"
)

// ParseType parses a declared column type such as "varchar(10)[2][]",
// "int(11) unsigned", "enum('a','b')" or "numeric(10, 2)" into column
// metadata. Array brackets are read outermost first. The returned column
// has no name or nullability; callers fill those in.
func ParseType(d Dialect, decl string) (*meta.Column, error) {
	raw := strings.TrimSpace(decl)
	if raw == "" {
		return nil, fmt.Errorf("empty column type")
	}

	base, sizes, err := splitArraySuffix(raw)
	if err != nil {
		return nil, fmt.Errorf("column type %q: %w", decl, err)
	}

	name, args, rest, err := splitArgs(base)
	if err != nil {
		return nil, fmt.Errorf("column type %q: %w", decl, err)
	}

	col := &meta.Column{SQLType: raw}
	var words []string
	for _, w := range strings.Fields(strings.ToLower(name + " " + rest)) {
		switch w {
		case "unsigned":
			col.Unsigned = true
		case "zerofill", "signed":
		default:
			words = append(words, w)
		}
	}
	col.Kind, col.Mode = d.Canonical(strings.Join(words, " "))
	if err := applyArgs(col, args); err != nil {
		return nil, fmt.Errorf("column type %q: %w", decl, err)
	}

	// Wrap innermost first so sizes[0] ends up outermost.
	for i := len(sizes) - 1; i >= 0; i-- {
		col = &meta.Column{Kind: KindArray, SQLType: raw, Element: col, Size: sizes[i]}
	}
	return col, nil
}

// splitArraySuffix strips trailing "[n]" groups and returns their sizes in
// declaration order.
func splitArraySuffix(s string) (string, []*int, error) {
	var sizes []*int
	for strings.HasSuffix(s, "]") {
		open := strings.LastIndex(s, "[")
		if open < 0 {
			return "", nil, fmt.Errorf("unbalanced array brackets")
		}
		inner := strings.TrimSpace(s[open+1 : len(s)-1])
		var size *int
		if inner != "" {
			n, err := strconv.Atoi(inner)
			if err != nil || n < 0 {
				return "", nil, fmt.Errorf("invalid array size %q", inner)
			}
			size = &n
		}
		sizes = append([]*int{size}, sizes...)
		s = strings.TrimSpace(s[:open])
	}
	// "integer ARRAY" is the SQL-standard spelling of "integer[]".
	if lower := strings.ToLower(s); strings.HasSuffix(lower, " array") {
		s = strings.TrimSpace(s[:len(s)-len(" array")])
		sizes = append([]*int{nil}, sizes...)
	}
	return s, sizes, nil
}

// splitArgs splits "name(args) rest" honoring quoted strings inside the
// argument list.
func splitArgs(s string) (name string, args []string, rest string, err error) {
	open := strings.IndexByte(s, '(')
	if open < 0 {
		return s, nil, "", nil
	}
	name = s[:open]

	var cur strings.Builder
	inQuote := false
	depth := 0
	for i := open + 1; i < len(s); i++ {
		c := s[i]
		switch {
		case inQuote && c == '\'' && i+1 < len(s) && s[i+1] == '\'':
			cur.WriteByte('\'')
			i++
		case c == '\'':
			inQuote = !inQuote
			cur.WriteByte(c)
		case inQuote:
			cur.WriteByte(c)
		case c == '(':
			depth++
			cur.WriteByte(c)
		case c == ')' && depth > 0:
			depth--
			cur.WriteByte(c)
		case c == ')':
			args = append(args, strings.TrimSpace(cur.String()))
			return name, args, s[i+1:], nil
		case c == ',' && depth == 0:
			args = append(args, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	return "", nil, "", fmt.Errorf("unterminated argument list")
}

func applyArgs(col *meta.Column, args []string) error {
	if len(args) == 0 {
		return nil
	}
	switch col.Kind {
	case KindEnum:
		for _, a := range args {
			col.EnumValues = append(col.EnumValues, unquote(a))
		}
		return nil
	case "char", "varchar", "nchar", "nvarchar", "binary", "varbinary", "bit", "text", "string":
		if strings.EqualFold(args[0], "max") {
			return nil
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid length %q", args[0])
		}
		col.Length = &n
		return nil
	case "vector", "halfvec", "sparsevec":
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid dimensions %q", args[0])
		}
		col.Dimensions = &n
		return nil
	}

	// numeric(p, s), float(p), timestamp(p), int(11): precision and scale.
	// Non-numeric arguments (set members, geometry(point, 4326)) are kept
	// only in SQLType.
	p, err := strconv.Atoi(args[0])
	if err != nil {
		return nil
	}
	col.Precision = &p
	if len(args) > 1 {
		if sc, err := strconv.Atoi(args[1]); err == nil {
			col.Scale = &sc
		}
	}
	return nil
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		return s[1 : len(s)-1]
	}
	return s
}

// FormatType renders column metadata back into a declared type string
// that ParseType accepts.
func FormatType(c *meta.Column) string {
	if c.Kind == KindArray && c.Element != nil {
		var suffix strings.Builder
		inner := c
		for inner.Kind == KindArray && inner.Element != nil {
			suffix.WriteByte('[')
			if inner.Size != nil {
				suffix.WriteString(strconv.Itoa(*inner.Size))
			}
			suffix.WriteByte(']')
			inner = inner.Element
		}
		return FormatType(inner) + suffix.String()
	}

	var b strings.Builder
	b.WriteString(c.Kind)
	switch {
	case len(c.EnumValues) > 0:
		b.WriteByte('(')
		for i, v := range c.EnumValues {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString("'" + strings.ReplaceAll(v, "'", "''") + "'")
		}
		b.WriteByte(')')
	case c.Length != nil:
		fmt.Fprintf(&b, "(%d)", *c.Length)
	case c.Dimensions != nil:
		fmt.Fprintf(&b, "(%d)", *c.Dimensions)
	case c.Precision != nil && c.Scale != nil:
		fmt.Fprintf(&b, "(%d, %d)", *c.Precision, *c.Scale)
	case c.Precision != nil:
		fmt.Fprintf(&b, "(%d)", *c.Precision)
	}
	if c.Unsigned {
		b.WriteString(" unsigned")
	}
	return b.String()
}
