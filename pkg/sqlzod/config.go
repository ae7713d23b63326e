package sqlzod

import (
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hlop3z/sqlzod/internal/alerr"
	"github.com/hlop3z/sqlzod/pkg/z"
)

// Config holds the options a Factory is closed over.
type Config struct {
	// Coerce enables loose input conversion per validator kind.
	Coerce Coerce `yaml:"coerce" json:"coerce"`
}

// Coerce selects the kinds whose validators convert loosely-typed input
// to the canonical type before bounds are checked.
//
// In YAML it is either a bool, enabling every kind, or a map of kind
// names to bools.
type Coerce struct {
	String  bool `yaml:"string" json:"string"`
	Number  bool `yaml:"number" json:"number"`
	Boolean bool `yaml:"boolean" json:"boolean"`
	Date    bool `yaml:"date" json:"date"`
	BigInt  bool `yaml:"bigint" json:"bigint"`
}

// CoerceAll enables coercion for every kind.
func CoerceAll() Coerce {
	return Coerce{String: true, Number: true, Boolean: true, Date: true, BigInt: true}
}

// Any reports whether any kind is coerced.
func (c Coerce) Any() bool {
	return c.String || c.Number || c.Boolean || c.Date || c.BigInt
}

// Applies reports whether validators of kind k are coerced.
func (c Coerce) Applies(k z.Kind) bool {
	switch k {
	case z.KindString:
		return c.String
	case z.KindNumber:
		return c.Number
	case z.KindBoolean:
		return c.Boolean
	case z.KindDate:
		return c.Date
	case z.KindBigInt:
		return c.BigInt
	}
	return false
}

var coerceKinds = []string{"string", "number", "boolean", "date", "bigint"}

func (c *Coerce) set(kind string, on bool) error {
	switch strings.ToLower(kind) {
	case "string":
		c.String = on
	case "number":
		c.Number = on
	case "boolean":
		c.Boolean = on
	case "date":
		c.Date = on
	case "bigint":
		c.BigInt = on
	default:
		err := alerr.Newf(ErrInvalidConfig, "unknown coerce kind %q", kind).
			With("known", strings.Join(coerceKinds, ", "))
		if hint := alerr.SuggestSimilar(kind, coerceKinds); hint != "" {
			err.WithHelp(hint)
		}
		return err
	}
	return nil
}

// UnmarshalYAML accepts a bool or a kind-to-bool map.
func (c *Coerce) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var all bool
		if err := node.Decode(&all); err != nil {
			return alerr.Wrap(ErrInvalidConfig, err, "coerce must be a bool or a map").
				With("line", node.Line)
		}
		if all {
			*c = CoerceAll()
		} else {
			*c = Coerce{}
		}
		return nil
	case yaml.MappingNode:
		var m map[string]bool
		if err := node.Decode(&m); err != nil {
			return alerr.Wrap(ErrInvalidConfig, err, "coerce map values must be bools").
				With("line", node.Line)
		}
		return c.fromMap(m)
	}
	return alerr.New(ErrInvalidConfig, "coerce must be a bool or a map").With("line", node.Line)
}

// MarshalYAML writes true when every kind is enabled and a map otherwise.
func (c Coerce) MarshalYAML() (any, error) {
	if c == CoerceAll() {
		return true, nil
	}
	if !c.Any() {
		return false, nil
	}
	return c.Map(), nil
}

// Map returns the enabled state of every kind.
func (c Coerce) Map() map[string]bool {
	return map[string]bool{
		"string":  c.String,
		"number":  c.Number,
		"boolean": c.Boolean,
		"date":    c.Date,
		"bigint":  c.BigInt,
	}
}

func (c *Coerce) fromMap(m map[string]bool) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	next := Coerce{}
	for _, k := range keys {
		if err := next.set(k, m[k]); err != nil {
			return err
		}
	}
	*c = next
	return nil
}

// ParseCoerce builds a Coerce from a comma-separated kind list such as
// "date,number". "all" and "true" enable every kind; "" and "none"
// disable coercion.
func ParseCoerce(list string) (Coerce, error) {
	switch strings.ToLower(strings.TrimSpace(list)) {
	case "", "none", "false":
		return Coerce{}, nil
	case "all", "true":
		return CoerceAll(), nil
	}
	var c Coerce
	for _, kind := range strings.Split(list, ",") {
		kind = strings.TrimSpace(kind)
		if kind == "" {
			continue
		}
		if err := c.set(kind, true); err != nil {
			return Coerce{}, err
		}
	}
	return c, nil
}

// List returns the enabled kinds in ParseCoerce form.
func (c Coerce) List() string {
	if c == CoerceAll() {
		return "all"
	}
	var on []string
	for _, k := range coerceKinds {
		if c.Map()[k] {
			on = append(on, k)
		}
	}
	if len(on) == 0 {
		return "none"
	}
	return strings.Join(on, ",")
}
