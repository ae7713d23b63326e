package dialect

import (
	"slices"
	"strings"

	"github.com/hlop3z/sqlzod/pkg/meta"
)

// alias is the target of a type-name alias.
type alias struct {
	kind string
	mode string
}

// vocabulary is the shared implementation behind every dialect: a closed
// kind set plus aliases. Dialects embed it and add quoting rules.
type vocabulary struct {
	name    meta.Dialect
	kinds   []string
	aliases map[string]alias
}

func newVocabulary(name meta.Dialect, kinds []string, aliases map[string]alias) vocabulary {
	return vocabulary{name: name, kinds: sortedKinds(kinds), aliases: aliases}
}

func (v vocabulary) Name() meta.Dialect { return v.name }

func (v vocabulary) Kinds() []string { return slices.Clone(v.kinds) }

func (v vocabulary) Known(kind string) bool {
	_, found := slices.BinarySearch(v.kinds, kind)
	return found
}

func (v vocabulary) Canonical(typeName string) (string, string) {
	name := strings.Join(strings.Fields(strings.ToLower(typeName)), " ")
	if a, ok := v.aliases[name]; ok {
		return a.kind, a.mode
	}
	return name, ""
}

// quoteIdentDoubleQuote quotes with ANSI double quotes.
func quoteIdentDoubleQuote(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
