package dialect

import (
	"maps"

	"github.com/hlop3z/sqlzod/pkg/meta"
)

// singlestore implements the Dialect interface for SingleStore. Its type
// system is MySQL's plus native vectors.
type singlestore struct {
	vocabulary
}

// SingleStore returns the SingleStore dialect implementation.
func SingleStore() Dialect {
	kinds := append([]string{"vector"}, mysqlKinds...)
	aliases := maps.Clone(mysqlAliases)
	aliases["geographypoint"] = alias{kind: KindCustom}
	return &singlestore{newVocabulary(meta.SingleStore, kinds, aliases)}
}

func (d *singlestore) QuoteIdent(name string) string { return quoteIdentBacktick(name) }
