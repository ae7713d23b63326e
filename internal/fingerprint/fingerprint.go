// Package fingerprint hashes derived validators with merkle trees.
// A catalog fingerprint changes whenever any validator derived from it
// would accept different input, and the per-field hashes locate the change.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/cbergoon/merkletree"

	"github.com/hlop3z/sqlzod/internal/alerr"
	"github.com/hlop3z/sqlzod/pkg/meta"
	"github.com/hlop3z/sqlzod/pkg/sqlzod"
	"github.com/hlop3z/sqlzod/pkg/z"
)

// CatalogHash represents the merkle root hash of a catalog's validators.
type CatalogHash struct {
	Root     string                 // Root hash of every derived validator
	Entities map[string]*EntityHash // Individual entity hashes for drill-down
}

// EntityHash represents the hash of every validator derived from one entity.
type EntityHash struct {
	Name   string            // Qualified entity name
	Hash   string            // Hash of all modes
	Modes  map[string]string // Mode name -> hash of the whole validator
	Fields map[string]string // "mode.field" -> hash of the field validator
}

// entityContent implements merkletree.Content for entity-level hashing.
type entityContent struct {
	name string
	hash string
}

func (e entityContent) CalculateHash() ([]byte, error) {
	h := sha256.Sum256([]byte(e.name + "|" + e.hash))
	return h[:], nil
}

func (e entityContent) Equals(other merkletree.Content) (bool, error) {
	o, ok := other.(entityContent)
	if !ok {
		return false, nil
	}
	return e.name == o.name && e.hash == o.hash, nil
}

// Modes returns the derivation modes an entity supports.
func Modes(e meta.Entity) []sqlzod.Mode {
	if _, ok := e.(*meta.Table); ok {
		return []sqlzod.Mode{sqlzod.ModeSelect, sqlzod.ModeInsert, sqlzod.ModeUpdate}
	}
	return []sqlzod.Mode{sqlzod.ModeSelect}
}

// Compute derives every validator in cat with f and hashes the results.
// Source order does not affect the root.
func Compute(f *sqlzod.Factory, cat *meta.Catalog) (*CatalogHash, error) {
	result := &CatalogHash{Entities: make(map[string]*EntityHash)}
	if cat == nil {
		result.Root = emptyHash()
		return result, nil
	}

	for _, e := range cat.Entities() {
		eh, err := ComputeEntity(f, e)
		if err != nil {
			return nil, err
		}
		result.Entities[eh.Name] = eh
	}

	root, err := Root(result.Entities)
	if err != nil {
		return nil, err
	}
	result.Root = root
	return result, nil
}

// Root builds the merkle tree over entity hashes in name order and returns
// its root.
func Root(entities map[string]*EntityHash) (string, error) {
	if len(entities) == 0 {
		return emptyHash(), nil
	}
	names := make([]string, 0, len(entities))
	for name := range entities {
		names = append(names, name)
	}
	sort.Strings(names)

	contents := make([]merkletree.Content, 0, len(names))
	for _, name := range names {
		contents = append(contents, entityContent{name: name, hash: entities[name].Hash})
	}
	tree, err := merkletree.NewTree(contents)
	if err != nil {
		return "", alerr.Wrap(alerr.EInternalError, err, "failed to build merkle tree")
	}
	return hex.EncodeToString(tree.MerkleRoot()), nil
}

// ComputeEntity hashes the validators derived from a single entity.
func ComputeEntity(f *sqlzod.Factory, e meta.Entity) (*EntityHash, error) {
	result := &EntityHash{
		Name:   e.QualifiedName(),
		Modes:  make(map[string]string),
		Fields: make(map[string]string),
	}

	var modeHashes []string
	for _, mode := range Modes(e) {
		s, err := f.Create(e, mode, nil)
		if err != nil {
			return nil, err
		}
		m := mode.String()
		h := hashString(s.String())
		result.Modes[m] = h
		modeHashes = append(modeHashes, m+":"+h)

		for key, field := range fields(s) {
			result.Fields[m+"."+key] = hashString(field.String())
		}
	}

	result.Hash = hashString(fmt.Sprintf("entity:%s|kind:%s|modes:[%s]",
		result.Name,
		e.EntityKind(),
		strings.Join(modeHashes, ","),
	))
	return result, nil
}

// fields returns the top-level fields of an object validator. Other
// validators have none.
func fields(s *z.Schema) map[string]*z.Schema {
	out := make(map[string]*z.Schema)
	if s.Kind() != z.KindObject {
		return out
	}
	for key, field := range s.Shape().All() {
		out[key] = field
	}
	return out
}

// hashString computes SHA256 hash of a string and returns hex encoding.
func hashString(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}

// emptyHash returns a consistent hash for empty catalogs.
func emptyHash() string {
	return hashString("empty_catalog")
}

// Compare compares two catalog hashes and returns differences.
func Compare(expected, actual *CatalogHash) *Comparison {
	result := &Comparison{
		Match:        expected.Root == actual.Root,
		ExpectedRoot: expected.Root,
		ActualRoot:   actual.Root,
		Diffs:        make(map[string]*EntityDiff),
	}
	if result.Match {
		return result
	}

	for name := range expected.Entities {
		if _, ok := actual.Entities[name]; !ok {
			result.Missing = append(result.Missing, name)
		}
	}
	for name, a := range actual.Entities {
		e, ok := expected.Entities[name]
		if !ok {
			result.Extra = append(result.Extra, name)
			continue
		}
		if e.Hash != a.Hash {
			result.Diffs[name] = compareEntities(e, a)
		}
	}
	sort.Strings(result.Missing)
	sort.Strings(result.Extra)
	return result
}

// Comparison represents the result of comparing two catalog hashes.
type Comparison struct {
	Match        bool                   `json:"match"`             // True if every validator is identical
	ExpectedRoot string                 `json:"expected_root"`     // Expected root hash
	ActualRoot   string                 `json:"actual_root"`       // Actual root hash
	Diffs        map[string]*EntityDiff `json:"diffs,omitempty"`   // Entities with differences
	Missing      []string               `json:"missing,omitempty"` // Entities missing from actual
	Extra        []string               `json:"extra,omitempty"`   // Extra entities in actual
}

// DiffNames returns the names of modified entities, sorted.
func (c *Comparison) DiffNames() []string {
	names := make([]string, 0, len(c.Diffs))
	for name := range c.Diffs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EntityDiff lists the fields whose validators changed, keyed "mode.field".
type EntityDiff struct {
	Name          string   `json:"name"`                     // Entity name
	Missing       []string `json:"missing,omitempty"`        // Fields missing from actual
	Extra         []string `json:"extra,omitempty"`          // Extra fields in actual
	Modified      []string `json:"modified,omitempty"`       // Fields with different validators
	ModesModified []string `json:"modes_modified,omitempty"` // Modes whose whole validator changed
}

// HasDifferences returns true if the entity has any differences.
func (d *EntityDiff) HasDifferences() bool {
	return len(d.Missing) > 0 || len(d.Extra) > 0 || len(d.Modified) > 0 || len(d.ModesModified) > 0
}

func compareEntities(expected, actual *EntityHash) *EntityDiff {
	diff := &EntityDiff{Name: expected.Name}

	for key, hash := range expected.Fields {
		actualHash, ok := actual.Fields[key]
		if !ok {
			diff.Missing = append(diff.Missing, key)
		} else if hash != actualHash {
			diff.Modified = append(diff.Modified, key)
		}
	}
	for key := range actual.Fields {
		if _, ok := expected.Fields[key]; !ok {
			diff.Extra = append(diff.Extra, key)
		}
	}
	for mode, hash := range expected.Modes {
		if actual.Modes[mode] != hash {
			diff.ModesModified = append(diff.ModesModified, mode)
		}
	}

	sort.Strings(diff.Missing)
	sort.Strings(diff.Extra)
	sort.Strings(diff.Modified)
	sort.Strings(diff.ModesModified)
	return diff
}
