// Package lockfile provides read/write/verify for sqlzod.lock files.
// The lock file records the fingerprint of every derived validator so CI
// can fail when a schema change silently alters what the API accepts.
//
// Format: the root hash on the first line, then one "hash name [key]"
// line per entity, mode and field, sorted.
package lockfile

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hlop3z/sqlzod/internal/alerr"
	"github.com/hlop3z/sqlzod/internal/fingerprint"
)

// DefaultPath returns the default lock file path for a project.
// The lock file is placed next to sqlzod.yaml.
func DefaultPath() string {
	return "sqlzod.lock"
}

// Encode renders a catalog hash in lock file form.
func Encode(h *fingerprint.CatalogHash) []byte {
	var b bytes.Buffer
	b.WriteString(h.Root + "\n")

	names := make([]string, 0, len(h.Entities))
	for name := range h.Entities {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		e := h.Entities[name]
		fmt.Fprintf(&b, "%s %s\n", e.Hash, name)
		for _, mode := range sortedKeys(e.Modes) {
			fmt.Fprintf(&b, "%s %s %s\n", e.Modes[mode], name, mode)
		}
		for _, key := range sortedKeys(e.Fields) {
			fmt.Fprintf(&b, "%s %s %s\n", e.Fields[key], name, key)
		}
	}
	return b.Bytes()
}

// Decode parses lock file contents. The root must agree with the entity
// hashes, so hand edits are detected.
func Decode(data []byte) (*fingerprint.CatalogHash, error) {
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	root := strings.TrimSpace(lines[0])
	if root == "" {
		return nil, alerr.New(alerr.ErrLockRead, "lock file is empty")
	}

	h := &fingerprint.CatalogHash{Root: root, Entities: make(map[string]*fingerprint.EntityHash)}
	entity := func(name string) *fingerprint.EntityHash {
		e, ok := h.Entities[name]
		if !ok {
			e = &fingerprint.EntityHash{Name: name, Modes: make(map[string]string), Fields: make(map[string]string)}
			h.Entities[name] = e
		}
		return e
	}

	for i, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.Fields(line)
		switch len(parts) {
		case 2:
			entity(parts[1]).Hash = parts[0]
		case 3:
			e := entity(parts[1])
			if strings.Contains(parts[2], ".") {
				e.Fields[parts[2]] = parts[0]
			} else {
				e.Modes[parts[2]] = parts[0]
			}
		default:
			return nil, alerr.New(alerr.ErrLockRead, "malformed lock file line").
				With("line", i+2).
				With("content", line)
		}
	}

	for name, e := range h.Entities {
		if e.Hash == "" {
			return nil, alerr.New(alerr.ErrLockRead, "lock file entry has no entity hash").WithEntity(name)
		}
	}
	want, err := fingerprint.Root(h.Entities)
	if err != nil {
		return nil, err
	}
	if want != root {
		return nil, alerr.New(alerr.ErrLockRead, "lock file root does not match its entries").
			With("root", root).
			With("computed", want).
			WithHelp("the lock file was edited by hand; regenerate it with 'sqlzod lock'")
	}
	return h, nil
}

// Read reads and parses a lock file from the given path.
// Returns nil if the file does not exist.
func Read(path string) (*fingerprint.CatalogHash, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, alerr.Wrap(alerr.ErrLockRead, err, "failed to read lock file").WithFile(path, 0)
	}
	h, err := Decode(data)
	if err != nil {
		if e, ok := err.(*alerr.Error); ok {
			e.WithFile(path, 0)
		}
		return nil, err
	}
	return h, nil
}

// Write writes the lock file for h.
func Write(path string, h *fingerprint.CatalogHash) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return alerr.Wrap(alerr.ErrLockWrite, err, "failed to create lock file directory").WithFile(path, 0)
		}
	}
	if err := os.WriteFile(path, Encode(h), 0644); err != nil {
		return alerr.Wrap(alerr.ErrLockWrite, err, "failed to write lock file").WithFile(path, 0)
	}
	return nil
}

// Verify checks whether the lock file matches the current fingerprint.
// Returns nil if everything matches, or an E8003 error naming the first
// changed entity if not.
func Verify(path string, actual *fingerprint.CatalogHash) error {
	result, err := VerifyDetailed(path, actual)
	if err != nil {
		return err
	}
	if !result.LockFileExists {
		return alerr.New(alerr.ErrLockRead, "lock file not found").
			WithFile(path, 0).
			WithHelp("run 'sqlzod lock' to create it")
	}
	if result.Valid {
		return nil
	}

	c := result.Comparison
	mismatch := alerr.New(alerr.ErrLockMismatch, "derived validators differ from the lock file").
		WithFile(path, 0).
		With("missing", len(c.Missing)).
		With("extra", len(c.Extra)).
		With("modified", len(c.Diffs))
	switch {
	case len(c.Diffs) > 0:
		mismatch.WithEntity(c.DiffNames()[0])
	case len(c.Missing) > 0:
		mismatch.WithEntity(c.Missing[0])
	case len(c.Extra) > 0:
		mismatch.WithEntity(c.Extra[0])
	}
	return mismatch.WithHelp("review the change, then run 'sqlzod lock'")
}

// VerificationResult holds detailed results of lock file verification.
type VerificationResult struct {
	Valid          bool                    // Overall validity
	LockFileExists bool                    // Whether lock file exists
	Comparison     *fingerprint.Comparison // Nil when the lock file is missing
}

// VerifyDetailed checks the lock file and returns detailed verification results.
// Unlike Verify which returns an error, this returns structured results for UI display.
func VerifyDetailed(path string, actual *fingerprint.CatalogHash) (*VerificationResult, error) {
	locked, err := Read(path)
	if err != nil {
		return nil, err
	}
	if locked == nil {
		return &VerificationResult{}, nil
	}
	c := fingerprint.Compare(locked, actual)
	return &VerificationResult{Valid: c.Match, LockFileExists: true, Comparison: c}, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
