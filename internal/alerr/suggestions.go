package alerr

import (
	"sort"
	"strings"
)

// NewUnknownRefinementKeyError creates an error for a refinement that names
// a field the derived object does not have. The closest known field, if
// any, is attached as help.
func NewUnknownRefinementKeyError(entity string, path []string, key string, known []string) *Error {
	err := Newf(ErrUnknownRefinementKey, "unknown refinement key %q", key).
		WithEntity(entity).
		WithPath(path).
		With("key", key)
	if hint := SuggestSimilar(key, known); hint != "" {
		err.WithHelp(hint)
	} else if len(known) > 0 {
		sorted := append([]string(nil), known...)
		sort.Strings(sorted)
		err.WithNote("known fields: " + strings.Join(sorted, ", "))
	}
	return err
}

// NewUnsupportedEntityError creates an error for an entity that cannot be
// derived in the given mode, such as a view passed to an insert factory.
func NewUnsupportedEntityError(entity, kind, mode string) *Error {
	return Newf(ErrUnsupportedEntityKind, "cannot derive %s validator from %s", mode, kind).
		WithEntity(entity).
		With("kind", kind).
		With("mode", mode).
		WithHelp("only tables support insert and update validators")
}

// NewInvalidRefinementError creates an error for a refinement whose shape
// does not fit its target field.
func NewInvalidRefinementError(entity string, path []string, reason string) *Error {
	return New(ErrInvalidRefinement, reason).
		WithEntity(entity).
		WithPath(path)
}

// NewUnknownDialectError creates an error for an unrecognized dialect name.
func NewUnknownDialectError(name string, known []string) *Error {
	err := Newf(EUnsupportedDialect, "unknown dialect %q", name).
		With("dialect", name)
	if hint := SuggestSimilar(name, known); hint != "" {
		err.WithHelp(hint)
	}
	return err
}
