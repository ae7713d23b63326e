package sqlzod

import "github.com/hlop3z/sqlzod/internal/alerr"

// Error is the coded error returned by derivation. Use errors.As to read
// its code and context.
type Error = alerr.Error

// Code is a stable, machine-readable error code.
type Code = alerr.Code

// Error codes returned by derivation.
const (
	// ErrUnknownRefinementKey is returned when a refinement names a field
	// the derived object does not have at that nesting level.
	ErrUnknownRefinementKey = alerr.ErrUnknownRefinementKey

	// ErrUnsupportedEntityKind is returned when an insert or update
	// validator is requested for a view or an enum.
	ErrUnsupportedEntityKind = alerr.ErrUnsupportedEntityKind

	// ErrInvalidRefinement is returned for a nil refinement, a nil result
	// from a refinement function, or a nested refinement on a leaf field.
	ErrInvalidRefinement = alerr.ErrInvalidRefinement

	// ErrInvalidConfig is returned for an unparseable mode or coerce setting.
	ErrInvalidConfig = alerr.ErrInvalidConfig

	// ErrUnsupportedDialect is returned when an entity names an unknown dialect.
	ErrUnsupportedDialect = alerr.EUnsupportedDialect
)

// ErrorCode returns the code of err, or "" when err carries none.
func ErrorCode(err error) Code {
	return alerr.GetErrorCode(err)
}

// IsUnknownRefinementKey reports whether err is an unknown refinement key error.
func IsUnknownRefinementKey(err error) bool {
	return alerr.Is(err, ErrUnknownRefinementKey)
}

// IsUnsupportedEntityKind reports whether err is an unsupported entity kind error.
func IsUnsupportedEntityKind(err error) bool {
	return alerr.Is(err, ErrUnsupportedEntityKind)
}
