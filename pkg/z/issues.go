package z

import (
	"errors"
	"strings"
)

// Issue codes reported by Parse.
const (
	CodeInvalidType   = "invalid_type"
	CodeRequired      = "required"
	CodeTooSmall      = "too_small"
	CodeTooBig        = "too_big"
	CodeNotInteger    = "not_integer"
	CodeInvalidString = "invalid_string"
	CodeInvalidEnum   = "invalid_enum_value"
	CodeInvalidUnion  = "invalid_union"
	CodeCustom        = "custom"
)

// Issue is one validation failure.
type Issue struct {
	// Path locates the failing value inside the input: object keys and
	// array indexes, outermost first.
	Path    []string `json:"path"`
	Code    string   `json:"code"`
	Message string   `json:"message"`
}

// PathString renders Path with dots, or "(root)" for the top-level value.
func (i Issue) PathString() string {
	if len(i.Path) == 0 {
		return "(root)"
	}
	return strings.Join(i.Path, ".")
}

// Error collects every issue found while parsing one value.
type Error struct {
	Issues []Issue
}

func (e *Error) Error() string {
	if len(e.Issues) == 0 {
		return "z: validation failed"
	}
	var sb strings.Builder
	for i, is := range e.Issues {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(is.PathString())
		sb.WriteString(": ")
		sb.WriteString(is.Message)
	}
	return sb.String()
}

// IssuesOf extracts validation issues from err, or nil if err did not come
// from Parse.
func IssuesOf(err error) []Issue {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Issues
	}
	return nil
}
