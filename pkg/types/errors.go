package types

import "errors"

// Terminal failure taxonomy. Each error aborts the whole request; the
// transport layer maps them onto the error envelope.
var (
	// ErrInvalidPattern is returned when the regex fails to compile.
	// Always reported before any filesystem access.
	ErrInvalidPattern = errors.New("invalid regex pattern")

	// ErrNotFound is returned when the resolved target does not exist.
	ErrNotFound = errors.New("not found")

	// ErrPermissionDenied is returned when resolution or access to the
	// target is denied.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrEscapesSandbox is returned when a logical path cannot be confined
	// to the sandbox root.
	ErrEscapesSandbox = errors.New("path escapes sandbox")
)

// Result envelope validation errors
var (
	ErrNotSuccess        = errors.New("result is not a success envelope")
	ErrCountMismatch     = errors.New("total_matches does not equal len(matches)")
	ErrInvalidLineNumber = errors.New("line number must be >= 1")
	ErrMissingFile       = errors.New("match file path is required")
)
