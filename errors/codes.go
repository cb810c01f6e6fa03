// Package errors provides the error handling system for proto-events-release.
// It extends Go's standard error handling with structured error codes so that
// every failure surfaced to the operator (and to CI log grep) carries a stable,
// machine-readable classification.
package errors

// ErrorCode identifies a specific failure condition in the release flow.
// Codes are string-based for debuggability and stable log grepping.
type ErrorCode string

const (
	// Tag validation errors.

	// CodeInvalidFormat indicates the tag did not split into the expected
	// number of fields for its shape.
	CodeInvalidFormat ErrorCode = "INVALID_FORMAT"

	// CodeUnknownService indicates no service directory exists under the
	// proto root for the category/service named by the tag.
	CodeUnknownService ErrorCode = "UNKNOWN_SERVICE"

	// CodeInvalidCategory indicates the tag's category is not in the allowed
	// set (including the debug-only addition when debug mode is active).
	CodeInvalidCategory ErrorCode = "INVALID_CATEGORY"

	// CodeInvalidMarker indicates the release-marker field did not carry the
	// expected literal.
	CodeInvalidMarker ErrorCode = "INVALID_MARKER"

	// CodeInvalidVersion indicates the version field is not a valid semantic
	// version.
	CodeInvalidVersion ErrorCode = "INVALID_VERSION"

	// Dispatch errors.

	// CodeToolFailed indicates an external tool (schema compiler or archiver)
	// exited non-zero or could not be started.
	CodeToolFailed ErrorCode = "TOOL_FAILED"

	// Input and environment errors.

	// CodeInvalidInput indicates the command-line input is invalid or
	// incomplete.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeGitFailed indicates the release tag could not be resolved from the
	// git repository.
	CodeGitFailed ErrorCode = "GIT_FAILED"

	// Generic errors.

	// CodeInternal indicates an internal error occurred.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// CodeUnknown indicates an unknown or unclassified error occurred.
	CodeUnknown ErrorCode = "UNKNOWN"
)
