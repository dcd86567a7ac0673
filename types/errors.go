package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for run failure classification.
// Use errors.Is(err, ErrXxx) for typed assertions.
var (
	// ErrConfig indicates invalid configuration detected before any network activity.
	ErrConfig = errors.New("configuration error")

	// ErrMalformedInput indicates an input file with missing or mistyped fields.
	ErrMalformedInput = errors.New("malformed input")

	// ErrAuth indicates the login/register call failed.
	ErrAuth = errors.New("authentication failed")

	// ErrUpload indicates a non-2xx response for a chunk, reaction or question.
	ErrUpload = errors.New("upload failed")

	// ErrNetwork indicates a connection-level failure with no HTTP status.
	ErrNetwork = errors.New("network error")
)

// Error wraps an underlying failure with its classification.
// StatusCode and Body are set when the failure came from an HTTP response.
type Error struct {
	// Kind is the sentinel error for classification (e.g., ErrUpload).
	Kind error
	// Op names the failed operation (e.g., "login", "activities 20-40").
	Op string
	// StatusCode is the HTTP status, 0 if none was received.
	StatusCode int
	// Body is the response body returned with StatusCode.
	Body string
	// Err is the underlying error, if any.
	Err error
}

func (e *Error) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: %v: status %d: %q", e.Op, e.Kind, e.StatusCode, e.Body)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
}

// Unwrap returns the underlying error for errors.Is/As chain traversal.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether the error matches the target sentinel.
func (e *Error) Is(target error) bool {
	return errors.Is(e.Kind, target)
}

// NewError creates a classified error.
func NewError(kind error, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// NewStatusError creates a classified error from a non-2xx result.
func NewStatusError(kind error, op string, result *UploadResult) *Error {
	e := &Error{Kind: kind, Op: op}
	if result != nil {
		e.StatusCode = result.StatusCode
		e.Body = string(result.Body)
	}
	return e
}

// ConfigError formats a configuration error.
func ConfigError(format string, args ...any) *Error {
	return &Error{Kind: ErrConfig, Op: "config", Err: fmt.Errorf(format, args...)}
}

// StatusOf extracts the HTTP status code carried by err, or 0.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		if e.StatusCode != 0 {
			return e.StatusCode
		}
		return StatusOf(e.Err)
	}
	return 0
}
