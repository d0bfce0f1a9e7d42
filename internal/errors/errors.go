// Package errors provides the coded error type returned by every fatal
// fileagg failure.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode identifies the kind of failure for stable matching in callers
// and tests.
type ErrorCode string

const (
	ErrUnknown ErrorCode = "UNKNOWN"

	// ErrRead is a selected file that could not be read during combine.
	ErrRead ErrorCode = "READ"
	// ErrWrite is a target that could not be created or written during apply.
	ErrWrite ErrorCode = "WRITE"
	// ErrDelete is an existing target that could not be removed during apply.
	ErrDelete ErrorCode = "DELETE"
	// ErrTransport is a clipboard or stream failure.
	ErrTransport ErrorCode = "TRANSPORT"
	// ErrOutsideRoot is a blob path that resolves outside the root.
	ErrOutsideRoot ErrorCode = "OUTSIDE_ROOT"
	// ErrConfig is a configuration file or environment that cannot be loaded.
	ErrConfig ErrorCode = "CONFIG"
)

// FileaggError is a failure with a code, the path involved (if any) and the
// underlying cause.
type FileaggError struct {
	Code    ErrorCode
	Path    string
	Message string
	Wrapped error
}

// Error implements the error interface.
func (e *FileaggError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Path != "" {
		msg += fmt.Sprintf(" %q", e.Path)
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap implements the errors.Unwrap interface.
func (e *FileaggError) Unwrap() error {
	return e.Wrapped
}

// Is matches another *FileaggError by code.
func (e *FileaggError) Is(target error) bool {
	var targetErr *FileaggError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// WithPath records the path the failure is about.
func (e *FileaggError) WithPath(path string) *FileaggError {
	e.Path = path
	return e
}

// New creates a FileaggError with the given code and message.
func New(code ErrorCode, message string) *FileaggError {
	return &FileaggError{Code: code, Message: message}
}

// Newf creates a FileaggError with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) *FileaggError {
	return &FileaggError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps err with a code and message. It returns nil if err is nil.
func Wrap(err error, code ErrorCode, message string) *FileaggError {
	if err == nil {
		return nil
	}
	return &FileaggError{Code: code, Message: message, Wrapped: err}
}

// Wrapf wraps err with a code and a formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *FileaggError {
	if err == nil {
		return nil
	}
	return &FileaggError{Code: code, Message: fmt.Sprintf(format, args...), Wrapped: err}
}

// IsErrorCode reports whether any error in err's chain has the given code.
func IsErrorCode(err error, code ErrorCode) bool {
	return GetErrorCode(err) == code
}

// GetErrorCode returns the code of the first FileaggError in err's chain,
// or ErrUnknown.
func GetErrorCode(err error) ErrorCode {
	var fe *FileaggError
	if errors.As(err, &fe) {
		return fe.Code
	}
	return ErrUnknown
}
