package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Command errors. These form the closed taxonomy every operation
	// reports through.
	ErrBinaryNotFound ErrorCode = "BINARY_NOT_FOUND"
	ErrCommandFailed  ErrorCode = "COMMAND_FAILED"
	ErrParse          ErrorCode = "PARSE_ERROR"
	ErrConflict       ErrorCode = "CONFLICT"
	ErrTimeout        ErrorCode = "TIMEOUT"
	ErrCancelled      ErrorCode = "CANCELLED"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// FileSystem errors
	ErrFileRead  ErrorCode = "FILE_READ"
	ErrFileWrite ErrorCode = "FILE_WRITE"
	ErrDirCreate ErrorCode = "DIR_CREATE"
)

// Detail keys used by the command taxonomy
const (
	DetailExitCode = "exitCode"
	DetailStderr   = "stderr"
	DetailRaw      = "raw"
	DetailPath     = "path"
	DetailTimeout  = "timeout"
)

// Sentinels for errors.Is comparisons. Matching is done by code only.
var (
	BinaryNotFound = &Error{Code: ErrBinaryNotFound}
	CommandFailed  = &Error{Code: ErrCommandFailed}
	ParseFailed    = &Error{Code: ErrParse}
	Conflict       = &Error{Code: ErrConflict}
	Timeout        = &Error{Code: ErrTimeout}
	Cancelled      = &Error{Code: ErrCancelled}
)

// Error represents a structured error with code and details
type Error struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *Error) Is(target error) bool {
	var targetErr *Error
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new Error with the given code and message
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new Error with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an Error
func Wrap(err error, code ErrorCode, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *Error) WithDetails(details map[string]interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// NewBinaryNotFound reports that the external binary could not be started.
func NewBinaryNotFound(binary string, cause error) *Error {
	msg := fmt.Sprintf("%s not found; install it or configure binary.path", binary)
	if cause == nil {
		return New(ErrBinaryNotFound, msg).WithDetail(DetailPath, binary)
	}
	return Wrap(cause, ErrBinaryNotFound, msg).WithDetail(DetailPath, binary)
}

// NewCommandFailed reports a non-zero exit of the external binary.
func NewCommandFailed(operation string, exitCode int, stderr string) *Error {
	return Newf(ErrCommandFailed, "%s failed with exit code %d", operation, exitCode).
		WithDetail(DetailExitCode, exitCode).
		WithDetail(DetailStderr, stderr)
}

// NewParseError reports a payload that could not be decoded. The raw text is
// kept for diagnostics.
func NewParseError(cause error, what, raw string) *Error {
	var e *Error
	if cause == nil {
		e = Newf(ErrParse, "failed to parse %s", what)
	} else {
		e = Wrapf(cause, ErrParse, "failed to parse %s", what)
	}
	return e.WithDetail(DetailRaw, raw)
}

// NewConflict reports an add request for a path that is already managed.
func NewConflict(path string) *Error {
	return Newf(ErrConflict, "%s is already managed", path).WithDetail(DetailPath, path)
}

// NewTimeout reports an operation that exceeded its deadline.
func NewTimeout(operation string, limit interface{}) *Error {
	return Newf(ErrTimeout, "%s timed out", operation).WithDetail(DetailTimeout, limit)
}

// NewCancelled reports an operation superseded by a newer request.
func NewCancelled(operation string) *Error {
	return Newf(ErrCancelled, "%s was superseded", operation)
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not an Error
func GetErrorCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not an Error
func GetErrorDetails(err error) map[string]interface{} {
	var e *Error
	if errors.As(err, &e) {
		return e.Details
	}
	return nil
}

// IsUserVisible reports whether err should be surfaced to the user.
// Cancellation only means a newer request replaced this one.
func IsUserVisible(err error) bool {
	return err != nil && !IsErrorCode(err, ErrCancelled)
}

// UserMessage returns err without the code prefix, for display
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %s", e.Message, UserMessage(e.Wrapped))
	}
	return e.Message
}
