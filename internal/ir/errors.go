package ir

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes hook errors.
type ErrorCode string

const (
	// ErrCodeInvalidArgument indicates a missing, non-integer or unexpected argument.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"

	// ErrCodeUnresolvedDependency indicates a reachable dependency has no implementation.
	ErrCodeUnresolvedDependency ErrorCode = "UNRESOLVED_DEPENDENCY"

	// ErrCodeSelfReference indicates a function depends on itself, directly or via a cycle.
	ErrCodeSelfReference ErrorCode = "SELF_REFERENCE"

	// ErrCodeUnknownFunction indicates dispatch by an unregistered name.
	ErrCodeUnknownFunction ErrorCode = "UNKNOWN_FUNCTION"

	// ErrCodeReservedName indicates an attempt to replace a built-in function.
	ErrCodeReservedName ErrorCode = "RESERVED_NAME"
)

// Error is the typed error returned by hook functions, the engine and the
// call graph. Errors always surface to the caller; nothing retries.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Function is the function being invoked or declared, if any.
	Function string

	// Details carries extra context (argument name, cycle path, ...).
	Details map[string]string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Function != "" {
		return fmt.Sprintf("%s: %s (function=%s)", e.Code, e.Message, e.Function)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidArgument reports a bad argument for function.
func NewInvalidArgument(function, arg, message string) *Error {
	return &Error{
		Code:     ErrCodeInvalidArgument,
		Message:  fmt.Sprintf("argument %q %s", arg, message),
		Function: function,
		Details:  map[string]string{"argument": arg},
	}
}

// NewUnresolvedDependency reports that function needs dependency but
// nothing provides it.
func NewUnresolvedDependency(function, dependency string) *Error {
	return &Error{
		Code:     ErrCodeUnresolvedDependency,
		Message:  fmt.Sprintf("dependency %q has no implementation", dependency),
		Function: function,
		Details:  map[string]string{"dependency": dependency},
	}
}

// NewSelfReference reports a dependency cycle through function.
func NewSelfReference(function string, path string) *Error {
	return &Error{
		Code:     ErrCodeSelfReference,
		Message:  fmt.Sprintf("function refers to itself: %s", path),
		Function: function,
		Details:  map[string]string{"path": path},
	}
}

// NewUnknownFunction reports dispatch by an unregistered name.
func NewUnknownFunction(function string) *Error {
	return &Error{
		Code:     ErrCodeUnknownFunction,
		Message:  "no function registered under this name",
		Function: function,
	}
}

// NewReservedName reports an attempt to register over a built-in function.
func NewReservedName(function string) *Error {
	return &Error{
		Code:     ErrCodeReservedName,
		Message:  "name is taken by a built-in function",
		Function: function,
	}
}

// CodeOf returns the ErrorCode carried by err, or "" if err is not an *Error.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsInvalidArgument reports whether err is an INVALID_ARGUMENT error.
func IsInvalidArgument(err error) bool {
	return CodeOf(err) == ErrCodeInvalidArgument
}

// IsUnresolvedDependency reports whether err is an UNRESOLVED_DEPENDENCY error.
func IsUnresolvedDependency(err error) bool {
	return CodeOf(err) == ErrCodeUnresolvedDependency
}

// IsSelfReference reports whether err is a SELF_REFERENCE error.
func IsSelfReference(err error) bool {
	return CodeOf(err) == ErrCodeSelfReference
}

// IsUnknownFunction reports whether err is an UNKNOWN_FUNCTION error.
func IsUnknownFunction(err error) bool {
	return CodeOf(err) == ErrCodeUnknownFunction
}

// IsReservedName reports whether err is a RESERVED_NAME error.
func IsReservedName(err error) bool {
	return CodeOf(err) == ErrCodeReservedName
}
