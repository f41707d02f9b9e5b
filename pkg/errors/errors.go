// Package errors gives enfield failures a machine-readable Code that
// survives wrapping, so the CLI and the cache can react to the class of a
// failure without matching on message text.
//
// # Error Codes
//
// The routing core distinguishes four fatal failure classes:
//   - INVALID_VERTEX: a graph or placement references a vertex that does not exist
//   - NOT_FOUND: a register, architecture or name lookup failed
//   - DISCONNECTED: no swap sequence can bring the required qubits together
//   - INTRACTABLE: the exact token-swap finder was asked to solve an instance
//     above its configured size bound
//
// Input handling adds INVALID_INPUT, INVALID_FORMAT and UNSUPPORTED; the
// pipeline adds TIMEOUT.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidVertex, "vertex %d out of range [0, %d)", v, n)
//	if errors.Is(err, errors.ErrCodeInvalidVertex) {
//	    // Handle malformed graph
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeDisconnected, origErr, "dependency #%d (%d, %d)", i, a, b)
package errors

import (
	"errors"
	"fmt"
)

// Code classifies a failure.
type Code string

const (
	// Graph and placement errors
	ErrCodeInvalidVertex Code = "INVALID_VERTEX"
	ErrCodeNotFound      Code = "NOT_FOUND"

	// Routing errors
	ErrCodeDisconnected Code = "DISCONNECTED"
	ErrCodeIntractable  Code = "INTRACTABLE"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeUnsupported   Code = "UNSUPPORTED"

	// Runtime errors
	ErrCodeTimeout  Code = "TIMEOUT"
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error pairs a Code with a message and, for wrapped failures, the cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New returns an Error with a formatted message and no cause.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap annotates cause with code and a formatted message.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err carries the given error code anywhere in its chain.
// Wrapping a coded error with a different code keeps both codes visible, so
// a DISCONNECTED failure stays detectable after the router adds dependency
// context on top.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode returns the outermost code in err's chain, or "" when there is
// none.
func GetCode(err error) Code {
	if e := (*Error)(nil); errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// RootCode returns the innermost error code in the chain. For a routing
// failure wrapped with dependency context this is the original cause
// (e.g. DISCONNECTED rather than the wrapper's code).
func RootCode(err error) Code {
	var code Code
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			break
		}
		code = e.Code
		err = e.Cause
	}
	return code
}

// UserMessage renders err for a terminal: messages of the chain joined by
// ": ", without code prefixes. Annotations added with fmt.Errorf outside the
// first coded error are dropped.
func UserMessage(err error) string {
	e := (*Error)(nil)
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + UserMessage(e.Cause)
}
