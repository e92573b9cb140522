// Package errs defines the error type shared by every temporal package.
//
// Each error carries a Kind that callers can match with [errors.Is] against
// the exported sentinels, so `errors.Is(err, errs.ErrRange)` works the same
// way matching a wrapped parser error does elsewhere in the module.
package errs

import (
	"errors"
	"fmt"
)

// Sentinels for each error kind. Every [Error] unwraps to exactly one of
// these.
var (
	// ErrRange denotes a numeric value out of range, an invalid unit, or a
	// bad rounding increment.
	ErrRange = errors.New("range")

	// ErrType denotes a required field that was not provided.
	ErrType = errors.New("type")

	// ErrSyntax denotes input rejected by a parser.
	ErrSyntax = errors.New("syntax")

	// ErrAssert denotes a violated internal invariant. Reaching one on valid
	// input is a bug in this library.
	ErrAssert = errors.New("assert")

	// ErrGeneric denotes all other domain errors, such as a calendar
	// rejecting a field combination.
	ErrGeneric = errors.New("generic")
)

// Error is the concrete error returned by all fallible temporal operations.
type Error struct {
	kind error
	msg  string
}

// Error returns the error message prefixed by its kind.
func (e *Error) Error() string {
	if e.msg == "" {
		return e.kind.Error()
	}
	return e.kind.Error() + ": " + e.msg
}

// Unwrap returns the kind sentinel.
func (e *Error) Unwrap() error { return e.kind }

// Message returns the error message without the kind prefix.
func (e *Error) Message() string { return e.msg }

// Range returns a new range error.
func Range(msg string) error { return &Error{kind: ErrRange, msg: msg} }

// Rangef returns a new range error with a formatted message.
func Rangef(format string, args ...any) error {
	return &Error{kind: ErrRange, msg: fmt.Sprintf(format, args...)}
}

// Type returns a new type error.
func Type(msg string) error { return &Error{kind: ErrType, msg: msg} }

// Typef returns a new type error with a formatted message.
func Typef(format string, args ...any) error {
	return &Error{kind: ErrType, msg: fmt.Sprintf(format, args...)}
}

// Syntax returns a new syntax error.
func Syntax(msg string) error { return &Error{kind: ErrSyntax, msg: msg} }

// Syntaxf returns a new syntax error with a formatted message.
func Syntaxf(format string, args ...any) error {
	return &Error{kind: ErrSyntax, msg: fmt.Sprintf(format, args...)}
}

// Assert returns a new assertion error.
func Assert(msg string) error { return &Error{kind: ErrAssert, msg: msg} }

// Generic returns a new generic error.
func Generic(msg string) error { return &Error{kind: ErrGeneric, msg: msg} }

// Genericf returns a new generic error with a formatted message.
func Genericf(format string, args ...any) error {
	return &Error{kind: ErrGeneric, msg: fmt.Sprintf(format, args...)}
}
