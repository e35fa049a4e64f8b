// Package apperr provides coded domain errors for deck import and collection reads.
//
// Callers match on the code with errors.Is:
//
//	if errors.Is(err, apperr.ErrStoreRead) {
//	    // collection missing or corrupt
//	}
package apperr

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

const (
	CodeImport    Code = "IMPORT"
	CodeStoreRead Code = "STORE_READ"
)

// Error is a domain error with a code, a message and an optional cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Sentinel errors for use with errors.Is().
var (
	ErrImport    = &Error{Code: CodeImport, Message: "import failed"}
	ErrStoreRead = &Error{Code: CodeStoreRead, Message: "collection read failed"}
)

// Import creates an import error wrapping cause.
func Import(msg string, cause error) *Error {
	return &Error{Code: CodeImport, Message: msg, cause: cause}
}

// StoreRead creates a collection read error wrapping cause.
func StoreRead(msg string, cause error) *Error {
	return &Error{Code: CodeStoreRead, Message: msg, cause: cause}
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
