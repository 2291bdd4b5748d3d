// Package domainerrors defines the coded error type shared by all layers.
// Services attach a Code describing the class of failure; transport layers
// map the code to a status without inspecting error strings.
package domainerrors

import (
	"errors"
	"fmt"
	"strings"
)

// Code classifies a domain failure.
type Code string

const (
	CodeValidation         Code = "validation"
	CodeConflict           Code = "conflict"
	CodeNotFound           Code = "not_found"
	CodeTimeout            Code = "timeout"
	CodeInternal           Code = "internal"
	CodeInvariantViolation Code = "invariant_violation"
)

// Error is a coded domain error. Fields carries the names of the inputs
// involved in the failure, populated for conflicts so callers can tell
// which value collided.
type Error struct {
	Code    Code
	Message string
	Fields  []string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New returns a coded error with no underlying cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// NewConflict returns a CodeConflict error naming the colliding fields.
func NewConflict(fields ...string) *Error {
	return &Error{
		Code:    CodeConflict,
		Message: fmt.Sprintf("field(s) already in use: %s", strings.Join(fields, ", ")),
		Fields:  fields,
	}
}

// Wrap annotates err with a code and message while preserving it for
// errors.Is and errors.As.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether any error in the chain carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	return errors.As(err, &de) && de.Code == code
}

// GetCode returns the code of the first coded error in the chain,
// defaulting to CodeInternal for unrecognized errors.
func GetCode(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ConflictFields returns the colliding field names of a conflict error,
// or nil when err is not a conflict.
func ConflictFields(err error) []string {
	var de *Error
	if errors.As(err, &de) && de.Code == CodeConflict {
		return de.Fields
	}
	return nil
}
