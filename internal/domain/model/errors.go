package model

import (
	"errors"
	"strings"
)

// Error kinds surfaced to clients. The HTTP layer maps each kind to a status code.
var (
	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("forbidden")
	ErrNotFound   = errors.New("not found")
	ErrInternal   = errors.New("internal error")
)

// Error is an operation failure of a known kind with a client-facing message.
type Error struct {
	Op      string
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	parts := make([]string, 0, 4)
	if e.Op != "" {
		parts = append(parts, e.Op)
	}
	if e.Kind != nil {
		parts = append(parts, e.Kind.Error())
	}
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	return strings.Join(parts, ": ")
}

// Unwrap exposes both the kind and the cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// NewKind builds an Error of the given kind without an underlying cause.
func NewKind(op string, kind error, msg string) error {
	return &Error{Op: op, Kind: kind, Message: msg}
}

// WrapKind builds an Error of the given kind around err.
func WrapKind(op string, kind error, msg string, err error) error {
	return &Error{Op: op, Kind: kind, Message: msg, Err: err}
}

// Message returns the client-facing message carried by err, or "" if none.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}
