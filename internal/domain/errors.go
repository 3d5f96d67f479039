package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures so transports can map them to a status code.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindNotFound
	KindForbidden
	KindInvalidArgument
	KindInvalidState
	KindConflict
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindInvalidState:
		return "invalid_state"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Expected reports whether the error is a client-side rule violation.
func (e *Error) Expected() bool { return e.Kind != KindInternal }

func NewNotFound(msg string) error        { return &Error{Kind: KindNotFound, Message: msg} }
func NewForbidden(msg string) error       { return &Error{Kind: KindForbidden, Message: msg} }
func NewInvalidArgument(msg string) error { return &Error{Kind: KindInvalidArgument, Message: msg} }
func NewInvalidState(msg string) error    { return &Error{Kind: KindInvalidState, Message: msg} }
func NewConflict(msg string) error        { return &Error{Kind: KindConflict, Message: msg} }

// Wrap attaches a kind and message to a lower level cause.
func Wrap(kind ErrorKind, msg string, err error) error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// MessageOf returns the client-facing message for err. Internal failures are not exposed.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return "internal server error"
}
