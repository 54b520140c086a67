package schedule

import (
	"errors"
	"fmt"
)

// Kind classifies a scheduling failure.
type Kind string

// Error kinds reported by scheduling operations.
const (
	KindInvalidFormat Kind = "InvalidFormat"
	KindInvalidRange  Kind = "InvalidRange"
	KindUnknownDate   Kind = "UnknownDate"
	KindDateExists    Kind = "DateExists"
	KindSlotConflict  Kind = "SlotConflict"
	KindMissingName   Kind = "MissingName"
	KindInvalidAction Kind = "InvalidAction"
)

// Sentinels for errors.Is matching. Only the Kind is compared.
var (
	ErrInvalidFormat = &Error{Kind: KindInvalidFormat}
	ErrInvalidRange  = &Error{Kind: KindInvalidRange}
	ErrUnknownDate   = &Error{Kind: KindUnknownDate}
	ErrDateExists    = &Error{Kind: KindDateExists}
	ErrSlotConflict  = &Error{Kind: KindSlotConflict}
	ErrMissingName   = &Error{Kind: KindMissingName}
	ErrInvalidAction = &Error{Kind: KindInvalidAction}
)

// Error is a scheduling failure with a message meant for the end user.
type Error struct {
	Kind    Kind
	Message string
}

// Errorf creates an Error of the given kind with a formatted message.
func Errorf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the Kind of err, or "" if err is not a scheduling error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}
