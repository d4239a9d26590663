// Package cmderr defines the structured error taxonomy for command
// execution. Handlers assign a Kind at the throw site; the substring
// classifier only runs as a fallback for errors that arrive unstructured
// (e.g. wrapped I/O errors from the standard library).
package cmderr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind categorizes a command failure.
type Kind string

const (
	MissingParameter Kind = "MissingParameter"
	UnknownCommand   Kind = "UnknownCommand"
	NotFound         Kind = "NotFound"
	WrongMode        Kind = "WrongMode"
	Unsupported      Kind = "UnsupportedOperation"
	PermissionDenied Kind = "PermissionDenied"
	Network          Kind = "NetworkError"
	Font             Kind = "FontError"
	Generic          Kind = "Generic"
)

// Error is a command failure with an explicit kind.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message != "" {
		return e.Message + ": " + e.Err.Error()
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an error with the given kind and message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Newf builds an error with the given kind and a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and context message to an underlying error.
func Wrap(kind Kind, err error, msg string) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf returns the kind carried by err, or classifies its message when
// the error is unstructured.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return Classify(err.Error())
}

// Classify maps an error message onto a kind by substring match. Advisory
// only; structured errors bypass it entirely.
func Classify(msg string) Kind {
	m := strings.ToLower(msg)
	switch {
	case strings.Contains(m, "missing") && strings.Contains(m, "parameter"):
		return MissingParameter
	case strings.Contains(m, "unknown command"):
		return UnknownCommand
	case strings.Contains(m, "not found") || strings.Contains(m, "no such node") || strings.Contains(m, "does not exist"):
		return NotFound
	case strings.Contains(m, "permission") || strings.Contains(m, "denied"):
		return PermissionDenied
	case strings.Contains(m, "read-only") || strings.Contains(m, "editable"):
		return WrongMode
	case strings.Contains(m, "does not support") || strings.Contains(m, "unsupported"):
		return Unsupported
	case strings.Contains(m, "network") || strings.Contains(m, "connection") ||
		strings.Contains(m, "timeout") || strings.Contains(m, "fetch"):
		return Network
	case strings.Contains(m, "font"):
		return Font
	default:
		return Generic
	}
}
