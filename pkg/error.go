package pkg

import (
	"errors"
	"log/slog"
	"strings"
)

// Error is a structured error carrying optional slog attributes.
//
// Sentinel errors are declared with [NewError] and refined with [Error.Sub],
// which forms a hierarchy: an error derived from a sentinel matches that
// sentinel and every ancestor of it under [errors.Is]. Values returned by
// [Error.With] and [Error.Wrap] keep the identity of the sentinel they were
// derived from.
type Error struct {
	msg    string
	err    error
	origin *Error
	parent *Error
	attrs  []slog.Attr
}

// Error categories. Every error produced by the interpreter pipeline is
// derived from exactly one of these.
var (
	ErrLex     = NewError("lex error")
	ErrSyntax  = NewError("syntax error")
	ErrRuntime = NewError("runtime error")
)

// Runtime error kinds.
var (
	ErrUndefinedVariable       = ErrRuntime.Sub("undefined variable")
	ErrAlreadyDefined          = ErrRuntime.Sub("already defined")
	ErrConstantViolation       = ErrRuntime.Sub("assignment to constant")
	ErrType                    = ErrRuntime.Sub("type error")
	ErrNotCallable             = ErrRuntime.Sub("value is not callable")
	ErrInvalidAssignmentTarget = ErrRuntime.Sub("invalid assignment target")
	ErrUnsupported             = ErrRuntime.Sub("unsupported operation")
	ErrMaxDepthExceeded        = ErrRuntime.Sub("maximum call depth exceeded")
	ErrInterrupted             = ErrRuntime.Sub("evaluation interrupted")
)

// Host errors.
var (
	ErrReadInput     = NewError("failed to read input")
	ErrFileNotExist  = NewError("file does not exist")
	ErrInvalidFormat = NewError("invalid format")
	ErrInvalidDefine = NewError("invalid definition")
	ErrYAMLMarshal   = NewError("marshal YAML")
	ErrJSONMarshal   = NewError("marshal JSON")
)

// NewError creates a new root sentinel with a message.
func NewError(msg string) *Error {
	e := &Error{msg: msg}
	e.origin = e

	return e
}

// Sub creates a new sentinel whose parent is e.
func (e *Error) Sub(msg string) *Error {
	s := NewError(msg)
	s.parent = e.sentinel()

	return s
}

// WrapError converts any error into an *Error. If err already is (or wraps)
// an *Error, that value is returned.
func WrapError(err error) *Error {
	var ee *Error
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
//
// The message has the form "<msg> (<key>=<value> ...): <cause>", where each
// part is omitted when empty.
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(e.msg)

	if len(e.attrs) > 0 {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}

		sb.WriteByte('(')

		for i, a := range e.attrs {
			if i > 0 {
				sb.WriteByte(' ')
			}

			sb.WriteString(a.String())
		}

		sb.WriteByte(')')
	}

	if e.err != nil {
		if sb.Len() > 0 {
			sb.WriteString(": ")
		}

		sb.WriteString(e.err.Error())
	}

	return sb.String()
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from, or one of
// that sentinel's ancestors.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t == nil {
		return false
	}

	want := t.sentinel()
	if want == nil {
		return false
	}

	for s := e.sentinel(); s != nil; s = s.parent {
		if s == want {
			return true
		}
	}

	return false
}

// Message returns the error's own message, without attributes or cause.
func (e *Error) Message() string { return e.msg }

// Attr returns the value of the attribute with the given key.
func (e *Error) Attr(key string) (slog.Value, bool) {
	for _, a := range e.attrs {
		if a.Key == key {
			return a.Value, true
		}
	}

	return slog.Value{}, false
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:    e.msg,
		err:    err,
		origin: e.sentinel(),
		parent: e.parent,
		attrs:  e.attrs,
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:    e.msg,
		err:    e.err,
		origin: e.sentinel(),
		parent: e.parent,
		attrs:  newAttrs,
	}
}

func (e *Error) sentinel() *Error {
	if e == nil {
		return nil
	}

	return e.origin
}
