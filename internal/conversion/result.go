package conversion

import (
	pkgerrors "github.com/angelmondragon/prosemirror-api/pkg/errors"
)

// Result is the outcome of one conversion: a value or a typed error, never both.
type Result[T any] struct {
	value T
	err   *pkgerrors.Error
}

func succeed[T any](value T) Result[T] {
	return Result[T]{value: value}
}

func fail[T any](err *pkgerrors.Error) Result[T] {
	return Result[T]{err: err}
}

// OK reports whether the conversion succeeded.
func (r Result[T]) OK() bool { return r.err == nil }

// Value returns the converted value. It is the zero value on failure.
func (r Result[T]) Value() T { return r.value }

// Err returns the typed failure, or nil.
func (r Result[T]) Err() *pkgerrors.Error { return r.err }
