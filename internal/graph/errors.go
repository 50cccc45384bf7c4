// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package graph

import (
	"errors"
	"fmt"
)

// ErrTypeMismatch matches every *TypeMismatchError via errors.Is.
var ErrTypeMismatch = errors.New("type mismatch")

// TypeMismatchError is returned when a value fails a Type's filter rule.
type TypeMismatchError struct {
	Type   Type
	Value  any
	Reason string
}

// Mismatch builds a *TypeMismatchError for value against typ.
func Mismatch(typ Type, value any, format string, args ...any) *TypeMismatchError {
	return &TypeMismatchError{Type: typ, Value: value, Reason: fmt.Sprintf(format, args...)}
}

func (e *TypeMismatchError) Error() string {
	want := "<nil>"
	if e.Type != nil {
		want = e.Type.String()
	}
	if e.Reason == "" {
		return fmt.Sprintf("value of Go type %T is not compatible with %s", e.Value, want)
	}
	return fmt.Sprintf("value of Go type %T is not compatible with %s: %s", e.Value, want, e.Reason)
}

// Is lets errors.Is(err, ErrTypeMismatch) succeed for every mismatch.
func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}
