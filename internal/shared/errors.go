// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package shared

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/zclconf/go-cty/cty"
)

var (
	// ErrReadOnly is returned by writes to a readonly container.
	ErrReadOnly = errors.New("container is readonly")

	// ErrConflictingConstruction is returned when a shared value is given
	// both an initial value and an existing container.
	ErrConflictingConstruction = errors.New("conflicting shared value construction")

	// ErrNoConstructorFound matches every *NoConstructorFoundError.
	ErrNoConstructorFound = errors.New("no suitable shared value constructor")

	// ErrUnsupportedAccess matches every *UnsupportedAccessError.
	ErrUnsupportedAccess = errors.New("unsupported access")
)

// NoConstructorFoundError carries the value no registered constructor
// accepted, together with the extra options that were passed along.
type NoConstructorFoundError struct {
	Value any
	Extra map[string]any
}

func (e *NoConstructorFoundError) Error() string {
	return fmt.Sprintf("%s for value of type %T (extra options: %v)", ErrNoConstructorFound, e.Value, e.Extra)
}

func (e *NoConstructorFoundError) Is(target error) bool {
	return target == ErrNoConstructorFound
}

// UnsupportedAccessError is returned when a shared value is used in a way its
// payload does not support, such as indexing a generic value.
type UnsupportedAccessError struct {
	Name   string
	Value  any
	Access string
}

func (e *UnsupportedAccessError) Error() string {
	return fmt.Sprintf("the generic shared value %q does not support %s. It contains %s",
		e.Name, e.Access, describeValue(e.Value))
}

func (e *UnsupportedAccessError) Is(target error) bool {
	return target == ErrUnsupportedAccess
}

// describeValue names the concrete runtime payload, pointing at the most
// likely missing conversion.
func describeValue(v any) string {
	if val, ok := v.(cty.Value); ok {
		return fmt.Sprintf("a cty value of type %s that was wrapped generically: construct it through a registry that has the cty value constructor",
			val.Type().FriendlyName())
	}
	if v == nil {
		return "nil"
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return fmt.Sprintf("a Go %s of type %T with %d elements. Did you forget to convert it into a cty value before sharing it?",
			rv.Kind(), v, rv.Len())
	default:
		return fmt.Sprintf("an object of type %T. Did you forget to convert it into a cty value before sharing it?", v)
	}
}
