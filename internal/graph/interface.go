// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package graph

import "context"

// Type describes the set of values a Variable may hold.
type Type interface {
	// Filter validates raw and returns the value to store.
	//
	// When strict is true the value must already have exactly this type and
	// no conversion is attempted. allowDowncast controls lossy conversions
	// when strict is false: true allows them, false forbids them, nil leaves
	// the decision to the Type (usually: scalars only).
	//
	// Incompatible input is reported with a *TypeMismatchError.
	Filter(raw any, strict bool, allowDowncast *bool) (any, error)

	// Equal reports whether other describes the same set of values.
	Equal(other Type) bool

	String() string
}

// Expr is anything that can stand in for a value inside a graph.
type Expr interface {
	Var() *Variable
}

// Op is the operation carried by an Apply node.
type Op interface {
	Name() string

	// Perform computes the outputs from already-evaluated inputs. It must not
	// mutate its inputs: values handed to it may be aliased to live state.
	Perform(ctx context.Context, inputs []any) ([]any, error)
}
