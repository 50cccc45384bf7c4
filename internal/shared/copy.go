// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package shared

import (
	"reflect"

	"github.com/huandu/go-clone"
	"github.com/zclconf/go-cty/cty"
)

// Copier is implemented by payloads that produce their own independent
// copy. It takes precedence over the generic deep copy.
type Copier interface {
	DeepCopy() any
}

func init() {
	// cty values are immutable; nested ones are kept as-is.
	clone.MarkAsScalar(reflect.TypeOf(cty.Value{}))
}

// deepCopy returns a value that shares no mutable memory with v, unexported
// struct fields included. Pointer cycles are preserved.
func deepCopy(v any) (any, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case Copier:
		return val.DeepCopy(), nil
	case cty.Value:
		return val, nil
	}
	return clone.Slowly(v), nil
}
