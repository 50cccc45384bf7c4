// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package vartype

import (
	"github.com/specialistvlad/gridstate/internal/graph"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Value is a graph.Type describing cty values of a single cty.Type.
type Value struct {
	ty cty.Type
}

var _ graph.Type = Value{}

// Of returns the Value type for ty. cty.DynamicPseudoType accepts any known
// cty value.
func Of(ty cty.Type) Value {
	return Value{ty: ty}
}

// CtyType returns the underlying cty type.
func (t Value) CtyType() cty.Type {
	return t.ty
}

// Filter converts raw into a cty.Value of the described type.
func (t Value) Filter(raw any, strict bool, allowDowncast *bool) (any, error) {
	val, ok := raw.(cty.Value)
	if !ok {
		if strict {
			return nil, graph.Mismatch(t, raw, "strict mode requires a cty.Value")
		}
		return t.fromGo(raw)
	}

	if val == cty.NilVal {
		return nil, graph.Mismatch(t, raw, "nil cty value")
	}
	if !val.IsWhollyKnown() {
		return nil, graph.Mismatch(t, raw, "unknown values cannot be stored")
	}
	if t.ty.Equals(cty.DynamicPseudoType) || val.Type().Equals(t.ty) {
		return val, nil
	}
	if strict {
		return nil, graph.Mismatch(t, raw, "strict mode requires %s, got %s", t.ty.FriendlyName(), val.Type().FriendlyName())
	}

	conv := convert.GetConversion(val.Type(), t.ty)
	if conv == nil && downcastAllowed(val.Type(), t.ty, allowDowncast) {
		conv = convert.GetConversionUnsafe(val.Type(), t.ty)
	}
	if conv == nil {
		return nil, graph.Mismatch(t, raw, "no allowed conversion from %s", val.Type().FriendlyName())
	}

	out, err := conv(val)
	if err != nil {
		return nil, graph.Mismatch(t, raw, "%s", err)
	}
	return out, nil
}

func (t Value) fromGo(raw any) (any, error) {
	if raw == nil {
		return nil, graph.Mismatch(t, raw, "nil value")
	}

	ty := t.ty
	if ty.Equals(cty.DynamicPseudoType) {
		implied, err := gocty.ImpliedType(raw)
		if err != nil {
			return nil, graph.Mismatch(t, raw, "%s", err)
		}
		ty = implied
	}

	val, err := gocty.ToCtyValue(raw, ty)
	if err != nil {
		return nil, graph.Mismatch(t, raw, "%s", err)
	}
	return val, nil
}

// downcastAllowed decides whether an unsafe conversion may be used. Without
// an explicit choice only primitive-to-primitive conversions are allowed.
func downcastAllowed(from, to cty.Type, allow *bool) bool {
	if allow != nil {
		return *allow
	}
	return from.IsPrimitiveType() && to.IsPrimitiveType()
}

func (t Value) Equal(other graph.Type) bool {
	o, ok := other.(Value)
	return ok && t.ty.Equals(o.ty)
}

func (t Value) String() string {
	return t.ty.FriendlyName()
}
