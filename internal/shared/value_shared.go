// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package shared

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/gridstate/internal/graph"
	"github.com/specialistvlad/gridstate/internal/vartype"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// ValueShared is a shared value holding a cty.Value. Unlike the generic
// payload it supports indexing into collection and structural types.
type ValueShared struct {
	*Shared
}

var _ Variable = (*ValueShared)(nil)

// ValueConstructor accepts cty.Value payloads. With Extra["type"] set to a
// cty.Type it also accepts plain Go values convertible to that type.
func ValueConstructor(value any, opts Options) (Variable, error) {
	hint, hasHint := opts.Extra["type"].(cty.Type)
	for key := range opts.Extra {
		if key != "type" || !hasHint {
			return nil, graph.Mismatch(vartype.Of(cty.DynamicPseudoType), value, "unsupported option %q", key)
		}
	}

	val, isCty := value.(cty.Value)
	if !isCty && !hasHint {
		return nil, graph.Mismatch(vartype.Of(cty.DynamicPseudoType), value, "not a cty value")
	}
	if isCty && val == cty.NilVal {
		return nil, graph.Mismatch(vartype.Of(cty.DynamicPseudoType), value, "nil cty value")
	}

	ty := hint
	if !hasHint {
		ty = val.Type()
	}

	s, err := New(Config{
		Name:          opts.Name,
		Type:          vartype.Of(ty),
		Value:         value,
		Strict:        opts.Strict,
		AllowDowncast: opts.AllowDowncast,
	})
	if err != nil {
		return nil, err
	}
	return &ValueShared{Shared: s}, nil
}

// Clone returns a ValueShared bound to the same container.
func (v *ValueShared) Clone() Variable {
	return &ValueShared{Shared: v.CloneBase()}
}

// CtyType returns the declared cty type.
func (v *ValueShared) CtyType() cty.Type {
	return v.Type().(vartype.Value).CtyType()
}

// Index builds the graph expression selecting keys, one level per key, out
// of the shared value. Keys are cty values, Go integers (lists and tuples)
// or Go strings (maps and objects).
func (v *ValueShared) Index(keys ...any) (graph.Expr, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("index on %s: at least one key is required", v)
	}

	var expr graph.Expr = v
	ty := v.CtyType()
	for _, k := range keys {
		key, elemTy, err := indexStep(ty, k)
		if err != nil {
			return nil, &UnsupportedAccessError{Name: v.String(), Value: v.container.Read(), Access: err.Error()}
		}
		keyConst, err := graph.NewConstant(vartype.Of(key.Type()), key, "")
		if err != nil {
			return nil, err
		}
		expr = graph.NewApply(IndexOp{}, []graph.Expr{expr, keyConst}, vartype.Of(elemTy)).Output(0)
		ty = elemTy
	}
	return expr, nil
}

func indexStep(ty cty.Type, k any) (cty.Value, cty.Type, error) {
	key, ok := k.(cty.Value)
	if !ok {
		implied, err := gocty.ImpliedType(k)
		if err != nil {
			return cty.NilVal, cty.NilType, fmt.Errorf("indexing with key of type %T", k)
		}
		if key, err = gocty.ToCtyValue(k, implied); err != nil {
			return cty.NilVal, cty.NilType, fmt.Errorf("indexing with key of type %T", k)
		}
	}
	if !key.IsKnown() || key.IsNull() {
		return cty.NilVal, cty.NilType, fmt.Errorf("indexing with an unknown or null key")
	}

	switch {
	case ty.IsListType() && key.Type().Equals(cty.Number):
		return key, ty.ElementType(), nil
	case ty.IsMapType() && key.Type().Equals(cty.String):
		return key, ty.ElementType(), nil
	case ty.IsTupleType() && key.Type().Equals(cty.Number):
		i, acc := key.AsBigFloat().Int64()
		elems := ty.TupleElementTypes()
		if acc != 0 || i < 0 || int(i) >= len(elems) {
			return cty.NilVal, cty.NilType, fmt.Errorf("indexing tuple of %d elements with %s", len(elems), key.AsBigFloat().String())
		}
		return key, elems[i], nil
	case ty.IsObjectType() && key.Type().Equals(cty.String):
		name := key.AsString()
		if !ty.HasAttribute(name) {
			return cty.NilVal, cty.NilType, fmt.Errorf("indexing object without attribute %q (has %v)", name, attributeNames(ty))
		}
		return key, ty.AttributeType(name), nil
	}
	return cty.NilVal, cty.NilType, fmt.Errorf("indexing %s with a %s key", ty.FriendlyName(), key.Type().FriendlyName())
}

func attributeNames(ty cty.Type) []string {
	names := make([]string, 0, len(ty.AttributeTypes()))
	for name := range ty.AttributeTypes() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IndexOp selects one element of a cty collection or structural value.
type IndexOp struct{}

func (IndexOp) Name() string {
	return "index"
}

// Perform expects the collection and the key as cty values.
func (IndexOp) Perform(ctx context.Context, inputs []any) ([]any, error) {
	if len(inputs) != 2 {
		return nil, fmt.Errorf("index: expected 2 inputs, got %d", len(inputs))
	}
	coll, ok := inputs[0].(cty.Value)
	if !ok {
		return nil, fmt.Errorf("index: collection is %T, not a cty value", inputs[0])
	}
	key, ok := inputs[1].(cty.Value)
	if !ok {
		return nil, fmt.Errorf("index: key is %T, not a cty value", inputs[1])
	}

	out, diags := hcl.Index(coll, key, nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("index: %w", diags)
	}
	return []any{out}, nil
}
