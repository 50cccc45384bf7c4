// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package graph

import (
	"fmt"
	"maps"

	"github.com/google/uuid"
)

// Tag is the free-form metadata bag attached to a Variable.
type Tag map[string]any

// Clone returns a shallow copy of the tag. The result is never nil.
func (t Tag) Clone() Tag {
	if t == nil {
		return Tag{}
	}
	return maps.Clone(t)
}

// Variable is a single value-producing node of a graph.
//
// A Variable either has an owner (it is output number index of an Apply) or
// is a leaf supplied from outside the graph.
type Variable struct {
	id   uuid.UUID
	typ  Type
	Name string
	Tag  Tag

	owner *Apply
	index int
}

// NewVariable creates a leaf Variable with a fresh identity.
func NewVariable(typ Type, name string) *Variable {
	return &Variable{
		id:    uuid.New(),
		typ:   typ,
		Name:  name,
		Tag:   Tag{},
		index: -1,
	}
}

// ID returns the unique identity of the node.
func (v *Variable) ID() uuid.UUID {
	return v.id
}

// Type returns the type the Variable was created with.
func (v *Variable) Type() Type {
	return v.typ
}

// Owner returns the Apply node producing this Variable and the output index,
// or nil and -1 for leaves.
func (v *Variable) Owner() (*Apply, int) {
	return v.owner, v.index
}

// Var implements Expr.
func (v *Variable) Var() *Variable {
	return v
}

func (v *Variable) String() string {
	if v.Name != "" {
		return v.Name
	}
	if v.owner != nil {
		return fmt.Sprintf("%s.%d", v.owner.op.Name(), v.index)
	}
	return fmt.Sprintf("<%s>", v.typ)
}

// Constant is a leaf whose value is fixed when the graph is built.
type Constant struct {
	*Variable
	value any
}

// NewConstant filters value through typ and wraps it in a Constant.
func NewConstant(typ Type, value any, name string) (*Constant, error) {
	filtered, err := typ.Filter(value, false, nil)
	if err != nil {
		return nil, err
	}
	return &Constant{Variable: NewVariable(typ, name), value: filtered}, nil
}

// Value returns the constant's value.
func (c *Constant) Value() any {
	return c.value
}

// Apply is the application of an Op to a list of inputs.
type Apply struct {
	op      Op
	inputs  []Expr
	outputs []*Variable
}

// NewApply creates the node and one output Variable per entry of outputTypes.
func NewApply(op Op, inputs []Expr, outputTypes ...Type) *Apply {
	a := &Apply{
		op:     op,
		inputs: append([]Expr(nil), inputs...),
	}
	for i, typ := range outputTypes {
		out := NewVariable(typ, "")
		out.owner = a
		out.index = i
		a.outputs = append(a.outputs, out)
	}
	return a
}

// Op returns the operation applied by the node.
func (a *Apply) Op() Op {
	return a.op
}

// Inputs returns a copy of the node's inputs.
func (a *Apply) Inputs() []Expr {
	return append([]Expr(nil), a.inputs...)
}

// Outputs returns a copy of the node's outputs.
func (a *Apply) Outputs() []*Variable {
	return append([]*Variable(nil), a.outputs...)
}

// Output returns output number i.
func (a *Apply) Output(i int) *Variable {
	return a.outputs[i]
}
