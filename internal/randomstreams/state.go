// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package randomstreams

import (
	"github.com/specialistvlad/gridstate/internal/graph"
	"github.com/specialistvlad/gridstate/internal/shared"
)

// StateType is the graph type of generator payloads.
type StateType struct{}

var _ graph.Type = StateType{}

// Filter accepts non-nil *Generator values only.
func (StateType) Filter(raw any, strict bool, allowDowncast *bool) (any, error) {
	g, ok := raw.(*Generator)
	if !ok || g == nil {
		return nil, graph.Mismatch(StateType{}, raw, "a *randomstreams.Generator is required")
	}
	return g, nil
}

func (StateType) Equal(other graph.Type) bool {
	_, ok := other.(StateType)
	return ok
}

func (StateType) String() string {
	return "random_state"
}

// RandomState is a shared value holding a Generator.
type RandomState struct {
	*shared.Shared
}

var _ shared.Variable = (*RandomState)(nil)

// Constructor accepts *Generator values and produces a *RandomState.
func Constructor(value any, opts shared.Options) (shared.Variable, error) {
	if _, ok := value.(*Generator); !ok {
		return nil, graph.Mismatch(StateType{}, value, "not a generator")
	}
	if len(opts.Extra) > 0 {
		return nil, graph.Mismatch(StateType{}, value, "random state constructor takes no extra options")
	}

	s, err := shared.New(shared.Config{
		Name:          opts.Name,
		Type:          StateType{},
		Value:         value,
		Strict:        opts.Strict,
		AllowDowncast: opts.AllowDowncast,
	})
	if err != nil {
		return nil, err
	}
	return &RandomState{Shared: s}, nil
}

// RegisterConstructor adds Constructor to r.
func RegisterConstructor(r *shared.Registry) {
	r.Register("random_state", Constructor)
}

func init() {
	RegisterConstructor(shared.Default)
}

// Clone returns a RandomState bound to the same generator container.
func (r *RandomState) Clone() shared.Variable {
	return &RandomState{Shared: r.CloneBase()}
}

// Generator returns the live generator without copying it.
func (r *RandomState) Generator() *Generator {
	g, _ := r.Container().Read().(*Generator)
	return g
}
