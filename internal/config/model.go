package config

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// Model is the unified, format-agnostic representation of a workspace.
type Model struct {
	Streams *Streams
	Shared  []*Shared
	Draws   []*Draw
}

// Streams configures the random stream manager.
type Streams struct {
	// Seed is nil when the workspace leaves seeding to the runtime.
	Seed *int64
}

// Shared is a named value persisted across runs.
type Shared struct {
	Name  string
	Type  cty.Type
	Value cty.Value

	Strict bool

	// Update computes the value for the next run. It may refer to the
	// current value as `self`. Nil keeps the value unchanged.
	Update hcl.Expression
}

// Draw is a named sample drawn from a distribution on every run.
type Draw struct {
	Name         string
	Distribution string
	Size         int
	Params       map[string]cty.Value
}

// SharedByName returns the shared value declaration with the given name.
func (m *Model) SharedByName(name string) (*Shared, bool) {
	for _, s := range m.Shared {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}
