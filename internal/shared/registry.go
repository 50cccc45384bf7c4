// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package shared

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/specialistvlad/gridstate/internal/ctxlog"
	"github.com/specialistvlad/gridstate/internal/graph"
	"github.com/specialistvlad/gridstate/internal/vartype"
)

// Options are passed unchanged to every constructor tried by a Registry.
type Options struct {
	Name          string
	Strict        bool
	AllowDowncast *bool
	// Extra holds constructor-specific options. Constructors must reject
	// options they do not understand, so passing any narrows the set of
	// constructors that can succeed.
	Extra map[string]any
}

// Constructor wraps a raw value into a shared value. It declines a value it
// does not handle by returning an error matching graph.ErrTypeMismatch; any
// other error aborts construction.
type Constructor func(value any, opts Options) (Variable, error)

type registeredConstructor struct {
	name string
	fn   Constructor
}

// Registry resolves raw values into shared values. The zero value is an
// empty registry.
type Registry struct {
	constructors []registeredConstructor
}

// NewRegistry returns a registry holding the generic fallback and the cty
// value constructor.
func NewRegistry() *Registry {
	r := &Registry{}
	r.Register("generic", GenericConstructor)
	r.Register("cty_value", ValueConstructor)
	return r
}

// Default is the process-wide registry used by Construct and Register.
var Default = NewRegistry()

// Register appends a constructor. Constructors registered later are tried
// first.
func (r *Registry) Register(name string, fn Constructor) {
	slog.Debug("Registering shared value constructor.", "name", name, "position", len(r.constructors))
	r.constructors = append(r.constructors, registeredConstructor{name: name, fn: fn})
}

// Names returns the registered constructor names in resolution order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.constructors))
	for i := len(r.constructors) - 1; i >= 0; i-- {
		names = append(names, r.constructors[i].name)
	}
	return names
}

// Construct returns the result of the first constructor, in reverse
// registration order, that accepts value.
func (r *Registry) Construct(ctx context.Context, value any, opts Options) (Variable, error) {
	logger := ctxlog.FromContext(ctx)

	for i := len(r.constructors) - 1; i >= 0; i-- {
		c := r.constructors[i]
		v, err := c.fn(value, opts)
		if err == nil {
			v.base().registry = r
			logger.Debug("Constructed shared value.", "constructor", c.name, "name", opts.Name, "type", v.Type().String())
			return v, nil
		}
		if errors.Is(err, graph.ErrTypeMismatch) {
			logger.Debug("Constructor declined value.", "constructor", c.name, "value_type", fmt.Sprintf("%T", value), "reason", err)
			continue
		}
		return nil, fmt.Errorf("constructor %q: %w", c.name, err)
	}

	return nil, &NoConstructorFoundError{Value: value, Extra: opts.Extra}
}

// Register appends fn to the Default registry.
func Register(name string, fn Constructor) {
	Default.Register(name, fn)
}

// Construct resolves value through the Default registry.
func Construct(ctx context.Context, value any, opts Options) (Variable, error) {
	return Default.Construct(ctx, value, opts)
}

// GenericConstructor accepts any value as long as no extra options are
// given, so options meant for a specialized constructor are never silently
// ignored.
func GenericConstructor(value any, opts Options) (Variable, error) {
	if len(opts.Extra) > 0 {
		keys := make([]string, 0, len(opts.Extra))
		for k := range opts.Extra {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return nil, graph.Mismatch(vartype.Generic{}, value, "generic constructor takes no extra options, got %v", keys)
	}
	s, err := New(Config{
		Name:          opts.Name,
		Type:          vartype.Generic{},
		Value:         value,
		Strict:        opts.Strict,
		AllowDowncast: opts.AllowDowncast,
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}
