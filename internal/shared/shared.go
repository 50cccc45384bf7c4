// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package shared

import (
	"context"
	"fmt"

	"github.com/specialistvlad/gridstate/internal/graph"
)

// Variable is implemented by every kind of shared value. The set of
// implementations is closed: each one embeds *Shared.
type Variable interface {
	graph.Expr

	Type() graph.Type
	Container() *Container
	GetValue(borrow bool) (any, error)
	SetValue(v any, borrow bool) error
	Clone() Variable
	FilterUpdate(ctx context.Context, update any) (graph.Expr, error)
	Index(keys ...any) (graph.Expr, error)
	DefaultUpdate() graph.Expr
	SetDefaultUpdate(ctx context.Context, update any) error

	base() *Shared
}

// Config describes a shared value to create with New.
//
// Exactly one of Value or Container is used. Strict, AllowDowncast and
// Readonly configure a new container and conflict with an existing one.
type Config struct {
	Name          string
	Type          graph.Type
	Value         any
	Strict        bool
	AllowDowncast *bool
	Readonly      bool
	Container     *Container
}

// Shared is a graph leaf backed by a Container that persists across
// executions.
type Shared struct {
	*graph.Variable

	container     *Container
	defaultUpdate graph.Expr
	registry      *Registry
}

var _ Variable = (*Shared)(nil)

// New creates a shared value holding the filtered cfg.Value, or bound to
// cfg.Container.
func New(cfg Config) (*Shared, error) {
	if cfg.Type == nil {
		return nil, fmt.Errorf("shared value %q: type is required", cfg.Name)
	}

	s := &Shared{Variable: graph.NewVariable(cfg.Type, cfg.Name)}

	if cfg.Container != nil {
		if cfg.Value != nil || cfg.Strict || cfg.AllowDowncast != nil || cfg.Readonly {
			return nil, fmt.Errorf("%w: shared value %q was given both a container and value settings", ErrConflictingConstruction, cfg.Name)
		}
		if owner := cfg.Container.owner; owner != nil && !owner.Type().Equal(cfg.Type) {
			return nil, fmt.Errorf("%w: container holds %s but shared value %q is %s", ErrConflictingConstruction, owner.Type(), cfg.Name, cfg.Type)
		}
		s.container = cfg.Container
		return s, nil
	}

	filtered, err := cfg.Type.Filter(cfg.Value, cfg.Strict, cfg.AllowDowncast)
	if err != nil {
		return nil, fmt.Errorf("shared value %q: %w", cfg.Name, err)
	}
	s.container = newContainer(s, cfg.Readonly, cfg.Strict, cfg.AllowDowncast)
	s.container.value = filtered
	return s, nil
}

func (s *Shared) base() *Shared {
	return s
}

// Container returns the storage cell, shared with every clone.
func (s *Shared) Container() *Container {
	return s.container
}

// GetValue returns the stored value. Without borrow the result is a deep
// copy the caller may mutate freely; with borrow it aliases the stored
// value, and mutating it mutates the state seen by every holder.
func (s *Shared) GetValue(borrow bool) (any, error) {
	v := s.container.Read()
	if borrow {
		return v, nil
	}
	cp, err := deepCopy(v)
	if err != nil {
		return nil, fmt.Errorf("copying value of %s: %w", s, err)
	}
	return cp, nil
}

// SetValue replaces the stored value. Without borrow v is deep-copied first
// so later mutations by the caller are not observed; with borrow the
// reference is stored directly. Both paths go through the type filter.
func (s *Shared) SetValue(v any, borrow bool) error {
	if s.container.readonly {
		return fmt.Errorf("%w: %s", ErrReadOnly, s)
	}
	if !borrow {
		cp, err := deepCopy(v)
		if err != nil {
			return fmt.Errorf("copying value for %s: %w", s, err)
		}
		v = cp
	}
	return s.container.Write(v, false)
}

// Clone returns a new graph node bound to the same container. The tag is
// copied, so later changes to either tag stay local.
func (s *Shared) Clone() Variable {
	return s.CloneBase()
}

// CloneBase is Clone for implementations embedding *Shared, which wrap the
// result in their own type.
func (s *Shared) CloneBase() *Shared {
	v := graph.NewVariable(s.Type(), s.Name)
	v.Tag = s.Tag.Clone()
	return &Shared{
		Variable:  v,
		container: s.container,
		registry:  s.registry,
	}
}

// FilterUpdate turns update into the expression whose value replaces this
// shared value after an execution. Expressions are returned unchanged; raw
// values are wrapped into a new shared value, so a mutable raw value that
// changes later changes the update too.
func (s *Shared) FilterUpdate(ctx context.Context, update any) (graph.Expr, error) {
	if expr, ok := update.(graph.Expr); ok {
		return expr, nil
	}
	reg := s.registry
	if reg == nil {
		reg = Default
	}
	v, err := reg.Construct(ctx, update, Options{})
	if err != nil {
		return nil, fmt.Errorf("update for %s: %w", s, err)
	}
	return v, nil
}

// DefaultUpdate returns the update used by executors when none is given
// explicitly, or nil.
func (s *Shared) DefaultUpdate() graph.Expr {
	return s.defaultUpdate
}

// SetDefaultUpdate sets the default update after passing it through
// FilterUpdate. A nil update clears it.
func (s *Shared) SetDefaultUpdate(ctx context.Context, update any) error {
	if update == nil {
		s.defaultUpdate = nil
		return nil
	}
	expr, err := s.FilterUpdate(ctx, update)
	if err != nil {
		return err
	}
	s.defaultUpdate = expr
	return nil
}

// Index is never supported on a generic payload. The error names the stored
// value's runtime type to point at the missing specialized constructor.
func (s *Shared) Index(keys ...any) (graph.Expr, error) {
	return nil, &UnsupportedAccessError{
		Name:   s.String(),
		Value:  s.container.Read(),
		Access: "indexing",
	}
}
