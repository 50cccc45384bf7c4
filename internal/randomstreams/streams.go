// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package randomstreams

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/specialistvlad/gridstate/internal/ctxlog"
	"github.com/specialistvlad/gridstate/internal/graph"
	"github.com/specialistvlad/gridstate/internal/shared"
)

// seedRange bounds the per-stream seeds drawn from the seed source.
const seedRange = 1 << 30

// Operation builds the graph for one draw from rng. It returns the expression
// of the advanced generator and the expression of the sampled value.
type Operation func(rng *RandomState, args ...any) (next graph.Expr, out graph.Expr, err error)

// Pair is one stream: the shared generator and the expression of its value
// after a draw. Executors write New into Old after every call.
type Pair struct {
	Old *RandomState
	New graph.Expr
}

// Manager creates random streams and reseeds all of them deterministically.
type Manager struct {
	pairs        []Pair
	instanceSeed int64
	seedSource   *Generator
	registry     *shared.Registry
}

// Option configures a Manager.
type Option func(*Manager)

// WithSeed sets the instance seed. Without it a seed is picked from the
// runtime entropy source once, at construction.
func WithSeed(seed int64) Option {
	return func(m *Manager) {
		m.instanceSeed = seed
	}
}

// WithRegistry sets the registry generator states are constructed through.
// The registry must be able to construct from a *Generator.
func WithRegistry(r *shared.Registry) Option {
	return func(m *Manager) {
		m.registry = r
	}
}

// New returns a manager with no streams.
func New(opts ...Option) *Manager {
	m := &Manager{
		instanceSeed: rand.Int64N(seedRange),
		registry:     shared.Default,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.seedSource = NewGenerator(m.instanceSeed)
	return m
}

// InstanceSeed returns the seed Seed(ctx, nil) reseeds from.
func (m *Manager) InstanceSeed() int64 {
	return m.instanceSeed
}

// Gen creates a new stream and applies op to it. The returned expression is
// tagged with the stream's state under "rng".
//
// If any step fails the manager is left exactly as it was.
func (m *Manager) Gen(ctx context.Context, op Operation, args ...any) (graph.Expr, error) {
	logger := ctxlog.FromContext(ctx)

	saved := m.seedSource.Copy()
	out, state, err := m.gen(ctx, op, args...)
	if err != nil {
		m.seedSource = saved
		return nil, err
	}

	m.pairs = append(m.pairs, Pair{Old: state, New: out.next})
	logger.Debug("Created random stream.", "stream", len(m.pairs)-1, "seed", state.Generator().Seed())
	return out.value, nil
}

type drawn struct {
	next  graph.Expr
	value graph.Expr
}

func (m *Manager) gen(ctx context.Context, op Operation, args ...any) (drawn, *RandomState, error) {
	seed := m.seedSource.Int64N(seedRange)

	v, err := m.registry.Construct(ctx, NewGenerator(seed), shared.Options{})
	if err != nil {
		return drawn{}, nil, fmt.Errorf("constructing random state: %w", err)
	}
	state, ok := v.(*RandomState)
	if !ok {
		return drawn{}, nil, fmt.Errorf("constructing random state: registry produced %T", v)
	}

	next, out, err := op(state, args...)
	if err != nil {
		return drawn{}, nil, err
	}
	if next == nil || out == nil {
		return drawn{}, nil, fmt.Errorf("random operation returned a nil expression")
	}
	if typ := next.Var().Type(); !typ.Equal(StateType{}) {
		return drawn{}, nil, fmt.Errorf("random operation returned next state of type %s, want %s", typ, StateType{})
	}

	ov := out.Var()
	if ov.Tag == nil {
		ov.Tag = graph.Tag{}
	}
	ov.Tag["rng"] = state
	return drawn{next: next, value: out}, state, nil
}

// Seed reseeds every stream in creation order from a fresh seed source
// seeded with seed, or with the instance seed when seed is nil. Streams
// created afterwards continue drawing from that source, so reseeding with
// the construction seed reproduces the construction-time generators.
func (m *Manager) Seed(ctx context.Context, seed *int64) error {
	s := m.instanceSeed
	if seed != nil {
		s = *seed
	}
	src := NewGenerator(s)

	gens := make([]*Generator, len(m.pairs))
	for i := range m.pairs {
		gens[i] = NewGenerator(src.Int64N(seedRange))
	}
	for i, p := range m.pairs {
		if err := p.Old.SetValue(gens[i], true); err != nil {
			return fmt.Errorf("reseeding stream %d: %w", i, err)
		}
	}
	m.seedSource = src

	ctxlog.FromContext(ctx).Debug("Reseeded random streams.", "seed", s, "streams", len(m.pairs))
	return nil
}

// Updates returns a copy of the (old, new) pairs in creation order.
func (m *Manager) Updates() []Pair {
	return slices.Clone(m.pairs)
}

// Get returns the live generator of a stream.
func (m *Manager) Get(state *RandomState) *Generator {
	return state.Generator()
}

// Set replaces the generator of a stream without copying it.
func (m *Manager) Set(state *RandomState, g *Generator) error {
	return state.SetValue(g, true)
}

// Uniform draws size samples from [low, high).
func (m *Manager) Uniform(ctx context.Context, size int, low, high float64) (graph.Expr, error) {
	return m.Gen(ctx, UniformOp.Apply, size, low, high)
}

// Normal draws size samples from a normal distribution.
func (m *Manager) Normal(ctx context.Context, size int, avg, std float64) (graph.Expr, error) {
	return m.Gen(ctx, NormalOp.Apply, size, avg, std)
}

// Binomial draws size success counts of n trials with probability p.
func (m *Manager) Binomial(ctx context.Context, size, n int, p float64) (graph.Expr, error) {
	return m.Gen(ctx, BinomialOp.Apply, size, n, p)
}

// RandomIntegers draws size integers from [low, high].
func (m *Manager) RandomIntegers(ctx context.Context, size int, low, high int64) (graph.Expr, error) {
	return m.Gen(ctx, RandomIntegersOp.Apply, size, low, high)
}
