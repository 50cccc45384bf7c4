package function

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/specialistvlad/gridstate/internal/ctxlog"
	"github.com/specialistvlad/gridstate/internal/graph"
	"github.com/specialistvlad/gridstate/internal/shared"
)

// Call evaluates the graph and returns the output values in order. Updates
// are written only once everything evaluated and every update value passed
// its target's filter; on error no shared value changes.
func (f *Function) Call(ctx context.Context) ([]any, error) {
	logger := ctxlog.FromContext(ctx)

	values, err := f.evaluate(ctx)
	if err != nil {
		return nil, err
	}

	pending := make([]any, len(f.updates))
	for i, u := range f.updates {
		c := u.target.Container()
		if c.Readonly() {
			return nil, fmt.Errorf("update of %s: %w", u.target.Var(), shared.ErrReadOnly)
		}
		v, err := u.target.Type().Filter(values[u.expr.Var().ID()], c.Strict(), c.AllowDowncast())
		if err != nil {
			return nil, fmt.Errorf("update of %s: %w", u.target.Var(), err)
		}
		pending[i] = v
	}
	for i, u := range f.updates {
		if err := u.target.Container().Write(pending[i], true); err != nil {
			return nil, fmt.Errorf("update of %s: %w", u.target.Var(), err)
		}
	}

	out := make([]any, len(f.outputs))
	for i, o := range f.outputs {
		out[i] = values[o.Var().ID()]
	}
	logger.Debug("Called function.", "outputs", len(out), "updates", len(f.updates))
	return out, nil
}

func (f *Function) evaluate(ctx context.Context) (map[uuid.UUID]any, error) {
	values := make(map[uuid.UUID]any, len(f.steps))

	for _, s := range f.steps {
		if s.apply == nil {
			v, err := leafValue(s.leaf)
			if err != nil {
				return nil, err
			}
			values[s.leaf.Var().ID()] = v
			continue
		}

		inputs := s.apply.Inputs()
		args := make([]any, len(inputs))
		for i, in := range inputs {
			args[i] = values[in.Var().ID()]
		}
		results, err := s.apply.Op().Perform(ctx, args)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.apply.Op().Name(), err)
		}
		outs := s.apply.Outputs()
		if len(results) != len(outs) {
			return nil, fmt.Errorf("%s: produced %d values for %d outputs", s.apply.Op().Name(), len(results), len(outs))
		}
		for i, o := range outs {
			values[o.ID()] = results[i]
		}
	}
	return values, nil
}

// leafValue reads a shared value without copying it; ops must not mutate
// their inputs.
func leafValue(leaf graph.Expr) (any, error) {
	switch l := leaf.(type) {
	case shared.Variable:
		return l.GetValue(true)
	case *graph.Constant:
		return l.Value(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnboundInput, leaf.Var())
	}
}
