package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/gridstate/internal/ctxlog"
	"github.com/specialistvlad/gridstate/internal/function"
	"github.com/specialistvlad/gridstate/internal/graph"
	"github.com/specialistvlad/gridstate/internal/randomstreams"
	"github.com/specialistvlad/gridstate/internal/shared"
)

// workspace is a model turned into live state and a compiled function.
type workspace struct {
	manager *randomstreams.Manager
	fn      *function.Function

	drawNames   []string
	sharedNames []string
}

// build creates one shared value per declaration and one random stream per
// draw. Outputs are the draws followed by the shared values, the latter read
// before their updates are applied.
func (a *App) build(ctx context.Context) (*workspace, error) {
	logger := ctxlog.FromContext(ctx)

	reg := shared.NewRegistry()
	randomstreams.RegisterConstructor(reg)

	opts := []randomstreams.Option{randomstreams.WithRegistry(reg)}
	switch {
	case a.config.Seed != nil:
		opts = append(opts, randomstreams.WithSeed(*a.config.Seed))
	case a.model.Streams != nil && a.model.Streams.Seed != nil:
		opts = append(opts, randomstreams.WithSeed(*a.model.Streams.Seed))
	}
	ws := &workspace{manager: randomstreams.New(opts...)}
	logger.Info("Random streams initialized.", "seed", ws.manager.InstanceSeed())

	var outputs []graph.Expr
	for _, d := range a.model.Draws {
		op, ok := randomstreams.Distributions[d.Distribution]
		if !ok {
			return nil, fmt.Errorf("draw %q: unknown distribution %q", d.Name, d.Distribution)
		}
		params := make(map[string]any, len(d.Params))
		for k, v := range d.Params {
			params[k] = v
		}
		args, err := op.Args(d.Size, params)
		if err != nil {
			return nil, fmt.Errorf("draw %q: %w", d.Name, err)
		}
		out, err := ws.manager.Gen(ctx, op.Apply, args...)
		if err != nil {
			return nil, fmt.Errorf("draw %q: %w", d.Name, err)
		}
		outputs = append(outputs, out)
		ws.drawNames = append(ws.drawNames, d.Name)
	}

	for _, s := range a.model.Shared {
		v, err := reg.Construct(ctx, s.Value, shared.Options{
			Name:   s.Name,
			Strict: s.Strict,
			Extra:  map[string]any{"type": s.Type},
		})
		if err != nil {
			return nil, fmt.Errorf("shared %q: %w", s.Name, err)
		}
		if s.Update != nil {
			op := &updateOp{name: s.Name, expr: s.Update, ty: s.Type}
			next := graph.NewApply(op, []graph.Expr{v}, v.Type()).Output(0)
			if err := v.SetDefaultUpdate(ctx, next); err != nil {
				return nil, fmt.Errorf("shared %q: %w", s.Name, err)
			}
		}
		outputs = append(outputs, v)
		ws.sharedNames = append(ws.sharedNames, s.Name)
	}

	var updates []function.Update
	for _, p := range ws.manager.Updates() {
		updates = append(updates, function.Update{Target: p.Old, Value: p.New})
	}

	fn, err := function.Compile(ctx, outputs, updates, function.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to compile workspace: %w", err)
	}
	ws.fn = fn
	return ws, nil
}
