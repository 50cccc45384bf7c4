package function

import (
	"context"
	"fmt"

	"github.com/specialistvlad/gridstate/internal/ctxlog"
	"github.com/specialistvlad/gridstate/internal/dag"
	"github.com/specialistvlad/gridstate/internal/graph"
	"github.com/specialistvlad/gridstate/internal/shared"
)

// Update replaces the value of Target with the value of Value after every
// call. Value is a graph.Expr or a raw value accepted by Target.FilterUpdate.
type Update struct {
	Target shared.Variable
	Value  any
}

// Options tune compilation.
type Options struct {
	// NoDefaultUpdates skips the DefaultUpdate of shared values reachable
	// from the graph.
	NoDefaultUpdates bool
}

type update struct {
	target shared.Variable
	expr   graph.Expr
}

// step is one scheduled unit: a leaf or an Apply, keyed by its first
// variable's ID.
type step struct {
	leaf  graph.Expr
	apply *graph.Apply
}

// Function is a compiled graph. It is not safe for concurrent use; neither
// are the shared values it reads and writes.
type Function struct {
	outputs []graph.Expr
	updates []update
	steps   []step
}

// Compile prepares outputs and updates for evaluation.
func Compile(ctx context.Context, outputs []graph.Expr, updates []Update, opts Options) (*Function, error) {
	logger := ctxlog.FromContext(ctx)
	c := &compiler{
		graph:  dag.New(),
		steps:  make(map[string]step),
		seen:   make(map[*shared.Container]bool),
	}

	for i, out := range outputs {
		if out == nil {
			return nil, fmt.Errorf("output %d is nil", i)
		}
		if err := c.walk(out); err != nil {
			return nil, err
		}
	}

	f := &Function{outputs: append([]graph.Expr(nil), outputs...)}
	for _, u := range updates {
		if u.Target == nil {
			return nil, fmt.Errorf("update without a target")
		}
		expr, err := u.Target.FilterUpdate(ctx, u.Value)
		if err != nil {
			return nil, err
		}
		if err := c.addUpdate(f, u.Target, expr); err != nil {
			return nil, err
		}
	}

	// Default updates can reach further shared values, which may carry
	// default updates of their own.
	if !opts.NoDefaultUpdates {
		for i := 0; i < len(c.leaves); i++ {
			sv := c.leaves[i]
			def := sv.DefaultUpdate()
			if def == nil || c.seen[sv.Container()] {
				continue
			}
			if err := c.addUpdate(f, sv, def); err != nil {
				return nil, fmt.Errorf("default update: %w", err)
			}
		}
	}

	order, err := c.graph.TopologicalOrder()
	if err != nil {
		return nil, fmt.Errorf("ordering graph: %w", err)
	}
	for _, id := range order {
		f.steps = append(f.steps, c.steps[id])
	}

	logger.Debug("Compiled function.", "outputs", len(f.outputs), "updates", len(f.updates), "steps", len(f.steps))
	return f, nil
}

type compiler struct {
	graph  *dag.Graph
	steps  map[string]step
	seen   map[*shared.Container]bool
	leaves []shared.Variable
}

func (c *compiler) addUpdate(f *Function, target shared.Variable, expr graph.Expr) error {
	if c.seen[target.Container()] {
		return fmt.Errorf("%w: %s", ErrDuplicateUpdate, target.Var())
	}
	want, got := target.Type(), expr.Var().Type()
	if !want.Equal(got) {
		return graph.Mismatch(want, expr, "update of %s has type %s", target.Var(), got)
	}
	if err := c.walk(expr); err != nil {
		return err
	}
	c.seen[target.Container()] = true
	f.updates = append(f.updates, update{target: target, expr: expr})
	return nil
}

// walk registers expr and everything it depends on.
func (c *compiler) walk(expr graph.Expr) error {
	_, err := c.visit(expr)
	return err
}

// visit returns the ID of the step producing expr.
func (c *compiler) visit(expr graph.Expr) (string, error) {
	v := expr.Var()
	app, _ := v.Owner()
	if app == nil {
		id := v.ID().String()
		if _, ok := c.steps[id]; !ok {
			c.graph.AddNode(id)
			c.steps[id] = step{leaf: expr}
			if sv, ok := expr.(shared.Variable); ok {
				c.leaves = append(c.leaves, sv)
			}
		}
		return id, nil
	}

	id := app.Output(0).ID().String()
	if _, ok := c.steps[id]; ok {
		return id, nil
	}
	c.graph.AddNode(id)
	c.steps[id] = step{apply: app}
	for _, in := range app.Inputs() {
		inID, err := c.visit(in)
		if err != nil {
			return "", err
		}
		if err := c.graph.AddEdge(inID, id); err != nil {
			return "", err
		}
	}
	return id, nil
}
