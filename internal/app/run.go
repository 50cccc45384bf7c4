package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/gridstate/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Run builds the workspace and calls it the configured number of times,
// writing one JSON object per run to the output writer.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	ws, err := a.build(ctx)
	if err != nil {
		return err
	}

	a.logger.Info("🚀 Starting runs...", "runs", a.config.Runs, "draws", len(ws.drawNames), "shared", len(ws.sharedNames))
	for i := 0; i < a.config.Runs; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		values, err := ws.fn.Call(ctx)
		if err != nil {
			return fmt.Errorf("run %d failed: %w", i, err)
		}
		line, err := ws.encode(i, values)
		if err != nil {
			return fmt.Errorf("run %d: %w", i, err)
		}
		if _, err := fmt.Fprintln(a.outW, string(line)); err != nil {
			return err
		}
		a.logger.Debug("Run finished.", "run", i)
	}
	a.logger.Info("🏁 Runs finished.")
	return nil
}

// encode renders the outputs of one run, draws first as in build.
func (ws *workspace) encode(run int, values []any) ([]byte, error) {
	draws := make(map[string]cty.Value, len(ws.drawNames))
	for i, name := range ws.drawNames {
		v, ok := values[i].(cty.Value)
		if !ok {
			return nil, fmt.Errorf("draw %q produced %T", name, values[i])
		}
		draws[name] = v
	}
	sharedVals := make(map[string]cty.Value, len(ws.sharedNames))
	for i, name := range ws.sharedNames {
		v, ok := values[len(ws.drawNames)+i].(cty.Value)
		if !ok {
			return nil, fmt.Errorf("shared %q holds %T", name, values[len(ws.drawNames)+i])
		}
		sharedVals[name] = v
	}

	obj := cty.ObjectVal(map[string]cty.Value{
		"run":    cty.NumberIntVal(int64(run)),
		"draws":  cty.ObjectVal(draws),
		"shared": cty.ObjectVal(sharedVals),
	})
	return ctyjson.Marshal(obj, obj.Type())
}
