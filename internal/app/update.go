package app

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// updateFunctions are callable from update expressions.
var updateFunctions = map[string]function.Function{
	"abs":    stdlib.AbsoluteFunc,
	"ceil":   stdlib.CeilFunc,
	"concat": stdlib.ConcatFunc,
	"floor":  stdlib.FloorFunc,
	"length": stdlib.LengthFunc,
	"max":    stdlib.MaxFunc,
	"min":    stdlib.MinFunc,
}

// updateOp evaluates a shared value's update expression with the current
// value bound to `self`.
type updateOp struct {
	name string
	expr hcl.Expression
	ty   cty.Type
}

func (o *updateOp) Name() string {
	return "update(" + o.name + ")"
}

func (o *updateOp) Perform(ctx context.Context, inputs []any) ([]any, error) {
	if len(inputs) != 1 {
		return nil, fmt.Errorf("expected 1 input, got %d", len(inputs))
	}
	self, ok := inputs[0].(cty.Value)
	if !ok {
		return nil, fmt.Errorf("current value is %T, not a cty value", inputs[0])
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{"self": self},
		Functions: updateFunctions,
	}
	val, diags := o.expr.Value(evalCtx)
	if diags.HasErrors() {
		return nil, diags
	}
	converted, err := convert.Convert(val, o.ty)
	if err != nil {
		return nil, fmt.Errorf("update of %q produced %s: %w", o.name, val.Type().FriendlyName(), err)
	}
	return []any{converted}, nil
}
