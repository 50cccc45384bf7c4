// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package randomstreams

import (
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/specialistvlad/gridstate/internal/graph"
	"github.com/specialistvlad/gridstate/internal/vartype"
	"github.com/zclconf/go-cty/cty"
)

// MaxTrials bounds the binomial trial count, since each trial is one draw.
const MaxTrials = 1 << 24

// SampleType is the graph type of every distribution's output.
var SampleType = vartype.Of(cty.List(cty.Number))

// RandomFunction is a graph.Op drawing size samples from one distribution.
//
// Its inputs are the generator, the sample count and the distribution
// parameters, all as graph expressions. Its outputs are the advanced
// generator (a copy, the input is left untouched) and the samples.
type RandomFunction struct {
	name     string
	params   []string
	defaults []float64
	check    func(p []float64) error
	draw     func(g *Generator, p []float64) float64
}

var (
	// UniformOp draws from [low, high).
	UniformOp = &RandomFunction{
		name:     "uniform",
		params:   []string{"low", "high"},
		defaults: []float64{0, 1},
		check: func(p []float64) error {
			if p[1] < p[0] {
				return fmt.Errorf("high (%g) must not be below low (%g)", p[1], p[0])
			}
			return nil
		},
		draw: func(g *Generator, p []float64) float64 {
			return p[0] + (p[1]-p[0])*g.Float64()
		},
	}

	// NormalOp draws from a normal distribution with mean avg and standard
	// deviation std.
	NormalOp = &RandomFunction{
		name:     "normal",
		params:   []string{"avg", "std"},
		defaults: []float64{0, 1},
		check: func(p []float64) error {
			if p[1] < 0 {
				return fmt.Errorf("std (%g) must not be negative", p[1])
			}
			return nil
		},
		draw: func(g *Generator, p []float64) float64 {
			return p[0] + p[1]*g.NormFloat64()
		},
	}

	// BinomialOp counts successes in n trials of probability p.
	BinomialOp = &RandomFunction{
		name:     "binomial",
		params:   []string{"n", "p"},
		defaults: []float64{1, 0.5},
		check: func(p []float64) error {
			if p[0] < 0 || p[0] != math.Trunc(p[0]) {
				return fmt.Errorf("n (%g) must be a non-negative integer", p[0])
			}
			if p[0] > MaxTrials {
				return fmt.Errorf("n (%g) must not exceed %d", p[0], MaxTrials)
			}
			if p[1] < 0 || p[1] > 1 {
				return fmt.Errorf("p (%g) must be within [0, 1]", p[1])
			}
			return nil
		},
		draw: func(g *Generator, p []float64) float64 {
			var k float64
			for i := 0; i < int(p[0]); i++ {
				if g.Float64() < p[1] {
					k++
				}
			}
			return k
		},
	}

	// RandomIntegersOp draws integers from [low, high], both ends included.
	RandomIntegersOp = &RandomFunction{
		name:     "random_integers",
		params:   []string{"low", "high"},
		defaults: []float64{0, 1},
		check: func(p []float64) error {
			if p[0] != math.Trunc(p[0]) || p[1] != math.Trunc(p[1]) {
				return fmt.Errorf("low (%g) and high (%g) must be integers", p[0], p[1])
			}
			if p[1] < p[0] {
				return fmt.Errorf("high (%g) must not be below low (%g)", p[1], p[0])
			}
			if p[1]-p[0] >= math.MaxInt64 {
				return fmt.Errorf("range [%g, %g] is wider than %d", p[0], p[1], int64(math.MaxInt64))
			}
			return nil
		},
		draw: func(g *Generator, p []float64) float64 {
			return p[0] + float64(g.Int64N(int64(p[1]-p[0])+1))
		},
	}
)

// Distributions maps distribution names to their ops.
var Distributions = map[string]*RandomFunction{
	UniformOp.name:        UniformOp,
	NormalOp.name:         NormalOp,
	BinomialOp.name:       BinomialOp,
	RandomIntegersOp.name: RandomIntegersOp,
}

func (f *RandomFunction) Name() string {
	return f.name
}

// Params returns the parameter names in positional order.
func (f *RandomFunction) Params() []string {
	return append([]string(nil), f.params...)
}

// Args orders named parameters into the argument list Apply expects.
// Missing parameters take their defaults; unknown names are an error.
func (f *RandomFunction) Args(size int, params map[string]any) ([]any, error) {
	for name := range params {
		if !slices.Contains(f.params, name) {
			return nil, fmt.Errorf("%s: unknown parameter %q, expected one of %v", f.name, name, f.params)
		}
	}
	args := []any{size}
	for i, name := range f.params {
		if v, ok := params[name]; ok {
			args = append(args, v)
		} else {
			args = append(args, f.defaults[i])
		}
	}
	return args, nil
}

// Apply is the Operation for this distribution: args are the sample count
// followed by up to len(Params()) parameters, missing ones taking their
// defaults.
func (f *RandomFunction) Apply(rng *RandomState, args ...any) (graph.Expr, graph.Expr, error) {
	if len(args) == 0 {
		return nil, nil, fmt.Errorf("%s: sample count is required", f.name)
	}
	if len(args)-1 > len(f.params) {
		return nil, nil, fmt.Errorf("%s: expected at most %d parameters, got %d", f.name, len(f.params), len(args)-1)
	}

	size, err := toFloat(args[0])
	if err != nil {
		return nil, nil, fmt.Errorf("%s: size: %w", f.name, err)
	}
	if size < 0 || size != math.Trunc(size) {
		return nil, nil, fmt.Errorf("%s: size (%g) must be a non-negative integer", f.name, size)
	}

	params := append([]float64(nil), f.defaults...)
	for i, a := range args[1:] {
		if params[i], err = toFloat(a); err != nil {
			return nil, nil, fmt.Errorf("%s: %s: %w", f.name, f.params[i], err)
		}
	}
	if err := f.check(params); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", f.name, err)
	}

	inputs := []graph.Expr{rng}
	for i, v := range append([]float64{size}, params...) {
		name := "size"
		if i > 0 {
			name = f.params[i-1]
		}
		c, err := graph.NewConstant(vartype.Of(cty.Number), cty.NumberFloatVal(v), name)
		if err != nil {
			return nil, nil, err
		}
		inputs = append(inputs, c)
	}

	app := graph.NewApply(f, inputs, StateType{}, SampleType)
	return app.Output(0), app.Output(1), nil
}

// Perform draws the samples from a copy of the input generator.
func (f *RandomFunction) Perform(ctx context.Context, inputs []any) ([]any, error) {
	if len(inputs) != len(f.params)+2 {
		return nil, fmt.Errorf("%s: expected %d inputs, got %d", f.name, len(f.params)+2, len(inputs))
	}
	g, ok := inputs[0].(*Generator)
	if !ok || g == nil {
		return nil, fmt.Errorf("%s: first input is %T, not a generator", f.name, inputs[0])
	}

	nums := make([]float64, len(inputs)-1)
	for i, in := range inputs[1:] {
		v, err := toFloat(in)
		if err != nil {
			return nil, fmt.Errorf("%s: input %d: %w", f.name, i+1, err)
		}
		nums[i] = v
	}
	size, params := int(nums[0]), nums[1:]
	if err := f.check(params); err != nil {
		return nil, fmt.Errorf("%s: %w", f.name, err)
	}

	next := g.Copy()
	if size == 0 {
		return []any{next, cty.ListValEmpty(cty.Number)}, nil
	}
	samples := make([]cty.Value, size)
	for i := range samples {
		samples[i] = cty.NumberFloatVal(f.draw(next, params))
	}
	return []any{next, cty.ListVal(samples)}, nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	case cty.Value:
		if n.IsNull() || !n.IsKnown() || !n.Type().Equals(cty.Number) {
			return 0, fmt.Errorf("expected a known number, got %s", n.GoString())
		}
		f, _ := n.AsBigFloat().Float64()
		return f, nil
	default:
		return 0, fmt.Errorf("expected a number, got %T", v)
	}
}
