package randomstreams

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/specialistvlad/gridstate/internal/graph"
	"github.com/specialistvlad/gridstate/internal/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

// perform evaluates a single draw built by a RandomFunction and returns the
// next generator and the samples.
func perform(t *testing.T, out graph.Expr) (*Generator, []float64) {
	t.Helper()
	app, idx := out.Var().Owner()
	require.NotNil(t, app)
	require.Equal(t, 1, idx)

	var inputs []any
	for _, in := range app.Inputs() {
		switch x := in.(type) {
		case *RandomState:
			inputs = append(inputs, x.Generator())
		case *graph.Constant:
			inputs = append(inputs, x.Value())
		default:
			t.Fatalf("unexpected input %T", in)
		}
	}
	res, err := app.Op().Perform(context.Background(), inputs)
	require.NoError(t, err)
	require.Len(t, res, 2)

	var samples []float64
	for _, v := range res[1].(cty.Value).AsValueSlice() {
		f, _ := v.AsBigFloat().Float64()
		samples = append(samples, f)
	}
	return res[0].(*Generator), samples
}

// step performs a draw and writes the next generator back, as an executor
// does after each call.
func step(t *testing.T, out graph.Expr) []float64 {
	t.Helper()
	next, samples := perform(t, out)
	rs := out.Var().Tag["rng"].(*RandomState)
	require.NoError(t, rs.SetValue(next, true))
	return samples
}

func TestGenRecordsPairs(t *testing.T) {
	ctx := context.Background()
	m := New(WithSeed(11))

	a, err := m.Uniform(ctx, 2, 0, 1)
	require.NoError(t, err)
	b, err := m.Normal(ctx, 3, 0, 1)
	require.NoError(t, err)

	pairs := m.Updates()
	require.Len(t, pairs, 2)
	assert.Same(t, pairs[0].Old, a.Var().Tag["rng"])
	assert.Same(t, pairs[1].Old, b.Var().Tag["rng"])
	for _, p := range pairs {
		assert.True(t, p.New.Var().Type().Equal(StateType{}))
		assert.True(t, p.New.Var().Type().Equal(p.Old.Type()))
	}

	t.Run("updates is a snapshot", func(t *testing.T) {
		got := m.Updates()
		got[0] = Pair{}
		assert.NotNil(t, m.Updates()[0].Old)
	})
}

func TestSeedDeterminism(t *testing.T) {
	ctx := context.Background()

	build := func(seed int64) *Manager {
		m := New(WithSeed(seed))
		for i := 0; i < 3; i++ {
			_, err := m.Uniform(ctx, 1, 0, 1)
			require.NoError(t, err)
		}
		return m
	}

	t.Run("same seed same generators", func(t *testing.T) {
		m1, m2 := build(5), build(5)
		for i := range m1.Updates() {
			assert.True(t, m1.Get(m1.Updates()[i].Old).Equal(m2.Get(m2.Updates()[i].Old)))
		}
	})

	t.Run("reseed restores creation state", func(t *testing.T) {
		m := build(5)
		var before []*Generator
		for _, p := range m.Updates() {
			before = append(before, p.Old.Generator().Copy())
			require.NoError(t, m.Set(p.Old, NewGenerator(999)))
		}

		require.NoError(t, m.Seed(ctx, nil))
		for i, p := range m.Updates() {
			assert.True(t, before[i].Equal(p.Old.Generator()), "stream %d", i)
			assert.Equal(t, before[i].Seed(), p.Old.Generator().Seed())
		}
	})

	t.Run("explicit seed matches a manager built with it", func(t *testing.T) {
		m1, m2 := build(1), build(2)
		seed := int64(2)
		require.NoError(t, m1.Seed(ctx, &seed))
		for i := range m1.Updates() {
			assert.True(t, m1.Updates()[i].Old.Generator().Equal(m2.Updates()[i].Old.Generator()))
		}
	})

	t.Run("streams after reseed continue the seed sequence", func(t *testing.T) {
		m1 := New(WithSeed(7))
		m2 := New(WithSeed(7))
		for i := 0; i < 2; i++ {
			_, err := m1.Uniform(ctx, 1, 0, 1)
			require.NoError(t, err)
		}
		for i := 0; i < 4; i++ {
			_, err := m2.Uniform(ctx, 1, 0, 1)
			require.NoError(t, err)
		}

		require.NoError(t, m1.Seed(ctx, nil))
		for i := 0; i < 2; i++ {
			_, err := m1.Uniform(ctx, 1, 0, 1)
			require.NoError(t, err)
		}
		for i := range m2.Updates() {
			assert.True(t, m1.Updates()[i].Old.Generator().Equal(m2.Updates()[i].Old.Generator()), "stream %d", i)
		}
	})
}

func TestSeedDrawScenario(t *testing.T) {
	ctx := context.Background()
	m := New(WithSeed(123))
	out, err := m.Uniform(ctx, 4, 0, 1)
	require.NoError(t, err)

	d1 := step(t, out)
	d2 := step(t, out)
	require.NotEqual(t, d1, d2)

	require.NoError(t, m.Seed(ctx, nil))
	d3 := step(t, out)
	d4 := step(t, out)

	assert.Equal(t, d1, d3)
	assert.Equal(t, d2, d4)
}

func TestGenFailureLeavesManagerUnchanged(t *testing.T) {
	ctx := context.Background()
	m := New(WithSeed(8))
	ref := New(WithSeed(8))

	failing := func(rng *RandomState, args ...any) (graph.Expr, graph.Expr, error) {
		return nil, nil, errors.New("boom")
	}
	_, err := m.Gen(ctx, failing)
	require.Error(t, err)

	wrongType := func(rng *RandomState, args ...any) (graph.Expr, graph.Expr, error) {
		c, err := graph.NewConstant(SampleType, cty.ListValEmpty(cty.Number), "")
		return c, c, err
	}
	_, err = m.Gen(ctx, wrongType)
	require.Error(t, err)

	_, err = m.Normal(ctx, 1, 0, -1)
	require.Error(t, err)
	assert.Empty(t, m.Updates())

	_, err = m.Uniform(ctx, 1, 0, 1)
	require.NoError(t, err)
	_, err = ref.Uniform(ctx, 1, 0, 1)
	require.NoError(t, err)
	assert.True(t, m.Updates()[0].Old.Generator().Equal(ref.Updates()[0].Old.Generator()))
}

func TestGenWithRegistryWithoutRandomState(t *testing.T) {
	m := New(WithSeed(1), WithRegistry(&shared.Registry{}))
	_, err := m.Uniform(context.Background(), 1, 0, 1)
	require.ErrorIs(t, err, shared.ErrNoConstructorFound)
	assert.Empty(t, m.Updates())
}

func TestGenInitialisesNilTag(t *testing.T) {
	m := New(WithSeed(3))
	bare := func(rng *RandomState, args ...any) (graph.Expr, graph.Expr, error) {
		out := graph.NewVariable(SampleType, "bare")
		out.Tag = nil
		return rng, out, nil
	}

	out, err := m.Gen(context.Background(), bare)
	require.NoError(t, err)
	require.Len(t, m.Updates(), 1)
	assert.Same(t, m.Updates()[0].Old, out.Var().Tag["rng"])
}

func TestDistributions(t *testing.T) {
	ctx := context.Background()
	m := New(WithSeed(99))

	t.Run("uniform", func(t *testing.T) {
		out, err := m.Uniform(ctx, 200, -2, 3)
		require.NoError(t, err)
		_, samples := perform(t, out)
		require.Len(t, samples, 200)
		for _, s := range samples {
			assert.GreaterOrEqual(t, s, -2.0)
			assert.Less(t, s, 3.0)
		}
	})

	t.Run("normal", func(t *testing.T) {
		out, err := m.Normal(ctx, 1000, 10, 0.5)
		require.NoError(t, err)
		_, samples := perform(t, out)
		var sum float64
		for _, s := range samples {
			sum += s
		}
		assert.InDelta(t, 10, sum/float64(len(samples)), 0.1)
	})

	t.Run("binomial", func(t *testing.T) {
		out, err := m.Binomial(ctx, 100, 5, 0.3)
		require.NoError(t, err)
		_, samples := perform(t, out)
		for _, s := range samples {
			assert.GreaterOrEqual(t, s, 0.0)
			assert.LessOrEqual(t, s, 5.0)
			assert.Equal(t, float64(int(s)), s)
		}
	})

	t.Run("random integers include both ends", func(t *testing.T) {
		out, err := m.RandomIntegers(ctx, 500, 1, 3)
		require.NoError(t, err)
		_, samples := perform(t, out)
		seen := map[float64]bool{}
		for _, s := range samples {
			seen[s] = true
		}
		assert.Equal(t, map[float64]bool{1: true, 2: true, 3: true}, seen)
	})

	t.Run("empty sample", func(t *testing.T) {
		out, err := m.Uniform(ctx, 0, 0, 1)
		require.NoError(t, err)
		_, samples := perform(t, out)
		assert.Empty(t, samples)
	})

	t.Run("perform leaves the input generator untouched", func(t *testing.T) {
		out, err := m.Uniform(ctx, 3, 0, 1)
		require.NoError(t, err)
		rs := out.Var().Tag["rng"].(*RandomState)
		before := rs.Generator().Copy()
		next, _ := perform(t, out)
		assert.True(t, before.Equal(rs.Generator()))
		assert.False(t, next.Equal(rs.Generator()))
	})
}

func TestRandomFunctionValidation(t *testing.T) {
	v, err := Constructor(NewGenerator(1), shared.Options{})
	require.NoError(t, err)
	rs := v.(*RandomState)

	tests := []struct {
		name string
		fn   *RandomFunction
		args []any
	}{
		{"missing size", UniformOp, nil},
		{"negative size", UniformOp, []any{-1}},
		{"fractional size", UniformOp, []any{1.5}},
		{"too many params", UniformOp, []any{1, 0.0, 1.0, 2.0}},
		{"inverted uniform bounds", UniformOp, []any{1, 2.0, 1.0}},
		{"negative std", NormalOp, []any{1, 0.0, -1.0}},
		{"probability above one", BinomialOp, []any{1, 1, 1.5}},
		{"fractional trials", BinomialOp, []any{1, 2.5, 0.5}},
		{"fractional integer bound", RandomIntegersOp, []any{1, 0.5, 3}},
		{"integer range wider than int64", RandomIntegersOp, []any{1, int64(math.MinInt64), int64(math.MaxInt64)}},
		{"infinite integer bound", RandomIntegersOp, []any{1, 0, math.Inf(1)}},
		{"too many trials", BinomialOp, []any{1, MaxTrials + 1, 0.5}},
		{"non-numeric param", NormalOp, []any{1, "zero"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tt.fn.Apply(rs, tt.args...)
			require.Error(t, err)
		})
	}

	t.Run("defaults fill missing params", func(t *testing.T) {
		_, out, err := NormalOp.Apply(rs, 2)
		require.NoError(t, err)
		app, _ := out.Var().Owner()
		require.Len(t, app.Inputs(), 4)
		std := app.Inputs()[3].(*graph.Constant).Value().(cty.Value)
		assert.True(t, std.Equals(cty.NumberIntVal(1)).True())
	})

	t.Run("cty params", func(t *testing.T) {
		_, _, err := UniformOp.Apply(rs, cty.NumberIntVal(3), cty.NumberFloatVal(0.5), cty.NumberIntVal(2))
		require.NoError(t, err)
	})
}

func TestRandomIntegersWideRange(t *testing.T) {
	ctx := context.Background()
	m := New(WithSeed(5))

	_, err := m.RandomIntegers(ctx, 1, math.MinInt64, math.MaxInt64)
	require.Error(t, err)
	assert.Empty(t, m.Updates())

	out, err := m.RandomIntegers(ctx, 4, -(1 << 61), 1<<61)
	require.NoError(t, err)
	_, samples := perform(t, out)
	require.Len(t, samples, 4)
	for _, s := range samples {
		assert.GreaterOrEqual(t, s, float64(-(1 << 61)))
		assert.LessOrEqual(t, s, float64(1<<61))
	}
}

func TestRandomFunctionArgs(t *testing.T) {
	args, err := NormalOp.Args(4, map[string]any{"std": cty.NumberFloatVal(2)})
	require.NoError(t, err)
	require.Len(t, args, 3)
	assert.Equal(t, 4, args[0])
	assert.Equal(t, 0.0, args[1])
	assert.True(t, args[2].(cty.Value).Equals(cty.NumberFloatVal(2)).True())

	_, err = NormalOp.Args(1, map[string]any{"sigma": 1.0})
	require.ErrorContains(t, err, `unknown parameter "sigma"`)
}
