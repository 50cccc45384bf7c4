package randomstreams

import (
	"context"
	"testing"

	"github.com/specialistvlad/gridstate/internal/graph"
	"github.com/specialistvlad/gridstate/internal/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateType(t *testing.T) {
	g := NewGenerator(1)
	got, err := StateType{}.Filter(g, true, nil)
	require.NoError(t, err)
	assert.Same(t, g, got)

	_, err = StateType{}.Filter(1.5, false, nil)
	require.ErrorIs(t, err, graph.ErrTypeMismatch)

	var nilGen *Generator
	_, err = StateType{}.Filter(nilGen, false, nil)
	require.ErrorIs(t, err, graph.ErrTypeMismatch)

	assert.True(t, StateType{}.Equal(StateType{}))
	assert.Equal(t, "random_state", StateType{}.String())
}

func TestDefaultRegistryBuildsRandomState(t *testing.T) {
	assert.Equal(t, "random_state", shared.Default.Names()[0])

	v, err := shared.Construct(context.Background(), NewGenerator(9), shared.Options{Name: "rng"})
	require.NoError(t, err)
	rs, ok := v.(*RandomState)
	require.True(t, ok, "got %T", v)
	assert.Equal(t, int64(9), rs.Generator().Seed())
}

func TestRandomStateConstructor(t *testing.T) {
	_, err := Constructor(3, shared.Options{})
	require.ErrorIs(t, err, graph.ErrTypeMismatch)

	_, err = Constructor(NewGenerator(1), shared.Options{Extra: map[string]any{"x": 1}})
	require.ErrorIs(t, err, graph.ErrTypeMismatch)

	t.Run("passes filter options to the container", func(t *testing.T) {
		allow := true
		v, err := Constructor(NewGenerator(1), shared.Options{Strict: true, AllowDowncast: &allow})
		require.NoError(t, err)
		c := v.(*RandomState).Container()
		assert.True(t, c.Strict())
		require.NotNil(t, c.AllowDowncast())
		assert.True(t, *c.AllowDowncast())
	})
}

func TestRandomStateCopySemantics(t *testing.T) {
	v, err := Constructor(NewGenerator(4), shared.Options{})
	require.NoError(t, err)
	rs := v.(*RandomState)

	t.Run("get without borrow copies", func(t *testing.T) {
		got, err := rs.GetValue(false)
		require.NoError(t, err)
		g := got.(*Generator)
		assert.NotSame(t, rs.Generator(), g)
		g.Float64()
		assert.False(t, g.Equal(rs.Generator()))
	})

	t.Run("get with borrow aliases", func(t *testing.T) {
		got, err := rs.GetValue(true)
		require.NoError(t, err)
		assert.Same(t, rs.Generator(), got)
	})

	t.Run("clone shares the container", func(t *testing.T) {
		c, ok := rs.Clone().(*RandomState)
		require.True(t, ok)
		assert.Same(t, rs.Container(), c.Container())
		assert.NotEqual(t, rs.ID(), c.ID())

		require.NoError(t, c.SetValue(NewGenerator(77), false))
		assert.Equal(t, int64(77), rs.Generator().Seed())
	})

	t.Run("rejects other payloads", func(t *testing.T) {
		err := rs.SetValue("not a generator", true)
		require.ErrorIs(t, err, graph.ErrTypeMismatch)
		assert.NotNil(t, rs.Generator())
	})
}
