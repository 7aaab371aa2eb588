package dag

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/gridflow/internal/flow"
	"github.com/vk/gridflow/internal/sets"
	"github.com/zclconf/go-cty/cty"
)

// passProc returns a processor of the given arity that echoes a constant;
// these tests only care about graph shape.
func passProc(arity int) *flow.Processor {
	return &flow.Processor{
		Arity: arity,
		Fn: func(ctx context.Context, args []cty.Value) (cty.Value, error) {
			return cty.NumberIntVal(0), nil
		},
	}
}

// buildChain wires a -> b -> c and returns the store plus the three ids.
func buildChain(t *testing.T) (*flow.Store, flow.NodeID, flow.NodeID, flow.NodeID) {
	t.Helper()
	s := flow.NewStore()
	a := s.NewNode(passProc(0))
	b := s.NewNode(passProc(1))
	c := s.NewNode(passProc(1))
	require.NoError(t, s.Connect(a.ID(), b.ID(), 0))
	require.NoError(t, s.Connect(b.ID(), c.ID(), 0))
	return s, a.ID(), b.ID(), c.ID()
}

func TestFromStore(t *testing.T) {
	s, a, b, c := buildChain(t)
	adj := FromStore(s)

	// Every node is a key, including the terminal one.
	require.Len(t, adj, 3)
	assert.Equal(t, []flow.NodeID{b}, adj[a])
	assert.Equal(t, []flow.NodeID{c}, adj[b])
	assert.Empty(t, adj[c])
}

func TestReverse(t *testing.T) {
	s, a, b, c := buildChain(t)
	rev := FromStore(s).Reverse()

	require.Len(t, rev, 3)
	assert.Empty(t, rev[a])
	assert.Equal(t, []flow.NodeID{a}, rev[b])
	assert.Equal(t, []flow.NodeID{b}, rev[c])
}

func TestDescendants(t *testing.T) {
	t.Run("chain", func(t *testing.T) {
		s, a, b, c := buildChain(t)
		adj := FromStore(s)

		ds := Descendants(adj, sets.New(a))
		assert.True(t, ds.Equal(sets.New(b, c)))
	})

	t.Run("seeds are excluded without a cycle", func(t *testing.T) {
		s, a, _, _ := buildChain(t)
		ds := Descendants(FromStore(s), sets.New(a))
		assert.False(t, ds.Has(a))
	})

	t.Run("seed reachable through a cycle is included", func(t *testing.T) {
		s := flow.NewStore()
		a := s.NewNode(passProc(1))
		b := s.NewNode(passProc(1))
		require.NoError(t, s.Connect(a.ID(), b.ID(), 0))
		require.NoError(t, s.Connect(b.ID(), a.ID(), 0))

		ds := Descendants(FromStore(s), sets.New(a.ID()))
		assert.True(t, ds.Equal(sets.New(a.ID(), b.ID())))
	})

	t.Run("multiple seeds", func(t *testing.T) {
		s, a, b, c := buildChain(t)
		ds := Descendants(FromStore(s), sets.New(a, b))
		assert.True(t, ds.Equal(sets.New(b, c)))
	})
}

func TestRoots(t *testing.T) {
	t.Run("chain has a single root", func(t *testing.T) {
		s, _, _, c := buildChain(t)
		roots := Roots(FromStore(s))
		assert.True(t, roots.Equal(sets.New(c)))
	})

	t.Run("isolated node is a root", func(t *testing.T) {
		s := flow.NewStore()
		lone := s.NewNode(passProc(0))
		roots := Roots(FromStore(s))
		assert.True(t, roots.Equal(sets.New(lone.ID())))
	})

	t.Run("fan-in graph", func(t *testing.T) {
		s := flow.NewStore()
		a := s.NewNode(passProc(0))
		b := s.NewNode(passProc(0))
		sink := s.NewNode(passProc(2))
		require.NoError(t, s.Connect(a.ID(), sink.ID(), 0))
		require.NoError(t, s.Connect(b.ID(), sink.ID(), 1))

		roots := Roots(FromStore(s))
		assert.True(t, roots.Equal(sets.New(sink.ID())))
	})
}

func TestRootsFrom(t *testing.T) {
	// Two disjoint chains; only the root of the seeded component is found.
	s := flow.NewStore()
	a := s.NewNode(passProc(0))
	b := s.NewNode(passProc(1))
	x := s.NewNode(passProc(0))
	y := s.NewNode(passProc(1))
	require.NoError(t, s.Connect(a.ID(), b.ID(), 0))
	require.NoError(t, s.Connect(x.ID(), y.ID(), 0))

	adj := FromStore(s)

	t.Run("finds the connected component's root", func(t *testing.T) {
		roots := RootsFrom(adj, sets.New(a.ID()))
		assert.True(t, roots.Equal(sets.New(b.ID())))
	})

	t.Run("upstream edges are traversed too", func(t *testing.T) {
		// Seeding at the root itself reaches back up and re-finds it
		// through the undirected closure.
		roots := RootsFrom(adj, sets.New(b.ID()))
		assert.True(t, roots.Equal(sets.New(b.ID())))
	})

	t.Run("other components stay invisible", func(t *testing.T) {
		roots := RootsFrom(adj, sets.New(a.ID()))
		assert.False(t, roots.Has(y.ID()))
	})
}
