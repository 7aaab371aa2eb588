package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/gridflow/internal/config"
	"github.com/vk/gridflow/internal/flow"
	"github.com/zclconf/go-cty/cty"
)

func proc(arity int) *flow.Processor {
	return &flow.Processor{
		Arity: arity,
		Fn: func(ctx context.Context, args []cty.Value) (cty.Value, error) {
			return cty.NumberIntVal(0), nil
		},
	}
}

// newTestRegistry registers the fixture processors every validation test uses.
func newTestRegistry() *Registry {
	r := New()
	r.RegisterProcessor("source", proc(0))
	r.RegisterProcessor("double", proc(1))
	r.RegisterProcessor("add", proc(2))
	return r
}

func TestRegisterProcessor(t *testing.T) {
	r := New()
	r.RegisterProcessor("double", proc(1))

	p, ok := r.Processor("double")
	require.True(t, ok)
	assert.Equal(t, 1, p.Arity)

	_, ok = r.Processor("missing")
	assert.False(t, ok)
}

func TestRegisterProcessor_DuplicatePanics(t *testing.T) {
	r := New()
	r.RegisterProcessor("double", proc(1))
	assert.PanicsWithValue(t, "processor with name 'double' already registered", func() {
		r.RegisterProcessor("double", proc(1))
	})
}

func TestValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("accepts a well-formed model", func(t *testing.T) {
		model := &config.Model{
			Nodes: []*config.Node{
				{Processor: "source", Name: "a"},
				{Processor: "add", Name: "sum", Inputs: []string{"a"}},
			},
			Feeds: []*config.Feed{
				{Node: "sum", Input: 1, Value: cty.NumberIntVal(3)},
			},
		}
		assert.NoError(t, newTestRegistry().Validate(ctx, model))
	})

	t.Run("unknown processor type", func(t *testing.T) {
		model := &config.Model{Nodes: []*config.Node{{Processor: "nope", Name: "a"}}}
		err := newTestRegistry().Validate(ctx, model)
		assert.ErrorContains(t, err, "unknown processor type 'nope'")
	})

	t.Run("too many inputs for the arity", func(t *testing.T) {
		model := &config.Model{Nodes: []*config.Node{
			{Processor: "source", Name: "a"},
			{Processor: "double", Name: "d", Inputs: []string{"a", "a"}},
		}}
		err := newTestRegistry().Validate(ctx, model)
		assert.ErrorContains(t, err, "declares arity 1")
	})

	t.Run("input references an undeclared node", func(t *testing.T) {
		model := &config.Model{Nodes: []*config.Node{
			{Processor: "double", Name: "d", Inputs: []string{"ghost"}},
		}}
		err := newTestRegistry().Validate(ctx, model)
		assert.ErrorContains(t, err, `references undeclared node "ghost"`)
	})

	t.Run("empty input string means unconnected", func(t *testing.T) {
		model := &config.Model{Nodes: []*config.Node{
			{Processor: "add", Name: "sum", Inputs: []string{"", ""}},
		}}
		assert.NoError(t, newTestRegistry().Validate(ctx, model))
	})

	t.Run("feed for an undeclared node", func(t *testing.T) {
		model := &config.Model{
			Feeds: []*config.Feed{{Node: "ghost", Value: cty.NumberIntVal(1)}},
		}
		err := newTestRegistry().Validate(ctx, model)
		assert.ErrorContains(t, err, `feed references undeclared node "ghost"`)
	})

	t.Run("feed slot out of range", func(t *testing.T) {
		model := &config.Model{
			Nodes: []*config.Node{{Processor: "double", Name: "d"}},
			Feeds: []*config.Feed{{Node: "d", Input: 3, Value: cty.NumberIntVal(1)}},
		}
		err := newTestRegistry().Validate(ctx, model)
		assert.ErrorContains(t, err, "no input slot 3")
	})

	t.Run("feed targets a connected slot", func(t *testing.T) {
		model := &config.Model{
			Nodes: []*config.Node{
				{Processor: "source", Name: "a"},
				{Processor: "double", Name: "d", Inputs: []string{"a"}},
			},
			Feeds: []*config.Feed{{Node: "d", Input: 0, Value: cty.NumberIntVal(1)}},
		}
		err := newTestRegistry().Validate(ctx, model)
		assert.ErrorContains(t, err, "slot is connected")
	})
}
