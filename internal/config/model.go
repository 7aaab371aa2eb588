package config

import (
	"context"

	"github.com/zclconf/go-cty/cty"
)

// Model is the unified, format-agnostic representation of a graph
// definition: the declared nodes and the externally supplied source values.
type Model struct {
	Nodes []*Node
	Feeds []*Feed
}

// Node is the format-agnostic representation of a `node` block.
type Node struct {
	// Processor is the registered processor type computing this node.
	Processor string
	// Name is the human-readable instance name, unique within the model.
	Name string
	// Inputs holds the upstream instance name per input slot; an empty
	// string leaves the slot unconnected.
	Inputs []string
}

// Feed is the format-agnostic representation of a `feed` block: an external
// value for one unconnected input slot.
type Feed struct {
	Node  string
	Input int
	Value cty.Value
}

// Loader is the interface for a format-specific graph definition loader.
type Loader interface {
	// Load reads graph definitions from the given paths and translates them
	// into the format-agnostic model.
	Load(ctx context.Context, paths ...string) (*Model, error)
}
