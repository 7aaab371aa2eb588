// Package schema holds the HCL block structures for graph definition files.
package schema

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// Node represents a `node` block from a graph file: one instance of a
// registered processor type.
type Node struct {
	Processor string   `hcl:"processor,label"`
	Name      string   `hcl:"instance_name,label"`
	Inputs    []string `hcl:"inputs,optional"`
}

// Feed represents a `feed` block: an externally supplied value for one
// unconnected input slot.
type Feed struct {
	Node  string    `hcl:"node"`
	Input int       `hcl:"input,optional"`
	Value cty.Value `hcl:"value"`
}

// GraphConfig represents the top-level structure of a graph file.
type GraphConfig struct {
	Nodes []*Node  `hcl:"node,block"`
	Feeds []*Feed  `hcl:"feed,block"`
	Body  hcl.Body `hcl:",remain"`
}
