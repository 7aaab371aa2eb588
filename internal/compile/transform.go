// Package compile linearizes an acyclic flow graph into an ordered transform
// list and recolors its buffer slots into a minimal pool via liveness
// analysis and greedy graph coloring.
package compile

import "github.com/vk/gridflow/internal/flow"

// Transform is one compiled execution step: the node whose processor
// computes it, the buffer slot its output occupies, and the buffer slots it
// reads, one per input in input order.
type Transform struct {
	// Node is the graph node computing this step, or flow.Unconnected for a
	// source step whose value is loaded externally.
	Node flow.NodeID
	// Write is the buffer slot this step's output occupies.
	Write int
	// Reads are the buffer slots this step consumes, in input order. Source
	// steps read nothing.
	Reads []int
}

// IsSource reports whether the step's value is supplied externally rather
// than computed.
func (t Transform) IsSource() bool {
	return t.Node == flow.Unconnected
}

// Plan is a compiled execution plan: the ordered transform list, the
// directory of source slots, and the number of buffer slots required.
type Plan struct {
	// Transforms holds the source steps first, then one step per graph node
	// in dependency order.
	Transforms []Transform
	// Sources names, per source step in order, the (node, input slot) whose
	// unconnected input the source materializes.
	Sources []flow.Port
	// Slots is the buffer pool size the plan requires. Before allocation
	// every step owns a distinct slot; Optimise shrinks this via coloring.
	Slots int
}
