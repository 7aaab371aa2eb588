package flow

import (
	"context"
	"sync"

	"github.com/zclconf/go-cty/cty"
)

// NodeID is a process-unique handle for a node. IDs are generated
// monotonically by the owning Store and are never reused while the node is
// live. The zero NodeID marks an unconnected input slot.
type NodeID int

// Unconnected is the sentinel NodeID for an input slot with no upstream.
const Unconnected NodeID = 0

// Port identifies one input slot of one node, as seen from the upstream
// side of an edge.
type Port struct {
	Node  NodeID
	Input int
}

// ProcFunc is an asynchronous processing capability: it consumes one value
// per input slot, in slot order, and produces a single output value or
// fails with an arbitrary cause.
type ProcFunc func(ctx context.Context, args []cty.Value) (cty.Value, error)

// Processor couples a processing function with its declared input arity.
// The arity is declared explicitly rather than inferred by reflection; the
// build layer checks it against a node's connections.
type Processor struct {
	Arity int
	Fn    ProcFunc
}

// Node is the atomic unit of computation: a fixed number of input slots,
// one output fanning out to any number of downstream (node, slot) pairs,
// and a cached result written only by the node's own update step.
type Node struct {
	id   NodeID
	proc *Processor

	// Selected is a parallel editing-layer flag with no graph semantics.
	Selected bool

	mu      sync.Mutex
	inputs  []NodeID
	outputs []Port
	cached  Result
}

// ID returns the node's stable handle.
func (n *Node) ID() NodeID {
	return n.id
}

// Arity returns the node's declared input arity.
func (n *Node) Arity() int {
	return len(n.inputs)
}

// Processor returns the node's processing capability.
func (n *Node) Processor() *Processor {
	return n.proc
}

// Inputs returns a copy of the node's input slots. Each entry is the
// upstream node's ID or Unconnected.
func (n *Node) Inputs() []NodeID {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]NodeID, len(n.inputs))
	copy(out, n.inputs)
	return out
}

// Input returns the upstream node connected at the given slot, or
// Unconnected.
func (n *Node) Input(i int) NodeID {
	n.mu.Lock()
	defer n.mu.Unlock()
	if i < 0 || i >= len(n.inputs) {
		return Unconnected
	}
	return n.inputs[i]
}

// Outputs returns a copy of the node's outgoing edges, one entry per
// distinct (downstream node, input slot) connection.
func (n *Node) Outputs() []Port {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Port, len(n.outputs))
	copy(out, n.outputs)
	return out
}

// Cached returns the node's current cached result.
func (n *Node) Cached() Result {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.cached
}

func (n *Node) setCached(r Result) {
	n.mu.Lock()
	n.cached = r
	n.mu.Unlock()
}
