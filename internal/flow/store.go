package flow

import (
	"fmt"
	"sort"
)

// Store is the node arena. Connections are stored as handle pairs and
// resolved through the store, so the mutual input/output references never
// form ownership cycles.
//
// Connect and Disconnect must not be invoked concurrently with an in-flight
// Update walk over the same nodes; that discipline belongs to the editing
// layer.
type Store struct {
	nodes  map[NodeID]*Node
	nextID NodeID
}

// NewStore creates an empty node arena.
func NewStore() *Store {
	return &Store{
		nodes:  make(map[NodeID]*Node),
		nextID: 1,
	}
}

// NewNode creates a node with the processor's declared arity. Its initial
// cached state is "input 0 not connected", even for arity-zero nodes.
func (s *Store) NewNode(proc *Processor) *Node {
	n := &Node{
		id:     s.nextID,
		proc:   proc,
		inputs: make([]NodeID, proc.Arity),
		cached: ErrResult(&InputError{Input: 0, Err: &NotConnectedError{}}),
	}
	s.nextID++
	s.nodes[n.id] = n
	return n
}

// Node returns the node with the given handle, or nil if it is not in the
// store.
func (s *Store) Node(id NodeID) *Node {
	return s.nodes[id]
}

// Len returns the number of nodes in the store.
func (s *Store) Len() int {
	return len(s.nodes)
}

// IDs returns all node handles in ascending order.
func (s *Store) IDs() []NodeID {
	ids := make([]NodeID, 0, len(s.nodes))
	for id := range s.nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Nodes returns all nodes ordered by ascending handle.
func (s *Store) Nodes() []*Node {
	ids := s.IDs()
	out := make([]*Node, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.nodes[id])
	}
	return out
}

// Remove destroys a node. The store does not chase down stale
// back-references from other nodes; the owning collaborator must disconnect
// the node before removing it.
func (s *Store) Remove(id NodeID) {
	delete(s.nodes, id)
}

// Adopt shares an existing node into this store under its original handle.
// It is used by the query layer to build membership views; the node state
// itself is not copied.
func (s *Store) Adopt(n *Node) {
	s.nodes[n.id] = n
	if n.id >= s.nextID {
		s.nextID = n.id + 1
	}
}

// Connect wires src's output into dst's input slot. Both endpoints are
// updated together: the slot's previous upstream connection, if any, is
// released first so that an input slot never references more than one
// upstream node.
func (s *Store) Connect(src, dst NodeID, input int) error {
	from, ok := s.nodes[src]
	if !ok {
		return fmt.Errorf("source node not found: %d", src)
	}
	to, ok := s.nodes[dst]
	if !ok {
		return fmt.Errorf("destination node not found: %d", dst)
	}
	if input < 0 || input >= len(to.inputs) {
		return fmt.Errorf("node %d has no input slot %d (arity %d)", dst, input, len(to.inputs))
	}

	if prev := to.inputs[input]; prev != Unconnected {
		s.Disconnect(prev, dst, input)
	}

	to.inputs[input] = src
	from.outputs = append(from.outputs, Port{Node: dst, Input: input})
	return nil
}

// Disconnect removes the edge from src into dst's input slot, clearing the
// slot and dropping the matching output entry. It is a no-op if the pair is
// not connected.
func (s *Store) Disconnect(src, dst NodeID, input int) {
	from, ok := s.nodes[src]
	if !ok {
		return
	}
	to, ok := s.nodes[dst]
	if !ok {
		return
	}
	if input < 0 || input >= len(to.inputs) || to.inputs[input] != src {
		return
	}

	to.inputs[input] = Unconnected
	for i, p := range from.outputs {
		if p.Node == dst && p.Input == input {
			from.outputs = append(from.outputs[:i], from.outputs[i+1:]...)
			break
		}
	}
}
