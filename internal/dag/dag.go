// Package dag provides the adjacency view of a flow graph and the traversal
// primitives the query and compile layers are built on.
package dag

import (
	"github.com/vk/gridflow/internal/flow"
	"github.com/vk/gridflow/internal/sets"
)

// Adjacency maps every node handle in a graph to the handles of its
// downstream edge targets. Every node appears as a key, including nodes
// with no outgoing edges; a node with fan-out to several slots of the same
// target appears once per edge.
type Adjacency map[flow.NodeID][]flow.NodeID

// FromStore builds the downstream adjacency view of a node collection.
func FromStore(s *flow.Store) Adjacency {
	adj := make(Adjacency, s.Len())
	for _, n := range s.Nodes() {
		id := n.ID()
		adj[id] = adj[id]
		for _, p := range n.Outputs() {
			adj[id] = append(adj[id], p.Node)
		}
	}
	return adj
}

// Reverse returns the adjacency with every edge flipped. All keys are
// preserved, so nodes without incoming edges map to an empty list.
func (a Adjacency) Reverse() Adjacency {
	rev := make(Adjacency, len(a))
	for id := range a {
		rev[id] = rev[id]
	}
	for id, targets := range a {
		for _, t := range targets {
			rev[t] = append(rev[t], id)
		}
	}
	return rev
}

// Undirected returns the undirected closure of the adjacency: every edge
// present in both directions.
func (a Adjacency) Undirected() Adjacency {
	und := make(Adjacency, len(a))
	for id := range a {
		und[id] = und[id]
	}
	for id, targets := range a {
		for _, t := range targets {
			und[id] = append(und[id], t)
			und[t] = append(und[t], id)
		}
	}
	return und
}

// Descendants returns the set of nodes reachable from the seed set via a
// breadth-first traversal over the adjacency's edges. Seeds themselves are
// excluded unless a cycle leads back to them.
func Descendants(a Adjacency, seeds sets.Set[flow.NodeID]) sets.Set[flow.NodeID] {
	found := sets.New[flow.NodeID]()
	queue := seeds.Values()
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, t := range a[id] {
			if found.Has(t) {
				continue
			}
			found.Add(t)
			queue = append(queue, t)
		}
	}
	return found
}

// Roots returns the nodes with no downstream edges, i.e. the nodes nothing
// consumes as output.
func Roots(a Adjacency) sets.Set[flow.NodeID] {
	roots := sets.New[flow.NodeID]()
	for id, targets := range a {
		if len(targets) == 0 {
			roots.Add(id)
		}
	}
	return roots
}

// RootsFrom returns the roots of the graph that are connected to the seed
// set, where connectivity is judged over the undirected closure (both
// upstream and downstream edges traversed).
func RootsFrom(a Adjacency, seeds sets.Set[flow.NodeID]) sets.Set[flow.NodeID] {
	return Roots(a).Intersect(Descendants(a.Undirected(), seeds))
}
