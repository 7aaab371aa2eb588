// Package query answers structural questions about a flow graph on behalf
// of the editing layer: cycle membership, collapsible-subgraph extraction,
// exterior ports, membership splits, and selection state.
package query

import (
	"sort"

	"github.com/vk/gridflow/internal/dag"
	"github.com/vk/gridflow/internal/flow"
	"github.com/vk/gridflow/internal/sets"
)

// CycleWith reports whether some cycle passes through all of the given
// nodes jointly: every id must be reachable from every other id, itself
// included. A chain A→B is not a cycle with {A,B}; a mutual pair A↔B is.
func CycleWith(s *flow.Store, ids sets.Set[flow.NodeID]) bool {
	adj := dag.FromStore(s)
	for id := range ids {
		ds := dag.Descendants(adj, sets.New(id))
		for other := range ids {
			if !ds.Has(other) {
				return false
			}
		}
	}
	return true
}

// CollapsibleFrom returns the nodes that become unreachable from every root
// once the given ids are removed: the exact set whose sole path to any root
// passes through ids. The ids themselves are not part of the result.
func CollapsibleFrom(s *flow.Store, ids sets.Set[flow.NodeID]) sets.Set[flow.NodeID] {
	adj := dag.FromStore(s)
	rev := adj.Reverse()
	roots := dag.Roots(adj)

	// Everything that feeds some root while the ids are still present.
	withSeeds := dag.Descendants(rev, roots).Union(roots)

	// Re-run the reachability with the ids deleted, reseeded from the roots
	// that survive the deletion.
	residual := make(dag.Adjacency, len(adj))
	for id, targets := range adj {
		if ids.Has(id) {
			continue
		}
		kept := residual[id]
		for _, t := range targets {
			if !ids.Has(t) {
				kept = append(kept, t)
			}
		}
		residual[id] = kept
	}
	survivors := roots.Diff(ids)
	without := dag.Descendants(residual.Reverse(), survivors).Union(survivors)

	return withSeeds.Diff(without).Diff(ids)
}

// ExposedPorts enumerates the boundary inputs of the given nodes: one port
// per connected input slot, in ascending (node, slot) order. Unconnected
// slots are excluded; they are already materialized as compiler sources
// rather than reconnection obligations.
func ExposedPorts(s *flow.Store, ids sets.Set[flow.NodeID]) []flow.Port {
	ordered := ids.Values()
	sort.Slice(ordered, func(i, j int) bool { return ordered[i] < ordered[j] })

	var ports []flow.Port
	for _, id := range ordered {
		n := s.Node(id)
		if n == nil {
			continue
		}
		for slot, up := range n.Inputs() {
			if up != flow.Unconnected {
				ports = append(ports, flow.Port{Node: id, Input: slot})
			}
		}
	}
	return ports
}

// Split partitions the store's nodes into those whose id is in ids and the
// rest. Nodes are shared, not copied, and no edges are rewritten; dangling
// connections across the partition boundary are the caller's to clean up.
func Split(s *flow.Store, ids sets.Set[flow.NodeID]) (in, out *flow.Store) {
	in, out = flow.NewStore(), flow.NewStore()
	for _, n := range s.Nodes() {
		if ids.Has(n.ID()) {
			in.Adopt(n)
		} else {
			out.Adopt(n)
		}
	}
	return in, out
}

// SelectedIDs returns the handles of the currently selected nodes in
// ascending order.
func SelectedIDs(s *flow.Store) []flow.NodeID {
	var ids []flow.NodeID
	for _, n := range s.Nodes() {
		if n.Selected {
			ids = append(ids, n.ID())
		}
	}
	return ids
}

// SelectIn sets the selection state of every node in the store: selected
// when its id is in ids, deselected otherwise.
func SelectIn(s *flow.Store, ids sets.Set[flow.NodeID]) {
	for _, n := range s.Nodes() {
		n.Selected = ids.Has(n.ID())
	}
}
