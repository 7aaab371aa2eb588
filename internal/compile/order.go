package compile

import (
	"errors"
	"fmt"

	"github.com/vk/gridflow/internal/flow"
)

// ErrCycle is returned when the graph reachable from the chosen root
// contains a cycle. Compilation fails as a whole; no partial order is
// produced.
var ErrCycle = errors.New("cycle detected")

// Transforms linearizes the graph into an execution plan rooted at the
// given node. The root must have no downstream connections; when a graph
// has several roots, any one may be chosen and only its closure is
// compiled.
//
// Every distinct unconnected input encountered is assigned its own source
// slot, numbered before the computed slots in traversal order. Every
// transform's reads reference only slots written by earlier transforms.
func Transforms(s *flow.Store, root flow.NodeID) (*Plan, error) {
	rootNode := s.Node(root)
	if rootNode == nil {
		return nil, fmt.Errorf("root node not found: %d", root)
	}
	if len(rootNode.Outputs()) != 0 {
		return nil, fmt.Errorf("node %d is not a root: it has downstream connections", root)
	}

	order, err := topoOrder(s, rootNode)
	if err != nil {
		return nil, err
	}

	// Unconnected inputs across the compiled closure each get a source slot,
	// numbered before every computed slot.
	noSources := 0
	for _, n := range order {
		for _, up := range n.Inputs() {
			if s.Node(up) == nil {
				noSources++
			}
		}
	}

	slotOf := make(map[flow.NodeID]int, len(order))
	for i, n := range order {
		slotOf[n.ID()] = noSources + i
	}

	plan := &Plan{
		Transforms: make([]Transform, 0, noSources+len(order)),
		Sources:    make([]flow.Port, 0, noSources),
		Slots:      noSources + len(order),
	}
	for i := 0; i < noSources; i++ {
		plan.Transforms = append(plan.Transforms, Transform{Node: flow.Unconnected, Write: i})
	}

	nextSource := 0
	for i, n := range order {
		reads := make([]int, 0, n.Arity())
		for slot, up := range n.Inputs() {
			if s.Node(up) == nil {
				reads = append(reads, nextSource)
				plan.Sources = append(plan.Sources, flow.Port{Node: n.ID(), Input: slot})
				nextSource++
				continue
			}
			reads = append(reads, slotOf[up])
		}
		plan.Transforms = append(plan.Transforms, Transform{
			Node:  n.ID(),
			Write: noSources + i,
			Reads: reads,
		})
	}

	return plan, nil
}

// topoOrder runs a depth-first post-order traversal from the root along
// input edges, so every node is appended after all nodes it depends on.
// Three-color marking rejects cycles: revisiting a node that is still in
// progress fails the compilation.
func topoOrder(s *flow.Store, root *flow.Node) ([]*flow.Node, error) {
	visiting := make(map[flow.NodeID]bool)
	done := make(map[flow.NodeID]bool)
	var order []*flow.Node

	var visit func(n *flow.Node) error
	visit = func(n *flow.Node) error {
		if done[n.ID()] {
			return nil
		}
		if visiting[n.ID()] {
			return fmt.Errorf("%w: involving node %d", ErrCycle, n.ID())
		}
		visiting[n.ID()] = true

		for _, up := range n.Inputs() {
			upNode := s.Node(up)
			if upNode == nil {
				// Unconnected slot; resolved to a source later.
				continue
			}
			if err := visit(upNode); err != nil {
				return err
			}
		}

		delete(visiting, n.ID())
		done[n.ID()] = true
		order = append(order, n)
		return nil
	}

	if err := visit(root); err != nil {
		return nil, err
	}
	return order, nil
}
