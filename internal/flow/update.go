package flow

import (
	"context"
	"sync"

	"github.com/vk/gridflow/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// Update recomputes the node's cached result and then propagates the walk
// to every downstream edge target. A node reached through two distinct
// edges is recomputed once per edge, not once per walk; in a diamond shape
// the first pass may observe a stale value from a not-yet-updated sibling
// parent. Update returns once every transitively reached downstream update
// has completed. It never fails: connectivity and processing failures are
// cached on the node as error results.
func (s *Store) Update(ctx context.Context, id NodeID) {
	n := s.nodes[id]
	if n == nil {
		return
	}

	s.recompute(ctx, n)

	var wg sync.WaitGroup
	for _, p := range n.Outputs() {
		wg.Add(1)
		go func(target NodeID) {
			defer wg.Done()
			s.Update(ctx, target)
		}(p.Node)
	}
	wg.Wait()
}

// recompute derives the node's new cached result from its current inputs.
// The first invalid input by ascending slot index wins; processing only
// runs when every input holds data.
func (s *Store) recompute(ctx context.Context, n *Node) {
	inputs := n.Inputs()
	args := make([]cty.Value, len(inputs))

	for i, up := range inputs {
		cause := s.inputCause(up)
		if cause != nil {
			n.setCached(ErrResult(&InputError{Input: i, Err: cause}))
			return
		}
		v, _ := s.nodes[up].Cached().Value()
		args[i] = v
	}

	out, err := n.proc.Fn(ctx, args)
	if err != nil {
		ctxlog.FromContext(ctx).Debug("Node processing failed.", "nodeID", n.id, "error", err)
		n.setCached(ErrResult(&ProcessError{Err: err}))
		return
	}
	n.setCached(DataResult(out))
}

// inputCause returns the error a given upstream handle contributes to a
// consuming slot: not-connected for an empty or stale handle, or the
// upstream's own cached error.
func (s *Store) inputCause(up NodeID) error {
	if up == Unconnected {
		return &NotConnectedError{}
	}
	upNode := s.nodes[up]
	if upNode == nil {
		// Stale back-reference to a destroyed node; treated the same as an
		// unconnected slot.
		return &NotConnectedError{}
	}
	return upNode.Cached().Err()
}
