// Package backend is the reference execution backend for compiled plans: it
// allocates the plan's buffer pool, loads external source values, and runs
// every transform in order.
package backend

import (
	"context"
	"fmt"

	"github.com/vk/gridflow/internal/compile"
	"github.com/vk/gridflow/internal/ctxlog"
	"github.com/vk/gridflow/internal/flow"
	"github.com/zclconf/go-cty/cty"
)

// Execute runs a compiled plan against a buffer pool of plan.Slots entries.
// Source steps load their value from feeds, keyed by the (node, input) port
// the source materializes; computed steps invoke the node's processor with
// the buffers named by its reads and store the result at its write slot.
// The value of the final transform is returned.
func Execute(ctx context.Context, s *flow.Store, plan *compile.Plan, feeds map[flow.Port]cty.Value) (cty.Value, error) {
	logger := ctxlog.FromContext(ctx)
	if len(plan.Transforms) == 0 {
		return cty.NilVal, fmt.Errorf("empty plan")
	}

	buffers := make([]cty.Value, plan.Slots)
	sourceIdx := 0

	for _, t := range plan.Transforms {
		if t.IsSource() {
			port := plan.Sources[sourceIdx]
			sourceIdx++
			v, ok := feeds[port]
			if !ok {
				return cty.NilVal, fmt.Errorf("no feed value for node %d input %d", port.Node, port.Input)
			}
			buffers[t.Write] = v
			continue
		}

		n := s.Node(t.Node)
		if n == nil {
			return cty.NilVal, fmt.Errorf("plan references unknown node %d", t.Node)
		}
		args := make([]cty.Value, len(t.Reads))
		for i, r := range t.Reads {
			args[i] = buffers[r]
		}
		out, err := n.Processor().Fn(ctx, args)
		if err != nil {
			return cty.NilVal, fmt.Errorf("executing node %d: %w", t.Node, err)
		}
		buffers[t.Write] = out
		logger.Debug("Transform executed.", "nodeID", t.Node, "write", t.Write)
	}

	return buffers[plan.Transforms[len(plan.Transforms)-1].Write], nil
}
