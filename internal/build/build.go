// Package build turns a validated config model into a live flow graph.
package build

import (
	"context"
	"fmt"

	"github.com/vk/gridflow/internal/config"
	"github.com/vk/gridflow/internal/ctxlog"
	"github.com/vk/gridflow/internal/flow"
	"github.com/vk/gridflow/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Result is a constructed graph plus the bookkeeping the app layers need:
// the name index of the manifest and the external source values keyed by
// the (node, input) ports they feed.
type Result struct {
	Store *flow.Store
	Names map[string]flow.NodeID
	Feeds map[flow.Port]cty.Value
}

// Graph constructs the flow graph described by the model. Nodes are created
// first, then linked; a cyclic definition is legal here as raw data and is
// only rejected by the compiler.
func Graph(ctx context.Context, model *config.Model, r *registry.Registry) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Graph: Starting construction.")

	res := &Result{
		Store: flow.NewStore(),
		Names: make(map[string]flow.NodeID, len(model.Nodes)),
		Feeds: make(map[flow.Port]cty.Value, len(model.Feeds)),
	}

	// First pass: create all nodes.
	for _, def := range model.Nodes {
		proc, ok := r.Processor(def.Processor)
		if !ok {
			return nil, fmt.Errorf("node %q: unknown processor type '%s'", def.Name, def.Processor)
		}
		n := res.Store.NewNode(proc)
		res.Names[def.Name] = n.ID()
	}
	logger.Debug("Graph: Node creation complete.", "node_count", res.Store.Len())

	// Second pass: link inputs.
	for _, def := range model.Nodes {
		dst := res.Names[def.Name]
		for slot, upstream := range def.Inputs {
			if upstream == "" {
				continue
			}
			src, ok := res.Names[upstream]
			if !ok {
				return nil, fmt.Errorf("node %q: input %d references undeclared node %q", def.Name, slot, upstream)
			}
			if err := res.Store.Connect(src, dst, slot); err != nil {
				return nil, fmt.Errorf("linking node %q: %w", def.Name, err)
			}
		}
	}
	logger.Debug("Graph: Node linking complete.")

	for _, feed := range model.Feeds {
		id, ok := res.Names[feed.Node]
		if !ok {
			return nil, fmt.Errorf("feed references undeclared node %q", feed.Node)
		}
		res.Feeds[flow.Port{Node: id, Input: feed.Input}] = feed.Value
	}

	logger.Debug("Graph: Construction successful.")
	return res, nil
}
