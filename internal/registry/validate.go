package registry

import (
	"context"
	"fmt"

	"github.com/vk/gridflow/internal/config"
	"github.com/vk/gridflow/internal/ctxlog"
)

// Validate checks a loaded graph model against the registry before any node
// is built: every node's processor must be registered, connections must fit
// the processor's declared arity, input references must name declared
// nodes, and feeds must target real slots.
func (r *Registry) Validate(ctx context.Context, model *config.Model) error {
	logger := ctxlog.FromContext(ctx)

	declared := make(map[string]*config.Node, len(model.Nodes))
	for _, n := range model.Nodes {
		declared[n.Name] = n
	}

	for _, n := range model.Nodes {
		proc, ok := r.Processor(n.Processor)
		if !ok {
			return fmt.Errorf("node %q: unknown processor type '%s'", n.Name, n.Processor)
		}
		if len(n.Inputs) > proc.Arity {
			return fmt.Errorf("node %q: %d inputs connected but processor '%s' declares arity %d",
				n.Name, len(n.Inputs), n.Processor, proc.Arity)
		}
		for slot, upstream := range n.Inputs {
			if upstream == "" {
				continue
			}
			if _, ok := declared[upstream]; !ok {
				return fmt.Errorf("node %q: input %d references undeclared node %q", n.Name, slot, upstream)
			}
		}
	}

	for _, feed := range model.Feeds {
		target, ok := declared[feed.Node]
		if !ok {
			return fmt.Errorf("feed references undeclared node %q", feed.Node)
		}
		proc, _ := r.Processor(target.Processor)
		if proc != nil && (feed.Input < 0 || feed.Input >= proc.Arity) {
			return fmt.Errorf("feed for node %q: no input slot %d (arity %d)", feed.Node, feed.Input, proc.Arity)
		}
		if feed.Input < len(target.Inputs) && target.Inputs[feed.Input] != "" {
			return fmt.Errorf("feed for node %q input %d: slot is connected to %q", feed.Node, feed.Input, target.Inputs[feed.Input])
		}
	}

	logger.Debug("Model validation passed.", "nodes", len(model.Nodes), "feeds", len(model.Feeds))
	return nil
}
