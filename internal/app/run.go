package app

import (
	"context"
	"fmt"
	"sort"

	"github.com/vk/gridflow/internal/backend"
	"github.com/vk/gridflow/internal/compile"
	"github.com/vk/gridflow/internal/ctxlog"
	"github.com/vk/gridflow/internal/dag"
	"github.com/vk/gridflow/internal/flow"
	"github.com/zclconf/go-cty/cty"
	"golang.org/x/sync/errgroup"
)

// Run compiles the graph into a colored transform plan per root and
// executes the plans against the reference backend, printing each root's
// value.
func (a *App) Run(ctx context.Context, cfg *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	roots, err := a.pickRoots(cfg)
	if err != nil {
		return err
	}
	a.logger.Debug("Roots selected.", "count", len(roots))

	a.logger.Info("🚀 Compiling and executing plans...")
	results := make([]cty.Value, len(roots))
	g, gctx := errgroup.WithContext(ctx)
	for i, root := range roots {
		i, root := i, root
		g.Go(func() error {
			plan, err := compile.Transforms(a.graph.Store, root)
			if err != nil {
				return fmt.Errorf("compiling root %d: %w", root, err)
			}
			plan = compile.Optimise(plan)
			a.logger.Debug("Plan compiled.", "root", root,
				"transforms", len(plan.Transforms), "sources", len(plan.Sources), "slots", plan.Slots)

			v, err := backend.Execute(gctx, a.graph.Store, plan, a.graph.Feeds)
			if err != nil {
				return fmt.Errorf("executing root %d: %w", root, err)
			}
			results[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	a.logger.Info("🏁 Execution finished.")

	names := a.nodeNames()
	for i, root := range roots {
		fmt.Fprintf(a.outW, "%s = %s\n", names[root], formatValue(results[i]))
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

// pickRoots resolves the configured root name, or collects every root of
// the graph in ascending handle order.
func (a *App) pickRoots(cfg *Config) ([]flow.NodeID, error) {
	if cfg.Root != "" {
		id, ok := a.graph.Names[cfg.Root]
		if !ok {
			return nil, fmt.Errorf("root node %q not found in graph", cfg.Root)
		}
		return []flow.NodeID{id}, nil
	}

	adj := dag.FromStore(a.graph.Store)
	roots := dag.Roots(adj).Values()
	if len(roots) == 0 {
		return nil, fmt.Errorf("graph has no root: every node has downstream connections")
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i] < roots[j] })
	return roots, nil
}

// nodeNames inverts the manifest's name index for result printing.
func (a *App) nodeNames() map[flow.NodeID]string {
	names := make(map[flow.NodeID]string, len(a.graph.Names))
	for name, id := range a.graph.Names {
		names[id] = name
	}
	return names
}

// formatValue renders a cty value for plain output.
func formatValue(v cty.Value) string {
	if v.IsNull() {
		return "null"
	}
	switch v.Type() {
	case cty.Number:
		return v.AsBigFloat().Text('g', -1)
	case cty.String:
		return v.AsString()
	case cty.Bool:
		return fmt.Sprintf("%t", v.True())
	default:
		return v.GoString()
	}
}
