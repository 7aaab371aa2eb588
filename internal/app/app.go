package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/gridflow/internal/build"
	"github.com/vk/gridflow/internal/config"
	"github.com/vk/gridflow/internal/ctxlog"
	"github.com/vk/gridflow/internal/flow"
	"github.com/vk/gridflow/internal/registry"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// GraphPath is a .hcl file or a directory containing .hcl files.
	GraphPath string
	// Root optionally names the root node to compile. When empty, every
	// root of the graph is compiled and executed.
	Root string

	LogFormat string
	LogLevel  string
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	graph    *build.Result
}

// New is the constructor for the main application. It loads and validates
// the graph definition and builds the flow graph; a failure at this stage
// is a fatal startup error and panics, to be recovered at the entrypoint.
func New(outW io.Writer, cfg *Config, loader config.Loader, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := loader.Load(ctx, cfg.GraphPath)
	if err != nil {
		panic(fmt.Errorf("failed to load graph definition: %w", err))
	}
	logger.Debug("Graph definition loaded into unified model.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All processor modules registered.", "count", len(modules))

	if err := reg.Validate(ctx, model); err != nil {
		panic(err)
	}
	logger.Debug("Model validation passed.")

	graph, err := build.Graph(ctx, model, reg)
	if err != nil {
		panic(fmt.Errorf("failed to build flow graph: %w", err))
	}
	logger.Debug("Flow graph built.", "node_count", graph.Store.Len())

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		graph:    graph,
	}
}

// Store returns the application's flow graph store. This is primarily for testing.
func (a *App) Store() *flow.Store {
	return a.graph.Store
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
