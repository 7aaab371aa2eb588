// Package registry holds the processing capabilities available to graph
// nodes, keyed by processor type name, each with its declared input arity.
package registry

import (
	"fmt"
	"log/slog"

	"github.com/vk/gridflow/internal/flow"
)

// Module is the interface core processor bundles implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry maps processor type names to their processing capabilities for a
// single application instance.
type Registry struct {
	processors map[string]*flow.Processor
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		processors: make(map[string]*flow.Processor),
	}
}

// RegisterProcessor registers a processing capability under a type name.
// Registering the same name twice is a programmer error and panics.
func (r *Registry) RegisterProcessor(name string, p *flow.Processor) {
	if _, exists := r.processors[name]; exists {
		panic(fmt.Sprintf("processor with name '%s' already registered", name))
	}
	slog.Debug("Registering processor.", "name", name, "arity", p.Arity)
	r.processors[name] = p
}

// Processor returns the capability registered under the given type name.
func (r *Registry) Processor(name string) (*flow.Processor, bool) {
	p, ok := r.processors[name]
	return p, ok
}
