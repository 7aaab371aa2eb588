// Package hcl implements the config.Loader interface for HCL graph files.
package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/gridflow/internal/config"
	"github.com/vk/gridflow/internal/ctxlog"
	"github.com/vk/gridflow/internal/fsutil"
	"github.com/vk/gridflow/internal/schema"
)

// Loader reads .hcl graph files and translates them into the agnostic model.
type Loader struct{}

// NewLoader creates an HCL graph loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load implements config.Loader. Every .hcl file found under the given
// paths contributes its node and feed blocks to a single model.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	var files []string
	for _, path := range paths {
		found, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("discovering graph files under %q: %w", path, err)
		}
		files = append(files, found...)
	}
	logger.Debug("Graph file discovery complete.", "count", len(files))
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl graph files found under %v", paths)
	}

	parser := hclparse.NewParser()
	model := &config.Model{}
	seen := make(map[string]string)

	for _, file := range files {
		f, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("parsing %s: %w", file, diags)
		}

		var cfg schema.GraphConfig
		if diags := gohcl.DecodeBody(f.Body, nil, &cfg); diags.HasErrors() {
			return nil, fmt.Errorf("decoding %s: %w", file, diags)
		}

		for _, n := range cfg.Nodes {
			if prev, dup := seen[n.Name]; dup {
				return nil, fmt.Errorf("duplicate node %q in %s (first defined in %s)", n.Name, file, prev)
			}
			seen[n.Name] = file
			model.Nodes = append(model.Nodes, translateNode(n))
		}
		for _, feed := range cfg.Feeds {
			model.Feeds = append(model.Feeds, &config.Feed{
				Node:  feed.Node,
				Input: feed.Input,
				Value: feed.Value,
			})
		}
		logger.Debug("Graph file translated.", "file", file, "nodes", len(cfg.Nodes), "feeds", len(cfg.Feeds))
	}

	return model, nil
}

// translateNode converts the HCL-specific node schema into the agnostic model.
func translateNode(n *schema.Node) *config.Node {
	return &config.Node{
		Processor: n.Processor,
		Name:      n.Name,
		Inputs:    n.Inputs,
	}
}
