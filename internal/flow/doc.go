// Package flow implements the reactive dataflow node model: an arena of
// nodes addressed by stable integer handles, the connect/disconnect edge
// protocol, and the recursive update walk that propagates cached results
// (or cached errors) downstream.
//
// Node values are cty.Value, so processors plug into the same value domain
// the manifest layer decodes into. Node-level failures are never raised:
// they are cached as error results and flow through the graph as data.
package flow
