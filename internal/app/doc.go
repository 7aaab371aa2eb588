// Package app contains the core application logic: loading a graph
// definition, building the flow graph, compiling it into a colored
// transform plan per root, and executing the plans against the reference
// backend. It is decoupled from any specific entrypoint like a CLI.
package app
