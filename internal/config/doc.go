// Package config defines the format-agnostic graph definition model and the
// Loader interface for reading it from configuration sources. The model is
// the single source of truth for the build layer; concrete loaders, such as
// the HCL one, live in separate packages.
package config
