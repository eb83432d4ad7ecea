package bookbinder

import "github.com/goliatone/go-bookbinder/internal/runtimeconfig"

// Config aliases the runtime configuration so callers only import the root
// package.
type Config = runtimeconfig.Config

// Metadata aliases the descriptive metadata block.
type Metadata = runtimeconfig.Metadata

// Logging aliases the logger options block.
type Logging = runtimeconfig.Logging

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
