// Package cmd is the transport-agnostic command core: a command has a name,
// a description, and Run(ctx, invocation). Registration and dispatch belong
// to adapters (Discord, CLI, ...) that wrap this.
package cmd

import "context"

// Invocation is the minimal input a runner passes to a command: positional
// arguments plus an opaque payload set by the adapter (for Discord, the
// session/event context).
type Invocation struct {
	Args []string
	Data interface{}
}

// Command is the universal contract. Permissions, options, and
// transport-specific registration stay in adapters.
type Command interface {
	Name() string
	Description() string
	Run(ctx context.Context, inv *Invocation) error
}
