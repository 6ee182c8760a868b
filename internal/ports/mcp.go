package ports

import (
	"context"
)

// MCPHandler defines the interface for MCP server operations.
// This is a driving port (called by the application layer).
type MCPHandler interface {
	// Start begins serving MCP requests.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the server.
	Stop() error

	// IsRunning returns true if the server is active.
	IsRunning() bool
}

// Dispatcher runs a function on the event loop and waits for it to return.
// MCP handlers run on their own goroutines and must hop onto the loop before
// touching the controller. This is a driven port (implemented by adapters).
type Dispatcher interface {
	Do(ctx context.Context, fn func()) error
}
