package ports

import (
	"context"

	"github.com/xvierd/streak/internal/domain"
)

// StateProvider supplies read-only summaries to display surfaces.
// This is a driving port (used by the MCP server and the status command).
type StateProvider interface {
	// GetCurrentState returns the timer state with today's progress.
	GetCurrentState(ctx context.Context) (*domain.CurrentState, error)
}

// MCPHandler defines the interface for the MCP server lifecycle.
type MCPHandler interface {
	// Start begins serving MCP requests.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the server.
	Stop() error

	// IsRunning returns true if the server is active.
	IsRunning() bool
}
