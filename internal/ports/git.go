package ports

import (
	"context"
)

// GitInfo is the checkout a session was completed in.
type GitInfo struct {
	Branch string
	Commit string
}

// GitDetector finds the checkout enclosing a directory.
// This is a driven port (implemented by adapters).
type GitDetector interface {
	Detect(ctx context.Context, workingDir string) (*GitInfo, error)
}
