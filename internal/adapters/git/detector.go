// Package git tags completed sessions with the repository they happened in.
package git

import (
	"context"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/xvierd/streak/internal/ports"
)

// Detector reads HEAD of the repository enclosing a directory.
type Detector struct{}

// NewDetector creates a new git detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Ensure Detector implements ports.GitDetector.
var _ ports.GitDetector = (*Detector)(nil)

// Detect reports the branch and commit checked out in the repository that
// contains workingDir. A detached HEAD is reported as "detached@<short hash>".
func (d *Detector) Detect(ctx context.Context, workingDir string) (*ports.GitInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	repo, err := git.PlainOpenWithOptions(workingDir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("no git repository at %s: %w", workingDir, err)
	}
	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to read HEAD: %w", err)
	}

	commit := head.Hash().String()
	branch := "detached@" + ShortCommit(commit)
	if head.Name().IsBranch() {
		branch = head.Name().Short()
	}
	return &ports.GitInfo{Branch: branch, Commit: commit}, nil
}

// ShortCommit returns a shortened commit hash.
func ShortCommit(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}
