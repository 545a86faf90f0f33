package services

import (
	"context"
	"fmt"
	"time"

	"github.com/xvierd/streak/internal/domain"
	"github.com/xvierd/streak/internal/logger"
	"github.com/xvierd/streak/internal/ports"
)

// recordTimeout bounds one history write triggered by a completion.
const recordTimeout = 5 * time.Second

// HistoryRecorder appends completed sessions to the history log, tagged with
// the git context of the working directory when there is one.
type HistoryRecorder struct {
	repo       ports.CompletionRepository
	git        ports.GitDetector
	workingDir string
}

// NewHistoryRecorder creates a history recorder. git may be nil.
func NewHistoryRecorder(repo ports.CompletionRepository, git ports.GitDetector, workingDir string) *HistoryRecorder {
	return &HistoryRecorder{repo: repo, git: git, workingDir: workingDir}
}

// Attach records every completion announced by ctrl.
func (h *HistoryRecorder) Attach(ctrl *TimerController) (detach func()) {
	return ctrl.OnSessionCompleted(func(ev domain.SessionCompleted, _ domain.Stats) {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		if err := h.Record(ctx, ev); err != nil {
			logger.Error("failed to record completion", "id", ev.ID, "error", err)
		}
	})
}

// Record stores ev in the history log.
func (h *HistoryRecorder) Record(ctx context.Context, ev domain.SessionCompleted) error {
	rec := &domain.CompletionRecord{SessionCompleted: ev}
	if h.git != nil && h.workingDir != "" {
		info, err := h.git.Detect(ctx, h.workingDir)
		if err != nil {
			logger.Debug("git context unavailable", "dir", h.workingDir, "error", err)
		} else if info != nil {
			rec.GitBranch = info.Branch
			rec.GitCommit = info.Commit
		}
	}
	if err := h.repo.Save(ctx, rec); err != nil {
		return fmt.Errorf("failed to record completion %s: %w", ev.ID, err)
	}
	return nil
}

// Recent returns up to limit completions, newest first.
func (h *HistoryRecorder) Recent(ctx context.Context, limit int) ([]*domain.CompletionRecord, error) {
	recs, err := h.repo.FindRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return recs, nil
}

// Since returns completions at or after since, oldest first.
func (h *HistoryRecorder) Since(ctx context.Context, since time.Time) ([]*domain.CompletionRecord, error) {
	recs, err := h.repo.FindSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return recs, nil
}

// Clear removes the whole history log.
func (h *HistoryRecorder) Clear(ctx context.Context) error {
	if err := h.repo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}
