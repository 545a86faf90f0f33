package services

import (
	"context"

	"github.com/xvierd/streak/internal/domain"
	"github.com/xvierd/streak/internal/ports"
)

// StateService builds read-only summaries of the timer for display surfaces.
type StateService struct {
	ctrl *TimerController
}

// Ensure StateService implements ports.StateProvider.
var _ ports.StateProvider = (*StateService)(nil)

// NewStateService creates a new state service.
func NewStateService(ctrl *TimerController) *StateService {
	return &StateService{ctrl: ctrl}
}

// GetCurrentState returns the timer state together with today's totals,
// the trailing week and whether the streak is still alive.
func (s *StateService) GetCurrentState(ctx context.Context) (*domain.CurrentState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap := s.ctrl.Snapshot()
	cs := domain.NewCurrentState(snap.Timer.TimerState, snap.Stats, s.ctrl.clock.Now(), s.ctrl.Location())
	return &cs, nil
}
