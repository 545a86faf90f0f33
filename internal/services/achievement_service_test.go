package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xvierd/streak/internal/domain"
)

func TestAchievementService_UnlocksOnCompletion(t *testing.T) {
	h := newHarness(t, nil)
	svc := NewAchievementService(h.ctrl, []string{"only quote"})
	svc.Attach()

	var unlocks []Unlock
	svc.OnUnlock(func(u Unlock) { unlocks = append(unlocks, u) })

	h.ctrl.Start()
	for i := 0; i < 1500; i++ {
		h.second()
	}

	require.Len(t, unlocks, 1)
	assert.Equal(t, "first-session", unlocks[0].Achievement.ID)
	assert.Equal(t, "only quote", unlocks[0].Quote)

	state := h.ctrl.Achievements()
	assert.True(t, state.IsUnlocked("first-session"))
	assert.True(t, state.Unlocked["first-session"].Equal(t0.Add(1500*time.Second)))
	assert.Equal(t, []string{"only quote"}, state.Quotes)

	// A second completion unlocks nothing new.
	h.ctrl.RecordCompletionManually(domain.SessionCompleted{PresetID: domain.PresetFocus, DurationSeconds: 60})
	assert.Len(t, unlocks, 1)
}

func TestAchievementService_NoWriteWithoutUnlock(t *testing.T) {
	h := newHarness(t, nil)
	svc := NewAchievementService(h.ctrl, nil)

	changes := 0
	h.ctrl.Subscribe(func() { changes++ })

	assert.Empty(t, svc.Evaluate())
	assert.Equal(t, 0, changes)
}

func TestAchievementService_Progress(t *testing.T) {
	h := newHarness(t, nil)
	svc := NewAchievementService(h.ctrl, nil)
	svc.Attach()

	h.ctrl.RecordCompletionManually(domain.SessionCompleted{PresetID: domain.PresetFocus, DurationSeconds: 1500})

	progress := svc.Progress()
	require.Len(t, progress, len(domain.Catalog()))
	for _, p := range progress {
		want := p.Achievement.ID == "first-session"
		assert.Equal(t, want, p.Unlocked, p.Achievement.ID)
	}
}

func TestAchievementService_Detach(t *testing.T) {
	h := newHarness(t, nil)
	svc := NewAchievementService(h.ctrl, nil)
	detach := svc.Attach()
	detach()

	h.ctrl.RecordCompletionManually(domain.SessionCompleted{PresetID: domain.PresetFocus, DurationSeconds: 1500})
	assert.Empty(t, h.ctrl.Achievements().Unlocked)

	unlocks := svc.Evaluate()
	require.Len(t, unlocks, 1)
	assert.Equal(t, "first-session", unlocks[0].Achievement.ID)
}
