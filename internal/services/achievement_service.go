package services

import (
	"time"

	"github.com/xvierd/streak/internal/domain"
	"github.com/xvierd/streak/internal/logger"
)

// AchievementProgress pairs a catalog entry with its unlock state.
type AchievementProgress struct {
	Achievement domain.Achievement
	Unlocked    bool
	UnlockedAt  time.Time
}

// Unlock is one newly reached achievement and the quote handed out with it.
type Unlock struct {
	Achievement domain.Achievement
	Quote       string
}

// AchievementService unlocks achievements as completions are recorded.
type AchievementService struct {
	ctrl     *TimerController
	quotes   []string
	unlocked registry[func(Unlock)]
}

// NewAchievementService creates an achievement service for ctrl.
// An empty quote pool falls back to domain.DefaultQuotes.
func NewAchievementService(ctrl *TimerController, quotes []string) *AchievementService {
	if len(quotes) == 0 {
		quotes = domain.DefaultQuotes
	}
	return &AchievementService{ctrl: ctrl, quotes: quotes}
}

// Attach starts evaluating achievements after every completion.
func (s *AchievementService) Attach() (detach func()) {
	return s.ctrl.OnSessionCompleted(s.handleCompletion)
}

// OnUnlock registers fn to run for each newly unlocked achievement.
func (s *AchievementService) OnUnlock(fn func(Unlock)) (unsubscribe func()) {
	return s.unlocked.add(fn)
}

// Evaluate checks the current statistics against the catalog and returns
// any achievements unlocked by it.
func (s *AchievementService) Evaluate() []Unlock {
	return s.apply(s.ctrl.Stats(), s.ctrl.clock.Now())
}

// Progress reports every catalog entry together with its unlock state.
func (s *AchievementService) Progress() []AchievementProgress {
	state := s.ctrl.Achievements()
	catalog := domain.Catalog()
	out := make([]AchievementProgress, 0, len(catalog))
	for _, a := range catalog {
		at, ok := state.Unlocked[a.ID]
		out = append(out, AchievementProgress{Achievement: a, Unlocked: ok, UnlockedAt: at})
	}
	return out
}

func (s *AchievementService) handleCompletion(ev domain.SessionCompleted, stats domain.Stats) {
	s.apply(stats, ev.OccurredAt)
}

func (s *AchievementService) apply(stats domain.Stats, at time.Time) []Unlock {
	var unlocks []Unlock
	s.ctrl.UpdateAchievements(func(a *domain.Achievements) bool {
		before := len(a.Quotes)
		reached := a.Apply(stats, at, s.quotes)
		quotes := a.Quotes[before:]
		for i, ach := range reached {
			u := Unlock{Achievement: ach}
			if i < len(quotes) {
				u.Quote = quotes[i]
			}
			unlocks = append(unlocks, u)
		}
		return len(reached) > 0
	})

	for _, u := range unlocks {
		logger.Info("achievement unlocked", "achievement", u.Achievement.ID)
		for _, fn := range s.unlocked.all() {
			fn(u)
		}
	}
	return unlocks
}
