package domain

import "time"

// Achievement is a milestone unlocked by accumulated statistics.
type Achievement struct {
	ID          string
	Title       string
	Description string
	reached     func(Stats) bool
}

// Reached reports whether s satisfies the milestone.
func (a Achievement) Reached(s Stats) bool {
	return a.reached != nil && a.reached(s)
}

func sessionsAtLeast(n int) func(Stats) bool {
	return func(s Stats) bool { return s.SessionsCompleted >= n }
}

func streakAtLeast(n int) func(Stats) bool {
	return func(s Stats) bool { return s.CurrentStreakDays >= n }
}

func focusAtLeast(d time.Duration) func(Stats) bool {
	return func(s Stats) bool { return s.TotalFocusSeconds >= int(d.Seconds()) }
}

var catalog = []Achievement{
	{ID: "first-session", Title: "First Step", Description: "Complete your first session", reached: sessionsAtLeast(1)},
	{ID: "sessions-10", Title: "Getting Warm", Description: "Complete 10 sessions", reached: sessionsAtLeast(10)},
	{ID: "sessions-50", Title: "Habit Forming", Description: "Complete 50 sessions", reached: sessionsAtLeast(50)},
	{ID: "sessions-100", Title: "Centurion", Description: "Complete 100 sessions", reached: sessionsAtLeast(100)},
	{ID: "streak-3", Title: "Three in a Row", Description: "Keep a 3 day streak", reached: streakAtLeast(3)},
	{ID: "streak-7", Title: "Full Week", Description: "Keep a 7 day streak", reached: streakAtLeast(7)},
	{ID: "streak-30", Title: "Unbroken Month", Description: "Keep a 30 day streak", reached: streakAtLeast(30)},
	{ID: "focus-10h", Title: "Ten Hours Deep", Description: "Accumulate 10 hours of focus", reached: focusAtLeast(10 * time.Hour)},
	{ID: "focus-100h", Title: "Hundred Hours", Description: "Accumulate 100 hours of focus", reached: focusAtLeast(100 * time.Hour)},
}

// Catalog returns every known achievement in display order.
func Catalog() []Achievement {
	out := make([]Achievement, len(catalog))
	copy(out, catalog)
	return out
}

// DefaultQuotes is the built-in quote pool handed out on unlocks.
var DefaultQuotes = []string{
	"Small steps every day add up to big results.",
	"Focus is a muscle. You just trained it.",
	"The secret of getting ahead is getting started.",
	"Discipline is choosing what you want most over what you want now.",
	"You don't have to be extreme, just consistent.",
	"Done is better than perfect.",
	"Deep work is rare, and rare things are valuable.",
}

// Achievements is the persisted unlock state.
type Achievements struct {
	Unlocked map[string]time.Time `json:"unlocked"`
	Quotes   []string             `json:"quotes"`
}

// NewAchievements returns an empty unlock state.
func NewAchievements() Achievements {
	return Achievements{Unlocked: map[string]time.Time{}, Quotes: []string{}}
}

// IsUnlocked reports whether the achievement with id has been unlocked.
func (a Achievements) IsUnlocked(id string) bool {
	_, ok := a.Unlocked[id]
	return ok
}

// Apply unlocks every achievement newly reached by s, records at as the
// unlock time and collects one quote per unlock. Quotes are picked by a
// deterministic index derived from the session count.
func (a *Achievements) Apply(s Stats, at time.Time, quotes []string) []Achievement {
	if a.Unlocked == nil {
		a.Unlocked = map[string]time.Time{}
	}
	var unlocked []Achievement
	for _, ach := range catalog {
		if a.IsUnlocked(ach.ID) || !ach.Reached(s) {
			continue
		}
		a.Unlocked[ach.ID] = at
		if len(quotes) > 0 {
			a.Quotes = append(a.Quotes, quotes[(s.SessionsCompleted+len(unlocked))%len(quotes)])
		}
		unlocked = append(unlocked, ach)
	}
	return unlocked
}

// Reset forgets every unlock and quote.
func (a *Achievements) Reset() {
	a.Unlocked = map[string]time.Time{}
	a.Quotes = []string{}
}

// Clone returns an independent copy.
func (a Achievements) Clone() Achievements {
	c := NewAchievements()
	for k, v := range a.Unlocked {
		c.Unlocked[k] = v
	}
	c.Quotes = append(c.Quotes, a.Quotes...)
	return c
}
