package domain

import (
	"encoding/json"
	"sort"
	"time"
)

// Retention caps for the bucketed series.
const (
	DailyRetention   = 7
	MonthlyRetention = 12
	YearlyRetention  = 5
)

// StatBucketEntry aggregates completions within one bucket.
type StatBucketEntry struct {
	BucketKey            string `json:"bucketKey"`
	SessionCount         int    `json:"sessionCount"`
	TotalDurationSeconds int    `json:"totalDurationSeconds"`
}

// Series maps bucket keys to entries and holds at most Limit entries.
// A Limit of zero or less means unbounded.
type Series struct {
	Limit   int
	entries map[string]StatBucketEntry
}

// NewSeries returns an empty series capped at limit entries.
func NewSeries(limit int) Series {
	return Series{Limit: limit}
}

// Add folds a completion of duration seconds into the bucket for key,
// evicting the oldest key when the cap is exceeded. When the new bucket is
// itself the oldest, it is the one evicted.
func (s *Series) Add(key string, duration int) {
	if s.entries == nil {
		s.entries = make(map[string]StatBucketEntry)
	}
	e, ok := s.entries[key]
	if !ok {
		e = StatBucketEntry{BucketKey: key}
	}
	e.SessionCount++
	e.TotalDurationSeconds += duration
	s.entries[key] = e
	s.trim()
}

// Get returns the entry for key.
func (s Series) Get(key string) (StatBucketEntry, bool) {
	e, ok := s.entries[key]
	return e, ok
}

// Len returns the number of buckets.
func (s Series) Len() int {
	return len(s.entries)
}

// Entries returns buckets ordered by key, oldest first.
func (s Series) Entries() []StatBucketEntry {
	out := make([]StatBucketEntry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BucketKey < out[j].BucketKey })
	return out
}

// Clear removes every bucket and keeps the cap.
func (s *Series) Clear() {
	s.entries = nil
}

// Clone returns an independent copy.
func (s Series) Clone() Series {
	c := Series{Limit: s.Limit}
	if s.entries != nil {
		c.entries = make(map[string]StatBucketEntry, len(s.entries))
		for k, v := range s.entries {
			c.entries[k] = v
		}
	}
	return c
}

// MarshalJSON encodes the buckets as an array ordered by key.
func (s Series) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Entries())
}

// UnmarshalJSON replaces the buckets and keeps the existing cap. Entries
// without a key or with no sessions are dropped and the cap is re-applied.
func (s *Series) UnmarshalJSON(data []byte) error {
	var entries []StatBucketEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	s.entries = nil
	for _, e := range entries {
		if e.BucketKey == "" || e.SessionCount < 1 {
			continue
		}
		if e.TotalDurationSeconds < 0 {
			e.TotalDurationSeconds = 0
		}
		if s.entries == nil {
			s.entries = make(map[string]StatBucketEntry, len(entries))
		}
		s.entries[e.BucketKey] = e
	}
	s.trim()
	return nil
}

func (s *Series) trim() {
	if s.Limit <= 0 {
		return
	}
	for len(s.entries) > s.Limit {
		oldest := ""
		for k := range s.entries {
			if oldest == "" || k < oldest {
				oldest = k
			}
		}
		delete(s.entries, oldest)
	}
}

// Stats is the cumulative bookkeeping derived from completed sessions.
type Stats struct {
	SessionsCompleted int    `json:"sessionsCompleted"`
	TotalFocusSeconds int    `json:"totalFocusSeconds"`
	CurrentStreakDays int    `json:"currentStreakDays"`
	LongestStreakDays int    `json:"longestStreakDays"`
	LastSessionDate   string `json:"lastSessionDate,omitempty"`
	Daily             Series `json:"dailySeries"`
	Monthly           Series `json:"monthlySeries"`
	Yearly            Series `json:"yearlySeries"`
}

// NewStats returns empty statistics with the standard retention caps.
func NewStats() Stats {
	return Stats{
		Daily:   NewSeries(DailyRetention),
		Monthly: NewSeries(MonthlyRetention),
		Yearly:  NewSeries(YearlyRetention),
	}
}

// RecordCompletion folds one completion event into the statistics.
// Calendar days are taken in loc. Events with a negative duration are ignored.
func (s *Stats) RecordCompletion(ev SessionCompleted, loc *time.Location) {
	if ev.DurationSeconds < 0 {
		return
	}
	day := DateOnly(ev.OccurredAt, loc)
	today := day.Format(dayLayout)

	s.SessionsCompleted++
	s.TotalFocusSeconds += ev.DurationSeconds

	delta, hasLast := 0, false
	if s.LastSessionDate != "" {
		if last, err := ParseDayKey(s.LastSessionDate, loc); err == nil {
			delta, hasLast = DaysBetween(last, day), true
		}
	}
	switch {
	case !hasLast:
		s.CurrentStreakDays = 1
	case delta <= 0:
		// Same day, or an event dated before the last session.
		if s.CurrentStreakDays < 1 {
			s.CurrentStreakDays = 1
		}
	case delta == 1:
		s.CurrentStreakDays++
	default:
		s.CurrentStreakDays = 1
	}
	if s.CurrentStreakDays > s.LongestStreakDays {
		s.LongestStreakDays = s.CurrentStreakDays
	}
	if !hasLast || delta >= 0 {
		s.LastSessionDate = today
	}

	s.Daily.Add(today, ev.DurationSeconds)
	s.Monthly.Add(day.Format(monthLayout), ev.DurationSeconds)
	s.Yearly.Add(day.Format(yearLayout), ev.DurationSeconds)
}

// Reset zeroes every counter and clears the series.
func (s *Stats) Reset() {
	s.SessionsCompleted = 0
	s.TotalFocusSeconds = 0
	s.CurrentStreakDays = 0
	s.LongestStreakDays = 0
	s.LastSessionDate = ""
	s.Daily.Clear()
	s.Monthly.Clear()
	s.Yearly.Clear()
}

// Clone returns an independent copy.
func (s Stats) Clone() Stats {
	c := s
	c.Daily = s.Daily.Clone()
	c.Monthly = s.Monthly.Clone()
	c.Yearly = s.Yearly.Clone()
	return c
}

// Normalize clamps negative counters and restores the retention caps.
func (s *Stats) Normalize() {
	for _, v := range []*int{&s.SessionsCompleted, &s.TotalFocusSeconds, &s.CurrentStreakDays, &s.LongestStreakDays} {
		if *v < 0 {
			*v = 0
		}
	}
	if s.LongestStreakDays < s.CurrentStreakDays {
		s.LongestStreakDays = s.CurrentStreakDays
	}
	if s.LastSessionDate != "" {
		if _, err := time.Parse(dayLayout, s.LastSessionDate); err != nil {
			s.LastSessionDate = ""
		}
	}
	s.Daily.Limit = DailyRetention
	s.Monthly.Limit = MonthlyRetention
	s.Yearly.Limit = YearlyRetention
	s.Daily.trim()
	s.Monthly.trim()
	s.Yearly.trim()
}

// LastSevenDays returns the daily buckets for the week ending on today,
// oldest first, with zero entries for days without sessions.
func (s Stats) LastSevenDays(today time.Time, loc *time.Location) []StatBucketEntry {
	day := DateOnly(today, loc)
	out := make([]StatBucketEntry, 0, DailyRetention)
	for i := DailyRetention - 1; i >= 0; i-- {
		key := day.AddDate(0, 0, -i).Format(dayLayout)
		e, ok := s.Daily.Get(key)
		if !ok {
			e = StatBucketEntry{BucketKey: key}
		}
		out = append(out, e)
	}
	return out
}

// StreakActive reports whether the current streak can still be extended,
// meaning the last session was today or yesterday.
func (s Stats) StreakActive(now time.Time, loc *time.Location) bool {
	if s.LastSessionDate == "" {
		return false
	}
	last, err := ParseDayKey(s.LastSessionDate, loc)
	if err != nil {
		return false
	}
	d := DaysBetween(last, DateOnly(now, loc))
	return d == 0 || d == 1
}
