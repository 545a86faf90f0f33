package domain

import (
	"fmt"
	"testing"
	"time"
)

func completionAt(day string, hour int, seconds int) SessionCompleted {
	d, _ := time.ParseInLocation("2006-01-02", day, time.UTC)
	return SessionCompleted{
		ID:              fmt.Sprintf("%s-%d", day, hour),
		OccurredAt:      d.Add(time.Duration(hour) * time.Hour),
		DurationSeconds: seconds,
		PresetID:        PresetFocus,
	}
}

func TestStats_RecordCompletion_FirstEvent(t *testing.T) {
	s := NewStats()
	s.RecordCompletion(completionAt("2024-01-01", 10, 1500), time.UTC)

	if s.SessionsCompleted != 1 {
		t.Errorf("SessionsCompleted = %v, want 1", s.SessionsCompleted)
	}
	if s.TotalFocusSeconds != 1500 {
		t.Errorf("TotalFocusSeconds = %v, want 1500", s.TotalFocusSeconds)
	}
	if s.CurrentStreakDays != 1 || s.LongestStreakDays != 1 {
		t.Errorf("streak = %v/%v, want 1/1", s.CurrentStreakDays, s.LongestStreakDays)
	}
	if s.LastSessionDate != "2024-01-01" {
		t.Errorf("LastSessionDate = %v, want 2024-01-01", s.LastSessionDate)
	}
	for name, series := range map[string]Series{"daily": s.Daily, "monthly": s.Monthly, "yearly": s.Yearly} {
		if series.Len() != 1 {
			t.Errorf("%s series has %d entries, want 1", name, series.Len())
		}
	}
	if e, _ := s.Monthly.Get("2024-01"); e.SessionCount != 1 || e.TotalDurationSeconds != 1500 {
		t.Errorf("monthly entry = %+v", e)
	}
}

func TestStats_StreakTransitions(t *testing.T) {
	tests := []struct {
		name        string
		days        []string
		wantCurrent int
		wantLongest int
	}{
		{"same day twice", []string{"2024-01-01", "2024-01-01"}, 1, 1},
		{"consecutive days", []string{"2024-01-01", "2024-01-02", "2024-01-03"}, 3, 3},
		{"gap resets", []string{"2024-01-01", "2024-01-02", "2024-01-05"}, 1, 2},
		{"longest survives a reset", []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-10", "2024-01-11"}, 2, 3},
		{"month boundary", []string{"2024-01-31", "2024-02-01"}, 2, 2},
		{"leap day", []string{"2024-02-28", "2024-02-29", "2024-03-01"}, 3, 3},
		{"year boundary", []string{"2023-12-31", "2024-01-01"}, 2, 2},
		{"late event keeps streak", []string{"2024-01-05", "2024-01-03"}, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStats()
			for i, d := range tt.days {
				s.RecordCompletion(completionAt(d, 9+i, 60), time.UTC)
			}
			if s.CurrentStreakDays != tt.wantCurrent {
				t.Errorf("CurrentStreakDays = %v, want %v", s.CurrentStreakDays, tt.wantCurrent)
			}
			if s.LongestStreakDays != tt.wantLongest {
				t.Errorf("LongestStreakDays = %v, want %v", s.LongestStreakDays, tt.wantLongest)
			}
			if s.LongestStreakDays < s.CurrentStreakDays {
				t.Error("LongestStreakDays < CurrentStreakDays")
			}
		})
	}
}

func TestStats_LateEventDoesNotMoveLastSessionBack(t *testing.T) {
	s := NewStats()
	s.RecordCompletion(completionAt("2024-01-05", 9, 60), time.UTC)
	s.RecordCompletion(completionAt("2024-01-03", 9, 60), time.UTC)

	if s.LastSessionDate != "2024-01-05" {
		t.Errorf("LastSessionDate = %v, want 2024-01-05", s.LastSessionDate)
	}
	if _, ok := s.Daily.Get("2024-01-03"); !ok {
		t.Error("late event should still land in its own daily bucket")
	}
}

func TestStats_LocalCalendarDay(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	s := NewStats()
	// 03:00 UTC on Jan 2 is still Jan 1 in UTC-5.
	s.RecordCompletion(SessionCompleted{OccurredAt: time.Date(2024, 1, 2, 3, 0, 0, 0, time.UTC), DurationSeconds: 60}, loc)

	if s.LastSessionDate != "2024-01-01" {
		t.Errorf("LastSessionDate = %v, want 2024-01-01", s.LastSessionDate)
	}
}

func TestStats_NegativeDurationIgnored(t *testing.T) {
	s := NewStats()
	s.RecordCompletion(completionAt("2024-01-01", 9, -1), time.UTC)
	if s.SessionsCompleted != 0 || s.Daily.Len() != 0 {
		t.Errorf("negative duration was recorded: %+v", s)
	}
}

func TestStats_DailyRetention(t *testing.T) {
	s := NewStats()
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		s.RecordCompletion(SessionCompleted{OccurredAt: start.AddDate(0, 0, i), DurationSeconds: 60}, time.UTC)
	}

	if s.Daily.Len() != DailyRetention {
		t.Fatalf("daily entries = %v, want %v", s.Daily.Len(), DailyRetention)
	}
	for _, gone := range []string{"2024-01-01", "2024-01-02", "2024-01-03"} {
		if _, ok := s.Daily.Get(gone); ok {
			t.Errorf("bucket %s should have been evicted", gone)
		}
	}
	entries := s.Daily.Entries()
	if entries[0].BucketKey != "2024-01-04" || entries[6].BucketKey != "2024-01-10" {
		t.Errorf("entries span %s..%s, want 2024-01-04..2024-01-10", entries[0].BucketKey, entries[6].BucketKey)
	}
	if s.CurrentStreakDays != 10 {
		t.Errorf("CurrentStreakDays = %v, want 10", s.CurrentStreakDays)
	}
}

func TestSeries_LateEventEvictsItself(t *testing.T) {
	s := NewSeries(2)
	s.Add("2024-01-05", 1)
	s.Add("2024-01-06", 1)
	s.Add("2024-01-01", 1)

	if _, ok := s.Get("2024-01-01"); ok {
		t.Error("older late bucket should be evicted first")
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %v, want 2", s.Len())
	}
}

func TestSeries_MonthlyAndYearlyCaps(t *testing.T) {
	s := NewStats()
	start := time.Date(2015, 1, 15, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 96; i++ {
		s.RecordCompletion(SessionCompleted{OccurredAt: start.AddDate(0, i, 0), DurationSeconds: 60}, time.UTC)
	}

	if s.Monthly.Len() != MonthlyRetention {
		t.Errorf("monthly entries = %v, want %v", s.Monthly.Len(), MonthlyRetention)
	}
	if s.Yearly.Len() != YearlyRetention {
		t.Errorf("yearly entries = %v, want %v", s.Yearly.Len(), YearlyRetention)
	}
	if _, ok := s.Yearly.Get("2022"); !ok {
		t.Error("latest year missing")
	}
}

func TestStats_Reset(t *testing.T) {
	s := NewStats()
	s.RecordCompletion(completionAt("2024-01-01", 9, 1500), time.UTC)
	s.RecordCompletion(completionAt("2024-01-02", 9, 1500), time.UTC)

	s.Reset()

	if s.SessionsCompleted != 0 || s.TotalFocusSeconds != 0 || s.CurrentStreakDays != 0 || s.LongestStreakDays != 0 {
		t.Errorf("counters not zeroed: %+v", s)
	}
	if s.LastSessionDate != "" {
		t.Errorf("LastSessionDate = %q, want empty", s.LastSessionDate)
	}
	if s.Daily.Len()+s.Monthly.Len()+s.Yearly.Len() != 0 {
		t.Error("series not cleared")
	}

	// The next completion starts a fresh streak.
	s.RecordCompletion(completionAt("2024-01-03", 9, 60), time.UTC)
	if s.CurrentStreakDays != 1 {
		t.Errorf("CurrentStreakDays = %v, want 1", s.CurrentStreakDays)
	}
	if s.Daily.Limit != DailyRetention {
		t.Errorf("Daily.Limit = %v, want %v", s.Daily.Limit, DailyRetention)
	}
}

func TestStats_CloneIsIndependent(t *testing.T) {
	s := NewStats()
	s.RecordCompletion(completionAt("2024-01-01", 9, 60), time.UTC)
	c := s.Clone()
	s.RecordCompletion(completionAt("2024-01-01", 10, 60), time.UTC)

	if e, _ := c.Daily.Get("2024-01-01"); e.SessionCount != 1 {
		t.Errorf("clone entry SessionCount = %v, want 1", e.SessionCount)
	}
}

func TestStats_LastSevenDays(t *testing.T) {
	s := NewStats()
	s.RecordCompletion(completionAt("2024-01-08", 9, 1500), time.UTC)
	s.RecordCompletion(completionAt("2024-01-10", 9, 900), time.UTC)

	week := s.LastSevenDays(time.Date(2024, 1, 10, 20, 0, 0, 0, time.UTC), time.UTC)
	if len(week) != 7 {
		t.Fatalf("len = %v, want 7", len(week))
	}
	if week[0].BucketKey != "2024-01-04" || week[6].BucketKey != "2024-01-10" {
		t.Errorf("range = %s..%s", week[0].BucketKey, week[6].BucketKey)
	}
	if week[4].TotalDurationSeconds != 1500 || week[5].SessionCount != 0 || week[6].TotalDurationSeconds != 900 {
		t.Errorf("week = %+v", week)
	}
}

func TestStats_StreakActive(t *testing.T) {
	s := NewStats()
	if s.StreakActive(t0, time.UTC) {
		t.Error("empty stats should have no active streak")
	}
	s.RecordCompletion(completionAt("2024-03-09", 9, 60), time.UTC)
	if !s.StreakActive(t0, time.UTC) {
		t.Error("streak from yesterday should be active")
	}
	if s.StreakActive(t0.AddDate(0, 0, 2), time.UTC) {
		t.Error("streak should lapse after a missed day")
	}
}
