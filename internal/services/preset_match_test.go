package services

import (
	"testing"

	"github.com/xvierd/streak/internal/domain"
)

func TestMatchPresets(t *testing.T) {
	presets := domain.DefaultPresets()

	tests := []struct {
		name    string
		query   string
		wantLen int
		wantTop string
	}{
		{"empty query returns all", "", 4, domain.PresetFocus},
		{"exact id", "break", 1, domain.PresetBreak},
		{"exact camel id", "shortBreak", 1, domain.PresetShortBreak},
		{"fuzzy name", "shrt brk", 1, domain.PresetShortBreak},
		{"no match", "zzz", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchPresets(tt.query, presets)
			if len(got) != tt.wantLen {
				t.Fatalf("MatchPresets(%q) returned %d presets, want %d", tt.query, len(got), tt.wantLen)
			}
			if tt.wantLen > 0 && got[0].ID != tt.wantTop {
				t.Errorf("MatchPresets(%q)[0] = %s, want %s", tt.query, got[0].ID, tt.wantTop)
			}
		})
	}
}
