package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/xvierd/streak/internal/domain"
)

func TestStatusCmd(t *testing.T) {
	t.Run("status command structure", func(t *testing.T) {
		if statusCmd.Use != "status" {
			t.Errorf("statusCmd.Use = %q, want %q", statusCmd.Use, "status")
		}

		if statusCmd.Short != "Show current status" {
			t.Errorf("statusCmd.Short = %q, want %q", statusCmd.Short, "Show current status")
		}
	})
}

func runningState(t *testing.T) *domain.CurrentState {
	t.Helper()
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	focus := domain.Preset{ID: domain.PresetFocus, Name: "Focus", DurationSeconds: 1500, Countable: true}

	timer := domain.NewTimerState(focus)
	timer.Start(now.Add(-5 * time.Minute))
	timer.Tick(now)

	stats := domain.NewStats()
	stats.RecordCompletion(domain.NewSessionCompleted(focus, now.Add(-time.Hour)), time.UTC)

	state := domain.NewCurrentState(timer, stats, now, time.UTC)
	return &state
}

// TestOutputStatusJSON tests the JSON output structure
func TestOutputStatusJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := outputStatusJSON(&buf, runningState(t)); err != nil {
		t.Fatalf("outputStatusJSON() error = %v", err)
	}

	var got map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}

	timer, ok := got["timer"].(map[string]interface{})
	if !ok {
		t.Fatalf("timer section missing: %v", got)
	}
	if timer["phase"] != "running" {
		t.Errorf("phase = %v, want running", timer["phase"])
	}
	if timer["remaining_seconds"] != float64(1200) {
		t.Errorf("remaining_seconds = %v, want 1200", timer["remaining_seconds"])
	}
	if _, ok := timer["ends_at"]; !ok {
		t.Error("ends_at should be present while running")
	}

	today := got["today"].(map[string]interface{})
	if today["sessions"] != float64(1) {
		t.Errorf("today.sessions = %v, want 1", today["sessions"])
	}
	streak := got["streak"].(map[string]interface{})
	if streak["current_days"] != float64(1) || streak["active"] != true {
		t.Errorf("streak = %v, want 1 active day", streak)
	}
}

// TestPrintStatusText tests the printStatusText helper
func TestPrintStatusText(t *testing.T) {
	var buf bytes.Buffer
	printStatusText(&buf, runningState(t))
	out := buf.String()

	for _, want := range []string{"Focus: Running", "Remaining: 20:00 of 25m", "Progress: 20%", "Sessions: 1", "Streak: 1 day"} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q\n%s", want, out)
		}
	}

	idle := domain.NewCurrentState(domain.NewTimerState(domain.Preset{ID: "break", Name: "Break", DurationSeconds: 300}),
		domain.NewStats(), time.Now(), time.UTC)
	buf.Reset()
	printStatusText(&buf, &idle)
	if !strings.Contains(buf.String(), "Break: Ready") {
		t.Errorf("idle output = %q", buf.String())
	}
	if strings.Contains(buf.String(), "Progress") {
		t.Error("idle output should not show progress")
	}
}
