package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/streak/internal/config"
)

// executeCmd is a helper to execute a cobra command in tests
func executeCmd(cmd *cobra.Command, args ...string) (stdout string, stderr string, err error) {
	bufOut := new(bytes.Buffer)
	bufErr := new(bytes.Buffer)

	cmd.SetOut(bufOut)
	cmd.SetErr(bufErr)
	cmd.SetArgs(args)

	err = cmd.Execute()
	return bufOut.String(), bufErr.String(), err
}

// testEnv points the CLI at a throwaway config file and database.
type testEnv struct {
	t      *testing.T
	config string
	db     string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.Storage.DataDir = dir
	cfg.Notifications.Enabled = false
	cfg.Notifications.Sound = false
	cfg.Log.Level = "error"
	cfgPath := filepath.Join(dir, "config.toml")
	if err := config.Save(cfg, cfgPath); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	t.Cleanup(func() {
		_ = cleanupServices()
		resetFlags()
	})
	return &testEnv{t: t, config: cfgPath, db: filepath.Join(dir, "streak.db")}
}

// run executes one CLI invocation the way Execute does.
func (e *testEnv) run(args ...string) (string, error) {
	e.t.Helper()
	resetFlags()
	full := append([]string{"--config", e.config, "--db", e.db}, args...)
	stdout, _, err := executeCmd(rootCmd, full...)
	if cerr := cleanupServices(); err == nil {
		err = cerr
	}
	return stdout, err
}

// resetFlags restores flag variables between invocations.
func resetFlags() {
	dbPath = ""
	configPath = ""
	jsonOutput = false
	statsChart = false
	historyLimit = 20
	exportFormat = "md"
	exportPeriod = "week"
	resetStatsForce = false
	resetStatsKeepHistory = false
}

// TestRootCmd_BareExecution verifies the root command exists
func TestRootCmd_BareExecution(t *testing.T) {
	if rootCmd == nil {
		t.Fatal("rootCmd should not be nil")
	}

	if rootCmd.Use != "streak" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "streak")
	}
}

// TestRootCmd_Help tests the --help flag
func TestRootCmd_Help(t *testing.T) {
	stdout, _, err := executeCmd(rootCmd, "--help")
	if err != nil {
		t.Fatalf("help command failed: %v", err)
	}

	if !strings.Contains(stdout, "streak") && !strings.Contains(stdout, "Streak") {
		t.Error("help output should contain 'streak' or 'Streak'")
	}
}

// TestRootCmd_Flags tests that global flags are registered
func TestRootCmd_Flags(t *testing.T) {
	for _, name := range []string{"db", "json", "config"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("--%s flag should be registered", name)
		}
	}
}

// TestRootCmd_Subcommands tests that every subcommand is registered
func TestRootCmd_Subcommands(t *testing.T) {
	want := []string{
		"start", "pause", "reset", "switch", "preset", "status", "stats",
		"history", "export", "achievements", "reset-stats", "config", "mcp",
	}
	for _, name := range want {
		found := false
		for _, c := range rootCmd.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

// TestFormatMinutes tests the formatMinutes helper function
func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{"25 minutes", 25 * time.Minute, "25m"},
		{"60 minutes", 60 * time.Minute, "1h"},
		{"90 minutes", 90 * time.Minute, "1h30m"},
		{"120 minutes", 120 * time.Minute, "2h"},
		{"90 seconds", 90 * time.Second, "1m30s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatMinutes(tt.d)
			if got != tt.want {
				t.Errorf("formatMinutes(%v) = %q, want %q", tt.d, got, tt.want)
			}
		})
	}
}

// TestFormatClock tests the formatClock helper
func TestFormatClock(t *testing.T) {
	tests := []struct {
		minutes  int
		seconds  int
		expected string
	}{
		{25, 0, "25:00"},
		{5, 30, "05:30"},
		{0, 45, "00:45"},
		{100, 5, "100:05"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			d := time.Duration(tt.minutes)*time.Minute + time.Duration(tt.seconds)*time.Second
			got := formatClock(d)
			if got != tt.expected {
				t.Errorf("formatClock() = %q, want %q", got, tt.expected)
			}
		})
	}
}

// TestGetDir tests the getDir helper function
func TestGetDir(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"/home/user/file.txt", "/home/user"},
		{"/home/user/", "/home/user"},
		{"file.txt", "."},
		{"/file.txt", "."},
		{"C:\\Users\\file.txt", "C:\\Users"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := getDir(tt.path)
			if got != tt.expected {
				t.Errorf("getDir(%q) = %q, want %q", tt.path, got, tt.expected)
			}
		})
	}
}
