package logger

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestHelpersWriteThroughGlobalLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := Logger
	Set(zap.New(core))
	t.Cleanup(func() { Logger = prev })

	Debug("debug message", "key", "value")
	Info("info message")
	Warn("warn message", "count", 3)
	Error("error message")

	if logs.Len() != 4 {
		t.Fatalf("logged %d entries, want 4", logs.Len())
	}
	entry := logs.FilterMessage("warn message").All()[0]
	if entry.Level != zapcore.WarnLevel {
		t.Errorf("Level = %v, want %v", entry.Level, zapcore.WarnLevel)
	}
	if entry.ContextMap()["count"] != int64(3) {
		t.Errorf("count field = %v, want 3", entry.ContextMap()["count"])
	}
}

func TestInit(t *testing.T) {
	prev := Logger
	t.Cleanup(func() { Logger = prev })

	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"defaults", Options{}, false},
		{"debug development", Options{Level: "debug", Development: true}, false},
		{"file output", Options{Level: "info", OutputPath: filepath.Join(t.TempDir(), "streak.log")}, false},
		{"bad level", Options{Level: "loud"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Init(tt.opts)
			if (err != nil) != tt.wantErr {
				t.Errorf("Init() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
