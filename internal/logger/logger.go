// Package logger provides a package-level structured logger backed by zap.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the global logger instance.
var Logger = newDefault()

// Options controls how Init builds the logger.
type Options struct {
	// Level is a zap level name: debug, info, warn or error.
	Level string
	// Development switches to the human-friendly console encoder.
	Development bool
	// OutputPath is a file path, "stderr" or "stdout". Empty means stderr.
	OutputPath string
}

func newDefault() *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	cfg.Sampling = nil
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return l.Sugar()
}

// Init replaces the global logger according to opts.
func Init(opts Options) error {
	level := zapcore.WarnLevel
	if opts.Level != "" {
		parsed, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	cfg := zap.NewProductionConfig()
	if opts.Development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.Sampling = nil
	out := opts.OutputPath
	if out == "" {
		out = "stderr"
	}
	cfg.OutputPaths = []string{out}
	cfg.ErrorOutputPaths = []string{"stderr"}

	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	_ = Logger.Sync()
	Logger = l.Sugar()
	return nil
}

// Set replaces the global logger. Tests use it with an observer core.
func Set(l *zap.Logger) {
	Logger = l.Sugar()
}

// Sync flushes buffered log entries.
func Sync() {
	_ = Logger.Sync()
}

// Error logs an error message.
func Error(msg string, args ...any) {
	Logger.Errorw(msg, args...)
}

// Info logs an informational message.
func Info(msg string, args ...any) {
	Logger.Infow(msg, args...)
}

// Warn logs a warning message.
func Warn(msg string, args ...any) {
	Logger.Warnw(msg, args...)
}

// Debug logs a debug message.
func Debug(msg string, args ...any) {
	Logger.Debugw(msg, args...)
}
