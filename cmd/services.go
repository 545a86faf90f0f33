package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/streak/internal/adapters/git"
	"github.com/xvierd/streak/internal/adapters/notification"
	"github.com/xvierd/streak/internal/adapters/storage"
	"github.com/xvierd/streak/internal/config"
	"github.com/xvierd/streak/internal/domain"
	"github.com/xvierd/streak/internal/logger"
	"github.com/xvierd/streak/internal/ports"
	"github.com/xvierd/streak/internal/services"
	"github.com/xvierd/streak/internal/snapshot"
)

// flushTimeout bounds the final snapshot write on exit.
const flushTimeout = 5 * time.Second

// appDeps groups all service-layer dependencies initialized at startup.
type appDeps struct {
	config       *config.Config
	storage      ports.Storage
	blobs        ports.BlobStore
	ctrl         *services.TimerController
	state        *services.StateService
	history      *services.HistoryRecorder
	achievements *services.AchievementService
	git          ports.GitDetector
	notifier     *notification.Notifier
	detach       []func()
}

// app holds all initialized service dependencies.
// Populated by initializeServices() and accessible to all commands.
var app appDeps

// ownsTerminal reports whether cmd keeps stdout busy, so logs go to a file.
func ownsTerminal(cmd *cobra.Command) bool {
	return !cmd.HasParent() || cmd.Name() == "mcp"
}

// initializeServices sets up all the required services and adapters.
func initializeServices(cmd *cobra.Command) error {
	var err error
	app.config, err = config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: using default config: %v\n", err)
		app.config = config.DefaultConfig()
	}

	logOpts := logger.Options{Level: app.config.Log.Level}
	if ownsTerminal(cmd) {
		logOpts.OutputPath = config.GetLogPath(app.config)
	}
	if err := os.MkdirAll(app.config.Storage.DataDir, 0750); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := logger.Init(logOpts); err != nil {
		return err
	}

	app.notifier = notification.New(&app.config.Notifications)

	if dbPath == "" {
		dbPath = config.GetDBPath(app.config)
	}
	if err := os.MkdirAll(getDir(dbPath), 0750); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	app.storage, err = storage.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	app.blobs, err = openBlobStore(app.config, app.storage)
	if err != nil {
		return err
	}

	app.git = git.NewDetector()
	workingDir, _ := os.Getwd()

	app.ctrl = services.NewTimerController(context.Background(), services.Deps{
		Store:        app.blobs,
		TickInterval: app.config.TickInterval(),
		Location:     app.config.Location(),
		Defaults: snapshot.Defaults{
			Presets:       app.config.DomainPresets(),
			DefaultPreset: app.config.DefaultPreset().ID,
			Preferences: snapshot.Preferences{
				Notifications: app.config.Notifications.Enabled,
				Sound:         app.config.Notifications.Sound,
				Theme:         "default",
			},
		},
	})
	syncPreferences(app.config)
	app.state = services.NewStateService(app.ctrl)
	app.history = services.NewHistoryRecorder(app.storage.Completions(), app.git, workingDir)
	app.achievements = services.NewAchievementService(app.ctrl, nil)

	app.detach = append(app.detach,
		app.history.Attach(app.ctrl),
		app.achievements.Attach(),
		app.ctrl.OnSessionCompleted(func(ev domain.SessionCompleted, stats domain.Stats) {
			p, ok := app.ctrl.Presets().Get(ev.PresetID)
			if !ok {
				return
			}
			if err := app.notifier.NotifySessionComplete(p, stats); err != nil {
				logger.Warn("notification failed", "error", err)
			}
		}),
		app.ctrl.OnFinished(func(p domain.Preset) {
			if p.Countable {
				return
			}
			if err := app.notifier.NotifyBreakComplete(p); err != nil {
				logger.Warn("notification failed", "error", err)
			}
		}),
		app.achievements.OnUnlock(func(u services.Unlock) {
			if err := app.notifier.NotifyAchievement(u.Achievement, u.Quote); err != nil {
				logger.Warn("notification failed", "error", err)
			}
		}),
	)

	app.ctrl.Resume()
	return nil
}

// syncPreferences copies the notification settings from cfg into the
// snapshot preferences and the notifier.
func syncPreferences(cfg *config.Config) {
	if app.ctrl == nil {
		return
	}
	want := cfg.Notifications
	if prefs := app.ctrl.Preferences(); prefs.Notifications != want.Enabled || prefs.Sound != want.Sound {
		app.ctrl.UpdatePreferences(func(p *snapshot.Preferences) {
			p.Notifications = want.Enabled
			p.Sound = want.Sound
		})
	}
	if app.notifier != nil {
		app.notifier.SetEnabled(want.Enabled)
		app.notifier.SetSound(want.Sound)
	}
}

// openBlobStore picks the snapshot backend named in the config.
func openBlobStore(cfg *config.Config, st ports.Storage) (ports.BlobStore, error) {
	switch cfg.Storage.Backend {
	case config.BackendFile:
		fs, err := storage.NewFileStore(cfg.Storage.DataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize file store: %w", err)
		}
		return fs, nil
	case config.BackendSQLite, "":
		return st.Blobs(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// cleanupServices flushes the snapshot and closes all resources.
func cleanupServices() error {
	for _, fn := range app.detach {
		fn()
	}
	app.detach = nil

	if app.ctrl != nil {
		ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
		if err := app.ctrl.Flush(ctx); err != nil {
			logger.Error("failed to flush snapshot", "error", err)
		}
		cancel()
		if err := app.ctrl.Close(); err != nil {
			logger.Error("failed to close timer", "error", err)
		}
		app.ctrl = nil
	}
	defer logger.Sync()

	if app.storage != nil {
		err := app.storage.Close()
		app.storage = nil
		return err
	}
	return nil
}

// setupSignalHandler sets up a context that cancels on interrupt signals.
func setupSignalHandler() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()

	return ctx
}
