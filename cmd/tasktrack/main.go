package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tasktrack/internal/config"
	"github.com/sandeepkv93/tasktrack/internal/goals"
	"github.com/sandeepkv93/tasktrack/internal/scheduler"
	"github.com/sandeepkv93/tasktrack/internal/storage"
	"github.com/sandeepkv93/tasktrack/internal/tasks"
	"github.com/sandeepkv93/tasktrack/internal/update"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "tasktrack failed: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := pflag.NewFlagSet("tasktrack", pflag.ContinueOnError)
	config.Flags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := config.Load(fs)
	if err != nil {
		return err
	}

	log, err := cfg.Logger.Build()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	store, goalStore, closeStore, err := openStore(cfg.Storage, log)
	if err != nil {
		return err
	}
	defer closeStore()

	snap, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	log.Info("state loaded",
		zap.String("driver", cfg.Storage.Driver),
		zap.String("path", cfg.Storage.Path),
		zap.Int("tasks", len(snap.Tasks)))

	taskSvc := tasks.NewService(snap.Tasks,
		tasks.WithPersister(store),
		tasks.WithLogger(log.Named("tasks")),
	)

	deps := update.Deps{
		Tasks:  taskSvc,
		State:  store,
		Gate:   tasks.NewReminderGate(snap.NotificationsEnabled, snap.LastReminderDate),
		Logger: log.Named("ui"),
	}
	if goalStore != nil {
		deps.Goals = goals.NewService(goalStore, goals.WithLogger(log.Named("goals")))
	}

	engine := scheduler.NewEngine(cfg.SchedulerBuffer)
	engine.Start()
	defer engine.Stop()
	deps.Scheduler = engine

	model := update.NewModel(deps, update.Settings{
		InitialView:   initialView(cfg, snap),
		ReminderHour:  cfg.Reminders.Hour,
		CalendarWeeks: cfg.CalendarWeeks,
		RemindersOff:  !cfg.Reminders.Enabled,
	})
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return err
	}
	log.Info("shutdown", zap.Uint64("dropped_events", engine.Dropped()))
	return nil
}

// openStore returns the state store for the configured driver. Only the
// sqlite driver can hold goals.
func openStore(cfg config.Storage, log *zap.Logger) (storage.StateStore, goals.Store, func(), error) {
	switch cfg.Driver {
	case "json":
		f, err := storage.NewSnapshotFile(cfg.Path)
		if err != nil {
			return nil, nil, nil, err
		}
		return f, nil, func() {}, nil
	default:
		repo, err := storage.OpenSQLite(cfg.Path)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open sqlite %s: %w", cfg.Path, err)
		}
		repo.SetLogger(log.Named("storage"))
		return repo, repo, func() {
			if err := repo.Close(); err != nil {
				log.Warn("close sqlite", zap.Error(err))
			}
		}, nil
	}
}

func initialView(cfg config.Config, snap storage.Snapshot) tasks.View {
	if v, err := tasks.ParseView(snap.CurrentView); err == nil {
		return v
	}
	if v, err := tasks.ParseView(cfg.DefaultView); err == nil {
		return v
	}
	return tasks.ViewToday
}
