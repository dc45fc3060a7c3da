// Package config loads runtime settings from defaults, an optional config
// file, TASKTRACK_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "TASKTRACK"

type Storage struct {
	// Driver is "sqlite" or "json".
	Driver string
	Path   string
}

type Logger struct {
	Level    string
	Encoding string
	// File receives log output; the TUI owns the terminal.
	File string
}

type Reminders struct {
	Enabled bool
	// Hour is the local hour at which the daily check fires.
	Hour int
}

type Config struct {
	Storage         Storage
	Logger          Logger
	Reminders       Reminders
	DefaultView     string
	CalendarWeeks   int
	SchedulerBuffer int
}

var (
	ErrInvalidDriver = errors.New("config: storage driver must be sqlite or json")
	ErrInvalidHour   = errors.New("config: reminder hour must be between 0 and 23")
)

func Default() Config {
	return Config{
		Storage:         Storage{Driver: "sqlite", Path: "tasktrack.db"},
		Logger:          Logger{Level: "info", Encoding: "json", File: "tasktrack.log"},
		Reminders:       Reminders{Enabled: true, Hour: 9},
		DefaultView:     "today",
		CalendarWeeks:   12,
		SchedulerBuffer: 64,
	}
}

// Flags registers the command-line overrides on fs.
func Flags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("config", "", "path to a config file (yaml, toml or json)")
	fs.String("storage.driver", d.Storage.Driver, "storage backend: sqlite or json")
	fs.String("storage.path", d.Storage.Path, "database or snapshot file path")
	fs.String("logger.level", d.Logger.Level, "log level: debug, info, warn, error")
	fs.String("logger.encoding", d.Logger.Encoding, "log encoding: json or console")
	fs.String("logger.file", d.Logger.File, "log file path")
	fs.Bool("reminders.enabled", d.Reminders.Enabled, "show a daily reminder for due and overdue tasks")
	fs.Int("reminders.hour", d.Reminders.Hour, "local hour of the daily reminder check")
	fs.String("default_view", d.DefaultView, "view shown on first start")
	fs.Int("calendar_weeks", d.CalendarWeeks, "weeks of history in the goal calendar")
}

// Load resolves the configuration. fs may be nil, in which case only
// defaults, the file named by TASKTRACK_CONFIG and the environment apply.
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	d := Default()
	v.SetDefault("storage.driver", d.Storage.Driver)
	v.SetDefault("storage.path", d.Storage.Path)
	v.SetDefault("logger.level", d.Logger.Level)
	v.SetDefault("logger.encoding", d.Logger.Encoding)
	v.SetDefault("logger.file", d.Logger.File)
	v.SetDefault("reminders.enabled", d.Reminders.Enabled)
	v.SetDefault("reminders.hour", d.Reminders.Hour)
	v.SetDefault("default_view", d.DefaultView)
	v.SetDefault("calendar_weeks", d.CalendarWeeks)
	v.SetDefault("scheduler_buffer", d.SchedulerBuffer)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := Config{
		Storage: Storage{
			Driver: strings.ToLower(strings.TrimSpace(v.GetString("storage.driver"))),
			Path:   strings.TrimSpace(v.GetString("storage.path")),
		},
		Logger: Logger{
			Level:    v.GetString("logger.level"),
			Encoding: v.GetString("logger.encoding"),
			File:     strings.TrimSpace(v.GetString("logger.file")),
		},
		Reminders: Reminders{
			Enabled: v.GetBool("reminders.enabled"),
			Hour:    v.GetInt("reminders.hour"),
		},
		DefaultView:     v.GetString("default_view"),
		CalendarWeeks:   v.GetInt("calendar_weeks"),
		SchedulerBuffer: v.GetInt("scheduler_buffer"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Storage.Driver != "sqlite" && c.Storage.Driver != "json" {
		return fmt.Errorf("%w: %q", ErrInvalidDriver, c.Storage.Driver)
	}
	if c.Storage.Path == "" {
		return errors.New("config: storage path is empty")
	}
	if c.Reminders.Hour < 0 || c.Reminders.Hour > 23 {
		return fmt.Errorf("%w: %d", ErrInvalidHour, c.Reminders.Hour)
	}
	if c.CalendarWeeks <= 0 {
		return errors.New("config: calendar_weeks must be positive")
	}
	if c.SchedulerBuffer <= 0 {
		return errors.New("config: scheduler_buffer must be positive")
	}
	return nil
}
