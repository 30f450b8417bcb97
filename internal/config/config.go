// Package config loads dtr settings from a YAML file, DTR_* environment
// variables and an optional per-user override file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"github.com/smolrome/DailyTimeRecord/internal/domain"
	"github.com/smolrome/DailyTimeRecord/internal/tally"
)

const (
	appDir         = "dtr"
	configFileName = "config.yml"
	// UserSettingsFile is the per-user override, kept next to records.json.
	UserSettingsFile = "settings.yml"
	envPrefix        = "DTR"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

const (
	keyUser              = "user"
	keyWorkHoursPerDay   = "work_hours_per_day"
	keyOvertimeThreshold = "overtime_threshold"
	keyBreakDeduction    = "break_deduction"
	keyNotifications     = "notifications"
	keyTick              = "tick"
	keyTasks             = "tasks"
	keyBreakTypes        = "break_types"
	keyStorageBackend    = "storage.backend"
	keyStorageDir        = "storage.dir"
	keyLogLevel          = "log.level"
)

type Config struct {
	User              string        `mapstructure:"user"`
	WorkHoursPerDay   float64       `mapstructure:"work_hours_per_day"`
	OvertimeThreshold float64       `mapstructure:"overtime_threshold"`
	BreakDeduction    bool          `mapstructure:"break_deduction"`
	Notifications     bool          `mapstructure:"notifications"`
	Tick              time.Duration `mapstructure:"tick"`
	Tasks             []string      `mapstructure:"tasks"`
	BreakTypes        []string      `mapstructure:"break_types"`
	Storage           StorageConfig `mapstructure:"storage"`
	Log               LogConfig     `mapstructure:"log"`

	// File is the global config file that was read (or created).
	File string `mapstructure:"-"`
	// UserFile is the per-user override path, whether or not it exists.
	UserFile string `mapstructure:"-"`
}

type StorageConfig struct {
	Backend string `mapstructure:"backend"`
	Dir     string `mapstructure:"dir"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Options select where configuration comes from. Zero values use the
// XDG config path and the user from config, DTR_USER or the OS account.
type Options struct {
	ConfigFile string
	User       string
}

// DefaultPath returns <xdg config>/dtr/config.yml, creating its directory.
func DefaultPath() (string, error) {
	p, err := xdg.ConfigFile(filepath.Join(appDir, configFileName))
	if err != nil {
		return "", fmt.Errorf("resolving config path: %w", err)
	}
	return p, nil
}

// DefaultDataDir returns <xdg data>/dtr.
func DefaultDataDir() string {
	return filepath.Join(xdg.DataHome, appDir)
}

// Load reads the global file (writing defaults on first run), applies
// environment overrides, then merges the per-user settings file.
func Load(opts Options) (*Config, error) {
	path := opts.ConfigFile
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return nil, err
		}
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading config file failed: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating config directory: %w", err)
		}
		if err := v.WriteConfig(); err != nil {
			return nil, fmt.Errorf("writing default config failed: %w", err)
		}
	}

	name, err := resolveUser(opts.User, v.GetString(keyUser))
	if err != nil {
		return nil, err
	}
	v.Set(keyUser, name)

	userFile := filepath.Join(v.GetString(keyStorageDir), "users", name, UserSettingsFile)
	if err := mergeUserSettings(v, userFile); err != nil {
		return nil, err
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	c.User = name
	c.File = path
	c.UserFile = userFile
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyUser, "")
	v.SetDefault(keyWorkHoursPerDay, 8)
	v.SetDefault(keyOvertimeThreshold, 8)
	v.SetDefault(keyBreakDeduction, true)
	v.SetDefault(keyNotifications, true)
	v.SetDefault(keyTick, "1s")
	v.SetDefault(keyTasks, domain.DefaultTasks)
	v.SetDefault(keyBreakTypes, domain.DefaultBreakTypes)
	v.SetDefault(keyStorageBackend, BackendSQLite)
	v.SetDefault(keyStorageDir, DefaultDataDir())
	v.SetDefault(keyLogLevel, "info")
}

// mergeUserSettings overlays the per-user file when present. Only the
// aggregation and catalogue keys are honoured there.
func mergeUserSettings(v *viper.Viper, path string) error {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("opening user settings: %w", err)
	}
	defer f.Close()

	uv := viper.New()
	uv.SetConfigType("yaml")
	if err := uv.ReadConfig(f); err != nil {
		return fmt.Errorf("reading user settings %s: %w", path, err)
	}
	for _, key := range []string{
		keyWorkHoursPerDay, keyOvertimeThreshold, keyBreakDeduction,
		keyNotifications, keyTasks, keyBreakTypes,
	} {
		if uv.IsSet(key) {
			v.Set(key, uv.Get(key))
		}
	}
	return nil
}

func resolveUser(flag, configured string) (string, error) {
	for _, name := range []string{flag, configured} {
		if name != "" {
			return name, domain.ValidateUserName(name)
		}
	}
	u, err := user.Current()
	if err != nil || u.Username == "" {
		return "", fmt.Errorf("no user given: pass --user or set DTR_USER")
	}
	// Windows reports DOMAIN\name.
	name := u.Username
	if i := strings.LastIndexAny(name, `\/`); i >= 0 {
		name = name[i+1:]
	}
	return name, nil
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	var errs []error
	if c.WorkHoursPerDay <= 0 || c.WorkHoursPerDay > 24 {
		errs = append(errs, fmt.Errorf("work_hours_per_day must be in (0, 24], got %v", c.WorkHoursPerDay))
	}
	if c.OvertimeThreshold < 0 {
		errs = append(errs, fmt.Errorf("overtime_threshold must not be negative, got %v", c.OvertimeThreshold))
	}
	if c.Tick <= 0 {
		errs = append(errs, fmt.Errorf("tick must be positive, got %s", c.Tick))
	}
	switch c.Storage.Backend {
	case BackendSQLite, BackendFile:
	default:
		errs = append(errs, fmt.Errorf("storage.backend must be %q or %q, got %q", BackendSQLite, BackendFile, c.Storage.Backend))
	}
	if c.Storage.Dir == "" {
		errs = append(errs, fmt.Errorf("storage.dir is empty"))
	}
	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Aggregation converts the hour-based settings for the tally package.
func (c *Config) Aggregation() tally.Config {
	return tally.Config{
		WorkHoursPerDay:   hours(c.WorkHoursPerDay),
		OvertimeThreshold: hours(c.OvertimeThreshold),
		BreakDeduction:    c.BreakDeduction,
	}
}

// LogLevel parses log.level (debug, info, warn, error).
func (c *Config) LogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return l, nil
}

// DBPath is the SQLite file used by the sqlite backend.
func (c *Config) DBPath() string {
	return filepath.Join(c.Storage.Dir, "dtr.db")
}

// LogPath is the rotating log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.Storage.Dir, "log", "dtr.log")
}

func hours(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour))
}
