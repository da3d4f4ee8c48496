package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jask/stockpile/internal/navigation"
)

// Config holds application configuration.
type Config struct {
	Camera  CameraConfig
	Catalog CatalogConfig
	Log     LogConfig
	UI      UIConfig
}

// CameraConfig selects and tunes the capture capability.
type CameraConfig struct {
	Mode       string
	Command    string
	Args       []string
	OutputDir  string `mapstructure:"output_dir"`
	Permission string
	Timeout    time.Duration
}

// CatalogConfig picks the catalog backend. Both backends are in-memory.
type CatalogConfig struct {
	Backend string
}

// LogConfig holds logger settings.
type LogConfig struct {
	Path  string
	Debug bool
}

// UIConfig holds presentation settings.
type UIConfig struct {
	AltScreen   bool   `mapstructure:"alt_screen"`
	StartScreen string `mapstructure:"start_screen"`
}

const (
	CameraAuto     = "auto"
	CameraSimulate = "simulate"

	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Load reads configuration from file and env. Env var overrides use prefix STOCKPILE_.
func Load() (Config, error) { return load(true) }

// Defaults is Load without the config file: built-in values plus STOCKPILE_
// env overrides.
func Defaults() (Config, error) { return load(false) }

func load(readFile bool) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("STOCKPILE_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(homeDir(), ".config", "stockpile"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("STOCKPILE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if readFile {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if cfgPath != "" || !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("config: read: %w", err)
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks enumerated settings.
func (c Config) Validate() error {
	switch strings.ToLower(c.Camera.Mode) {
	case CameraAuto, CameraSimulate:
	default:
		return fmt.Errorf("config: camera.mode must be %q or %q, got %q", CameraAuto, CameraSimulate, c.Camera.Mode)
	}
	switch strings.ToLower(c.Camera.Permission) {
	case "granted", "denied":
	default:
		return fmt.Errorf("config: camera.permission must be \"granted\" or \"denied\", got %q", c.Camera.Permission)
	}
	switch strings.ToLower(c.Catalog.Backend) {
	case BackendMemory, BackendSQLite:
	default:
		return fmt.Errorf("config: catalog.backend must be %q or %q, got %q", BackendMemory, BackendSQLite, c.Catalog.Backend)
	}
	if c.Camera.Timeout < 0 {
		return fmt.Errorf("config: camera.timeout must not be negative")
	}
	if _, err := navigation.ParseScreen(c.UI.StartScreen); err != nil {
		return fmt.Errorf("config: ui.start_screen: %w", err)
	}
	return nil
}

// Path is where Load looks first and Save writes: $STOCKPILE_CONFIG, else
// ~/.config/stockpile/config.toml.
func Path() string {
	if p := os.Getenv("STOCKPILE_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(homeDir(), ".config", "stockpile", "config.toml")
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("camera.mode", cfg.Camera.Mode)
	v.Set("camera.command", cfg.Camera.Command)
	v.Set("camera.args", cfg.Camera.Args)
	v.Set("camera.output_dir", cfg.Camera.OutputDir)
	v.Set("camera.permission", cfg.Camera.Permission)
	v.Set("camera.timeout", cfg.Camera.Timeout.String())
	v.Set("catalog.backend", cfg.Catalog.Backend)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.debug", cfg.Log.Debug)
	v.Set("ui.alt_screen", cfg.UI.AltScreen)
	v.Set("ui.start_screen", cfg.UI.StartScreen)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("camera.mode", CameraAuto)
	v.SetDefault("camera.command", "fswebcam")
	v.SetDefault("camera.args", []string{"--no-banner", "-r", "640x480", "{out}"})
	v.SetDefault("camera.output_dir", filepath.Join(cacheDir(), "stockpile", "photos"))
	v.SetDefault("camera.permission", "granted")
	v.SetDefault("camera.timeout", "30s")
	v.SetDefault("catalog.backend", BackendMemory)
	v.SetDefault("log.path", filepath.Join(homeDir(), ".local", "state", "stockpile", "stockpile.log"))
	v.SetDefault("log.debug", false)
	v.SetDefault("ui.alt_screen", true)
	v.SetDefault("ui.start_screen", navigation.List.String())
}

func homeDir() string {
	if h, err := os.UserHomeDir(); err == nil {
		return h
	}
	return os.Getenv("HOME")
}

func cacheDir() string {
	if d, err := os.UserCacheDir(); err == nil {
		return d
	}
	return filepath.Join(homeDir(), ".cache")
}
