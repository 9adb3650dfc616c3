// Package config loads the privacy core's standalone-binary
// configuration, same TOML-over-XDG-paths shape the teacher uses for
// its client config.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the top-level configuration for cmd/privacyd.
type Config struct {
	General GeneralConfig `toml:"general"`
	Backend BackendConfig `toml:"backend"`
	Logging LoggingConfig `toml:"logging"`
	Storage StorageConfig `toml:"storage"`
}

// GeneralConfig contains host-identity settings.
type GeneralConfig struct {
	DataDir string `toml:"data_dir"`
	Domain  string `toml:"domain"`
}

// BackendConfig configures the pluggable ListStore/RosterStore/
// SessionDirectory loader (pkg/plugin).
type BackendConfig struct {
	PluginDir string   `toml:"plugin_dir"`
	Enabled   []string `toml:"enabled"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level   string `toml:"level"`
	File    string `toml:"file"`
	Console bool   `toml:"console"`
}

// StorageConfig contains the default sqlite-backed ListStore settings.
type StorageConfig struct {
	Path            string `toml:"path"`
	VacuumOnStartup bool   `toml:"vacuum_on_startup"`
}

// Paths holds the XDG-compliant paths for the daemon.
type Paths struct {
	ConfigDir string
	DataDir   string
	CacheDir  string
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		General: GeneralConfig{
			DataDir: "",
			Domain:  "localhost",
		},
		Backend: BackendConfig{
			PluginDir: "",
			Enabled:   []string{},
		},
		Logging: LoggingConfig{
			Level:   "info",
			File:    "",
			Console: true,
		},
		Storage: StorageConfig{
			Path:            "",
			VacuumOnStartup: false,
		},
	}
}

// GetPaths returns XDG-compliant paths for the daemon.
func GetPaths() (*Paths, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	configDir = filepath.Join(configDir, "privacyd")

	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	dataDir = filepath.Join(dataDir, "privacyd")

	cacheDir := os.Getenv("XDG_CACHE_HOME")
	if cacheDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		cacheDir = filepath.Join(home, ".cache")
	}
	cacheDir = filepath.Join(cacheDir, "privacyd")

	return &Paths{ConfigDir: configDir, DataDir: dataDir, CacheDir: cacheDir}, nil
}

// EnsureDirectories creates the necessary directories.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.ConfigDir, p.DataDir, p.CacheDir} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// Load loads the configuration from the config file, falling back to
// defaults rooted at the XDG paths when no file exists yet.
func Load() (*Config, error) {
	paths, err := GetPaths()
	if err != nil {
		return nil, err
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	configPath := filepath.Join(paths.ConfigDir, "config.toml")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg.General.DataDir = paths.DataDir
		cfg.Backend.PluginDir = filepath.Join(paths.DataDir, "plugins")
		cfg.Logging.File = filepath.Join(paths.DataDir, "privacyd.log")
		cfg.Storage.Path = filepath.Join(paths.DataDir, "privacy.db")
		return cfg, nil
	}

	if _, err := toml.DecodeFile(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.General.DataDir == "" {
		cfg.General.DataDir = paths.DataDir
	} else {
		cfg.General.DataDir = expandPath(cfg.General.DataDir)
	}
	if cfg.Backend.PluginDir == "" {
		cfg.Backend.PluginDir = filepath.Join(cfg.General.DataDir, "plugins")
	} else {
		cfg.Backend.PluginDir = expandPath(cfg.Backend.PluginDir)
	}
	if cfg.Logging.File == "" {
		cfg.Logging.File = filepath.Join(cfg.General.DataDir, "privacyd.log")
	} else {
		cfg.Logging.File = expandPath(cfg.Logging.File)
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = filepath.Join(cfg.General.DataDir, "privacy.db")
	} else {
		cfg.Storage.Path = expandPath(cfg.Storage.Path)
	}

	return cfg, nil
}

// Save writes cfg to the config file.
func Save(cfg *Config) error {
	paths, err := GetPaths()
	if err != nil {
		return err
	}

	configPath := filepath.Join(paths.ConfigDir, "config.toml")
	f, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// expandPath expands a leading ~ to the user's home directory.
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
