// Package config resolves where beam keeps its data and loads the
// optional TOML user configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	// BaseDirName is beam's directory under the user's home.
	BaseDirName = ".beam"

	// UserConfigFileName is the TOML config file for user preferences.
	UserConfigFileName = "config.toml"

	// IndexDirName is the database directory under the data dir.
	IndexDirName = "index"

	// EnvDataDir overrides the data directory; it wins over config.toml.
	EnvDataDir = "BEAM_DATA_DIR"

	// EnvDebug enables debug logging to <base>/debug.log.
	EnvDebug = "BEAM_DEBUG"
)

// UserConfig represents user-facing configuration in TOML format.
type UserConfig struct {
	// DataDir overrides where the index database lives. "~" expands to
	// the user's home directory.
	DataDir string `toml:"data_dir"`

	// Logs tunes debug log output and rotation.
	Logs LogSettings `toml:"logs"`
}

// LogSettings mirrors the knobs of the logging package.
type LogSettings struct {
	Level      string `toml:"level"`
	Format     string `toml:"format"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

// BaseDir returns beam's base directory (~/.beam).
func BaseDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: get home directory: %w", err)
	}
	return filepath.Join(homeDir, BaseDirName), nil
}

// Load reads the user config. A missing file yields defaults, not an
// error; a malformed file surfaces as one.
func Load() (*UserConfig, error) {
	base, err := BaseDir()
	if err != nil {
		return nil, err
	}
	return loadFrom(filepath.Join(base, UserConfigFileName))
}

func loadFrom(path string) (*UserConfig, error) {
	var cfg UserConfig
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &cfg, nil
}

// DataDir resolves the database directory: BEAM_DATA_DIR wins, then the
// config file's data_dir, then <base>/index.
func DataDir(cfg *UserConfig) (string, error) {
	if env := os.Getenv(EnvDataDir); env != "" {
		return expandHome(env)
	}
	if cfg != nil && cfg.DataDir != "" {
		return expandHome(cfg.DataDir)
	}
	base, err := BaseDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, IndexDirName), nil
}

func expandHome(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("config: get home directory: %w", err)
		}
		return filepath.Join(homeDir, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}
