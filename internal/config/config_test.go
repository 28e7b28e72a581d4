package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := loadFrom(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("loadFrom: %v", err)
	}
	if cfg.DataDir != "" {
		t.Errorf("expected empty DataDir, got %q", cfg.DataDir)
	}
}

func TestLoadFromParsesSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
data_dir = "/tmp/beam-data"

[logs]
level = "debug"
max_backups = 7
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadFrom(path)
	if err != nil {
		t.Fatalf("loadFrom: %v", err)
	}
	if cfg.DataDir != "/tmp/beam-data" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.Logs.Level != "debug" {
		t.Errorf("Logs.Level = %q", cfg.Logs.Level)
	}
	if cfg.Logs.MaxBackups != 7 {
		t.Errorf("Logs.MaxBackups = %d", cfg.Logs.MaxBackups)
	}
}

func TestLoadFromMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("data_dir = [not toml"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadFrom(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestDataDirEnvOverride(t *testing.T) {
	t.Setenv(EnvDataDir, "/custom/place")

	dir, err := DataDir(&UserConfig{DataDir: "/ignored"})
	if err != nil {
		t.Fatalf("DataDir: %v", err)
	}
	if dir != "/custom/place" {
		t.Errorf("DataDir = %q", dir)
	}
}

func TestDataDirConfigOverride(t *testing.T) {
	t.Setenv(EnvDataDir, "")

	dir, err := DataDir(&UserConfig{DataDir: "/from/config"})
	if err != nil {
		t.Fatalf("DataDir: %v", err)
	}
	if dir != "/from/config" {
		t.Errorf("DataDir = %q", dir)
	}
}

func TestDataDirDefault(t *testing.T) {
	t.Setenv(EnvDataDir, "")

	dir, err := DataDir(&UserConfig{})
	if err != nil {
		t.Fatalf("DataDir: %v", err)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(home, BaseDirName, IndexDirName)
	if dir != want {
		t.Errorf("DataDir = %q, want %q", dir, want)
	}
}

func TestExpandHome(t *testing.T) {
	t.Setenv(EnvDataDir, "~/beam-data")

	dir, err := DataDir(nil)
	if err != nil {
		t.Fatalf("DataDir: %v", err)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join(home, "beam-data") {
		t.Errorf("DataDir = %q", dir)
	}
}
