package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ServerURL != "http://localhost:8080" {
		t.Fatalf("server url = %q", cfg.ServerURL)
	}
	if cfg.ScreenWidth != 1280 || cfg.ScreenHeight != 720 {
		t.Fatalf("screen = %dx%d", cfg.ScreenWidth, cfg.ScreenHeight)
	}
	if cfg.SlogLevel() != slog.LevelInfo {
		t.Fatalf("level = %v", cfg.SlogLevel())
	}
}

func TestFileThenEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stampwalk.yaml")
	body := "server_url: http://event.example\nstart_floor: \"#Floor2\"\nlog_level: DEBUG\n"
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("STAMPWALK_SERVER_URL", "http://env.example")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ServerURL != "http://env.example" {
		t.Fatalf("env did not override file: %q", cfg.ServerURL)
	}
	if cfg.StartFloor != "#Floor2" {
		t.Fatalf("start floor = %q", cfg.StartFloor)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Fatalf("level = %v", cfg.SlogLevel())
	}
}
