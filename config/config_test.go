package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `version: 1
base_dir: /tmp/epubcore
logging:
  console:
    level: normal
  file:
    level: debug
    destination: /tmp/test.log
    mode: append
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if cfg.BaseDir != "/tmp/epubcore" {
		t.Errorf("BaseDir = %q, want /tmp/epubcore", cfg.BaseDir)
	}
	if cfg.Logging.ConsoleLogger.Level != "normal" {
		t.Errorf("ConsoleLogger.Level = %q, want normal", cfg.Logging.ConsoleLogger.Level)
	}
	if cfg.Logging.FileLogger.Mode != "append" {
		t.Errorf("FileLogger.Mode = %q, want append", cfg.Logging.FileLogger.Mode)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error loading a missing config file")
	}
}

func TestLoadRejectsMissingRequiredFields(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("logging:\n  console:\n    level: normal\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("expected validation error for missing version/base_dir")
	}
}

func TestLoadRejectsBadEnumValue(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	content := `version: 1
base_dir: /tmp/epubcore
logging:
  console:
    level: extremely-loud
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("expected validation error for an invalid logging level")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default("/var/lib/epubcore")
	if cfg.BaseDir != "/var/lib/epubcore" {
		t.Errorf("BaseDir = %q", cfg.BaseDir)
	}
	if cfg.Logging.ConsoleLogger.Level != "normal" {
		t.Errorf("ConsoleLogger.Level = %q, want normal", cfg.Logging.ConsoleLogger.Level)
	}
}
