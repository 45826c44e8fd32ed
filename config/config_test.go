package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	configContent := `
server:
  port: 9090
  allow_origin: "http://localhost:5173"
log:
  level: "debug"
  format: "json"
gemini:
  api_key: "file-key"
  model: "gemini-test-pro"
  flash_model: "gemini-test-flash"
database:
  path: "test.db"
analysis:
  workers: 2
  queue_size: 8
auth:
  jwt_secret: "test-secret"
  token_expire_hours: 48
users:
  - username: "testuser"
    password: "testpass"
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(configContent), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Server.AllowOrigin != "http://localhost:5173" {
		t.Errorf("Expected allow_origin http://localhost:5173, got %s", cfg.Server.AllowOrigin)
	}
	if cfg.Gemini.Model != "gemini-test-pro" {
		t.Errorf("Expected model gemini-test-pro, got %s", cfg.Gemini.Model)
	}
	if cfg.Gemini.FlashModel != "gemini-test-flash" {
		t.Errorf("Expected flash model gemini-test-flash, got %s", cfg.Gemini.FlashModel)
	}
	if cfg.Database.Path != "test.db" {
		t.Errorf("Expected database path test.db, got %s", cfg.Database.Path)
	}
	if cfg.Analysis.Workers != 2 {
		t.Errorf("Expected 2 workers, got %d", cfg.Analysis.Workers)
	}
	if cfg.Auth.TokenExpireHours != 48 {
		t.Errorf("Expected token_expire_hours 48, got %d", cfg.Auth.TokenExpireHours)
	}
	if !cfg.AuthEnabled() {
		t.Error("Expected auth to be enabled with secret and users set")
	}
	if cfg.FindUser("testuser") == nil {
		t.Error("Expected to find testuser")
	}
	if cfg.FindUser("nobody") != nil {
		t.Error("Expected nil for unknown user")
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "no-such.yaml"))
	if err != nil {
		t.Fatalf("Expected missing config file to be tolerated, got %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Server.AllowOrigin != "http://localhost:3000" {
		t.Errorf("Expected default allow_origin, got %s", cfg.Server.AllowOrigin)
	}
	if cfg.Gemini.Model != "gemini-1.5-pro-latest" {
		t.Errorf("Expected default model, got %s", cfg.Gemini.Model)
	}
	if cfg.Analysis.Workers != 4 || cfg.Analysis.QueueSize != 64 {
		t.Errorf("Expected default worker pool sizing, got %d/%d", cfg.Analysis.Workers, cfg.Analysis.QueueSize)
	}
	if cfg.AuthEnabled() {
		t.Error("Expected auth disabled by default")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "env-key")
	t.Setenv("GEMINI_MODEL", "env-model")
	t.Setenv("PORT", "7000")
	t.Setenv("DATABASE_PATH", "/tmp/env.db")

	configContent := `
gemini:
  api_key: "file-key"
  model: "file-model"
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(configContent), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Gemini.APIKey != "env-key" {
		t.Errorf("Expected env to override api key, got %s", cfg.Gemini.APIKey)
	}
	if cfg.Gemini.Model != "env-model" {
		t.Errorf("Expected env to override model, got %s", cfg.Gemini.Model)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("Expected env port 7000, got %d", cfg.Server.Port)
	}
	if cfg.Database.Path != "/tmp/env.db" {
		t.Errorf("Expected env database path, got %s", cfg.Database.Path)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [not a map"), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Expected error for invalid yaml")
	}
}
