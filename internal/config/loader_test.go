package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.APIURL != DefaultAPIURL {
		t.Errorf("Expected api_url %q, got %q", DefaultAPIURL, cfg.APIURL)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Expected 30s timeout, got %s", cfg.Timeout)
	}
	if cfg.SearchDebounce != 300*time.Millisecond {
		t.Errorf("Expected 300ms debounce, got %s", cfg.SearchDebounce)
	}
	if !cfg.Animations {
		t.Error("Expected animations to be enabled by default")
	}
	if filepath.Base(cfg.DataDir) != ".taskhub" {
		t.Errorf("Unexpected data dir %q", cfg.DataDir)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Defaults should validate: %v", err)
	}
}

func TestWriteDefaultRoundTrips(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()

	path := filepath.Join(tmpDir, "nested", "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read config: %v", err)
	}
	if !strings.Contains(string(content), "api_url: "+DefaultAPIURL) {
		t.Errorf("Expected api_url in written config:\n%s", content)
	}
	if !strings.Contains(string(content), "timeout: 30s") {
		t.Errorf("Expected a readable duration in written config:\n%s", content)
	}

	cfg, err := LoadFrom(path, "")
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.Timeout != 30*time.Second || cfg.SearchDebounce != 300*time.Millisecond {
		t.Errorf("Durations did not round-trip: %+v", cfg)
	}
}

func TestLoadFromFile(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()

	path := filepath.Join(tmpDir, "config.yaml")
	content := `api_url: http://localhost:5150/api
timeout: 5s
animations: false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path, "")
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.APIURL != "http://localhost:5150/api" {
		t.Errorf("Expected file api_url, got %q", cfg.APIURL)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Expected 5s, got %s", cfg.Timeout)
	}
	if cfg.Animations {
		t.Error("Expected animations disabled")
	}
	if cfg.SearchDebounce != 300*time.Millisecond {
		t.Errorf("Unset keys should keep defaults, got %s", cfg.SearchDebounce)
	}
}

func TestLoadFromMissingFiles(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()

	cfg, err := LoadFrom(filepath.Join(tmpDir, "nope.yaml"), filepath.Join(tmpDir, ".env"))
	if err != nil {
		t.Fatalf("Missing files should be skipped: %v", err)
	}
	if cfg.APIURL != DefaultAPIURL {
		t.Errorf("Expected defaults, got %q", cfg.APIURL)
	}
}

func TestLoadFromInvalidYAML(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()

	path := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(path, []byte("api_url: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path, ""); err == nil {
		t.Error("Expected an error for invalid YAML")
	}
}

// Not parallel: mutates the process environment
func TestEnvOverridesFile(t *testing.T) {
	tmpDir := t.TempDir()

	path := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(path, []byte("api_url: http://file.example/api\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TASKHUB_API_URL", "http://env.example/api")
	t.Setenv("TASKHUB_SEARCH_DEBOUNCE", "1s")

	cfg, err := LoadFrom(path, "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIURL != "http://env.example/api" {
		t.Errorf("Expected env to win, got %q", cfg.APIURL)
	}
	if cfg.SearchDebounce != time.Second {
		t.Errorf("Expected 1s debounce, got %s", cfg.SearchDebounce)
	}
}

// Not parallel: godotenv writes to the process environment
func TestDotEnv(t *testing.T) {
	tmpDir := t.TempDir()

	envPath := filepath.Join(tmpDir, ".env")
	if err := os.WriteFile(envPath, []byte("TASKHUB_TIMEOUT=12s\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// Registers cleanup so the value loaded from .env does not leak
	t.Setenv("TASKHUB_TIMEOUT", "")
	os.Unsetenv("TASKHUB_TIMEOUT")

	cfg, err := LoadFrom("", envPath)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Timeout != 12*time.Second {
		t.Errorf("Expected 12s from .env, got %s", cfg.Timeout)
	}
}

func TestApplyAndValidate(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Apply(Overrides{APIURL: "http://localhost:5150/api"})
	if cfg.APIURL != "http://localhost:5150/api" {
		t.Errorf("Override not applied: %q", cfg.APIURL)
	}
	if filepath.Base(cfg.DataDir) != ".taskhub" {
		t.Error("Empty override must not clear data_dir")
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad scheme", func(c *Config) { c.APIURL = "ftp://x/api" }},
		{"no host", func(c *Config) { c.APIURL = "http:///api" }},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }},
		{"negative debounce", func(c *Config) { c.SearchDebounce = -time.Second }},
		{"empty data dir", func(c *Config) { c.DataDir = " " }},
	}
	for _, tt := range tests {
		c := DefaultConfig()
		tt.mutate(c)
		if err := c.Validate(); err == nil {
			t.Errorf("%s: expected a validation error", tt.name)
		}
	}
}

func TestExpandHome(t *testing.T) {
	t.Parallel()

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := ExpandHome("~/data"); got != filepath.Join(home, "data") {
		t.Errorf("Unexpected expansion %q", got)
	}
	if got := ExpandHome("/abs/data"); got != "/abs/data" {
		t.Errorf("Absolute paths must be untouched, got %q", got)
	}
}
