// ABOUTME: Tests for configuration loading
// ABOUTME: Covers defaults, environment overrides, .env files and timeout validation

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"OPTIFUSE_API_URL",
		"OPTIFUSE_GITHUB_CLIENT_ID",
		"OPTIFUSE_CONFIG_DIR",
		"OPTIFUSE_TIMEOUT_SECONDS",
		"LOG_LEVEL",
		"LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.APIURL != DefaultAPIURL {
		t.Errorf("Expected default API URL, got %s", cfg.APIURL)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Expected 30s timeout, got %v", cfg.Timeout)
	}
	if cfg.ConfigDir != "/tmp/xdg/optifuse" {
		t.Errorf("Expected XDG config dir, got %s", cfg.ConfigDir)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("Expected warn log level, got %s", cfg.LogLevel)
	}
}

func TestLoad_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPTIFUSE_API_URL", "api.optifuse.dev/")
	t.Setenv("OPTIFUSE_GITHUB_CLIENT_ID", "client-1")
	t.Setenv("OPTIFUSE_CONFIG_DIR", "/var/optifuse")
	t.Setenv("OPTIFUSE_TIMEOUT_SECONDS", "90")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.APIURL != "http://api.optifuse.dev" {
		t.Errorf("Expected normalized URL, got %s", cfg.APIURL)
	}
	if cfg.GitHubClientID != "client-1" {
		t.Errorf("Expected client ID, got %s", cfg.GitHubClientID)
	}
	if cfg.ConfigDir != "/var/optifuse" {
		t.Errorf("Expected config dir override, got %s", cfg.ConfigDir)
	}
	if cfg.Timeout != 90*time.Second {
		t.Errorf("Expected 90s timeout, got %v", cfg.Timeout)
	}
}

func TestLoad_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	clearEnv(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	content := "OPTIFUSE_API_URL=https://from-dotenv.example\nOPTIFUSE_GITHUB_CLIENT_ID=dotenv-client\n"
	if err := os.WriteFile(envFile, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	// godotenv skips variables that are already present, even when empty
	os.Unsetenv("OPTIFUSE_API_URL")
	os.Unsetenv("OPTIFUSE_GITHUB_CLIENT_ID")
	t.Setenv("OPTIFUSE_GITHUB_CLIENT_ID", "env-client")
	t.Cleanup(func() { os.Unsetenv("OPTIFUSE_API_URL") })

	cfg, err := Load(envFile)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.APIURL != "https://from-dotenv.example" {
		t.Errorf("Expected URL from .env, got %s", cfg.APIURL)
	}
	if cfg.GitHubClientID != "env-client" {
		t.Errorf("Expected environment to win over .env, got %s", cfg.GitHubClientID)
	}
}

func TestLoad_InvalidTimeout(t *testing.T) {
	tests := []string{"0", "601", "-5"}
	for _, value := range tests {
		t.Run(value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("OPTIFUSE_TIMEOUT_SECONDS", value)

			if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
				t.Errorf("Expected error for timeout %s", value)
			}
		})
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"https://api.example.com/", "https://api.example.com"},
		{"localhost:8000", "http://localhost:8000"},
		{"  http://x  ", "http://x"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeURL(tt.in); got != tt.want {
			t.Errorf("NormalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
