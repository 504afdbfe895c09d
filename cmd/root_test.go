// ABOUTME: Tests for the root command and global flag handling
// ABOUTME: Verifies environment variable and flag configuration

package cmd

import (
	"testing"
	"time"
)

func TestGetAPIURL_Default(t *testing.T) {
	t.Setenv("OPTIFUSE_API_URL", "")
	apiURL = "" // Reset flag

	url := GetAPIURL()
	if url != "http://localhost:8000" {
		t.Errorf("expected default URL http://localhost:8000, got %s", url)
	}
}

func TestGetAPIURL_FromEnv(t *testing.T) {
	t.Setenv("OPTIFUSE_API_URL", "http://backend.example.com/")
	apiURL = "" // Reset flag

	url := GetAPIURL()
	if url != "http://backend.example.com" {
		t.Errorf("expected http://backend.example.com, got %s", url)
	}
}

func TestGetAPIURL_FlagOverridesEnv(t *testing.T) {
	t.Setenv("OPTIFUSE_API_URL", "http://backend.example.com")
	apiURL = "flag-override.example.com"
	defer func() { apiURL = "" }()

	url := GetAPIURL()
	if url != "http://flag-override.example.com" {
		t.Errorf("expected flag to override env, got %s", url)
	}
}

func TestJSONOutput(t *testing.T) {
	jsonOutput = true
	defer func() { jsonOutput = false }()

	if !IsJSONOutput() {
		t.Error("expected IsJSONOutput to return true")
	}
}

func TestLoadConfig_FlagOverrides(t *testing.T) {
	t.Setenv("OPTIFUSE_TIMEOUT_SECONDS", "")
	dir := t.TempDir()
	configDir = dir
	timeoutSeconds = 5
	defer func() {
		configDir = ""
		timeoutSeconds = 0
	}()

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ConfigDir != dir {
		t.Errorf("expected config dir %s, got %s", dir, cfg.ConfigDir)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %v", cfg.Timeout)
	}
}

func TestLoadConfig_InvalidTimeoutFlag(t *testing.T) {
	timeoutSeconds = -3
	defer func() { timeoutSeconds = 0 }()

	if _, err := loadConfig(); err == nil {
		t.Error("expected error for negative --timeout")
	}
}
