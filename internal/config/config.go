// ABOUTME: Configuration loader for the optifuse CLI
// ABOUTME: Loads settings from .env and environment variables with defaults

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultAPIURL         = "http://localhost:8000"
	DefaultTimeoutSeconds = 30
	maxTimeoutSeconds     = 600
)

type Config struct {
	// Backend
	APIURL  string
	Timeout time.Duration

	// GitHub OAuth app used to build the authorize URL for login
	GitHubClientID string

	// Local state
	ConfigDir string

	// Logging
	LogLevel  string // debug, info, warn, error (default: warn)
	LogFormat string // text, json (default: text)
}

// Load reads envFiles (default .env) into the environment without overriding
// variables that are already set, then builds the configuration.
// A missing env file is not an error.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	cfg := &Config{
		APIURL:         ensureScheme(strings.TrimRight(getEnv("OPTIFUSE_API_URL", DefaultAPIURL), "/")),
		GitHubClientID: os.Getenv("OPTIFUSE_GITHUB_CLIENT_ID"),
		ConfigDir:      getEnv("OPTIFUSE_CONFIG_DIR", DefaultConfigDir()),
		LogLevel:       getEnv("LOG_LEVEL", "warn"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
	}

	seconds := getEnvInt("OPTIFUSE_TIMEOUT_SECONDS", DefaultTimeoutSeconds)
	if err := ValidateTimeout(seconds); err != nil {
		return nil, fmt.Errorf("OPTIFUSE_TIMEOUT_SECONDS %w", err)
	}
	cfg.Timeout = Seconds(seconds)

	return cfg, nil
}

// Seconds converts a whole number of seconds to a duration
func Seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

// ValidateTimeout checks a request timeout in seconds
func ValidateTimeout(seconds int) error {
	if seconds < 1 || seconds > maxTimeoutSeconds {
		return fmt.Errorf("must be between 1 and %d, got %d", maxTimeoutSeconds, seconds)
	}
	return nil
}

// DefaultConfigDir returns the default config directory following XDG spec
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "optifuse")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "optifuse")
}

// NormalizeURL trims trailing slashes and adds a scheme when missing
func NormalizeURL(url string) string {
	return ensureScheme(strings.TrimRight(strings.TrimSpace(url), "/"))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// ensureScheme adds http:// prefix if the URL has no scheme
func ensureScheme(url string) string {
	if url == "" {
		return url
	}
	if !strings.Contains(url, "://") {
		return "http://" + url
	}
	return url
}
