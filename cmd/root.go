// ABOUTME: Root command for the optifuse CLI
// ABOUTME: Handles global flags, configuration and logging setup

package cmd

import (
	"fmt"

	"github.com/optifuse/optifuse-cli/internal/config"
	"github.com/optifuse/optifuse-cli/internal/logger"
	"github.com/spf13/cobra"
)

var (
	apiURL         string
	jsonOutput     bool
	configDir      string
	timeoutSeconds int
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "optifuse",
	Short: "CLI for the Optifuse serverless optimizer",
	Long: `optifuse is a command-line interface for Optifuse.

It signs in with GitHub, fetches a repository's serverless.yml, runs static
optimization or live fusion simulations, and manages the AWS role Optifuse
uses to read X-Ray and CloudWatch Logs data.

Environment Variables:
  OPTIFUSE_API_URL           Backend API URL (default: http://localhost:8000)
  OPTIFUSE_GITHUB_CLIENT_ID  GitHub OAuth client ID used by login
  OPTIFUSE_CONFIG_DIR        Session and log directory (default: ~/.config/optifuse)
  OPTIFUSE_TIMEOUT_SECONDS   Request timeout in seconds (default: 30)
  LOG_LEVEL, LOG_FORMAT      Logging level and format (default: warn, text)`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Name() != "ui" {
			logger.Init(cfg.LogLevel, cfg.LogFormat)
		}
		return nil
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides OPTIFUSE_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Directory for the session file and logs (overrides OPTIFUSE_CONFIG_DIR)")
	rootCmd.PersistentFlags().IntVar(&timeoutSeconds, "timeout", 0, "Request timeout in seconds (overrides OPTIFUSE_TIMEOUT_SECONDS)")
}

// loadConfig reads the environment and applies flag overrides.
// Priority: flag, environment, .env, default.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.APIURL = config.NormalizeURL(apiURL)
	}
	if configDir != "" {
		cfg.ConfigDir = configDir
	}
	if timeoutSeconds != 0 {
		if err := config.ValidateTimeout(timeoutSeconds); err != nil {
			return nil, fmt.Errorf("--timeout %w", err)
		}
		cfg.Timeout = config.Seconds(timeoutSeconds)
	}
	return cfg, nil
}

// GetAPIURL returns the API URL from flag, env, or default (in priority order)
func GetAPIURL() string {
	cfg, err := loadConfig()
	if err != nil {
		if apiURL != "" {
			return config.NormalizeURL(apiURL)
		}
		return config.DefaultAPIURL
	}
	return cfg.APIURL
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}
