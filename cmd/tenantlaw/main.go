package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/tenantlaw/internal/common"
)

var (
	// Command-line flags
	configFiles  []string // Multiple --config flags supported, later files override earlier ones
	providerFlag string

	// Global state
	config *common.Config
	logger arbor.ILogger
)

var rootCmd = &cobra.Command{
	Use:           "tenantlaw",
	Short:         "Ontario residential tenancy assistant",
	Long:          `Answers tenancy questions and reviews lease agreements against Ontario residential tenancy law.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// version needs no configuration
		if cmd.Name() == versionCmd.Name() {
			return nil
		}
		return loadConfig(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().StringArrayVarP(&configFiles, "config", "c", nil, "Configuration file path (can be specified multiple times)")
	rootCmd.PersistentFlags().StringVar(&providerFlag, "provider", "", "LLM provider: openai, groq, anthropic, gemini (overrides config)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(splitCmd)
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(versionCmd)
}

// Startup sequence (REQUIRED ORDER):
// 1. Load .env (never overrides the real environment)
// 2. Load config (defaults -> file1 -> file2 -> ... -> env)
// 3. Apply CLI overrides (highest priority)
// 4. Validate
// 5. Initialize logger
func loadConfig(cmd *cobra.Command) error {
	common.LoadDotEnv()

	// Auto-discover config file if not specified
	if len(configFiles) == 0 {
		if _, err := os.Stat("tenantlaw.toml"); err == nil {
			configFiles = append(configFiles, "tenantlaw.toml")
		} else if _, err := os.Stat("deployments/local/tenantlaw.toml"); err == nil {
			configFiles = append(configFiles, "deployments/local/tenantlaw.toml")
		}
	}

	var err error
	config, err = common.LoadFromFiles(configFiles...)
	if err != nil {
		return err
	}

	port, host := 0, ""
	if cmd.Name() == serveCmd.Name() {
		port, host = servePort, serveHost
	}
	common.ApplyFlagOverrides(config, port, host, providerFlag)

	if err := config.Validate(); err != nil {
		return err
	}

	logger = common.InitLogger(config)

	logger.Debug().
		Strs("config_files", configFiles).
		Str("provider", string(config.LLM.Provider)).
		Str("log_level", config.Logging.Level).
		Strs("log_output", config.Logging.Output).
		Str("temp_dir", config.Documents.TempDir).
		Msg("Resolved configuration (sanitized)")

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
