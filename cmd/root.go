package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wxbackup/wechat-export/internal"
)

var (
	verbose    bool
	configPath string
	rootPath   string
	version    string = "dev"
	commit     string = "unknown"
	date       string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "wechat-export",
	Short: "Extract and export WeChat chat history from device backups",
	Long: `A CLI tool to extract WeChat chat history from iTunes/Finder device backups.

The tool decodes the backup manifest (binary Manifest.mbdb or relational
Manifest.db), locates WeChat's embedded SQLite databases, decodes the
contact, profile and group blobs, reconstructs per-conversation message
logs, and exports everything as CSV or JSONL.

Quick Start:
  wechat-export list                      # List backups and conversations
  wechat-export export --out ./exports    # Export everything as CSV
  wechat-export inspect                   # Dump manifest records

Encrypted backups are not supported.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&rootPath, "root", "", "Backup root directory (overrides config and platform default)")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// loadConfig resolves the effective configuration from the config file (if
// given), platform defaults, and command-line overrides.
func loadConfig() (*internal.Config, error) {
	cfg := internal.DefaultConfig()
	if configPath != "" {
		loaded, err := internal.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if rootPath != "" {
		cfg.Root = internal.ExpandPath(rootPath)
	}
	if cfg.Root == "" {
		return nil, fmt.Errorf("no backup root configured (set --root or the root config key)")
	}
	return cfg, nil
}
