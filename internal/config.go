package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the exporter's file configuration.
type Config struct {
	Root     string `yaml:"root"`     // backup root directory
	Dest     string `yaml:"dest"`     // export destination
	LogFile  string `yaml:"log"`      // optional log file
	Compress bool   `yaml:"compress"` // gzip-compress CSV output
	BOM      bool   `yaml:"bom"`      // prefix CSV files with a UTF-8 BOM
}

// DefaultConfig returns the configuration used when no config file is
// given: the platform's standard backup location and ./exports.
func DefaultConfig() *Config {
	return &Config{
		Root: DefaultBackupRoot(),
		Dest: "./exports",
	}
}

// DefaultBackupRoot returns the platform's standard device backup
// location, or empty when the platform has none.
func DefaultBackupRoot() string {
	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		return filepath.Join(home, "Library/Application Support/MobileSync/Backup")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return ""
		}
		return filepath.Join(appData, "Apple Computer", "MobileSync", "Backup")
	default:
		return ""
	}
}

// LoadConfig reads a YAML config file, applying defaults for unset keys
// and expanding environment variables and "~" in paths.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.Root = ExpandPath(cfg.Root)
	cfg.Dest = ExpandPath(cfg.Dest)
	cfg.LogFile = ExpandPath(cfg.LogFile)
	return cfg, nil
}

// ExpandPath expands environment variables and a leading "~" in a path.
func ExpandPath(p string) string {
	p = os.ExpandEnv(p)
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
