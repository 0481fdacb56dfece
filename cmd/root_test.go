package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestRootCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{
			name:    "version flag",
			args:    []string{"--version"},
			wantErr: false,
		},
		{
			name:    "help flag",
			args:    []string{"--help"},
			wantErr: false,
		},
		{
			name:    "nonexistent subcommand",
			args:    []string{"nonexistent-command"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rootCmd.SetArgs(tt.args)
			var stdout, stderr bytes.Buffer
			rootCmd.SetOut(&stdout)
			rootCmd.SetErr(&stderr)

			err := rootCmd.Execute()
			if (err != nil) != tt.wantErr {
				t.Errorf("rootCmd.Execute() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	for _, name := range []string{"export", "list", "inspect"} {
		found := false
		for _, sub := range rootCmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestRootCommand_HelpMentionsSubcommands(t *testing.T) {
	rootCmd.SetArgs([]string{"--help"})
	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&bytes.Buffer{})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("rootCmd.Execute() error = %v", err)
	}
	for _, want := range []string{"export", "list", "inspect"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("help output missing %q", want)
		}
	}
}

func TestLoadConfig_NoRoot(t *testing.T) {
	configPath = ""
	rootPath = ""
	defer func() { rootPath = "" }()

	// Only fails on platforms without a default backup location; on
	// macOS/Windows DefaultConfig fills one in.
	cfg, err := loadConfig()
	if err == nil && cfg.Root == "" {
		t.Error("loadConfig() returned empty root without error")
	}
}

func TestLoadConfig_RootOverride(t *testing.T) {
	configPath = ""
	rootPath = "/custom/backups"
	defer func() { rootPath = "" }()

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Root != "/custom/backups" {
		t.Errorf("Root = %q, want /custom/backups", cfg.Root)
	}
}
