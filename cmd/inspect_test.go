package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/wxbackup/wechat-export/internal"
	"github.com/wxbackup/wechat-export/testutil"
)

func TestInspectCommand_SingleManifest(t *testing.T) {
	manifest := testutil.BuildManifest(
		testutil.ManifestRecord{Domain: internal.WeChatDomain, RelativePath: "Documents/MM.sqlite"},
	)
	path := filepath.Join(t.TempDir(), "Manifest.mbdb")
	if err := os.WriteFile(path, manifest, 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if err := runCommand(t, "inspect", "--manifest", path); err != nil {
		t.Fatalf("inspect error = %v", err)
	}
}

func TestInspectCommand_BackupRoot(t *testing.T) {
	root := t.TempDir()
	createTestBackup(t, root)

	if err := runCommand(t, "inspect", "--root", root, "--domain", internal.WeChatDomain); err != nil {
		t.Fatalf("inspect error = %v", err)
	}
}

func TestInspectCommand_MissingRoot(t *testing.T) {
	if err := runCommand(t, "inspect", "--root", filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("inspect with missing root should error")
	}
}
