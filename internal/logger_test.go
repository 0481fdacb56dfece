package internal

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDiag_Levels(t *testing.T) {
	var buf bytes.Buffer
	diag := NewDiagWriter(&buf, LogLevelInfo)

	diag.Errorf("an error")
	diag.Warnf("a warning")
	diag.Infof("some info")
	diag.Debugf("debug detail")

	out := buf.String()
	for _, want := range []string{"[ERROR] an error", "[WARN] a warning", "[INFO] some info"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "debug detail") {
		t.Errorf("debug message logged at info level:\n%s", out)
	}
}

func TestDiag_VerboseEnablesDebug(t *testing.T) {
	var buf bytes.Buffer
	diag := NewDiagWriter(&buf, LogLevelDebug)

	diag.Debugf("debug detail")
	if !strings.Contains(buf.String(), "[DEBUG] debug detail") {
		t.Errorf("debug message not logged at debug level:\n%s", buf.String())
	}
}

func TestNewDiagFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	diag, err := NewDiagFile(path, false)
	if err != nil {
		t.Fatalf("NewDiagFile() error = %v", err)
	}

	diag.Infof("recorded in the log file")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "recorded in the log file") {
		t.Errorf("log file content = %q", data)
	}
}

func TestNewDiagFile_BadPath(t *testing.T) {
	if _, err := NewDiagFile(filepath.Join(t.TempDir(), "missing", "run.log"), false); err == nil {
		t.Error("NewDiagFile() should fail when the log directory does not exist")
	}
}

func TestDiag_Anomalies(t *testing.T) {
	var buf bytes.Buffer
	diag := NewDiagWriter(&buf, LogLevelError)

	if len(diag.Anomalies()) != 0 {
		t.Fatal("fresh Diag already has anomalies")
	}

	diag.Anomalyf("unknown tag 0x%02x", 0x52)
	diag.Anomalyf("no contact record for %s", "wxid_ghost")

	anomalies := diag.Anomalies()
	if len(anomalies) != 2 {
		t.Fatalf("Anomalies() = %d, want 2", len(anomalies))
	}
	if anomalies[0] != "unknown tag 0x52" {
		t.Errorf("anomaly 0 = %q", anomalies[0])
	}
}
