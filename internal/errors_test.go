package internal

import (
	"errors"
	"strings"
	"testing"
)

func TestFormatError(t *testing.T) {
	err := &FormatError{Msg: "missing mbdb magic tag"}
	if !strings.Contains(err.Error(), "missing mbdb magic tag") {
		t.Errorf("Error() = %q", err.Error())
	}

	withPath := &FormatError{Path: "/backups/Manifest.db", Msg: "bad header"}
	if !strings.Contains(withPath.Error(), "/backups/Manifest.db") {
		t.Errorf("Error() should contain path, got %q", withPath.Error())
	}
}

func TestTruncatedDataError(t *testing.T) {
	err := truncated(40, 8, 3)

	var trunc *TruncatedDataError
	if !errors.As(err, &trunc) {
		t.Fatalf("truncated() = %T, want TruncatedDataError", err)
	}
	if trunc.Offset != 40 || trunc.Need != 8 || trunc.Have != 3 {
		t.Errorf("fields = %+v", trunc)
	}
	for _, want := range []string{"40", "8", "3"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Error() = %q, missing %q", err.Error(), want)
		}
	}
}

func TestNotFoundError(t *testing.T) {
	err := &NotFoundError{Path: "/backups/device1/Manifest.db"}
	if !strings.Contains(err.Error(), "/backups/device1/Manifest.db") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestUnknownDirectionError(t *testing.T) {
	err := &UnknownDirectionError{Code: 5}
	if !strings.Contains(err.Error(), "5") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestExportError_Unwrap(t *testing.T) {
	inner := errors.New("disk full")
	err := &ExportError{Format: "csv", Path: "/out/0/Alice.csv", Err: inner}

	if !errors.Is(err, inner) {
		t.Error("ExportError should unwrap to the inner error")
	}
	for _, want := range []string{"csv", "/out/0/Alice.csv", "disk full"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Error() = %q, missing %q", err.Error(), want)
		}
	}
}
