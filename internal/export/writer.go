package export

import (
	"compress/gzip"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wxbackup/wechat-export/internal"
)

// FileWriter writes tables under a destination directory, optionally
// gzip-compressing each file.
type FileWriter struct {
	Dir      string
	Compress bool
	Exporter Exporter
}

// Write serializes one table to <Dir>/<Name>.<ext>[.gz], creating parent
// directories as needed, and returns the path written.
func (fw *FileWriter) Write(t *Table) (string, error) {
	path := filepath.Join(fw.Dir, t.Name+"."+fw.Exporter.Extension())
	if fw.Compress {
		path += ".gz"
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", &internal.ExportError{Format: fw.Exporter.Extension(), Path: path, Err: err}
	}

	file, err := os.Create(path)
	if err != nil {
		return "", &internal.ExportError{Format: fw.Exporter.Extension(), Path: path, Err: err}
	}

	werr := func() error {
		if !fw.Compress {
			return fw.Exporter.Export(t, file)
		}
		gz := gzip.NewWriter(file)
		if err := fw.Exporter.Export(t, gz); err != nil {
			_ = gz.Close()
			return err
		}
		return gz.Close()
	}()

	if cerr := file.Close(); werr == nil && cerr != nil {
		werr = fmt.Errorf("failed to close file: %w", cerr)
	}
	if werr != nil {
		return "", &internal.ExportError{Format: fw.Exporter.Extension(), Path: path, Err: werr}
	}
	return path, nil
}
