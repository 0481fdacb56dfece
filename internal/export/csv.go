package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

// utf8BOM is prepended when spreadsheet tools need the byte-order mark to
// pick up UTF-8.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVExporter exports tables in CSV format
type CSVExporter struct {
	BOM bool
}

// Export writes the table as CSV, header first.
func (e *CSVExporter) Export(t *Table, w io.Writer) error {
	if e.BOM {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

// Extension returns the file extension for this format
func (e *CSVExporter) Extension() string {
	return "csv"
}
