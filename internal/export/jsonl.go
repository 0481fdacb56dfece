package export

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONLExporter exports tables in JSONL format (one row object per line)
type JSONLExporter struct{}

// Export writes each row as one JSON object keyed by the header columns.
func (e *JSONLExporter) Export(t *Table, w io.Writer) error {
	enc := json.NewEncoder(w)

	for _, row := range t.Rows {
		obj := make(map[string]string, len(t.Header))
		for i, col := range t.Header {
			if i < len(row) {
				obj[col] = row[i]
			}
		}
		if err := enc.Encode(obj); err != nil {
			return fmt.Errorf("failed to encode row: %w", err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
