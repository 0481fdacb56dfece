package export

import (
	"fmt"
	"io"
)

// Table is one exportable record set: a conversation log, a contact list,
// or a group roster, already flattened to header + rows by the builders in
// tables.go.
type Table struct {
	Name   string // output path relative to the destination, no extension
	Header []string
	Rows   [][]string
}

// Exporter defines the interface for all export formats
type Exporter interface {
	Export(t *Table, w io.Writer) error
	Extension() string
}

// NewExporter creates a new exporter based on format
func NewExporter(format string, bom bool) (Exporter, error) {
	switch format {
	case "csv":
		return &CSVExporter{BOM: bom}, nil
	case "jsonl":
		return &JSONLExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: csv, jsonl)", format)
	}
}
