package internal

import "fmt"

// FormatError indicates input that does not match the expected magic or
// structure. Fatal for the backup being processed.
type FormatError struct {
	Path string
	Msg  string
}

func (e *FormatError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("format error: %s", e.Msg)
	}
	return fmt.Sprintf("format error: %s: %s", e.Path, e.Msg)
}

// TruncatedDataError indicates a length prefix or fixed-width field that
// would read past the end of the buffer. Fatal for that buffer; partial
// records are never emitted.
type TruncatedDataError struct {
	Offset int
	Need   int
	Have   int
}

func (e *TruncatedDataError) Error() string {
	return fmt.Sprintf("truncated data: need %d bytes at offset %d, %d remain", e.Need, e.Offset, e.Have)
}

// NotFoundError indicates a file the pipeline expected to exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found: %s", e.Path)
}

// UnknownDirectionError indicates a message direction code outside the
// two-value enumeration. Fatal for the enclosing chat table: there is no
// degraded value that would not mislabel the message.
type UnknownDirectionError struct {
	Code int
}

func (e *UnknownDirectionError) Error() string {
	return fmt.Sprintf("unknown message direction code: %d", e.Code)
}

// ExportError represents errors while writing output files
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

func truncated(offset, need, have int) error {
	return &TruncatedDataError{Offset: offset, Need: need, Have: have}
}
