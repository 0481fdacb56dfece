package internal

import (
	"fmt"
	"io"
	"log"
	"os"
)

// LogLevel represents the logging level
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

// Diag is the diagnostics sink passed into every component. It carries a
// leveled logger plus an accumulator for non-fatal anomalies (unknown TLV
// tags, lookup misses) so a run can report them at the end.
type Diag struct {
	level     LogLevel
	logger    *log.Logger
	anomalies []string
}

// NewDiag creates a diagnostics sink writing to stderr.
func NewDiag(verbose bool) *Diag {
	level := LogLevelInfo
	if verbose {
		level = LogLevelDebug
	}
	return &Diag{
		level:  level,
		logger: log.New(os.Stderr, "", log.LstdFlags),
	}
}

// NewDiagFile creates a diagnostics sink writing to stderr and, when path
// is non-empty, appending to the named log file as well. The file stays
// open for the life of the process.
func NewDiagFile(path string, verbose bool) (*Diag, error) {
	level := LogLevelInfo
	if verbose {
		level = LogLevelDebug
	}
	w := io.Writer(os.Stderr)
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = io.MultiWriter(os.Stderr, f)
	}
	return &Diag{
		level:  level,
		logger: log.New(w, "", log.LstdFlags),
	}, nil
}

// NewDiagWriter creates a diagnostics sink writing to w. Used in tests.
func NewDiagWriter(w io.Writer, level LogLevel) *Diag {
	return &Diag{
		level:  level,
		logger: log.New(w, "", 0),
	}
}

func (d *Diag) Errorf(format string, args ...interface{}) {
	if d.level >= LogLevelError {
		d.logger.Printf("[ERROR] "+format, args...)
	}
}

func (d *Diag) Warnf(format string, args ...interface{}) {
	if d.level >= LogLevelWarn {
		d.logger.Printf("[WARN] "+format, args...)
	}
}

func (d *Diag) Infof(format string, args ...interface{}) {
	if d.level >= LogLevelInfo {
		d.logger.Printf("[INFO] "+format, args...)
	}
}

func (d *Diag) Debugf(format string, args ...interface{}) {
	if d.level >= LogLevelDebug {
		d.logger.Printf("[DEBUG] "+format, args...)
	}
}

// Anomalyf records a non-fatal anomaly and logs it at debug level. The
// pipeline never halts on an anomaly.
func (d *Diag) Anomalyf(format string, args ...interface{}) {
	d.anomalies = append(d.anomalies, fmt.Sprintf(format, args...))
	d.Debugf(format, args...)
}

// Anomalies returns all anomalies recorded so far.
func (d *Diag) Anomalies() []string {
	return d.anomalies
}
