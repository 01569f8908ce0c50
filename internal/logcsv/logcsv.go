// Package logcsv writes the per-phase log record the reasoner driver
// emits on its log channel: one CSV row per phase per worker.
package logcsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"
)

// Record is one phase-boundary log entry: the ABox file this run
// processed, the phase's wall-clock latency, how many triples were added
// and removed, and which worker reported it.
type Record struct {
	File    string
	Latency time.Duration
	Added   int
	Removed int
	Worker  int
}

// Writer appends Records to an underlying CSV stream, writing the header
// exactly once.
type Writer struct {
	w           *csv.Writer
	wroteHeader bool
}

// NewWriter wraps w, matching §6's exact header:
// file,latency,added,removed,worker.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: csv.NewWriter(w)}
}

// Create opens (truncating) the log file at path using the filename
// pattern from §6: {abox_stem}_{expressivity}_{batch_size}_{workers}_{unix_millis}.csv.
func Create(dir, aboxStem, expressivity string, batchSize, workers int, unixMillis int64) (*Writer, string, error) {
	name := fmt.Sprintf("%s_%s_%d_%d_%d.csv", aboxStem, expressivity, batchSize, workers, unixMillis)
	path := name
	if dir != "" {
		path = dir + string(os.PathSeparator) + name
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, "", fmt.Errorf("logcsv: create %s: %w", path, err)
	}
	return &Writer{w: csv.NewWriter(f)}, path, nil
}

// Write appends one record, writing the header first if this is the
// first call.
func (w *Writer) Write(r Record) error {
	if !w.wroteHeader {
		if err := w.w.Write([]string{"file", "latency", "added", "removed", "worker"}); err != nil {
			return fmt.Errorf("logcsv: write header: %w", err)
		}
		w.wroteHeader = true
	}
	row := []string{
		r.File,
		r.Latency.String(),
		fmt.Sprintf("%d", r.Added),
		fmt.Sprintf("%d", r.Removed),
		fmt.Sprintf("%d", r.Worker),
	}
	if err := w.w.Write(row); err != nil {
		return fmt.Errorf("logcsv: write row: %w", err)
	}
	return nil
}

// Flush flushes any buffered rows to the underlying writer.
func (w *Writer) Flush() error {
	w.w.Flush()
	return w.w.Error()
}
