package results

import (
	"encoding/csv"
	"os"
	"path/filepath"

	"imbexp/domain/run"
	"imbexp/internal/errors"
	"imbexp/ports"

	"github.com/gocarina/gocsv"
)

var _ ports.ResultSink = (*CSVWriter)(nil)

// CSVWriter appends run records to a CSV file that it owns for its whole lifetime
type CSVWriter struct {
	path   string
	file   *os.File
	writer *csv.Writer
	rows   int
}

// CreateCSV truncates (or creates) path, creating parent directories, and writes the header
func CreateCSV(path string) (*CSVWriter, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.IOError("failed to create results directory", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, errors.IOError("failed to create results file", err)
	}

	w := &CSVWriter{path: path, file: file, writer: csv.NewWriter(file)}
	if err := w.writer.Write(run.FieldNames); err != nil {
		file.Close()
		return nil, errors.IOError("failed to write results header", err)
	}
	if err := w.flush(); err != nil {
		file.Close()
		return nil, err
	}
	return w, nil
}

// Append writes one record and flushes it to disk
func (w *CSVWriter) Append(rec run.Record) error {
	records := []run.Record{rec}
	if err := gocsv.MarshalCSVWithoutHeaders(&records, gocsv.NewSafeCSVWriter(w.writer)); err != nil {
		return errors.IOError("failed to write results row", err)
	}
	if err := w.flush(); err != nil {
		return err
	}
	w.rows++
	return nil
}

// Rows returns how many records were appended
func (w *CSVWriter) Rows() int {
	return w.rows
}

// Path returns the output file path
func (w *CSVWriter) Path() string {
	return w.path
}

// Close flushes pending output and closes the file
func (w *CSVWriter) Close() error {
	flushErr := w.flush()
	if err := w.file.Close(); err != nil && flushErr == nil {
		return errors.IOError("failed to close results file", err)
	}
	return flushErr
}

func (w *CSVWriter) flush() error {
	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		return errors.IOError("failed to flush results file", err)
	}
	return w.file.Sync()
}

// ReadRecords loads every record from a results file
func ReadRecords(path string) ([]run.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.IOError("failed to open results file", err)
	}
	defer f.Close()

	var records []run.Record
	if err := gocsv.UnmarshalFile(f, &records); err != nil {
		return nil, errors.IOError("failed to parse results file", err)
	}
	return records, nil
}
