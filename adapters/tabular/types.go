package tabular

import (
	"strings"

	"imbexp/domain/core"
)

// Frame is a raw table of trimmed string cells keyed by header
type Frame struct {
	Source  string
	Headers []string
	Rows    [][]string
	index   map[string]int
}

// NewFrame builds a frame and its header index
func NewFrame(source string, headers []string, rows [][]string) *Frame {
	f := &Frame{Source: source, Headers: headers, Rows: rows}
	f.reindex()
	return f
}

func (f *Frame) reindex() {
	f.index = make(map[string]int, len(f.Headers))
	for i, h := range f.Headers {
		if _, dup := f.index[h]; !dup {
			f.index[h] = i
		}
	}
}

// Len returns the number of data rows
func (f *Frame) Len() int {
	return len(f.Rows)
}

// HasColumn reports whether the header contains name
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.index[name]
	return ok
}

// RequireColumns fails with ErrMissingColumn listing every absent column
func (f *Frame) RequireColumns(names ...string) error {
	var missing []string
	for _, name := range names {
		if !f.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return core.NewMissingColumnError(f.Source, missing)
	}
	return nil
}

// Cell returns the value of column name in row i; short rows yield ""
func (f *Frame) Cell(i int, name string) string {
	j, ok := f.index[name]
	if !ok || j >= len(f.Rows[i]) {
		return ""
	}
	return f.Rows[i][j]
}

// Filter returns a frame with the rows for which keep returns true
func (f *Frame) Filter(keep func(i int) bool) *Frame {
	rows := make([][]string, 0, len(f.Rows))
	for i, row := range f.Rows {
		if keep(i) {
			rows = append(rows, row)
		}
	}
	return NewFrame(f.Source, f.Headers, rows)
}

// Equals builds a row predicate matching an exact (trimmed, case-sensitive) cell value
func (f *Frame) Equals(name, value string) func(i int) bool {
	value = strings.TrimSpace(value)
	return func(i int) bool {
		return f.Cell(i, name) == value
	}
}
