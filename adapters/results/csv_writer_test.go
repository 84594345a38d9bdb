package results

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"imbexp/domain/run"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVWriter_HeaderAndRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results", "histology", "dqn.csv")

	w, err := CreateCSV(path)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		require.NoError(t, w.Append(run.Record{Gmean: 0.5, F1: 0.25, Precision: 0.2, Recall: 1.0 / 3.0, TP: i, TN: 10, FP: 4, FN: 2}))
	}
	require.NoError(t, w.Close())
	assert.Equal(t, 3, w.Rows())

	rows := readRows(t, path)
	require.Len(t, rows, 4)
	assert.Equal(t, run.FieldNames, rows[0])
	for _, row := range rows[1:] {
		assert.Len(t, row, 8)
	}
	assert.Equal(t, "2", rows[3][4])

	records, err := ReadRecords(path)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.InDelta(t, 1.0/3.0, records[0].Recall, 1e-12)
	assert.Equal(t, 10, records[2].TN)
}

func TestCSVWriter_TruncatesOnRecreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dqn.csv")

	w, err := CreateCSV(path)
	require.NoError(t, err)
	require.NoError(t, w.Append(run.Record{TP: 1}))
	require.NoError(t, w.Close())

	w, err = CreateCSV(path)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	rows := readRows(t, path)
	require.Len(t, rows, 1)
	assert.Equal(t, run.FieldNames, rows[0])
}

func TestCreateCSV_UnwritableParent(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	_, err := CreateCSV(filepath.Join(blocker, "dqn.csv"))
	assert.Error(t, err)
}
