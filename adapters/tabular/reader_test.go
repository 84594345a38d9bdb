package tabular

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"imbexp/domain/core"
	apperrors "imbexp/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDataReader_ReadCSV(t *testing.T) {
	path := writeFile(t, "data.csv", " Age ,Gender,restenos\n 61,1,0\n\n70,2,1\n")

	frame, err := NewDataReader(path).ReadFrame()
	require.NoError(t, err)

	assert.Equal(t, []string{"Age", "Gender", "restenos"}, frame.Headers)
	assert.Equal(t, 2, frame.Len())
	assert.Equal(t, "61", frame.Cell(0, "Age"))
	assert.Equal(t, "1", frame.Cell(1, "restenos"))
	assert.Equal(t, "", frame.Cell(0, "missing"))
}

func TestDataReader_ReadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.xlsx")
	wb := excelize.NewFile()
	require.NoError(t, wb.SetSheetRow("Sheet1", "A1", &[]interface{}{"Class", "V1"}))
	require.NoError(t, wb.SetSheetRow("Sheet1", "A2", &[]interface{}{0, 0.5}))
	require.NoError(t, wb.SetSheetRow("Sheet1", "A3", &[]interface{}{1, 1.5}))
	require.NoError(t, wb.SaveAs(path))
	require.NoError(t, wb.Close())

	frame, err := NewDataReader(path).ReadFrame()
	require.NoError(t, err)

	assert.Equal(t, []string{"Class", "V1"}, frame.Headers)
	assert.Equal(t, 2, frame.Len())
	assert.Equal(t, "1.5", frame.Cell(1, "V1"))
}

func TestDataReader_MissingFile(t *testing.T) {
	_, err := NewDataReader(filepath.Join(t.TempDir(), "nope.csv")).ReadFrame()
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeIOError, apperrors.GetCode(err))
}

func TestFrame_RequireColumns(t *testing.T) {
	frame := NewFrame("mem", []string{"a", "b"}, nil)
	require.NoError(t, frame.RequireColumns("a", "b"))

	err := frame.RequireColumns("a", "c", "d")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrMissingColumn))
	assert.Contains(t, err.Error(), "[c d]")
}

func TestFrame_Filter(t *testing.T) {
	frame := NewFrame("mem", []string{"g"}, [][]string{{"1"}, {"2"}, {"1"}})
	kept := frame.Filter(frame.Equals("g", "1"))
	assert.Equal(t, 2, kept.Len())
	assert.Equal(t, 3, frame.Len())
}
