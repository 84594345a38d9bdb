package dataset

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"imbexp/adapters/tabular"
	"imbexp/domain/core"
	apperrors "imbexp/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var histologyHeaders = []string{"restenos", "Gender", "Hospital", "dateok", "Age", "arteryop", "notes"}

func histologyFrame(rows [][]string) *tabular.Frame {
	return tabular.NewFrame("histology.csv", histologyHeaders, rows)
}

func histologyRows() [][]string {
	return [][]string{
		{"0", "1", "2", "2015-03-01", "61", "1", "a"},
		{"1", "1", "2", "2016-07-15", "70.7", "3", "b"},
		{"-1", "1", "2", "2016-07-15", "55", "2", "c"}, // unknown outcome
		{"2", "1", "2", "2017-01-20", "44", "2", "d"},  // excluded outcome
		{"0", "2", "2", "2017-01-20", "80", "2", "e"},  // other gender
		{"0", "1", "1", "2017-01-20", "80", "2", "f"},  // other hospital
		{"0", "1", "2", "2018-12-31", "49", "2", "g"},
		{"", "1", "2", "2018-12-31", "49", "2", "h"}, // no outcome recorded
		{"1", "1", "2", "1/2/2019", "52", "1", "i"},
	}
}

func TestPrepareHistology_FiltersEveryExcludedRow(t *testing.T) {
	rows := histologyRows()
	data, err := PrepareHistology(histologyFrame(rows), DefaultHistologyOptions())
	require.NoError(t, err)

	excluded := 0
	for _, r := range rows {
		if r[1] != "1" || r[2] != "2" || r[0] == "" || r[0] == "-1" || r[0] == "2" {
			excluded++
		}
	}

	assert.Equal(t, len(rows), data.Summary.InputRows)
	assert.Equal(t, excluded, data.Summary.ExcludedRows)
	assert.Equal(t, len(rows)-excluded, data.Table.Len())
	for _, label := range data.Table.Y {
		assert.NotContains(t, []int{-1, 2}, label)
	}
	assert.Equal(t, []int{0, 1, 0, 1}, data.Table.Y)
	assert.InDelta(t, 1.0, data.Summary.ImbalanceRatio, 1e-12)
	assert.Equal(t, []string{"notes"}, data.Summary.SkippedColumns)
	require.NoError(t, data.Table.Validate())
}

func TestPrepareHistology_NormalizesToUnitInterval(t *testing.T) {
	data, err := PrepareHistology(histologyFrame(histologyRows()), DefaultHistologyOptions())
	require.NoError(t, err)

	for name, values := range data.Normalized {
		lo, hi := values[0], values[0]
		for _, v := range values {
			assert.GreaterOrEqual(t, v, 0.0, name)
			assert.LessOrEqual(t, v, 1.0, name)
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		assert.Equal(t, 0.0, lo, name)
		assert.Equal(t, 1.0, hi, name)
	}

	// Ages 61, 70 (truncated from 70.7), 49, 52 scale over [49, 70].
	assert.InDelta(t, 12.0/21.0, data.Table.X[0][0], 1e-12)
	assert.Equal(t, 1.0, data.Table.X[1][0])
	assert.Equal(t, 0.0, data.Table.X[2][0])
	assert.Contains(t, data.Normalized, "month")
	assert.Contains(t, data.Normalized, "dateok")
}

func TestPrepareHistology_MissingColumns(t *testing.T) {
	frame := tabular.NewFrame("histology.csv", []string{"restenos", "Gender", "Age"}, [][]string{{"0", "1", "50"}})
	_, err := PrepareHistology(frame, DefaultHistologyOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrMissingColumn))
	assert.Equal(t, apperrors.CodeSchemaMismatch, apperrors.GetCode(err))
}

func TestPrepareHistology_BadDate(t *testing.T) {
	rows := [][]string{{"0", "1", "2", "yesterday", "61", "1", "a"}}
	_, err := PrepareHistology(histologyFrame(rows), DefaultHistologyOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidValue))
}

func TestPrepareHistology_NothingLeft(t *testing.T) {
	rows := [][]string{{"0", "2", "2", "2015-03-01", "61", "1", "a"}}
	_, err := PrepareHistology(histologyFrame(rows), DefaultHistologyOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInsufficientData))
}

func TestFixedSplit_Deterministic(t *testing.T) {
	var rows [][]string
	for i := 0; i < 60; i++ {
		label := "0"
		if i%6 == 0 {
			label = "1"
		}
		rows = append(rows, []string{label, "1", "2", "2015-03-01", fmt.Sprint(40 + i), fmt.Sprint(i % 4), "x"})
	}
	data, err := PrepareHistology(histologyFrame(rows), DefaultHistologyOptions())
	require.NoError(t, err)

	train1, test1, err := FixedSplit(data.Table, 0.2, 42)
	require.NoError(t, err)
	train2, test2, err := FixedSplit(data.Table, 0.2, 42)
	require.NoError(t, err)

	assert.Equal(t, train1, train2)
	assert.Equal(t, test1, test2)
	assert.Equal(t, 12, test1.Len())
	assert.Equal(t, 48, train1.Len())

	minority := 0
	for _, y := range test1.Y {
		minority += y
	}
	assert.Equal(t, 2, minority, "stratification keeps the 1-in-6 share")

	_, other, err := FixedSplit(data.Table, 0.2, 7)
	require.NoError(t, err)
	assert.NotEqual(t, test1, other)
}

func TestParseDate(t *testing.T) {
	for _, raw := range []string{"2016-07-15", "2016-07-15 08:30:00", "7/15/2016", "2016/07/15"} {
		d, ok := parseDate(raw)
		require.True(t, ok, raw)
		assert.Equal(t, 2016, d.Year(), raw)
		assert.Equal(t, 7, int(d.Month()), raw)
	}
	_, ok := parseDate(strings.Repeat("x", 3))
	assert.False(t, ok)
}
