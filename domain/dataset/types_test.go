package dataset

import (
	"errors"
	"testing"

	"imbexp/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable() Table {
	return Table{
		Features: []string{"a", "b"},
		X:        [][]float64{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 5}},
		Y:        []int{0, 1, 2, 0, -1},
	}
}

func TestTable_ValidateDetectsRaggedRows(t *testing.T) {
	tbl := sampleTable()
	require.NoError(t, tbl.Validate())

	tbl.X[2] = []float64{1}
	err := tbl.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrLengthMismatch))
}

func TestTable_Subset(t *testing.T) {
	sub := sampleTable().Subset([]int{3, 0})
	assert.Equal(t, []int{0, 0}, sub.Y)
	assert.Equal(t, [][]float64{{3, 4}, {0, 1}}, sub.X)
	assert.Equal(t, []string{"a", "b"}, sub.Features)
}

func TestClassSpec_MapLabelsDropsUnknownClasses(t *testing.T) {
	spec := ClassSpec{Minority: []int{1, 2}, Majority: []int{0}}
	mapped := spec.MapLabels(sampleTable())

	assert.Equal(t, []int{0, 1, 1, 0}, mapped.Y)
	assert.Len(t, mapped.X, 4)
	assert.Equal(t, []float64{2, 3}, mapped.X[2])
}

func TestImbalanceRatio(t *testing.T) {
	assert.InDelta(t, 0.25, ImbalanceRatio([]int{1, 0, 0, 0, 0}), 1e-12)
	assert.Equal(t, 0.0, ImbalanceRatio([]int{1, 1}))
}

func TestValueCounts(t *testing.T) {
	counts := ValueCounts([]int{0, 1, 0, 2, 0, 1})
	assert.Equal(t, []LabelCount{{0, 3}, {1, 2}, {2, 1}}, counts)
}
