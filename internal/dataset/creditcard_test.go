package dataset

import (
	"errors"
	"math/rand"
	"testing"

	"imbexp/adapters/tabular"
	"imbexp/domain/core"
	domain "imbexp/domain/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareCreditCard_ScalesWithTrainBounds(t *testing.T) {
	headers := []string{"Time", "V1", "V2", "Amount", "Class"}
	train := tabular.NewFrame("credit0.csv", headers, [][]string{
		{"0", "-1", "5", "10", "0"},
		{"1", "1", "5", "30", "1"},
		{"2", "0", "5", "20", "0"},
	})
	test := tabular.NewFrame("credit1.csv", headers, [][]string{
		{"3", "3", "5", "20", "1"},
	})

	trainT, testT, err := PrepareCreditCard(train, test, DefaultCreditCardOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{"V1", "V2", "Amount"}, trainT.Features)
	assert.Equal(t, []int{0, 1, 0}, trainT.Y)
	assert.Equal(t, []float64{0, 0, 0}, trainT.X[0])
	assert.Equal(t, []float64{1, 0, 1}, trainT.X[1])
	assert.Equal(t, []float64{0.5, 0, 0.5}, trainT.X[2])
	// Test rows reuse the train bounds and may fall outside [0, 1].
	assert.Equal(t, []float64{2, 0, 0.5}, testT.X[0])
}

func TestPrepareCreditCard_TestFileMissingFeature(t *testing.T) {
	train := tabular.NewFrame("credit0.csv", []string{"V1", "V2", "Class"}, [][]string{{"1", "2", "0"}})
	test := tabular.NewFrame("credit1.csv", []string{"V1", "Class"}, [][]string{{"1", "0"}})

	_, _, err := PrepareCreditCard(train, test, DefaultCreditCardOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrMissingColumn))
}

func TestPrepareCreditCard_BadCell(t *testing.T) {
	frame := tabular.NewFrame("credit0.csv", []string{"V1", "Class"}, [][]string{{"abc", "0"}})
	_, _, err := PrepareCreditCard(frame, frame, DefaultCreditCardOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidValue))
}

func TestStratifiedSplit_KeepsAllRowsOnce(t *testing.T) {
	tbl := domain.Table{Features: []string{"i"}}
	for i := 0; i < 100; i++ {
		tbl.X = append(tbl.X, []float64{float64(i)})
		label := 0
		if i < 10 {
			label = 1
		}
		tbl.Y = append(tbl.Y, label)
	}

	train, val, err := StratifiedSplit(tbl, 0.2, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, 80, train.Len())
	assert.Equal(t, 20, val.Len())

	seen := make(map[float64]bool)
	for _, part := range []domain.Table{train, val} {
		for _, row := range part.X {
			assert.False(t, seen[row[0]], "row %v appears twice", row[0])
			seen[row[0]] = true
		}
	}
	assert.Len(t, seen, 100)

	minority := 0
	for _, y := range val.Y {
		minority += y
	}
	assert.Equal(t, 2, minority)
}

func TestStratifiedSplit_Rejects(t *testing.T) {
	tbl := domain.Table{Features: []string{"x"}, X: [][]float64{{1}}, Y: []int{0}}
	_, _, err := StratifiedSplit(tbl, 0.2, rand.New(rand.NewSource(1)))
	assert.True(t, errors.Is(err, core.ErrInsufficientData))

	_, _, err = StratifiedSplit(tbl, 1.5, rand.New(rand.NewSource(1)))
	assert.Error(t, err)
}

func TestMinMaxScaler_ConstantColumn(t *testing.T) {
	s, err := FitMinMax([][]float64{{3, 1}, {3, 2}})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0, 0}, {0, 1}}, s.Transform([][]float64{{3, 1}, {3, 2}}))

	_, err = FitMinMax(nil)
	assert.True(t, errors.Is(err, core.ErrInsufficientData))
}
