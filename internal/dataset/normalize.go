package dataset

import (
	"math"
	"strconv"

	"imbexp/adapters/tabular"
	"imbexp/domain/core"

	"github.com/montanaflynn/stats"
)

// ParseColumn converts a frame column to float64, failing on the first unparseable cell
func ParseColumn(frame *tabular.Frame, name string) ([]float64, error) {
	if err := frame.RequireColumns(name); err != nil {
		return nil, err
	}
	values := make([]float64, frame.Len())
	for i := range values {
		raw := frame.Cell(i, name)
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, core.NewInvalidValueError(name, i, raw)
		}
		values[i] = v
	}
	return values, nil
}

// MinMaxScaler rescales each column to [0, 1] using the minimum and maximum seen at fit time
type MinMaxScaler struct {
	Min []float64
	Max []float64
}

// FitMinMax learns per-column bounds of x
func FitMinMax(x [][]float64) (*MinMaxScaler, error) {
	if len(x) == 0 {
		return nil, core.ErrInsufficientData
	}
	width := len(x[0])
	s := &MinMaxScaler{Min: make([]float64, width), Max: make([]float64, width)}
	column := make([]float64, len(x))
	for j := 0; j < width; j++ {
		for i, row := range x {
			if len(row) != width {
				return nil, core.NewLengthMismatchError("row width", width, len(row))
			}
			column[i] = row[j]
		}
		s.Min[j], _ = stats.Min(column)
		s.Max[j], _ = stats.Max(column)
	}
	return s, nil
}

// Transform returns a rescaled copy of x. Constant columns map to 0.
func (s *MinMaxScaler) Transform(x [][]float64) [][]float64 {
	out := make([][]float64, len(x))
	for i, row := range x {
		scaled := make([]float64, len(row))
		for j, v := range row {
			scaled[j] = scale(v, s.Min[j], s.Max[j])
		}
		out[i] = scaled
	}
	return out
}

// NormalizeColumn returns a min-max scaled copy of values
func NormalizeColumn(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	lo, _ := stats.Min(values)
	hi, _ := stats.Max(values)
	for i, v := range values {
		out[i] = scale(v, lo, hi)
	}
	return out
}

func scale(v, lo, hi float64) float64 {
	span := hi - lo
	if span == 0 || math.IsNaN(span) {
		return 0
	}
	return (v - lo) / span
}

// TruncateInts drops the fractional part of every value, matching an integer cast
func TruncateInts(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = math.Trunc(v)
	}
	return out
}
