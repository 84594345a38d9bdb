package dataset

import (
	"fmt"
	"sort"

	"imbexp/domain/core"
)

// Table is an ordered set of feature rows with a parallel label vector
type Table struct {
	Features []string    `json:"features"`
	X        [][]float64 `json:"-"`
	Y        []int       `json:"-"`
}

// Len returns the number of rows
func (t Table) Len() int {
	return len(t.Y)
}

// Validate checks that every row has one label and one value per feature
func (t Table) Validate() error {
	if len(t.X) != len(t.Y) {
		return core.NewLengthMismatchError("rows vs labels", len(t.X), len(t.Y))
	}
	for i, row := range t.X {
		if len(row) != len(t.Features) {
			return core.NewLengthMismatchError(fmt.Sprintf("row %d width", i), len(t.Features), len(row))
		}
	}
	return nil
}

// Subset returns a new table holding the rows at the given indices, in order
func (t Table) Subset(indices []int) Table {
	out := Table{
		Features: t.Features,
		X:        make([][]float64, len(indices)),
		Y:        make([]int, len(indices)),
	}
	for i, idx := range indices {
		out.X[i] = t.X[idx]
		out.Y[i] = t.Y[idx]
	}
	return out
}

// Split is the train/validation/test partition handed to one repetition
type Split struct {
	Train      Table
	Validation Table
	Test       Table
}

// ClassSpec names the labels treated as minority (positive) and majority (negative)
type ClassSpec struct {
	Minority []int `json:"minority"`
	Majority []int `json:"majority"`
}

// BinaryClasses is the usual minority=1 / majority=0 mapping
func BinaryClasses() ClassSpec {
	return ClassSpec{Minority: []int{1}, Majority: []int{0}}
}

func (c ClassSpec) isMinority(label int) bool { return containsLabel(c.Minority, label) }
func (c ClassSpec) isMajority(label int) bool { return containsLabel(c.Majority, label) }

func containsLabel(labels []int, label int) bool {
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}

// MapLabels keeps rows whose label is a minority or majority class and rewrites
// their labels to 1 (minority) or 0 (majority)
func (c ClassSpec) MapLabels(t Table) Table {
	out := Table{Features: t.Features}
	for i, label := range t.Y {
		switch {
		case c.isMinority(label):
			out.X = append(out.X, t.X[i])
			out.Y = append(out.Y, 1)
		case c.isMajority(label):
			out.X = append(out.X, t.X[i])
			out.Y = append(out.Y, 0)
		}
	}
	return out
}

// ImbalanceRatio returns minority count / majority count under the binary 1/0 labelling
func ImbalanceRatio(labels []int) float64 {
	var minority, majority int
	for _, l := range labels {
		switch l {
		case 1:
			minority++
		case 0:
			majority++
		}
	}
	if majority == 0 {
		return 0
	}
	return float64(minority) / float64(majority)
}

// LabelCount is one entry of a value-count summary
type LabelCount struct {
	Label int
	Count int
}

// ValueCounts returns label frequencies ordered by descending count, then label
func ValueCounts(labels []int) []LabelCount {
	counts := make(map[int]int)
	for _, l := range labels {
		counts[l]++
	}
	out := make([]LabelCount, 0, len(counts))
	for label, n := range counts {
		out = append(out, LabelCount{Label: label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}
