package dataset

import (
	"log"
	"strconv"
	"strings"
	"time"

	"imbexp/adapters/tabular"
	"imbexp/domain/core"
	domain "imbexp/domain/dataset"
	"imbexp/internal/errors"
)

// Histology column names
const (
	ColRestenosis = "restenos"
	ColGender     = "Gender"
	ColHospital   = "Hospital"
	ColDate       = "dateok"
	ColMonth      = "month"
	ColAge        = "Age"
	ColArteryOp   = "arteryop"
)

// HistologyOptions selects the patient subgroup and the features fed to the models
type HistologyOptions struct {
	Gender         string
	Hospital       string
	ExcludedLabels []int
	FeatureColumns []string
}

// DefaultHistologyOptions restricts to gender 1 at hospital 2 and drops unknown (-1) and 2 outcomes
func DefaultHistologyOptions() HistologyOptions {
	return HistologyOptions{
		Gender:         "1",
		Hospital:       "2",
		ExcludedLabels: []int{-1, 2},
		FeatureColumns: []string{ColAge, ColArteryOp},
	}
}

// HistologySummary describes what filtering kept
type HistologySummary struct {
	InputRows      int
	ExcludedRows   int
	ImbalanceRatio float64
	LabelCounts    []domain.LabelCount
	// Retained non-numeric columns that were left out of normalization.
	SkippedColumns []string
}

// HistologyData is the filtered, normalized histology dataset
type HistologyData struct {
	Table domain.Table
	// Every retained numeric column after min-max scaling, keyed by name.
	Normalized map[string][]float64
	Summary    HistologySummary
}

// LoadHistology reads and prepares the histology CSV or workbook at path
func LoadHistology(path string, opts HistologyOptions) (*HistologyData, error) {
	frame, err := tabular.NewDataReader(path).ReadFrame()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read histology file")
	}
	return PrepareHistology(frame, opts)
}

// PrepareHistology filters the subgroup, drops excluded outcomes, derives year and
// month from the operation date and min-max scales the retained numeric columns
func PrepareHistology(frame *tabular.Frame, opts HistologyOptions) (*HistologyData, error) {
	required := []string{ColRestenosis, ColGender, ColHospital, ColDate}
	required = append(required, opts.FeatureColumns...)
	if err := frame.RequireColumns(required...); err != nil {
		return nil, errors.WithCode(errors.CodeSchemaMismatch, err)
	}

	excluded := make(map[int]bool, len(opts.ExcludedLabels))
	for _, l := range opts.ExcludedLabels {
		excluded[l] = true
	}

	inGender := frame.Equals(ColGender, opts.Gender)
	inHospital := frame.Equals(ColHospital, opts.Hospital)
	labels := make([]int, 0, frame.Len())
	kept := frame.Filter(func(i int) bool {
		if !inGender(i) || !inHospital(i) {
			return false
		}
		label, ok := parseLabel(frame.Cell(i, ColRestenosis))
		if !ok || excluded[label] {
			return false
		}
		labels = append(labels, label)
		return true
	})

	summary := HistologySummary{
		InputRows:      frame.Len(),
		ExcludedRows:   frame.Len() - kept.Len(),
		ImbalanceRatio: domain.ImbalanceRatio(labels),
		LabelCounts:    domain.ValueCounts(labels),
	}
	if kept.Len() == 0 {
		return nil, errors.WithCode(errors.CodeInvalidInput, core.ErrInsufficientData)
	}

	years, months, err := splitDates(kept)
	if err != nil {
		return nil, errors.WithCode(errors.CodeSchemaMismatch, err)
	}

	normalized := map[string][]float64{
		ColDate:  NormalizeColumn(years),
		ColMonth: NormalizeColumn(months),
	}
	drop := map[string]bool{ColRestenosis: true, ColGender: true, ColHospital: true, ColDate: true}
	for _, name := range kept.Headers {
		if drop[name] {
			continue
		}
		values, err := ParseColumn(kept, name)
		if err != nil {
			if isFeature(name, opts.FeatureColumns) {
				return nil, errors.WithCode(errors.CodeSchemaMismatch, err)
			}
			summary.SkippedColumns = append(summary.SkippedColumns, name)
			continue
		}
		normalized[name] = NormalizeColumn(TruncateInts(values))
	}
	if len(summary.SkippedColumns) > 0 {
		log.Printf("[Histology] Skipped non-numeric columns: %v", summary.SkippedColumns)
	}

	table := domain.Table{
		Features: opts.FeatureColumns,
		X:        make([][]float64, kept.Len()),
		Y:        labels,
	}
	for i := range table.X {
		row := make([]float64, len(opts.FeatureColumns))
		for j, name := range opts.FeatureColumns {
			row[j] = normalized[name][i]
		}
		table.X[i] = row
	}

	return &HistologyData{Table: table, Normalized: normalized, Summary: summary}, nil
}

func isFeature(name string, features []string) bool {
	for _, f := range features {
		if f == name {
			return true
		}
	}
	return false
}

// parseLabel accepts integer-valued cells such as "1" or "1.0"; blanks are not labels
func parseLabel(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return int(v), true
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"1/2/2006",
	"1/2/2006 15:04",
	"02-01-2006",
	"20060102",
}

// parseDate tries the layouts seen in hospital exports, month-first for slashed dates
func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func splitDates(frame *tabular.Frame) ([]float64, []float64, error) {
	years := make([]float64, frame.Len())
	months := make([]float64, frame.Len())
	for i := range years {
		raw := frame.Cell(i, ColDate)
		t, ok := parseDate(raw)
		if !ok {
			return nil, nil, core.NewInvalidValueError(ColDate, i, raw)
		}
		years[i] = float64(t.Year())
		months[i] = float64(t.Month())
	}
	return years, months, nil
}
