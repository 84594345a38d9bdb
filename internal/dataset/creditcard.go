package dataset

import (
	"imbexp/adapters/tabular"
	domain "imbexp/domain/dataset"
	"imbexp/internal/errors"
)

// CreditCardOptions controls how the credit-card transaction files are turned into tables
type CreditCardOptions struct {
	LabelColumn string
	// Dropped when present; never used as features.
	DropColumns []string
	// Scale features with bounds fitted on the train file.
	Normalize bool
}

// DefaultCreditCardOptions uses the Class label and drops the Time column
func DefaultCreditCardOptions() CreditCardOptions {
	return CreditCardOptions{
		LabelColumn: "Class",
		DropColumns: []string{"Time"},
		Normalize:   true,
	}
}

// LoadCreditCard reads the pre-split train and test transaction files
func LoadCreditCard(trainPath, testPath string, opts CreditCardOptions) (domain.Table, domain.Table, error) {
	trainFrame, err := tabular.NewDataReader(trainPath).ReadFrame()
	if err != nil {
		return domain.Table{}, domain.Table{}, errors.Wrap(err, "failed to read credit card train file")
	}
	testFrame, err := tabular.NewDataReader(testPath).ReadFrame()
	if err != nil {
		return domain.Table{}, domain.Table{}, errors.Wrap(err, "failed to read credit card test file")
	}
	return PrepareCreditCard(trainFrame, testFrame, opts)
}

// PrepareCreditCard converts both frames to tables sharing the train file's feature order
func PrepareCreditCard(trainFrame, testFrame *tabular.Frame, opts CreditCardOptions) (domain.Table, domain.Table, error) {
	if err := trainFrame.RequireColumns(opts.LabelColumn); err != nil {
		return domain.Table{}, domain.Table{}, errors.WithCode(errors.CodeSchemaMismatch, err)
	}

	features := creditCardFeatures(trainFrame.Headers, opts)
	if len(features) == 0 {
		return domain.Table{}, domain.Table{}, errors.SchemaMismatch("credit card train file has no feature columns")
	}
	if err := testFrame.RequireColumns(append([]string{opts.LabelColumn}, features...)...); err != nil {
		return domain.Table{}, domain.Table{}, errors.WithCode(errors.CodeSchemaMismatch, err)
	}

	train, err := frameToTable(trainFrame, features, opts.LabelColumn)
	if err != nil {
		return domain.Table{}, domain.Table{}, err
	}
	test, err := frameToTable(testFrame, features, opts.LabelColumn)
	if err != nil {
		return domain.Table{}, domain.Table{}, err
	}

	if opts.Normalize {
		scaler, err := FitMinMax(train.X)
		if err != nil {
			return domain.Table{}, domain.Table{}, errors.Wrap(err, "failed to fit credit card normalization")
		}
		train.X = scaler.Transform(train.X)
		test.X = scaler.Transform(test.X)
	}
	return train, test, nil
}

func creditCardFeatures(headers []string, opts CreditCardOptions) []string {
	skip := map[string]bool{opts.LabelColumn: true}
	for _, c := range opts.DropColumns {
		skip[c] = true
	}
	var features []string
	for _, h := range headers {
		if !skip[h] {
			features = append(features, h)
		}
	}
	return features
}

// frameToTable parses the feature columns and an integer label column
func frameToTable(frame *tabular.Frame, features []string, labelColumn string) (domain.Table, error) {
	labels, err := ParseColumn(frame, labelColumn)
	if err != nil {
		return domain.Table{}, errors.WithCode(errors.CodeSchemaMismatch, err)
	}

	columns := make([][]float64, len(features))
	for j, name := range features {
		if columns[j], err = ParseColumn(frame, name); err != nil {
			return domain.Table{}, errors.WithCode(errors.CodeSchemaMismatch, err)
		}
	}

	t := domain.Table{
		Features: features,
		X:        make([][]float64, frame.Len()),
		Y:        make([]int, frame.Len()),
	}
	for i := range t.X {
		row := make([]float64, len(features))
		for j := range features {
			row[j] = columns[j][i]
		}
		t.X[i] = row
		t.Y[i] = int(labels[i])
	}
	return t, nil
}
