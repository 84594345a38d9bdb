package run

// FieldNames is the results header, in column order
var FieldNames = []string{"Gmean", "F1", "Precision", "Recall", "TP", "TN", "FP", "FN"}

// Record holds the test-set statistics of one repetition
type Record struct {
	Gmean     float64 `csv:"Gmean" db:"gmean" json:"gmean"`
	F1        float64 `csv:"F1" db:"f1" json:"f1"`
	Precision float64 `csv:"Precision" db:"precision" json:"precision"`
	Recall    float64 `csv:"Recall" db:"recall" json:"recall"`
	TP        int     `csv:"TP" db:"tp" json:"tp"`
	TN        int     `csv:"TN" db:"tn" json:"tn"`
	FP        int     `csv:"FP" db:"fp" json:"fp"`
	FN        int     `csv:"FN" db:"fn" json:"fn"`
}
