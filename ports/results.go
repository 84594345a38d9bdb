package ports

import (
	"imbexp/domain/run"
)

// ResultSink receives one record per repetition, in repetition order
type ResultSink interface {
	Append(rec run.Record) error
	Close() error
}
