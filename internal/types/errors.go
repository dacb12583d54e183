package types

import (
	"fmt"
)

// IngestionError reports an input file that could not be parsed or whose
// header row lacks a required column.
type IngestionError struct {
	File   string
	Column string
	Err    error
}

func (e *IngestionError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("ingest %s: missing required column %q", e.File, e.Column)
	}
	return fmt.Sprintf("ingest %s: %v", e.File, e.Err)
}

func (e *IngestionError) Unwrap() error { return e.Err }

// AggregationError reports a record whose SKU and Quantity lists cannot be
// consolidated.
type AggregationError struct {
	OrderNumber string
	SourceFile  string
	SourceRow   int
	Reason      string
	Err         error
}

func (e *AggregationError) Error() string {
	msg := fmt.Sprintf("aggregate order %q: %s", e.OrderNumber, e.Reason)
	if e.SourceFile != "" {
		msg += fmt.Sprintf(" (%s row %d)", e.SourceFile, e.SourceRow)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *AggregationError) Unwrap() error { return e.Err }

// ExportError reports a reconciliation file that could not be created or
// written.
type ExportError struct {
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s: %v", e.Path, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }
