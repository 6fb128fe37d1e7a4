// Package errs holds the error kinds a prediction run can fail with.
//
// Every kind wraps its underlying cause, so callers can match with errors.As
// and still reach the root error through errors.Unwrap or pkg/errors.Cause.
package errs

import (
	"fmt"
)

// UsageError reports a wrong command line. It is raised before any file is touched.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string {
	return e.Msg
}

// DataLoadError reports a missing file, a malformed row or a header that
// does not match the schema.
type DataLoadError struct {
	Path   string
	Line   int
	Column string
	Err    error
}

func NewDataLoadError(path string, line int, column string, err error) *DataLoadError {
	return &DataLoadError{Path: path, Line: line, Column: column, Err: err}
}

func (e *DataLoadError) Error() string {
	switch {
	case e.Line > 0 && e.Column != "":
		return fmt.Sprintf("load %s: line %d, column %q: %v", e.Path, e.Line, e.Column, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("load %s: line %d: %v", e.Path, e.Line, e.Err)
	default:
		return fmt.Sprintf("load %s: %v", e.Path, e.Err)
	}
}

func (e *DataLoadError) Unwrap() error { return e.Err }
func (e *DataLoadError) Cause() error  { return e.Err }

// TrainingError reports a failure while fitting the classifier.
type TrainingError struct {
	Err error
}

func NewTrainingError(err error) *TrainingError {
	return &TrainingError{Err: err}
}

func (e *TrainingError) Error() string {
	return fmt.Sprintf("training failed: %v", e.Err)
}

func (e *TrainingError) Unwrap() error { return e.Err }
func (e *TrainingError) Cause() error  { return e.Err }

// PersistenceError reports a failure while saving or loading a model.
// The prediction run recovers from it.
type PersistenceError struct {
	Path string
	Err  error
}

func NewPersistenceError(path string, err error) *PersistenceError {
	return &PersistenceError{Path: path, Err: err}
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("model store %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
func (e *PersistenceError) Cause() error  { return e.Err }

// EvaluationError reports degenerate input to a metric, such as an empty label set.
type EvaluationError struct {
	Metric string
	Err    error
}

func NewEvaluationError(metric string, err error) *EvaluationError {
	return &EvaluationError{Metric: metric, Err: err}
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluate %s: %v", e.Metric, e.Err)
}

func (e *EvaluationError) Unwrap() error { return e.Err }
func (e *EvaluationError) Cause() error  { return e.Err }
