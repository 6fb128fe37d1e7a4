// Package report prints the progress and results of a prediction run.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"

	"github.com/Naveen06725/wine-prediction/internal/pipeline"
)

type Reporter struct {
	out io.Writer

	cyan  func(a ...any) string
	green func(a ...any) string
	bold  func(a ...any) string
}

func NewReporter(out io.Writer) *Reporter {
	return &Reporter{
		out:   out,
		cyan:  color.New(color.FgCyan).SprintFunc(),
		green: color.New(color.FgGreen).SprintFunc(),
		bold:  color.New(color.Bold).SprintFunc(),
	}
}

func (r *Reporter) marker(msg string) {
	fmt.Fprintln(r.out, r.cyan(msg))
}

func (r *Reporter) TrainingStarted() {
	r.marker("Training model...")
}

func (r *Reporter) ValidationStarted() {
	r.marker("Making predictions on validation data...")
}

func (r *Reporter) ValidationScore(f1 float64) {
	fmt.Fprintf(r.out, "F1 Score on validation data: %s\n", r.green(formatScore(f1)))
}

func (r *Reporter) SavingModel() {
	r.marker("Saving model...")
}

func (r *Reporter) TestStarted() {
	r.marker("Making predictions on test data...")
}

func (r *Reporter) TestScore(f1 float64) {
	fmt.Fprintf(r.out, "F1 Score on test data: %s\n", r.green(formatScore(f1)))
}

// Sample prints one "label, prediction" line per row.
func (r *Reporter) Sample(rows []pipeline.Prediction) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, r.bold("Sample Predictions:"))
	fmt.Fprintln(r.out, "quality, prediction")
	for _, row := range rows {
		fmt.Fprintf(r.out, "%s, %s\n", formatLabel(row.Label), formatLabel(row.Prediction))
	}
}

// formatScore prints the shortest representation that round-trips.
func formatScore(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func formatLabel(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
