package data

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type ColumnSummary struct {
	Name   string
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
}

// Summarize computes per-column statistics. It returns nil for an empty dataset.
func Summarize(ds *Dataset) []ColumnSummary {
	if ds == nil || ds.Len() == 0 {
		return nil
	}

	summaries := make([]ColumnSummary, 0, ds.Schema.Len())
	for _, col := range ds.Schema.Columns {
		values, _ := ds.Column(col.Name)
		mean, std := stat.MeanStdDev(values, nil)
		if len(values) < 2 {
			std = 0
		}
		summaries = append(summaries, ColumnSummary{
			Name:   col.Name,
			Min:    floats.Min(values),
			Max:    floats.Max(values),
			Mean:   mean,
			StdDev: std,
		})
	}

	return summaries
}

// ClassDistribution counts rows per label value.
func ClassDistribution(labels []float64) map[float64]int {
	counts := make(map[float64]int)
	for _, label := range labels {
		counts[label]++
	}
	return counts
}
