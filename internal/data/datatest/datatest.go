// Package datatest writes wine CSV fixtures for tests.
package datatest

import (
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Naveen06725/wine-prediction/internal/data"
)

// Header is the canonical wine header: eleven features then quality.
func Header() []string {
	return data.WineSchema().Names()
}

// WriteCSV writes a semicolon-delimited file and returns its path.
func WriteCSV(t testing.TB, dir, name string, header []string, rows [][]float64) string {
	t.Helper()

	var b strings.Builder
	b.WriteString(strings.Join(header, ";"))
	b.WriteString("\n")
	for _, row := range rows {
		fields := make([]string, len(row))
		for i, v := range row {
			fields[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		b.WriteString(strings.Join(fields, ";"))
		b.WriteString("\n")
	}

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0644))
	return path
}

// ConstantRows returns n identical rows labelled quality.
func ConstantRows(n int, quality float64) [][]float64 {
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = []float64{7.4, 0.7, 0, 1.9, 0.076, 11, 34, 0.9978, 3.51, 0.56, 9.4, quality}
	}
	return rows
}

// SeparableRows returns n rows split evenly between quality 5 and 6. Alcohol,
// sulphates and volatile acidity separate the classes; the other features
// are noise.
func SeparableRows(n int, seed int64) [][]float64 {
	r := rand.New(rand.NewSource(seed))
	rows := make([][]float64, n)
	for i := range rows {
		good := i%2 == 1
		quality, alcohol, sulphates, volatile := 5.0, 9.0, 0.50, 0.80
		if good {
			quality, alcohol, sulphates, volatile = 6.0, 11.5, 0.80, 0.40
		}
		rows[i] = []float64{
			7 + r.Float64(),
			volatile + r.Float64()*0.1,
			r.Float64() * 0.5,
			1.5 + r.Float64(),
			0.07 + r.Float64()*0.01,
			10 + r.Float64()*10,
			30 + r.Float64()*20,
			0.996 + r.Float64()*0.002,
			3.2 + r.Float64()*0.3,
			sulphates + r.Float64()*0.1,
			alcohol + r.Float64()*0.5,
			quality,
		}
	}
	return rows
}

// Reorder permutes the columns of header and rows by order, where order[i]
// is the source column placed at position i.
func Reorder(header []string, rows [][]float64, order []int) ([]string, [][]float64) {
	newHeader := make([]string, len(order))
	for i, src := range order {
		newHeader[i] = header[src]
	}

	newRows := make([][]float64, len(rows))
	for r, row := range rows {
		newRows[r] = make([]float64, len(order))
		for i, src := range order {
			newRows[r][i] = row[src]
		}
	}
	return newHeader, newRows
}

// Reversed returns the column order n-1, ..., 0.
func Reversed(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = n - 1 - i
	}
	return order
}
