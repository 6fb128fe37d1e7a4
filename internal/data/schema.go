package data

import (
	"github.com/shopspring/decimal"
)

type ColumnType string

const Double ColumnType = "double"

// LabelColumn names the quality score, which is read as a class label.
const LabelColumn = "quality"

var featureColumns = []string{
	"fixed_acidity",
	"volatile_acidity",
	"citric_acid",
	"residual_sugar",
	"chlorides",
	"free_sulfur_dioxide",
	"total_sulfur_dioxide",
	"density",
	"pH",
	"sulphates",
	"alcohol",
}

type Column struct {
	Name     string
	Type     ColumnType
	Nullable bool
}

// Schema is an ordered list of columns. Order is significant: rows store
// their values in schema order no matter how the source file lays them out.
type Schema struct {
	Columns []Column
}

// WineSchema returns the eleven physicochemical features followed by quality.
func WineSchema() Schema {
	columns := make([]Column, 0, len(featureColumns)+1)
	for _, name := range featureColumns {
		columns = append(columns, Column{Name: name, Type: Double, Nullable: true})
	}
	columns = append(columns, Column{Name: LabelColumn, Type: Double, Nullable: true})
	return Schema{Columns: columns}
}

// FeatureColumns returns the feature names in their declared order.
func FeatureColumns() []string {
	names := make([]string, len(featureColumns))
	copy(names, featureColumns)
	return names
}

func (s Schema) Len() int {
	return len(s.Columns)
}

func (s Schema) Names() []string {
	names := make([]string, len(s.Columns))
	for i, col := range s.Columns {
		names[i] = col.Name
	}
	return names
}

// Index returns the position of name in the schema, or -1.
func (s Schema) Index(name string) int {
	for i, col := range s.Columns {
		if col.Name == name {
			return i
		}
	}
	return -1
}

type Row struct {
	Values []decimal.Decimal
}

func (r Row) Float(i int) float64 {
	return r.Values[i].InexactFloat64()
}

type Dataset struct {
	Schema Schema
	Rows   []Row
	Source string
}

func (d *Dataset) Len() int {
	return len(d.Rows)
}

// Column returns every value of the named column as float64.
func (d *Dataset) Column(name string) ([]float64, bool) {
	idx := d.Schema.Index(name)
	if idx < 0 {
		return nil, false
	}

	values := make([]float64, len(d.Rows))
	for i, row := range d.Rows {
		values[i] = row.Float(idx)
	}
	return values, true
}
