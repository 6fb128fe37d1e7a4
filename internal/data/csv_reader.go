package data

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/Naveen06725/wine-prediction/internal/errs"
)

// CSVReader loads delimited text files with a header line.
//
// Header names are matched to the schema by name: the header must list every
// schema column exactly once and nothing else, in any order. Matching is
// case-sensitive after normalization, which strips surrounding quotes and a
// UTF-8 BOM and turns runs of inner whitespace into "_", so a quoted
// "fixed acidity" header matches fixed_acidity. Values are stored in schema
// order, so a file with shuffled columns yields the same rows as one in
// canonical order.
type CSVReader struct {
	Delimiter rune
}

func NewCSVReader() *CSVReader {
	return &CSVReader{Delimiter: ';'}
}

func (cr *CSVReader) Load(path string, schema Schema) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errs.NewDataLoadError(path, 0, "", err)
	}
	defer file.Close()

	return cr.Read(file, path, schema)
}

// Read parses r as a file named source.
func (cr *CSVReader) Read(r io.Reader, source string, schema Schema) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.Comma = cr.Delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errs.NewDataLoadError(source, 1, "", errors.New("missing header line"))
	}
	if err != nil {
		return nil, errs.NewDataLoadError(source, 1, "", err)
	}

	positions, err := mapHeader(header, schema)
	if err != nil {
		return nil, errs.NewDataLoadError(source, 1, "", err)
	}

	ds := &Dataset{Schema: schema, Source: source}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errs.NewDataLoadError(source, 0, "", err)
		}
		line, _ := reader.FieldPos(0)

		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		if len(record) != schema.Len() {
			return nil, errs.NewDataLoadError(source, line, "",
				errors.Errorf("expected %d fields, got %d", schema.Len(), len(record)))
		}

		values := make([]decimal.Decimal, schema.Len())
		for col, pos := range positions {
			name := schema.Columns[col].Name
			raw := strings.TrimSpace(record[pos])
			if raw == "" {
				return nil, errs.NewDataLoadError(source, line, name, errors.New("empty value"))
			}
			val, err := decimal.NewFromString(raw)
			if err != nil {
				return nil, errs.NewDataLoadError(source, line, name,
					errors.Errorf("invalid numeric value %q", raw))
			}
			values[col] = val
		}

		ds.Rows = append(ds.Rows, Row{Values: values})
	}

	return ds, nil
}

// mapHeader returns, for each schema column, its position in the file.
func mapHeader(header []string, schema Schema) ([]int, error) {
	if len(header) != schema.Len() {
		return nil, errors.Errorf("header has %d columns, schema has %d", len(header), schema.Len())
	}

	seen := make(map[string]int, len(header))
	for pos, raw := range header {
		name := normalizeHeader(raw)
		if prev, ok := seen[name]; ok {
			return nil, errors.Errorf("duplicate column %q at positions %d and %d", name, prev+1, pos+1)
		}
		seen[name] = pos
	}

	positions := make([]int, schema.Len())
	for i, col := range schema.Columns {
		pos, ok := seen[col.Name]
		if !ok {
			return nil, errors.Errorf("missing column %q", col.Name)
		}
		positions[i] = pos
	}

	return positions, nil
}

// normalizeHeader strips stray quotes and joins inner whitespace with
// underscores, so "fixed acidity" matches fixed_acidity. Case is kept.
func normalizeHeader(name string) string {
	name = strings.Trim(name, "\" \t\r\ufeff")
	return strings.Join(strings.Fields(name), "_")
}
