package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/smartsite-ai/sitectl/internal/ingest"
)

// Load loads a dataset from a CSV or spreadsheet file.
func Load(path string) (*Dataset, error) {
	table, err := ingest.ReadFile(path)
	if err != nil {
		return nil, err
	}

	ds, err := FromTable(table)
	if err != nil {
		return nil, err
	}

	ds.path = path
	return ds, nil
}

// ReadCSV reads a dataset from CSV.
func ReadCSV(r io.Reader) (*Dataset, error) {
	table, err := ingest.ReadTable(r, "upload.csv")
	if err != nil {
		return nil, err
	}
	return FromTable(table)
}

// Save writes the dataset to a CSV file.
func (ds *Dataset) Save(path string) error {
	if path == "" {
		path = ds.path
	}
	if path == "" {
		return fmt.Errorf("no path specified for saving dataset")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create dataset directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create dataset file: %w", err)
	}
	defer file.Close()

	if err := ds.WriteCSV(file); err != nil {
		return err
	}

	ds.path = path
	return nil
}

// FromTable validates a raw table and converts it into a dataset.
// It fails on the first bad row; a dataset is never partially built.
func FromTable(table ingest.Table) (*Dataset, error) {
	colIndex, dialect, err := resolveColumns(table.Header)
	if err != nil {
		return nil, err
	}

	// Extra columns keep their original header
	extraCols := make(map[int]string)
	for i, h := range table.Header {
		if h == "" || isRequiredIndex(colIndex, i) {
			continue
		}
		extraCols[i] = h
	}

	ds := New()
	ds.dialect = dialect

	for i, record := range table.Rows {
		rowNum := table.RowNumber(i)
		item, err := parseRow(record, rowNum, colIndex, extraCols, dialect)
		if err != nil {
			return nil, err
		}
		if err := ds.Add(item); err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}
	}

	return ds, nil
}

// resolveColumns maps every required column to its header index.
func resolveColumns(header []string) (map[string]int, Dialect, error) {
	colIndex := make(map[string]int)
	spanish, english := 0, 0

	for i, h := range header {
		normalized := normalizeColumnName(h)
		if normalized == "" {
			continue
		}
		for _, col := range RequiredColumns() {
			if _, taken := colIndex[col.Key]; taken {
				continue
			}
			if d, ok := col.match(normalized); ok {
				colIndex[col.Key] = i
				if d == DialectSpanish {
					spanish++
				} else {
					english++
				}
				break
			}
		}
	}

	dialect := DialectEnglish
	if spanish > english {
		dialect = DialectSpanish
	}

	var missing []string
	for _, col := range RequiredColumns() {
		if _, ok := colIndex[col.Key]; !ok {
			missing = append(missing, col.Name(dialect))
		}
	}
	if len(missing) > 0 {
		return nil, dialect, &SchemaError{Missing: missing}
	}
	return colIndex, dialect, nil
}

func isRequiredIndex(colIndex map[string]int, idx int) bool {
	for _, i := range colIndex {
		if i == idx {
			return true
		}
	}
	return false
}

// parseRow converts one record into a WorkItem.
func parseRow(record []string, rowNum int, colIndex map[string]int, extraCols map[int]string, dialect Dialect) (*WorkItem, error) {
	getValue := func(col Column) string {
		if idx, ok := colIndex[col.Key]; ok && idx < len(record) {
			return strings.TrimSpace(record[idx])
		}
		return ""
	}

	for _, col := range RequiredColumns() {
		if col.RowRequired && getValue(col) == "" {
			return nil, &FieldError{Row: rowNum, Column: col.Name(dialect), Reason: "required value is missing"}
		}
	}

	item := NewWorkItem(getValue(ColActivity), getValue(ColGroup))
	item.Row = rowNum
	item.Unit = getValue(ColUnit)

	total, err := parseQuantity(getValue(ColTotal))
	if err != nil {
		return nil, &FieldError{Row: rowNum, Column: ColTotal.Name(dialect), Value: getValue(ColTotal), Reason: err.Error()}
	}
	item.TotalQuantity = total

	executed, err := parseQuantity(getValue(ColExecuted))
	if err != nil {
		return nil, &FieldError{Row: rowNum, Column: ColExecuted.Name(dialect), Value: getValue(ColExecuted), Reason: err.Error()}
	}
	item.ExecutedQuantity = executed

	// Keeps every per-item percentage, and any sum of them, finite.
	if total > 0 && executed/total*100 > maxQuantity {
		return nil, &FieldError{Row: rowNum, Column: ColTotal.Name(dialect), Value: getValue(ColTotal), Reason: "too small for the executed quantity"}
	}

	for idx, header := range extraCols {
		if idx < len(record) {
			if value := strings.TrimSpace(record[idx]); value != "" {
				item.Extra[header] = value
			}
		}
	}

	return item, nil
}

// parseQuantity parses a non-negative number. A single comma with no dot
// is read as a decimal separator ("12,5" == 12.5).
func parseQuantity(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}

	v, err := cast.ToFloat64E(s)
	if err != nil {
		return 0, fmt.Errorf("not a number")
	}
	if v != v || v > maxQuantity || v < -maxQuantity {
		return 0, fmt.Errorf("not a finite number")
	}
	if v < 0 {
		return 0, fmt.Errorf("quantity cannot be negative")
	}
	return v, nil
}

// maxQuantity rejects "Inf" and absurd magnitudes that would overflow sums.
const maxQuantity = 1e15

// WriteCSV writes the dataset with canonical English headers.
func (ds *Dataset) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)

	extras := ds.ExtraColumns()
	header := append(CanonicalHeader(), extras...)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, item := range ds.items {
		row := []string{
			item.Activity,
			item.Group,
			item.Unit,
			FormatQuantity(item.TotalQuantity),
			FormatQuantity(item.ExecutedQuantity),
		}
		for _, col := range extras {
			row = append(row, item.Extra[col])
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", item.Row, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// FormatQuantity renders a quantity without trailing zeros.
func FormatQuantity(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
