// Package ingest reads uploaded spreadsheets into a raw, schema-less table.
//
// The table is intentionally untyped: every cell is a trimmed string and the
// first row is the header. Schema checks and numeric parsing happen in the
// dataset package.
package ingest

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format identifies the file format of an upload.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
)

// Table is a header row plus data rows as read from a file.
type Table struct {
	// Header holds the raw header cells, trimmed.
	Header []string

	// Rows holds the non-blank data rows. Rows may be shorter than Header.
	Rows [][]string

	// RowNumbers holds, for each entry of Rows, its 1-based position below
	// the header in the source file. Skipped blank rows still count.
	RowNumbers []int

	// Format is the format the table was decoded from.
	Format Format
}

// Len returns the number of data rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// RowNumber returns the source row number of Rows[i].
func (t Table) RowNumber(i int) int {
	if i < len(t.RowNumbers) {
		return t.RowNumbers[i]
	}
	return i + 1
}

// line is one decoded row with its 1-based line in the source.
type line struct {
	number int
	cells  []string
}

// DetectFormat picks a decoder from the file name extension.
// Unknown or missing extensions are treated as CSV.
func DetectFormat(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX
	case ".xls":
		return FormatXLS
	default:
		return FormatCSV
	}
}

// ReadTable decodes r according to the extension of name.
func ReadTable(r io.Reader, name string) (Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Table{}, &MalformedFileError{Name: name, Err: fmt.Errorf("read upload: %w", err)}
	}
	return ReadBytes(data, name)
}

// ReadBytes decodes an in-memory upload.
func ReadBytes(data []byte, name string) (Table, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Table{}, &MalformedFileError{Name: name, Err: ErrEmptyFile}
	}

	format := DetectFormat(name)

	var (
		lines []line
		err   error
	)
	switch format {
	case FormatXLSX:
		lines, err = readXLSX(data)
	case FormatXLS:
		lines, err = readXLS(data)
	default:
		lines, err = readCSV(data)
	}
	if err != nil {
		return Table{}, &MalformedFileError{Name: name, Err: err}
	}

	lines = dropBlankRows(lines)
	if len(lines) == 0 {
		return Table{}, &MalformedFileError{Name: name, Err: ErrEmptyFile}
	}

	header := lines[0]
	table := Table{
		Header: trimCells(header.cells),
		Format: format,
	}
	for _, l := range lines[1:] {
		table.Rows = append(table.Rows, trimCells(l.cells))
		table.RowNumbers = append(table.RowNumbers, l.number-header.number)
	}
	return table, nil
}

// ReadFile opens path and decodes it.
func ReadFile(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("failed to open dataset: %w", err)
	}
	return ReadBytes(data, filepath.Base(path))
}

func trimCells(row []string) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		out[i] = strings.TrimSpace(cell)
	}
	return out
}

// dropBlankRows removes rows whose cells are all empty, wherever they
// appear. Spreadsheet exports commonly carry formatted but empty rows.
func dropBlankRows(lines []line) []line {
	out := lines[:0]
	for _, l := range lines {
		if !isBlank(l.cells) {
			out = append(out, l)
		}
	}
	return out
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
