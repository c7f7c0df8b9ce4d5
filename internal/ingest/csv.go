package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func readCSV(data []byte) ([]line, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1 // Allow variable fields
	reader.LazyQuotes = true
	reader.Comma = sniffDelimiter(data)

	var lines []line
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV %w", err)
		}
		// Empty lines are skipped by the reader; FieldPos keeps the count.
		n, _ := reader.FieldPos(0)
		lines = append(lines, line{number: n, cells: record})
	}
	return lines, nil
}

// sniffDelimiter picks ';' for spreadsheets exported with a decimal-comma
// locale, where the header line has semicolons and no commas.
func sniffDelimiter(data []byte) rune {
	header := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		header = data[:i]
	}
	if bytes.Count(header, []byte{';'}) > 0 && bytes.Count(header, []byte{','}) == 0 {
		return ';'
	}
	return ','
}
