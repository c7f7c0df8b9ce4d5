package ingest

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

var errNoWorksheet = errors.New("no worksheet found")

func readXLSX(data []byte) ([]line, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = file.Close() }()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return nil, errNoWorksheet
	}

	rows, err := file.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheetName, err)
	}

	lines := make([]line, len(rows))
	for i, cells := range rows {
		lines[i] = line{number: i + 1, cells: cells}
	}
	return lines, nil
}

// readXLS reads the first sheet of a legacy BIFF workbook.
// BIFF8 sheets hold at most 65536 rows, so MaxRow bounds the read.
func readXLS(data []byte) ([]line, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	sheet := workbook.GetSheet(0)
	if sheet == nil {
		return nil, errNoWorksheet
	}

	var lines []line
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			continue
		}
		cells := make([]string, row.LastCol())
		for c := range cells {
			cells[c] = row.Col(c)
		}
		lines = append(lines, line{number: i + 1, cells: cells})
	}
	return lines, nil
}
