package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/smartsite-ai/sitectl/internal/dataset"
	"github.com/smartsite-ai/sitectl/internal/progress"
)

// SummaryHeader is the fixed part of the exported summary header.
var SummaryHeader = append(dataset.CanonicalHeader(), "Progress_Pct")

// WriteCSV writes one row per item, in input order, followed by the given
// extra columns. Items without planned quantity get an empty Progress_Pct.
func WriteCSV(w io.Writer, items []progress.ItemProgress, extras []string) error {
	writer := csv.NewWriter(w)

	header := append(append([]string{}, SummaryHeader...), extras...)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, ip := range items {
		item := ip.Item
		pct := ""
		if ip.Defined {
			pct = strconv.FormatFloat(ip.Pct, 'f', 2, 64)
		}
		row := []string{
			item.Activity,
			item.Group,
			item.Unit,
			dataset.FormatQuantity(item.TotalQuantity),
			dataset.FormatQuantity(item.ExecutedQuantity),
			pct,
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

// WriteGroupsCSV writes one row per group with its mean and alert state.
func WriteGroupsCSV(w io.Writer, groups []progress.GroupSummary, threshold float64) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"Group", "Mean", "Items", "State"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, g := range groups {
		row := []string{
			g.Group,
			strconv.FormatFloat(g.Mean, 'f', 2, 64),
			strconv.Itoa(g.Items),
			string(progress.StateOf(g.Mean, threshold)),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row for %s: %w", g.Group, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// Export writes the report's item summary.
func (r *Report) Export(w io.Writer) error {
	return WriteCSV(w, r.Items, r.ExtraColumns)
}

// ExportGroups writes the report's group summary.
func (r *Report) ExportGroups(w io.Writer) error {
	return WriteGroupsCSV(w, r.Summary.Groups, r.Alerts.Threshold)
}
