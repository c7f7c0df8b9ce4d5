// Package sitectl computes construction progress reports from spreadsheets.
//
// It is the embeddable form of the sitectl CLI:
//
//	f, _ := os.Open("avance.xlsx")
//	rep, err := sitectl.Analyze(ctx, f, "avance.xlsx", sitectl.DefaultOptions())
//	if err != nil {
//	    var schemaErr *sitectl.SchemaError
//	    if errors.As(err, &schemaErr) {
//	        // schemaErr.Missing lists the absent columns
//	    }
//	}
//	fmt.Println(rep.Summary.GlobalAverage, rep.Alerts.State())
package sitectl

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/smartsite-ai/sitectl/internal/dataset"
	"github.com/smartsite-ai/sitectl/internal/ingest"
	"github.com/smartsite-ai/sitectl/internal/progress"
	"github.com/smartsite-ai/sitectl/internal/report"
)

type (
	Report           = report.Report
	Options          = report.Options
	Schedule         = report.Schedule
	Summary          = progress.Summary
	GroupSummary     = progress.GroupSummary
	Alert            = progress.Alert
	AlertResult      = progress.AlertResult
	ScheduleVariance = progress.ScheduleVariance

	SchemaError        = dataset.SchemaError
	FieldError         = dataset.FieldError
	MalformedFileError = ingest.MalformedFileError
	ZeroQuantityError  = progress.ZeroQuantityError
)

var (
	ErrInvalidThreshold = progress.ErrInvalidThreshold
	ErrInvalidSchedule  = progress.ErrInvalidSchedule
)

// DefaultOptions returns a 50% threshold, unweighted means and no schedule.
func DefaultOptions() Options {
	return report.DefaultOptions()
}

// Analyze reads a CSV, XLSX or XLS spreadsheet and builds its report.
// name selects the format by extension.
func Analyze(ctx context.Context, r io.Reader, name string, opts Options) (*Report, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return report.NewBuilder().Build(ctx, report.Upload{Name: name, Data: data}, opts)
}

// AnalyzeFile is Analyze for a file on disk.
func AnalyzeFile(ctx context.Context, path string, opts Options) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Analyze(ctx, f, filepath.Base(path), opts)
}

// WriteSummaryCSV writes the per-item summary with a Progress_Pct column.
func WriteSummaryCSV(w io.Writer, rep *Report) error {
	return rep.Export(w)
}
