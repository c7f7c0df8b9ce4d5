package report

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/smartsite-ai/sitectl/internal/dataset"
	"github.com/smartsite-ai/sitectl/internal/ingest"
	"github.com/smartsite-ai/sitectl/internal/progress"
)

// Digest returns the hex sha256 of data.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Builder runs ingest, validation, calculation, aggregation, alerting and
// the schedule comparison over an upload.
type Builder struct {
	now   func() time.Time
	newID func() string
}

// NewBuilder returns a Builder using wall-clock time and random UUIDs.
func NewBuilder() *Builder {
	return &Builder{
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Build runs the full pass. Any validation failure aborts the build;
// no partial report is returned.
func (b *Builder) Build(ctx context.Context, upload Upload, opts Options) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	table, err := ingest.ReadBytes(upload.Data, upload.Name)
	if err != nil {
		return nil, err
	}

	ds, err := dataset.FromTable(table)
	if err != nil {
		return nil, err
	}

	return b.BuildDataset(ctx, ds, upload.Info(), Digest(upload.Data), opts)
}

// BuildDataset runs the pass over an already validated dataset.
func (b *Builder) BuildDataset(ctx context.Context, ds *dataset.Dataset, source UploadInfo, digest string, opts Options) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := progress.ValidateThreshold(opts.Threshold); err != nil {
		return nil, err
	}

	items := progress.Calculate(ds)
	summary := progress.AggregateWith(items, progress.Options{Weighted: opts.Weighted})

	alerts, err := progress.ClassifyAlerts(summary.Groups, opts.Threshold)
	if err != nil {
		return nil, err
	}

	r := &Report{
		ID:           b.newID(),
		Source:       source,
		Digest:       digest,
		GeneratedAt:  b.now().UTC(),
		Items:        items,
		Summary:      summary,
		Alerts:       alerts,
		ExtraColumns: ds.ExtraColumns(),
		key:          digest + "|" + opts.key(),
	}

	if opts.Schedule != nil {
		variance, err := progress.CompareSchedule(
			opts.Schedule.ElapsedDays,
			opts.Schedule.PlannedDays,
			summary.GlobalAverage,
			opts.CriticalMargin,
		)
		if err != nil {
			return nil, fmt.Errorf("schedule comparison: %w", err)
		}
		r.Schedule = &variance
	}

	return r, nil
}
