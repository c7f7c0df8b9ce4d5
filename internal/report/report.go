// Package report runs the full progress pass over an uploaded dataset and
// keeps the resulting reports in memory.
package report

import (
	"fmt"
	"math"
	"time"

	"github.com/smartsite-ai/sitectl/internal/progress"
)

// UploadInfo describes the uploaded file.
type UploadInfo struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type,omitempty"`
	SizeBytes   int64  `json:"size_bytes"`
}

// SizeKB returns the upload size in kilobytes, rounded to 2 decimals.
func (u UploadInfo) SizeKB() float64 {
	return math.Round(float64(u.SizeBytes)/1024*100) / 100
}

// Upload is a dataset file as received.
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

// Info returns the metadata of the upload.
func (u Upload) Info() UploadInfo {
	return UploadInfo{
		Name:        u.Name,
		ContentType: u.ContentType,
		SizeBytes:   int64(len(u.Data)),
	}
}

// Schedule is the elapsed and planned duration of the project, in days.
type Schedule struct {
	ElapsedDays float64 `json:"elapsed_days"`
	PlannedDays float64 `json:"planned_days"`
}

// Options controls a report build.
type Options struct {
	Threshold      float64
	Weighted       bool
	CriticalMargin float64

	// Schedule is optional; nil skips the schedule comparison.
	Schedule *Schedule
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Threshold:      progress.DefaultThreshold,
		CriticalMargin: progress.DefaultCriticalMargin,
	}
}

// key fingerprints the options for memoization.
func (o Options) key() string {
	s := fmt.Sprintf("t=%g|w=%t|m=%g", o.Threshold, o.Weighted, o.CriticalMargin)
	if o.Schedule != nil {
		s += fmt.Sprintf("|e=%g|p=%g", o.Schedule.ElapsedDays, o.Schedule.PlannedDays)
	}
	return s
}

// Report is the result of one aggregation pass.
type Report struct {
	ID          string                     `json:"id"`
	Source      UploadInfo                 `json:"source"`
	Digest      string                     `json:"digest"`
	GeneratedAt time.Time                  `json:"generated_at"`
	Items       []progress.ItemProgress    `json:"items"`
	Summary     progress.Summary           `json:"summary"`
	Alerts      progress.AlertResult       `json:"alerts"`
	Schedule    *progress.ScheduleVariance `json:"schedule,omitempty"`

	// ExtraColumns are the non-required headers, sorted.
	ExtraColumns []string `json:"extra_columns,omitempty"`

	key string
}
