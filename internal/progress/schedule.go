package progress

import (
	"errors"
	"fmt"
	"math"
)

// DefaultCriticalMargin is the gap, in percentage points, beyond which a
// delay is critical.
const DefaultCriticalMargin = 5.0

// ErrInvalidSchedule is returned for non-positive planned duration or
// negative elapsed time.
var ErrInvalidSchedule = errors.New("invalid schedule")

// ScheduleStatus classifies physical progress against the schedule.
type ScheduleStatus string

const (
	OnSchedule    ScheduleStatus = "ON_SCHEDULE"
	MildDelay     ScheduleStatus = "MILD_DELAY"
	CriticalDelay ScheduleStatus = "CRITICAL_DELAY"
)

// ScheduleVariance compares physical progress with schedule-implied progress.
type ScheduleVariance struct {
	ElapsedDays float64        `json:"elapsed_days"`
	PlannedDays float64        `json:"planned_days"`
	PhysicalPct float64        `json:"physical_pct"`
	ExpectedPct float64        `json:"expected_pct"`
	Variance    float64        `json:"variance"`
	Status      ScheduleStatus `json:"status"`
}

// CompareSchedule classifies the global average against elapsed/planned time.
// Physical progress is capped at 100; expected progress is not.
func CompareSchedule(elapsed, planned, globalAvg, margin float64) (ScheduleVariance, error) {
	if planned <= 0 || math.IsNaN(planned) {
		return ScheduleVariance{}, fmt.Errorf("%w: planned days must be positive, got %v", ErrInvalidSchedule, planned)
	}
	if elapsed < 0 || math.IsNaN(elapsed) {
		return ScheduleVariance{}, fmt.Errorf("%w: elapsed days cannot be negative, got %v", ErrInvalidSchedule, elapsed)
	}
	if margin < 0 {
		margin = 0
	}

	physical := math.Min(globalAvg, 100)
	expected := elapsed / planned * 100

	status := OnSchedule
	switch {
	case physical+margin < expected:
		status = CriticalDelay
	case physical < expected:
		status = MildDelay
	}

	// Classification uses exact values; the reported figures are rounded.
	return ScheduleVariance{
		ElapsedDays: elapsed,
		PlannedDays: planned,
		PhysicalPct: Round2(physical),
		ExpectedPct: Round2(expected),
		Variance:    Round2(physical - expected),
		Status:      status,
	}, nil
}
