package progress

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// DefaultThreshold is the alert threshold used when none is configured.
const DefaultThreshold = 50.0

// ErrInvalidThreshold is returned for thresholds outside [0, 100].
var ErrInvalidThreshold = errors.New("threshold must be between 0 and 100")

// GroupState is the alert state of a group.
type GroupState string

const (
	StateOK             GroupState = "OK"
	StateBelowThreshold GroupState = "BELOW_THRESHOLD"
)

// StateOf classifies a group mean against a threshold.
func StateOf(mean, threshold float64) GroupState {
	if mean < threshold {
		return StateBelowThreshold
	}
	return StateOK
}

// Severity grades an alert.
type Severity string

const (
	SeverityWarning  Severity = "WARNING"
	SeverityCritical Severity = "CRITICAL"
)

// Alert flags a group whose mean is below the threshold.
type Alert struct {
	Group     string   `json:"group"`
	Mean      float64  `json:"mean"`
	Threshold float64  `json:"threshold"`
	Severity  Severity `json:"severity"`
	Message   string   `json:"message"`
}

// ResultState is the overall outcome of an alert pass.
type ResultState string

const (
	ResultNotEvaluated ResultState = "NOT_EVALUATED"
	ResultAllClear     ResultState = "ALL_CLEAR"
	ResultAlerting     ResultState = "ALERTING"
)

// AlertResult is the outcome of classifying groups against a threshold.
type AlertResult struct {
	Evaluated bool    `json:"evaluated"`
	Threshold float64 `json:"threshold"`
	Alerts    []Alert `json:"alerts"`
}

// AllClear returns true if groups were evaluated and none alerted.
func (r AlertResult) AllClear() bool {
	return r.Evaluated && len(r.Alerts) == 0
}

// State returns the overall outcome.
func (r AlertResult) State() ResultState {
	switch {
	case !r.Evaluated:
		return ResultNotEvaluated
	case len(r.Alerts) == 0:
		return ResultAllClear
	default:
		return ResultAlerting
	}
}

// HasCritical returns true if any alert is critical.
func (r AlertResult) HasCritical() bool {
	for _, a := range r.Alerts {
		if a.Severity == SeverityCritical {
			return true
		}
	}
	return false
}

// ValidateThreshold checks that a threshold is a percentage.
func ValidateThreshold(threshold float64) error {
	if math.IsNaN(threshold) || threshold < 0 || threshold > 100 {
		return fmt.Errorf("%w: got %v", ErrInvalidThreshold, threshold)
	}
	return nil
}

// ClassifyAlerts returns an alert for every group strictly below threshold,
// in the order given. No groups means nothing was evaluated.
func ClassifyAlerts(groups []GroupSummary, threshold float64) (AlertResult, error) {
	if err := ValidateThreshold(threshold); err != nil {
		return AlertResult{}, err
	}

	result := AlertResult{
		Evaluated: len(groups) > 0,
		Threshold: threshold,
		Alerts:    []Alert{},
	}

	for _, g := range groups {
		if StateOf(g.Mean, threshold) != StateBelowThreshold {
			continue
		}
		severity := SeverityWarning
		if g.Mean < threshold/2 {
			severity = SeverityCritical
		}
		result.Alerts = append(result.Alerts, Alert{
			Group:     g.Group,
			Mean:      g.Mean,
			Threshold: threshold,
			Severity:  severity,
			Message:   fmt.Sprintf("%s at %.2f%% is below the %.2f%% threshold", g.Group, g.Mean, threshold),
		})
	}

	return result, nil
}

func equalFoldTrim(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
