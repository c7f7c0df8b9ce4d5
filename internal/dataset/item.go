package dataset

import "strings"

// WorkItem is one row of a progress spreadsheet.
type WorkItem struct {
	// Row is the 1-based row below the header in the source file.
	Row int `json:"row"`

	Activity string `json:"activity"`
	Group    string `json:"group"`

	// Unit is informational and never used in computation.
	Unit string `json:"unit"`

	TotalQuantity    float64 `json:"total_quantity"`
	ExecutedQuantity float64 `json:"executed_quantity"`

	// Extra holds non-required columns keyed by their original header.
	Extra map[string]string `json:"extra,omitempty"`
}

// NewWorkItem creates an item with the given identity.
func NewWorkItem(activity, group string) *WorkItem {
	return &WorkItem{
		Activity: activity,
		Group:    group,
		Extra:    make(map[string]string),
	}
}

// HasPlannedScope returns true if the item has a non-zero planned quantity.
func (w *WorkItem) HasPlannedScope() bool {
	return w.TotalQuantity != 0
}

// InGroup compares groups case-insensitively.
func (w *WorkItem) InGroup(group string) bool {
	return strings.EqualFold(strings.TrimSpace(w.Group), strings.TrimSpace(group))
}
