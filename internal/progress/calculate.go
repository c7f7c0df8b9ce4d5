// Package progress computes per-item progress, group and global means,
// threshold alerts, and schedule variance for a work-item dataset.
package progress

import (
	"fmt"
	"math"

	"github.com/smartsite-ai/sitectl/internal/dataset"
)

// ItemProgress is the computed completion of one work item.
type ItemProgress struct {
	Item *dataset.WorkItem `json:"item"`

	// Pct is executed/total*100, rounded to 2 decimals. Never capped.
	Pct float64 `json:"pct"`

	// Defined is false when the item has no planned quantity.
	Defined bool `json:"defined"`
}

// ZeroQuantityError is a warning for an item with zero planned quantity.
// Such items are left out of every mean.
type ZeroQuantityError struct {
	Row      int    `json:"row"`
	Activity string `json:"activity"`
	Group    string `json:"group"`
}

func (e *ZeroQuantityError) Error() string {
	return fmt.Sprintf("row %d: %q in %s has zero total quantity; excluded from averages", e.Row, e.Activity, e.Group)
}

// Calculate computes progress for every item, in dataset order.
func Calculate(ds *dataset.Dataset) []ItemProgress {
	items := ds.Items()
	result := make([]ItemProgress, 0, len(items))
	for _, item := range items {
		result = append(result, ItemPct(item))
	}
	return result
}

// ItemPct computes the progress of a single item.
func ItemPct(item *dataset.WorkItem) ItemProgress {
	if !item.HasPlannedScope() {
		return ItemProgress{Item: item}
	}
	return ItemProgress{
		Item:    item,
		Pct:     Round2(item.ExecutedQuantity / item.TotalQuantity * 100),
		Defined: true,
	}
}

// Warnings returns one ZeroQuantityError per undefined item.
func Warnings(items []ItemProgress) []ZeroQuantityError {
	var warnings []ZeroQuantityError
	for _, ip := range items {
		if ip.Defined {
			continue
		}
		warnings = append(warnings, ZeroQuantityError{
			Row:      ip.Item.Row,
			Activity: ip.Item.Activity,
			Group:    ip.Item.Group,
		})
	}
	return warnings
}

// Round2 rounds to 2 decimals, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
