// Package dataset provides the work-item data model and its tabular loading.
package dataset

import (
	"fmt"
	"sort"
)

// Dataset is an ordered, validated collection of work items.
type Dataset struct {
	// items preserves file order.
	items []*WorkItem

	// groups records distinct groups in first-seen order.
	groups []string

	// seen indexes groups already recorded.
	seen map[string]bool

	// dialect is the header language of the source file.
	dialect Dialect

	// path is the file path this dataset was loaded from.
	path string
}

// New creates an empty dataset.
func New() *Dataset {
	return &Dataset{
		items: make([]*WorkItem, 0),
		seen:  make(map[string]bool),
	}
}

// Path returns the file path this dataset was loaded from.
func (ds *Dataset) Path() string {
	return ds.path
}

// SetPath records the file the dataset was read from.
func (ds *Dataset) SetPath(path string) {
	ds.path = path
}

// Dialect returns the header language of the source file.
func (ds *Dataset) Dialect() Dialect {
	return ds.dialect
}

// Len returns the number of items.
func (ds *Dataset) Len() int {
	return len(ds.items)
}

// Add appends an item. Activity and group are required.
func (ds *Dataset) Add(item *WorkItem) error {
	if item == nil {
		return fmt.Errorf("work item cannot be nil")
	}
	if item.Activity == "" {
		return fmt.Errorf("work item activity cannot be empty")
	}
	if item.Group == "" {
		return fmt.Errorf("work item %q has no group", item.Activity)
	}
	if item.Row == 0 {
		item.Row = len(ds.items) + 1
	}
	ds.items = append(ds.items, item)
	if !ds.seen[item.Group] {
		ds.seen[item.Group] = true
		ds.groups = append(ds.groups, item.Group)
	}
	return nil
}

// Items returns all items in file order.
func (ds *Dataset) Items() []*WorkItem {
	return append([]*WorkItem{}, ds.items...)
}

// Groups returns distinct groups in first-seen order.
func (ds *Dataset) Groups() []string {
	return append([]string{}, ds.groups...)
}

// FilterOptions specifies criteria for filtering items.
type FilterOptions struct {
	// Group matches case-insensitively; empty keeps every group.
	Group string
}

// Filter returns a new dataset holding items matching the given criteria.
// Rows keep their source numbers.
func (ds *Dataset) Filter(opts FilterOptions) *Dataset {
	out := New()
	out.dialect = ds.dialect
	out.path = ds.path
	for _, item := range ds.items {
		if opts.Group != "" && !item.InGroup(opts.Group) {
			continue
		}
		_ = out.Add(item)
	}
	return out
}

// ExtraColumns returns the sorted set of non-required headers used by any item.
func (ds *Dataset) ExtraColumns() []string {
	seen := make(map[string]bool)
	var cols []string
	for _, item := range ds.items {
		for k := range item.Extra {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	sort.Strings(cols)
	return cols
}
