// Package testutil provides fixtures and golden-file helpers for sitectl tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/smartsite-ai/sitectl/internal/config"
	"github.com/smartsite-ai/sitectl/internal/dataset"
)

// DatasetOption configures a test dataset.
type DatasetOption func(*dataset.Dataset)

// NewTestDataset creates a dataset for testing with optional configuration.
func NewTestDataset(t *testing.T, opts ...DatasetOption) *dataset.Dataset {
	t.Helper()

	ds := dataset.New()

	for _, opt := range opts {
		opt(ds)
	}

	return ds
}

// WithItem adds a work item to the dataset.
func WithItem(item *dataset.WorkItem) DatasetOption {
	return func(ds *dataset.Dataset) {
		_ = ds.Add(item)
	}
}

// WithItems adds multiple work items to the dataset.
func WithItems(items ...*dataset.WorkItem) DatasetOption {
	return func(ds *dataset.Dataset) {
		for _, item := range items {
			_ = ds.Add(item)
		}
	}
}

// ItemOption configures a test work item.
type ItemOption func(*dataset.WorkItem)

// NewTestItem creates a work item of 100 units, none executed.
func NewTestItem(activity, group string, opts ...ItemOption) *dataset.WorkItem {
	item := dataset.NewWorkItem(activity, group)
	item.Unit = "u"
	item.TotalQuantity = 100

	for _, opt := range opts {
		opt(item)
	}

	return item
}

// WithQuantities sets total and executed quantities.
func WithQuantities(total, executed float64) ItemOption {
	return func(w *dataset.WorkItem) {
		w.TotalQuantity = total
		w.ExecutedQuantity = executed
	}
}

// WithExecuted sets the executed quantity.
func WithExecuted(executed float64) ItemOption {
	return func(w *dataset.WorkItem) {
		w.ExecutedQuantity = executed
	}
}

// WithUnit sets the unit of measure.
func WithUnit(unit string) ItemOption {
	return func(w *dataset.WorkItem) {
		w.Unit = unit
	}
}

// WithExtra sets a non-required column value.
func WithExtra(column, value string) ItemOption {
	return func(w *dataset.WorkItem) {
		w.Extra[column] = value
	}
}

// ConfigOption configures a test config.
type ConfigOption func(*config.Config)

// NewTestConfig creates a config for testing with optional configuration.
func NewTestConfig(t *testing.T, opts ...ConfigOption) *config.Config {
	t.Helper()

	cfg := config.DefaultConfig()

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// WithDatasetPath sets the dataset path in the config.
func WithDatasetPath(path string) ConfigOption {
	return func(c *config.Config) {
		c.Sitectl.Dataset = path
	}
}

// WithThreshold sets the alert threshold.
func WithThreshold(threshold float64) ConfigOption {
	return func(c *config.Config) {
		c.Alert.Threshold = threshold
	}
}

// WithSchedule sets elapsed and planned days.
func WithSchedule(elapsed, planned float64) ConfigOption {
	return func(c *config.Config) {
		c.Schedule.ElapsedDays = elapsed
		c.Schedule.PlannedDays = planned
	}
}

// WithGroupDescription adds a group description to the config.
func WithGroupDescription(group, description string) ConfigOption {
	return func(c *config.Config) {
		if c.Groups == nil {
			c.Groups = make(map[string]string)
		}
		c.Groups[group] = description
	}
}

// TempProject creates a temporary directory with a .sitectl directory.
// It is removed when the test ends.
func TempProject(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".sitectl"), 0755); err != nil {
		t.Fatalf("Failed to create .sitectl directory: %v", err)
	}
	return dir
}

// TempProjectFull creates a temp project with a config file and, when ds
// is non-nil, the dataset saved at the configured path.
func TempProjectFull(t *testing.T, cfg *config.Config, ds *dataset.Dataset) string {
	t.Helper()

	dir := TempProject(t)

	configPath := filepath.Join(dir, ".sitectl", "config.yaml")
	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	if ds != nil {
		if err := ds.Save(cfg.DatasetPath(dir)); err != nil {
			t.Fatalf("Failed to write dataset: %v", err)
		}
	}

	return dir
}

// SampleItems returns a small site: Civil at 35%, Structure at 75%,
// and one unplanned Electrical item.
func SampleItems() []*dataset.WorkItem {
	return []*dataset.WorkItem{
		NewTestItem("Excavation", "Civil", WithUnit("m3"), WithQuantities(100, 30)),
		NewTestItem("Backfill", "Civil", WithUnit("m3"), WithQuantities(50, 20)),
		NewTestItem("Walls", "Structure", WithUnit("m2"), WithQuantities(200, 150)),
		NewTestItem("Service drop", "Electrical", WithUnit("gl"), WithQuantities(0, 0)),
	}
}

// SampleDataset returns a dataset holding SampleItems.
func SampleDataset(t *testing.T) *dataset.Dataset {
	t.Helper()

	return NewTestDataset(t, WithItems(SampleItems()...))
}

// WriteFile writes content under dir and returns the path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}
